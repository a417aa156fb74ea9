// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the relay.
// It follows the flow as below:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv batch ]
//	         |
//	  [ read cache ]
//	         |
//	   [ kv store ]
//
// Every handled operation runs against a fresh State. Checkpoints bound the
// phases of an operation, and nothing reaches the store until Stage().Commit().
package state
