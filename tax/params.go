// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tax

import "math/big"

// Fixed point denominators.
const (
	E4 uint64 = 1e4 // governance fractions, 1e4 = 100%
	E8 uint64 = 1e8 // incentive allocations, 1e8 = 100%
)

// MaxTermStep is the default number of terms a single settlement pass may replay.
const MaxTermStep uint64 = 1000

// Keys of governance core parameters.
var (
	KeyPreVoteLength    = BytesToBytes32([]byte("pre-vote-length"))
	KeyTotalVoteLength  = BytesToBytes32([]byte("total-vote-length"))
	KeyExpirationLength = BytesToBytes32([]byte("expiration-length"))
	KeyMinVote          = BytesToBytes32([]byte("min-vote"))
	KeyMinVoteCore      = BytesToBytes32([]byte("min-vote-core"))
	KeyMinCommit        = BytesToBytes32([]byte("min-commit"))
)

// Initial values of governance core parameters.
var (
	InitialPreVoteLength    = big.NewInt(7 * 24 * 3600)  // 7 days
	InitialTotalVoteLength  = big.NewInt(14 * 24 * 3600) // 14 days
	InitialExpirationLength = big.NewInt(24 * 3600)      // 1 day
	InitialMinVote          = big.NewInt(500)            // 5%
	InitialMinVoteCore      = big.NewInt(500)            // 5%
	InitialMinCommit        = big.NewInt(1)              // 0.01%
)

// KeyStakingToken holds the address of the staking and governance token, as a big integer.
var KeyStakingToken = BytesToBytes32([]byte("staking-token"))

// KeyGenesisID marks the state with the id of the genesis it was set up from.
var KeyGenesisID = BytesToBytes32([]byte("genesis-id"))
