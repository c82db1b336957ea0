// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/taxtoken/core/api/utils"
	"github.com/taxtoken/core/builtin/staking"
	"github.com/taxtoken/core/builtin/staking/position"
	"github.com/taxtoken/core/tax"
)

type TokenInfo struct {
	CurrentTerm           uint64                `json:"currentTerm"`
	LatestTerm            uint64                `json:"latestTerm"`
	TotalRemainingRewards *math.HexOrDecimal256 `json:"totalRemainingRewards"`
	CurrentReward         *math.HexOrDecimal256 `json:"currentReward"`
	NextTermRewards       *math.HexOrDecimal256 `json:"nextTermRewards"`
	CurrentStaking        *math.HexOrDecimal256 `json:"currentStaking"`
	NextTermStaking       *math.HexOrDecimal256 `json:"nextTermStaking"`
}

func convertTokenInfo(info *staking.TokenInfo) *TokenInfo {
	return &TokenInfo{
		CurrentTerm:           info.CurrentTerm,
		LatestTerm:            info.LatestTerm,
		TotalRemainingRewards: utils.BigToHex(info.TotalRemainingRewards),
		CurrentReward:         utils.BigToHex(info.CurrentReward),
		NextTermRewards:       utils.BigToHex(info.NextTermRewards),
		CurrentStaking:        utils.BigToHex(info.CurrentStaking),
		NextTermStaking:       utils.BigToHex(info.NextTermStaking),
	}
}

type TermInfo struct {
	StakeAdd  *math.HexOrDecimal256 `json:"stakeAdd"`
	StakeSum  *math.HexOrDecimal256 `json:"stakeSum"`
	RewardSum *math.HexOrDecimal256 `json:"rewardSum"`
	Start     uint64                `json:"start"`
	Interval  uint64                `json:"interval"`
}

func convertTermInfo(info *staking.TermInfo) *TermInfo {
	return &TermInfo{
		StakeAdd:  utils.BigToHex(info.StakeAdd),
		StakeSum:  utils.BigToHex(info.StakeSum),
		RewardSum: utils.BigToHex(info.RewardSum),
		Start:     info.Start,
		Interval:  info.Interval,
	}
}

type AccountInfo struct {
	UserTerm             uint64                `json:"userTerm"`
	StakeAmount          *math.HexOrDecimal256 `json:"stakeAmount"`
	NextAddedStakeAmount *math.HexOrDecimal256 `json:"nextAddedStakeAmount"`
	AccruedReward        *math.HexOrDecimal256 `json:"accruedReward"`
	PendingReward        *math.HexOrDecimal256 `json:"pendingReward"`
	TotalDeposited       *math.HexOrDecimal256 `json:"totalDeposited"`
	VoteLocked           *math.HexOrDecimal256 `json:"voteLocked"`
	Withdrawable         *math.HexOrDecimal256 `json:"withdrawable"`
	Target               *tax.Address          `json:"target"`
}

func convertAccountInfo(info *staking.AccountInfo) *AccountInfo {
	return &AccountInfo{
		UserTerm:             info.UserTerm,
		StakeAmount:          utils.BigToHex(info.StakeAmount),
		NextAddedStakeAmount: utils.BigToHex(info.NextAddedStakeAmount),
		AccruedReward:        utils.BigToHex(info.AccruedReward),
		PendingReward:        utils.BigToHex(info.PendingReward),
		TotalDeposited:       utils.BigToHex(info.TotalDeposited),
		VoteLocked:           utils.BigToHex(info.VoteLocked),
		Withdrawable:         utils.BigToHex(info.Withdrawable),
		Target:               info.Target,
	}
}

type Votes struct {
	Votes *math.HexOrDecimal256 `json:"votes"`
}

// StakeRequest is the body of stake and deposit-reward.
type StakeRequest struct {
	From   tax.Address           `json:"from"`
	Pool   tax.Address           `json:"pool"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type WithdrawRequest struct {
	From   tax.Address           `json:"from"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ChangeTargetRequest struct {
	From     tax.Address           `json:"from"`
	FromPool tax.Address           `json:"fromPool"`
	ToPool   tax.Address           `json:"toPool"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
}

// AccountRequest is the body of receive-reward and settle.
type AccountRequest struct {
	From tax.Address `json:"from"`
	Pool tax.Address `json:"pool"`
}

type Reward struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Settlement struct {
	UserTerm  uint64                `json:"userTerm"`
	Stake     *math.HexOrDecimal256 `json:"stake"`
	NextAdded *math.HexOrDecimal256 `json:"nextAdded"`
	Accrued   *math.HexOrDecimal256 `json:"accrued"`
	Done      bool                  `json:"done"`
}

func convertSettlement(pos *position.Position, done bool) *Settlement {
	return &Settlement{
		UserTerm:  pos.UserTerm,
		Stake:     utils.BigToHex(pos.Stake),
		NextAdded: utils.BigToHex(pos.NextAdded),
		Accrued:   utils.BigToHex(pos.Accrued),
		Done:      done,
	}
}
