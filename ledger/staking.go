// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/taxtoken/core/builtin/staking"
	"github.com/taxtoken/core/builtin/staking/position"
	"github.com/taxtoken/core/tax"
)

func (l *Ledger) Stake(account, pool tax.Address, amount *big.Int) error {
	return l.exec("stake", func(now uint64) error {
		return l.staking.Stake(account, pool, amount, now)
	})
}

func (l *Ledger) Withdraw(account tax.Address, amount *big.Int) error {
	return l.exec("withdraw", func(now uint64) error {
		return l.staking.Withdraw(account, amount, now)
	})
}

func (l *Ledger) ChangeStakeTarget(account, from, to tax.Address, amount *big.Int) error {
	return l.exec("change_stake_target", func(now uint64) error {
		return l.staking.ChangeStakeTarget(account, from, to, amount, now)
	})
}

func (l *Ledger) ReceiveReward(account, pool tax.Address) (reward *big.Int, err error) {
	err = l.exec("receive_reward", func(now uint64) error {
		reward, err = l.staking.ReceiveReward(account, pool, now)
		return err
	})
	return
}

func (l *Ledger) DepositReward(from, pool tax.Address, amount *big.Int) error {
	return l.exec("deposit_reward", func(now uint64) error {
		return l.staking.DepositReward(from, pool, amount, now)
	})
}

// Settle runs one capped settlement pass and reports whether the position caught up.
func (l *Ledger) Settle(account, pool tax.Address) (pos *position.Position, done bool, err error) {
	err = l.exec("settle", func(now uint64) error {
		pos, done, err = l.staking.Settle(account, pool, now)
		return err
	})
	return
}

func (l *Ledger) Pools() (pools []tax.Address, err error) {
	err = l.view(func(uint64) error {
		pools, err = l.staking.Pools()
		return err
	})
	return
}

func (l *Ledger) GetTokenInfo(pool tax.Address) (info *staking.TokenInfo, err error) {
	err = l.view(func(now uint64) error {
		info, err = l.staking.GetTokenInfo(pool, now)
		return err
	})
	return
}

func (l *Ledger) GetTermInfo(pool tax.Address, term uint64) (info *staking.TermInfo, err error) {
	err = l.view(func(uint64) error {
		info, err = l.staking.GetTermInfo(pool, term)
		return err
	})
	return
}

func (l *Ledger) GetAccountInfo(pool, account tax.Address) (info *staking.AccountInfo, err error) {
	err = l.view(func(uint64) error {
		info, err = l.staking.GetAccountInfo(pool, account)
		return err
	})
	return
}

func (l *Ledger) GetVoteNum(account tax.Address) (votes *big.Int, err error) {
	err = l.view(func(uint64) error {
		votes, err = l.staking.GetVoteNum(account)
		return err
	})
	return
}
