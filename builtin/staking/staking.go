// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/builtin/bank"
	"github.com/taxtoken/core/builtin/reverts"
	"github.com/taxtoken/core/builtin/solidity"
	"github.com/taxtoken/core/builtin/staking/pool"
	"github.com/taxtoken/core/builtin/staking/position"
	"github.com/taxtoken/core/builtin/staking/votelock"
	"github.com/taxtoken/core/state"
	"github.com/taxtoken/core/tax"
)

var logger = log.New("pkg", "staking")

var (
	ErrZeroAmount          = reverts.New("amount must be positive")
	ErrPartialMove         = reverts.New("the whole stake must move to the new target")
	ErrStakeTargetMismatch = reverts.New("the stake is directed to another pool")
	ErrSameTarget          = reverts.New("the stake is already directed to the pool")

	ErrUnknownPool       = pool.ErrUnknownPool
	ErrInsufficientStake = position.ErrInsufficientStake
	ErrSettlementPending = position.ErrSettlementPending
)

var slotTargets = tax.BytesToBytes32([]byte("stake-targets"))

// Staking implements the staking ledger of the token.
// Stake is always the staking token. Each pool pays rewards in its own asset.
type Staking struct {
	addr  tax.Address
	token tax.Address
	bank  *bank.Bank

	pools     *pool.Service
	positions *position.Service
	votelock  *votelock.Service
	targets   *solidity.Mapping[tax.Address, *tax.Address]
}

// New create a new instance. addr is the custodian of staked tokens and undistributed rewards.
func New(addr tax.Address, state *state.State, bank *bank.Bank, token tax.Address, maxStep uint64) *Staking {
	if maxStep == 0 {
		maxStep = tax.MaxTermStep
	}
	sctx := solidity.NewContext(addr, state)
	pools := pool.New(sctx, maxStep)
	return &Staking{
		addr:      addr,
		token:     token,
		bank:      bank,
		pools:     pools,
		positions: position.New(sctx, pools),
		votelock:  votelock.New(sctx),
		targets:   solidity.NewMapping[tax.Address, *tax.Address](sctx, slotTargets),
	}
}

// Address returns the custodian address.
func (s *Staking) Address() tax.Address {
	return s.addr
}

// Token returns the staking token.
func (s *Staking) Token() tax.Address {
	return s.token
}

// VoteLock exposes the vote-lock layer, whose capability belongs to governance.
func (s *Staking) VoteLock() *votelock.Service {
	return s.votelock
}

// RegisterPool creates the reward pool of asset.
func (s *Staking) RegisterPool(asset tax.Address, start, interval uint64) error {
	if err := s.pools.Register(asset, start, interval); err != nil {
		return err
	}
	logger.Info("pool registered", "asset", asset, "start", start, "interval", interval)
	return nil
}

// Pools lists the registered pools.
func (s *Staking) Pools() ([]tax.Address, error) {
	return s.pools.Pools()
}

// StakeTarget returns the pool the account stakes in, nil if none.
func (s *Staking) StakeTarget(account tax.Address) (*tax.Address, error) {
	target, err := s.targets.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "get stake target")
	}
	return target, nil
}

func (s *Staking) advance(asset tax.Address, now uint64) (uint64, error) {
	p, err := s.pools.Advance(asset, now)
	if err != nil {
		return 0, err
	}
	return p.CurrentTerm, nil
}

//
// Mutations
//

// Stake pulls amount of the staking token from account and directs it to the pool of asset.
func (s *Staking) Stake(account, asset tax.Address, amount *big.Int, now uint64) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	target, err := s.StakeTarget(account)
	if err != nil {
		return err
	}
	if target != nil && *target != asset {
		return ErrStakeTargetMismatch
	}
	term, err := s.advance(asset, now)
	if err != nil {
		return err
	}
	if err := s.bank.TransferIn(s.token, account, s.addr, amount); err != nil {
		return err
	}
	if err := s.votelock.Deposit(account, amount); err != nil {
		return err
	}
	if err := s.positions.Direct(account, asset, amount, term, s.pools.MaxStep()); err != nil {
		return err
	}
	if target == nil {
		if err := s.targets.Set(account, &asset); err != nil {
			return errors.Wrap(err, "set stake target")
		}
	}
	logger.Debug("staked", "account", account, "pool", asset, "amount", amount, "term", term)
	return nil
}

// Withdraw returns amount of staked tokens to account. Vote locked stake stays.
func (s *Staking) Withdraw(account tax.Address, amount *big.Int, now uint64) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	target, err := s.StakeTarget(account)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrInsufficientStake
	}
	global, err := s.votelock.Get(account)
	if err != nil {
		return err
	}
	if global.Withdrawable().Cmp(amount) < 0 {
		return ErrInsufficientStake
	}

	asset := *target
	term, err := s.advance(asset, now)
	if err != nil {
		return err
	}
	if err := s.positions.Undirect(account, asset, amount, term, s.pools.MaxStep()); err != nil {
		return err
	}
	if err := s.votelock.Withdraw(account, amount); err != nil {
		return err
	}
	if err := s.bank.TransferOut(s.token, s.addr, account, amount); err != nil {
		return err
	}
	if err := s.clearTargetIfEmpty(account, asset, term); err != nil {
		return err
	}
	logger.Debug("withdrawn", "account", account, "pool", asset, "amount", amount, "term", term)
	return nil
}

func (s *Staking) clearTargetIfEmpty(account, asset tax.Address, term uint64) error {
	pos, err := s.positions.Get(account, asset, term)
	if err != nil {
		return err
	}
	if pos.Total().Sign() == 0 {
		s.targets.Delete(account)
	}
	return nil
}

// ChangeStakeTarget moves the whole stake of account from one pool to another.
func (s *Staking) ChangeStakeTarget(account, from, to tax.Address, amount *big.Int, now uint64) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	target, err := s.StakeTarget(account)
	if err != nil {
		return err
	}
	if target == nil || *target != from {
		return ErrStakeTargetMismatch
	}
	if from == to {
		return ErrSameTarget
	}

	fromTerm, err := s.advance(from, now)
	if err != nil {
		return err
	}
	toTerm, err := s.advance(to, now)
	if err != nil {
		return err
	}
	pos, err := s.positions.Get(account, from, fromTerm)
	if err != nil {
		return err
	}
	switch total := pos.Total(); {
	case total.Cmp(amount) < 0:
		return ErrInsufficientStake
	case total.Cmp(amount) > 0:
		return ErrPartialMove
	}

	if err := s.positions.Undirect(account, from, amount, fromTerm, s.pools.MaxStep()); err != nil {
		return err
	}
	if err := s.positions.Direct(account, to, amount, toTerm, s.pools.MaxStep()); err != nil {
		return err
	}
	if err := s.targets.Set(account, &to); err != nil {
		return errors.Wrap(err, "set stake target")
	}
	logger.Debug("stake target changed", "account", account, "from", from, "to", to, "amount", amount)
	return nil
}

// DepositReward pulls amount of the pool asset from the depositor into the open term.
func (s *Staking) DepositReward(from, asset tax.Address, amount *big.Int, now uint64) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if _, err := s.pools.Get(asset); err != nil {
		return err
	}
	if err := s.bank.TransferIn(asset, from, s.addr, amount); err != nil {
		return err
	}
	if err := s.pools.DepositReward(asset, amount, now); err != nil {
		return err
	}
	logger.Debug("reward deposited", "from", from, "pool", asset, "amount", amount)
	return nil
}

// ReceiveReward pays the settled reward of account in the pool of asset.
func (s *Staking) ReceiveReward(account, asset tax.Address, now uint64) (*big.Int, error) {
	term, err := s.advance(asset, now)
	if err != nil {
		return nil, err
	}
	reward, err := s.positions.Claim(account, asset, term, s.pools.MaxStep())
	if err != nil {
		return nil, err
	}
	if reward.Sign() == 0 {
		return reward, nil
	}
	if err := s.pools.PayOut(asset, reward); err != nil {
		return nil, err
	}
	if err := s.bank.TransferOut(asset, s.addr, account, reward); err != nil {
		return nil, err
	}
	logger.Debug("reward received", "account", account, "pool", asset, "amount", reward)
	return reward, nil
}

// Settle runs one capped settlement pass and reports whether the position caught up.
func (s *Staking) Settle(account, asset tax.Address, now uint64) (*position.Position, bool, error) {
	term, err := s.advance(asset, now)
	if err != nil {
		return nil, false, err
	}
	return s.positions.Settle(account, asset, term, s.pools.MaxStep())
}
