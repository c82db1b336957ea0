// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/api/utils"
	"github.com/taxtoken/core/builtin/staking"
	"github.com/taxtoken/core/ledger"
	"github.com/taxtoken/core/tax"
)

type Staking struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Staking {
	return &Staking{ledger}
}

func poolVar(req *http.Request) (tax.Address, error) {
	return utils.ParseAddress("pool", mux.Vars(req)["pool"])
}

// notFound maps an unknown pool to 404.
func notFound(err error) error {
	if errors.Is(err, staking.ErrUnknownPool) {
		return utils.NotFound(err)
	}
	return err
}

func (s *Staking) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	pools, err := s.ledger.Pools()
	if err != nil {
		return err
	}
	if pools == nil {
		pools = []tax.Address{}
	}
	return utils.WriteJSON(w, pools)
}

func (s *Staking) handleGetTokenInfo(w http.ResponseWriter, req *http.Request) error {
	pool, err := poolVar(req)
	if err != nil {
		return err
	}
	info, err := s.ledger.GetTokenInfo(pool)
	if err != nil {
		return notFound(err)
	}
	return utils.WriteJSON(w, convertTokenInfo(info))
}

func (s *Staking) handleGetTermInfo(w http.ResponseWriter, req *http.Request) error {
	pool, err := poolVar(req)
	if err != nil {
		return err
	}
	term, err := utils.ParseUint64("term", mux.Vars(req)["term"], 0)
	if err != nil {
		return err
	}
	info, err := s.ledger.GetTermInfo(pool, term)
	if err != nil {
		return notFound(err)
	}
	return utils.WriteJSON(w, convertTermInfo(info))
}

func (s *Staking) handleGetAccountInfo(w http.ResponseWriter, req *http.Request) error {
	pool, err := poolVar(req)
	if err != nil {
		return err
	}
	account, err := utils.ParseAddress("account", mux.Vars(req)["account"])
	if err != nil {
		return err
	}
	info, err := s.ledger.GetAccountInfo(pool, account)
	if err != nil {
		return notFound(err)
	}
	return utils.WriteJSON(w, convertAccountInfo(info))
}

func (s *Staking) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.ParseAddress("account", mux.Vars(req)["account"])
	if err != nil {
		return err
	}
	votes, err := s.ledger.GetVoteNum(account)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Votes{utils.BigToHex(votes)})
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := s.ledger.Stake(body.From, body.Pool, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (s *Staking) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := s.ledger.Withdraw(body.From, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (s *Staking) handleChangeTarget(w http.ResponseWriter, req *http.Request) error {
	var body ChangeTargetRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := s.ledger.ChangeStakeTarget(body.From, body.FromPool, body.ToPool, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (s *Staking) handleReceiveReward(w http.ResponseWriter, req *http.Request) error {
	var body AccountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	reward, err := s.ledger.ReceiveReward(body.From, body.Pool)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Reward{utils.BigToHex(reward)})
}

func (s *Staking) handleDepositReward(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := s.ledger.DepositReward(body.From, body.Pool, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (s *Staking) handleSettle(w http.ResponseWriter, req *http.Request) error {
	var body AccountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	pos, done, err := s.ledger.Settle(body.From, body.Pool)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSettlement(pos, done))
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("GET /staking/pools").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPools))
	sub.Path("/pools/{pool}").
		Methods(http.MethodGet).
		Name("GET /staking/pools/{pool}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTokenInfo))
	sub.Path("/pools/{pool}/terms/{term}").
		Methods(http.MethodGet).
		Name("GET /staking/pools/{pool}/terms/{term}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTermInfo))
	sub.Path("/pools/{pool}/accounts/{account}").
		Methods(http.MethodGet).
		Name("GET /staking/pools/{pool}/accounts/{account}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccountInfo))
	sub.Path("/accounts/{account}/votes").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{account}/votes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetVotes))

	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /staking/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /staking/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/change-target").
		Methods(http.MethodPost).
		Name("POST /staking/change-target").
		HandlerFunc(utils.WrapHandlerFunc(s.handleChangeTarget))
	sub.Path("/receive-reward").
		Methods(http.MethodPost).
		Name("POST /staking/receive-reward").
		HandlerFunc(utils.WrapHandlerFunc(s.handleReceiveReward))
	sub.Path("/deposit-reward").
		Methods(http.MethodPost).
		Name("POST /staking/deposit-reward").
		HandlerFunc(utils.WrapHandlerFunc(s.handleDepositReward))
	sub.Path("/settle").
		Methods(http.MethodPost).
		Name("POST /staking/settle").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSettle))
}
