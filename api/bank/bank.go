// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bank

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/api/utils"
	"github.com/taxtoken/core/ledger"
	"github.com/taxtoken/core/tax"
)

type Balance struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Supply struct {
	Supply *math.HexOrDecimal256 `json:"supply"`
}

type Allowance struct {
	Allowance *math.HexOrDecimal256 `json:"allowance"`
}

type TransferRequest struct {
	Asset  tax.Address           `json:"asset"`
	From   tax.Address           `json:"from"`
	To     tax.Address           `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ApproveRequest struct {
	Asset   tax.Address           `json:"asset"`
	From    tax.Address           `json:"from"`
	Spender tax.Address           `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type Bank struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Bank {
	return &Bank{ledger}
}

func (b *Bank) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	asset, err := utils.ParseAddress("asset", vars["asset"])
	if err != nil {
		return err
	}
	account, err := utils.ParseAddress("account", vars["account"])
	if err != nil {
		return err
	}
	balance, err := b.ledger.BalanceOf(asset, account)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{utils.BigToHex(balance)})
}

func (b *Bank) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	asset, err := utils.ParseAddress("asset", vars["asset"])
	if err != nil {
		return err
	}
	owner, err := utils.ParseAddress("owner", vars["owner"])
	if err != nil {
		return err
	}
	spender, err := utils.ParseAddress("spender", vars["spender"])
	if err != nil {
		return err
	}
	allowance, err := b.ledger.Allowance(asset, owner, spender)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Allowance{utils.BigToHex(allowance)})
}

func (b *Bank) handleGetSupply(w http.ResponseWriter, req *http.Request) error {
	asset, err := utils.ParseAddress("asset", mux.Vars(req)["asset"])
	if err != nil {
		return err
	}
	supply, err := b.ledger.TotalSupply(asset)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Supply{utils.BigToHex(supply)})
}

func (b *Bank) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := b.ledger.Transfer(body.Asset, body.From, body.To, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (b *Bank) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := b.ledger.Approve(body.Asset, body.From, body.Spender, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (b *Bank) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{asset}/balances/{account}").
		Methods(http.MethodGet).
		Name("GET /bank/{asset}/balances/{account}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBalance))
	sub.Path("/{asset}/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET /bank/{asset}/allowances/{owner}/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetAllowance))
	sub.Path("/{asset}/supply").
		Methods(http.MethodGet).
		Name("GET /bank/{asset}/supply").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetSupply))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /bank/transfer").
		HandlerFunc(utils.WrapHandlerFunc(b.handleTransfer))
	sub.Path("/approve").
		Methods(http.MethodPost).
		Name("POST /bank/approve").
		HandlerFunc(utils.WrapHandlerFunc(b.handleApprove))
}
