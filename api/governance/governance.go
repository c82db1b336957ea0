// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/taxtoken/core/api/utils"
	"github.com/taxtoken/core/builtin/governance"
	"github.com/taxtoken/core/ledger"
	"github.com/taxtoken/core/tax"
)

type Governance struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Governance {
	return &Governance{ledger}
}

func idVar(req *http.Request) (tax.Bytes32, error) {
	return utils.ParseBytes32("id", mux.Vars(req)["id"])
}

// notFound maps an unknown proposal id to 404.
func notFound(err error) error {
	if errors.Is(err, governance.ErrInvalidProposal) {
		return utils.NotFound(err)
	}
	return err
}

func (g *Governance) handleGetProposals(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	offset, err := utils.ParseUint64("offset", query.Get("offset"), 0)
	if err != nil {
		return err
	}
	limit, err := utils.ParseUint64("limit", query.Get("limit"), 0)
	if err != nil {
		return err
	}
	list, err := g.ledger.GetProposals(offset, limit)
	if err != nil {
		return err
	}
	now := g.ledger.Now()
	out := make([]*Proposal, 0, len(list))
	for _, p := range list {
		out = append(out, convertProposal(p, now))
	}
	return utils.WriteJSON(w, out)
}

func (g *Governance) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := idVar(req)
	if err != nil {
		return err
	}
	p, err := g.ledger.GetProposal(id)
	if err != nil {
		return notFound(err)
	}
	return utils.WriteJSON(w, convertProposal(p, g.ledger.Now()))
}

func (g *Governance) handleGetStatus(w http.ResponseWriter, req *http.Request) error {
	id, err := idVar(req)
	if err != nil {
		return err
	}
	status, err := g.ledger.GetStatus(id)
	if err != nil {
		return notFound(err)
	}
	return utils.WriteJSON(w, &StatusResult{status})
}

func (g *Governance) handleGetDeposit(w http.ResponseWriter, req *http.Request) error {
	id, err := idVar(req)
	if err != nil {
		return err
	}
	account, err := utils.ParseAddress("account", mux.Vars(req)["account"])
	if err != nil {
		return err
	}
	d, err := g.ledger.GetUserStatus(id, account)
	if err != nil {
		return notFound(err)
	}
	return utils.WriteJSON(w, &Deposit{utils.BigToHex(d.Approval), utils.BigToHex(d.Denial)})
}

func (g *Governance) handleGetParameters(w http.ResponseWriter, _ *http.Request) error {
	cp, err := g.ledger.GetCoreParameters()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertCoreParameters(cp))
}

func (g *Governance) handleGetWhitelist(w http.ResponseWriter, _ *http.Request) error {
	list, err := g.ledger.GetWhitelist()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertWhitelist(list))
}

func (g *Governance) handleGetIncentive(w http.ResponseWriter, _ *http.Request) error {
	table, err := g.ledger.GetIncentiveAllocations()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAllocations(table))
}

func (g *Governance) handlePropose(w http.ResponseWriter, req *http.Request) error {
	var body ProposeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	payload, err := body.decode()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "payload"))
	}
	id, err := g.ledger.Propose(body.From, payload)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &ProposeResult{id})
}

func (g *Governance) handleVote(w http.ResponseWriter, req *http.Request) error {
	id, err := idVar(req)
	if err != nil {
		return err
	}
	var body VoteRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := g.ledger.Vote(body.From, id, body.Approval, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

// parseOptional accepts an empty body.
func parseOptional(req *http.Request, v any) error {
	if err := utils.ParseJSON(req.Body, v); err != nil && err != io.EOF {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return nil
}

func (g *Governance) handleLockIn(w http.ResponseWriter, req *http.Request) error {
	id, err := idVar(req)
	if err != nil {
		return err
	}
	if err := parseOptional(req, &AccountRequest{}); err != nil {
		return err
	}
	if err := g.ledger.LockIn(id); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (g *Governance) handleApply(w http.ResponseWriter, req *http.Request) error {
	id, err := idVar(req)
	if err != nil {
		return err
	}
	if err := parseOptional(req, &AccountRequest{}); err != nil {
		return err
	}
	if err := g.ledger.Apply(id); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{})
}

func (g *Governance) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := idVar(req)
	if err != nil {
		return err
	}
	var body AccountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := g.ledger.WithdrawVote(body.From, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &WithdrawResult{utils.BigToHex(amount)})
}

func (g *Governance) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/proposals").
		Methods(http.MethodGet).
		Name("GET /governance/proposals").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetProposals))
	sub.Path("/proposals/{id}").
		Methods(http.MethodGet).
		Name("GET /governance/proposals/{id}").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetProposal))
	sub.Path("/proposals/{id}/status").
		Methods(http.MethodGet).
		Name("GET /governance/proposals/{id}/status").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetStatus))
	sub.Path("/proposals/{id}/deposits/{account}").
		Methods(http.MethodGet).
		Name("GET /governance/proposals/{id}/deposits/{account}").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetDeposit))
	sub.Path("/parameters").
		Methods(http.MethodGet).
		Name("GET /governance/parameters").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetParameters))
	sub.Path("/whitelist").
		Methods(http.MethodGet).
		Name("GET /governance/whitelist").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetWhitelist))
	sub.Path("/incentive").
		Methods(http.MethodGet).
		Name("GET /governance/incentive").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetIncentive))

	sub.Path("/proposals").
		Methods(http.MethodPost).
		Name("POST /governance/proposals").
		HandlerFunc(utils.WrapHandlerFunc(g.handlePropose))
	sub.Path("/proposals/{id}/votes").
		Methods(http.MethodPost).
		Name("POST /governance/proposals/{id}/votes").
		HandlerFunc(utils.WrapHandlerFunc(g.handleVote))
	sub.Path("/proposals/{id}/lockin").
		Methods(http.MethodPost).
		Name("POST /governance/proposals/{id}/lockin").
		HandlerFunc(utils.WrapHandlerFunc(g.handleLockIn))
	sub.Path("/proposals/{id}/apply").
		Methods(http.MethodPost).
		Name("POST /governance/proposals/{id}/apply").
		HandlerFunc(utils.WrapHandlerFunc(g.handleApply))
	sub.Path("/proposals/{id}/withdraw").
		Methods(http.MethodPost).
		Name("POST /governance/proposals/{id}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(g.handleWithdraw))
}
