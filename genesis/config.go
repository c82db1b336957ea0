// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	_ "embed"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/taxtoken/core/builtin/governance"
	"github.com/taxtoken/core/builtin/incentive"
	"github.com/taxtoken/core/tax"
)

//go:embed default.yaml
var defaultConfig []byte

// Config is the user customized genesis.
type Config struct {
	Name       string           `yaml:"name"`
	LaunchTime uint64           `yaml:"launch-time"`
	Token      tax.Address      `yaml:"token"`
	Governance Governance       `yaml:"governance"`
	Pools      []Pool           `yaml:"pools"`
	Balances   []Balance        `yaml:"balances"`
	Whitelist  []WhitelistEntry `yaml:"whitelist"`
	Incentive  []Allocation     `yaml:"incentive"`
}

// Governance holds the initial core parameters.
type Governance struct {
	PreVoteLength    uint64 `yaml:"pre-vote-length"`
	TotalVoteLength  uint64 `yaml:"total-vote-length"`
	ExpirationLength uint64 `yaml:"expiration-length"`
	MinVote          uint64 `yaml:"min-vote"`
	MinVoteCore      uint64 `yaml:"min-vote-core"`
	MinCommit        uint64 `yaml:"min-commit"`
	EnforceMinVote   bool   `yaml:"enforce-min-vote"`
}

// Pool is a reward pool opened at genesis. A zero start means the launch time.
type Pool struct {
	Asset    tax.Address `yaml:"asset"`
	Start    uint64      `yaml:"start"`
	Interval uint64      `yaml:"interval"`
}

// Balance is an initial mint.
type Balance struct {
	Asset   tax.Address           `yaml:"asset"`
	Address tax.Address           `yaml:"address"`
	Amount  *math.HexOrDecimal256 `yaml:"amount"`
}

type WhitelistEntry struct {
	Asset  tax.Address `yaml:"asset"`
	Oracle tax.Address `yaml:"oracle"`
}

// Allocation is an incentive fund share, 1e8 is 100%.
type Allocation struct {
	Address  tax.Address `yaml:"address"`
	Fraction uint64      `yaml:"fraction"`
}

// DefaultYAML returns the embedded development config.
func DefaultYAML() []byte {
	return bytes.Clone(defaultConfig)
}

// Default returns the embedded development config.
func Default() *Config {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return cfg, nil
}

// Parse decodes a config. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis config")
	}
	return &cfg, nil
}

// CoreParameters returns the governance parameters to store.
func (g Governance) CoreParameters() governance.CoreParameters {
	return governance.CoreParameters{
		PreVoteLength:    g.PreVoteLength,
		TotalVoteLength:  g.TotalVoteLength,
		ExpirationLength: g.ExpirationLength,
		MinVoteE4:        g.MinVote,
		MinVoteCoreE4:    g.MinVoteCore,
		MinCommitE4:      g.MinCommit,
	}
}

// TurnoutPolicy returns the policy applied to proposals at apply time.
func (g Governance) TurnoutPolicy() governance.TurnoutPolicy {
	if g.EnforceMinVote {
		return governance.RequireMinimumApproval
	}
	return governance.IgnoreMinimumVote
}

func (c *Config) allocations() []incentive.Allocation {
	table := make([]incentive.Allocation, 0, len(c.Incentive))
	for _, a := range c.Incentive {
		table = append(table, incentive.Allocation{Address: a.Address, Fraction: a.Fraction})
	}
	return table
}

// Validate checks the config before anything is written.
func (c *Config) Validate() error {
	if c.Token.IsZero() {
		return errors.New("token must be set")
	}
	if err := c.Governance.CoreParameters().Validate(); err != nil {
		return errors.WithMessage(err, "governance")
	}
	if len(c.Pools) == 0 {
		return errors.New("at least one pool is required")
	}

	seen := make(map[tax.Address]bool)
	for i, p := range c.Pools {
		if p.Interval == 0 {
			return fmt.Errorf("pool %d (%s): interval must be positive", i, p.Asset)
		}
		if seen[p.Asset] {
			return fmt.Errorf("pool %d (%s): duplicated", i, p.Asset)
		}
		seen[p.Asset] = true
	}

	for _, b := range c.Balances {
		if b.Amount == nil {
			return fmt.Errorf("%s: amount must be set", b.Address)
		}
		if (*big.Int)(b.Amount).Sign() < 1 {
			return fmt.Errorf("%s: amount must be a positive integer", b.Address)
		}
	}

	for _, w := range c.Whitelist {
		if w.Oracle.IsZero() {
			return fmt.Errorf("whitelist %s: oracle must be set", w.Asset)
		}
	}

	if err := incentive.Validate(c.allocations()); err != nil {
		return errors.WithMessage(err, "incentive")
	}
	return nil
}
