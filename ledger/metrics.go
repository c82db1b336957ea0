// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/taxtoken/core/metrics"
)

var (
	metricOpsCount      = metrics.LazyLoadCounterVec("ledger_ops_count", []string{"op", "result"})
	metricOpDuration    = metrics.LazyLoadHistogram("ledger_op_duration_ms", metrics.BucketOpMillis)
	metricProposalGauge = metrics.LazyLoadGauge("governance_proposals_gauge")
)
