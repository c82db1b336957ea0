// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
		level  string
		errMsg string
	}{
		{"get current level", http.MethodGet, "", http.StatusOK, "info", ""},
		{"set debug", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "debug", ""},
		{"set trace", http.MethodPost, `{"level":"trace"}`, http.StatusOK, "trace", ""},
		{"invalid level", http.MethodPost, `{"level":"loud"}`, http.StatusBadRequest, "", "invalid verbosity level"},
		{"unknown field", http.MethodPost, `{"lvl":"debug"}`, http.StatusBadRequest, "", "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var level slog.LevelVar
			level.Set(log.LevelInfo)

			router := mux.NewRouter()
			New(&level).Mount(router, "/admin/loglevel")

			req := httptest.NewRequest(tt.method, "/admin/loglevel", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.errMsg != "" {
				assert.Contains(t, rr.Body.String(), tt.errMsg)
				assert.Equal(t, log.LevelInfo, level.Level())
				return
			}
			var resp Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.level, resp.CurrentLevel)
		})
	}
}
