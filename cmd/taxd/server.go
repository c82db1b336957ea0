// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const shutdownTimeout = 5 * time.Second

// server is one HTTP listener of the node.
type server struct {
	name     string
	addr     string
	srv      *http.Server
	listener net.Listener
}

func newServer(name, addr string, handler http.Handler) *server {
	return &server{
		name: name,
		addr: addr,
		srv:  &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second},
	}
}

func (s *server) listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "listen %v addr [%v]", s.name, s.addr)
	}
	s.listener = listener
	return nil
}

func (s *server) url() string {
	return "http://" + s.listener.Addr().String()
}

func (s *server) serve() error {
	if err := s.srv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return errors.Wrapf(err, "serve %v", s.name)
	}
	return nil
}

func (s *server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown", "name", s.name, "err", err)
	}
}
