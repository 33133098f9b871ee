// Copyright (c) 2025, Foodgram Project Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gateway

import (
	"net/http"
	"sync/atomic"

	"github.com/foodgram-ops/foodgate/pkg/config"
	"github.com/foodgram-ops/foodgate/pkg/proxy"
	"github.com/foodgram-ops/foodgate/pkg/route"
	"github.com/foodgram-ops/foodgate/pkg/server"
	"github.com/foodgram-ops/foodgate/pkg/static"
)

// router dispatches requests through the active routing table. The
// table handler is swapped atomically on config reload, so in-flight
// requests finish against the table they started with.
type router struct {
	current atomic.Pointer[tableHandler]
}

// ServeHTTP implements http.Handler.
func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.current.Load().ServeHTTP(w, r)
}

// swap installs a new table handler.
func (rt *router) swap(th *tableHandler) {
	rt.current.Store(th)
}

// routes returns the rules of the active table in match order.
func (rt *router) routes() []route.Rule {
	return rt.current.Load().table.Rules()
}

// tableHandler is one immutable build of the routing table: the table
// for matching plus a prebuilt handler per rule.
type tableHandler struct {
	table    *route.Table
	handlers map[string]http.Handler
}

// ServeHTTP implements http.Handler.
func (th *tableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rule, ok := th.table.Match(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	server.SetRouteLabel(r.Context(), rule.Prefix)
	th.handlers[rule.Prefix].ServeHTTP(w, r)
}

// buildTableHandler constructs handlers for every rule in the config's
// routing table.
func buildTableHandler(cfg *config.Config) (*tableHandler, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}

	errorPage := &static.ErrorPage{Path: cfg.ErrorPage}

	handlers := make(map[string]http.Handler, table.Len())
	for _, rule := range table.Rules() {
		h, err := buildRuleHandler(rule, errorPage)
		if err != nil {
			return nil, err
		}
		if rule.MaxBodyBytes > 0 {
			h = server.BodyLimit(rule.MaxBodyBytes, h)
		}
		handlers[rule.Prefix] = h
	}

	return &tableHandler{table: table, handlers: handlers}, nil
}

func buildRuleHandler(rule route.Rule, errorPage *static.ErrorPage) (http.Handler, error) {
	switch rule.Kind {
	case route.KindProxy:
		return proxy.New(rule.Upstream,
			proxy.WithErrorPage(errorPage),
			proxy.WithErrorObserver(server.CountUpstreamError),
		)

	case route.KindStatic:
		return &static.Handler{
			Prefix:   rule.Prefix,
			Root:     rule.Root,
			Fallback: rule.Fallback,
		}, nil

	case route.KindSPA:
		files := &static.Handler{
			Prefix:   rule.Prefix,
			Root:     rule.Root,
			Fallback: rule.Fallback,
		}
		if rule.Upstream == "" {
			return files, nil
		}
		p, err := proxy.New(rule.Upstream,
			proxy.WithErrorPage(errorPage),
			proxy.WithErrorObserver(server.CountUpstreamError),
		)
		if err != nil {
			return nil, err
		}
		files.NotFound = p
		return &spaHandler{files: files, proxy: p}, nil

	default:
		// Unreachable: the table validates kinds on construction.
		return nil, rule.Validate()
	}
}

// spaHandler serves the frontend build, falling back to the upstream
// for paths the build cannot answer. Non-GET requests skip the file
// tree entirely and go straight upstream.
type spaHandler struct {
	files *static.Handler
	proxy *proxy.Proxy
}

// ServeHTTP implements http.Handler.
func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.proxy.ServeHTTP(w, r)
		return
	}
	h.files.ServeHTTP(w, r)
}
