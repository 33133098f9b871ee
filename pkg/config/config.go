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

package config

import (
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"log/slog"

	"github.com/foodgram-ops/foodgate/pkg/defaults"
	apperrors "github.com/foodgram-ops/foodgate/pkg/errors"
	"github.com/foodgram-ops/foodgate/pkg/route"
)

// EnvPrefix is the prefix for environment variable overrides
// (e.g., FOODGATE_LISTEN, FOODGATE_UPSTREAM).
const EnvPrefix = "FOODGATE"

// Config holds the gateway runtime configuration.
type Config struct {
	// Listen is the data plane address (host:port).
	Listen string `mapstructure:"listen" json:"listen" yaml:"listen"`

	// AdminListen is the ops listener address. Empty disables it.
	AdminListen string `mapstructure:"adminListen" json:"adminListen" yaml:"adminListen"`

	// Upstream is the backend base URL proxied routes forward to.
	Upstream string `mapstructure:"upstream" json:"upstream" yaml:"upstream"`

	// StaticRoot is the SPA build directory.
	StaticRoot string `mapstructure:"staticRoot" json:"staticRoot" yaml:"staticRoot"`

	// MediaRoot is the uploaded media directory.
	MediaRoot string `mapstructure:"mediaRoot" json:"mediaRoot" yaml:"mediaRoot"`

	// DocsRoot is the API docs directory (redoc.html and friends).
	DocsRoot string `mapstructure:"docsRoot" json:"docsRoot" yaml:"docsRoot"`

	// ErrorPage is the path of the page served for upstream 5xx
	// responses. Empty uses the built-in page.
	ErrorPage string `mapstructure:"errorPage" json:"errorPage" yaml:"errorPage"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `mapstructure:"logLevel" json:"logLevel" yaml:"logLevel"`

	// RateLimit is the per-instance request rate limit. Zero disables it.
	RateLimit float64 `mapstructure:"rateLimit" json:"rateLimit" yaml:"rateLimit"`

	// RateLimitBurst is the rate limiter burst size.
	RateLimitBurst int `mapstructure:"rateLimitBurst" json:"rateLimitBurst" yaml:"rateLimitBurst"`

	// AdminAllowedOrigins enables CORS on the admin listener.
	AdminAllowedOrigins []string `mapstructure:"adminAllowedOrigins" json:"adminAllowedOrigins,omitempty" yaml:"adminAllowedOrigins,omitempty"`

	// Routes overrides the built-in routing table when non-empty.
	Routes []route.Rule `mapstructure:"routes" json:"routes,omitempty" yaml:"routes,omitempty"`
}

// Table builds the routing table: the explicit routes when configured,
// otherwise the built-in table derived from the roots and upstream.
func (c *Config) Table() (*route.Table, error) {
	if len(c.Routes) > 0 {
		return route.NewTable(c.Routes)
	}
	return route.Default(c.Upstream, c.StaticRoot, c.MediaRoot, c.DocsRoot)
}

// Loader reads gateway configuration from an optional YAML file with
// FOODGATE_* environment overrides, and watches the file for changes.
type Loader struct {
	v    *viper.Viper
	path string

	mu        sync.RWMutex
	current   *Config
	callbacks []func(*Config)
}

// NewLoader creates a Loader. path may be empty, in which case the
// defaults plus environment overrides apply and nothing is watched.
func NewLoader(path string) *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return &Loader{v: v, path: path}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":9090")
	v.SetDefault("adminListen", ":9091")
	v.SetDefault("upstream", "http://backend:9090")
	v.SetDefault("staticRoot", "/staticfiles")
	v.SetDefault("mediaRoot", "/app/media")
	v.SetDefault("docsRoot", "/usr/share/foodgate/docs")
	v.SetDefault("errorPage", "")
	v.SetDefault("logLevel", "info")
	v.SetDefault("rateLimit", float64(defaults.RateLimit))
	v.SetDefault("rateLimitBurst", defaults.RateLimitBurst)
}

// Load reads the configuration. Safe to call repeatedly; later calls
// return the most recently loaded snapshot.
func (l *Loader) Load() (*Config, error) {
	l.mu.RLock()
	if l.current != nil {
		cfg := l.current
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	if l.path != "" {
		l.v.SetConfigFile(l.path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
				"failed to read config file", err, map[string]any{"path": l.path})
		}
	}

	cfg, err := l.unmarshal()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.current = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Watch starts watching the config file and invokes registered
// callbacks with the new snapshot on every successful reload. No-op
// when no file path was given.
func (l *Loader) Watch() {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config file changed", "file", e.Name)
		cfg, err := l.unmarshal()
		if err != nil {
			slog.Error("config reload failed, keeping previous configuration", "error", err)
			return
		}

		l.mu.Lock()
		l.current = cfg
		callbacks := make([]func(*Config), len(l.callbacks))
		copy(callbacks, l.callbacks)
		l.mu.Unlock()

		for _, cb := range callbacks {
			go cb(cfg)
		}
	})
	l.v.WatchConfig()
}

// OnChange registers a callback invoked after every successful reload.
func (l *Loader) OnChange(cb func(*Config)) {
	l.mu.Lock()
	l.callbacks = append(l.callbacks, cb)
	l.mu.Unlock()
}

// Current returns the most recently loaded snapshot, or nil before the
// first Load.
func (l *Loader) Current() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			"failed to unmarshal config", err)
	}
	if _, err := cfg.Table(); err != nil {
		return nil, err
	}
	return cfg, nil
}
