// Copyright 2025 Poiesic Systems
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
	"errors"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/coursegrid/schedule"
)

// Environment variables read by FromEnv.
const (
	EnvDisplayTerms  = "COURSEGRID_DISPLAY_TERMS"
	EnvExcludedTerms = "COURSEGRID_EXCLUDED_TERMS"
	EnvPoolSize      = "COURSEGRID_POOL_SIZE"
)

// Config holds catalog and presentation settings.
type Config struct {
	// DisplayTerms is the term allow-list, in display order.
	// Default: ["Fall 2025", "Spring 2026"]
	DisplayTerms []string

	// ExcludedTerms are dropped at import even if displayed.
	// Default: ["Term 2265"]
	ExcludedTerms []string

	// Palette is the schedule color cycle.
	Palette []string

	// PoolSize is the worker pool size for index builds and imports.
	// Default: runtime.NumCPU() / 2, minimum 1
	PoolSize int

	// DefaultLimit is the search result count when none is given.
	DefaultLimit int

	// MaxLimit caps any requested search limit.
	MaxLimit int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDisplayTerms sets the term allow-list.
func WithDisplayTerms(terms ...string) ConfigOption {
	return func(c *Config) {
		c.DisplayTerms = terms
	}
}

// WithExcludedTerms sets the excluded terms.
func WithExcludedTerms(terms ...string) ConfigOption {
	return func(c *Config) {
		c.ExcludedTerms = terms
	}
}

// WithPalette sets the schedule color cycle.
func WithPalette(colors ...string) ConfigOption {
	return func(c *Config) {
		c.Palette = colors
	}
}

// WithPoolSize sets the worker pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithLimits sets the default and maximum search limits.
func WithLimits(defaultLimit, maxLimit int) ConfigOption {
	return func(c *Config) {
		c.DefaultLimit = defaultLimit
		c.MaxLimit = maxLimit
	}
}

// DefaultConfig returns a Config for the Fall 2025 / Spring 2026 catalog.
func DefaultConfig() *Config {
	return &Config{
		DisplayTerms:  []string{"Fall 2025", "Spring 2026"},
		ExcludedTerms: []string{"Term 2265"},
		Palette:       slices.Clone(schedule.DefaultPalette),
		PoolSize:      max(runtime.NumCPU()/2, 1),
		DefaultLimit:  50,
		MaxLimit:      500,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// FromEnv overlays environment settings onto c. Term lists are
// comma-separated. A malformed pool size leaves the current value.
func (c *Config) FromEnv(lookup func(string) (string, bool)) *Config {
	if v, ok := lookup(EnvDisplayTerms); ok {
		c.DisplayTerms = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvExcludedTerms); ok {
		c.ExcludedTerms = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvPoolSize); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.PoolSize = n
		}
	}
	return c
}

// Normalize trims whitespace from terms and colors and drops blanks and
// duplicates, keeping first occurrences.
func (c *Config) Normalize() {
	c.DisplayTerms = normalizeList(c.DisplayTerms)
	c.ExcludedTerms = normalizeList(c.ExcludedTerms)
	c.Palette = normalizeList(c.Palette)
}

func normalizeList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if len(c.Palette) == 0 {
		return errors.New("config: Palette must not be empty")
	}
	if c.PoolSize < 1 {
		return errors.New("config: PoolSize must be at least 1")
	}
	if c.DefaultLimit < 1 {
		return errors.New("config: DefaultLimit must be at least 1")
	}
	if c.MaxLimit < c.DefaultLimit {
		return errors.New("config: MaxLimit must not be less than DefaultLimit")
	}
	for _, term := range c.DisplayTerms {
		if slices.Contains(c.ExcludedTerms, term) {
			return errors.New("config: term " + strconv.Quote(term) + " is both displayed and excluded")
		}
	}
	return nil
}

// ClampLimit returns limit bounded by MaxLimit, or DefaultLimit when limit
// is not positive.
func (c *Config) ClampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	return min(limit, c.MaxLimit)
}
