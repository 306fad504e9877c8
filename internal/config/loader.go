package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/clutchgolf/engine/internal/domain/stats"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if CLUTCH_CONFIG is set
//  3. env (prefix CLUTCH_, double underscore as nesting separator,
//     e.g. CLUTCH_PLAYER__CPI__WEEKLY_DECAY)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("CLUTCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	envProvider := env.Provider("CLUTCH_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "CLUTCH_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engines cannot run with.
func (c *Config) Validate() error {
	w := c.Manager.Weights
	total := w.WinRate + w.DraftIQ + w.RosterMgmt + w.Predictions +
		w.TradeAcumen + w.Championships + w.Consistency
	if total < 0.999 || total > 1.001 {
		return fmt.Errorf("%w: manager component weights sum to %.4f, want 1.0", ErrInvalidConfig, total)
	}
	if len(c.Player.Form.Weights) == 0 {
		return fmt.Errorf("%w: form recency weights must not be empty", ErrInvalidConfig)
	}
	if c.Player.CPI.WeeklyDecay <= 0 || c.Player.CPI.WeeklyDecay > 1 {
		return fmt.Errorf("%w: cpi weekly decay %.4f outside (0,1]", ErrInvalidConfig, c.Player.CPI.WeeklyDecay)
	}
	if c.Manager.SofteningExponent <= 0 {
		return fmt.Errorf("%w: softening exponent must be positive", ErrInvalidConfig)
	}
	return validateCurves(c.Manager.Curves)
}

func validateCurves(curves ManagerCurves) error {
	for name, curve := range map[string][]stats.CurvePoint{
		"win_rate":      curves.WinRate,
		"draft_iq":      curves.DraftIQ,
		"roster_mgmt":   curves.RosterMgmt,
		"predictions":   curves.Predictions,
		"championships": curves.Championships,
		"consistency":   curves.Consistency,
	} {
		for i := 1; i < len(curve); i++ {
			if curve[i].SampleCount < curve[i-1].SampleCount {
				return fmt.Errorf("%w: %s confidence curve not ascending", ErrInvalidConfig, name)
			}
		}
	}
	return nil
}
