package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingPolicy holds the operator-tunable guardrails around the token
// pricing editor: the price floor, the tier-count cap, and the bounds any
// purchase config must stay within.
type PricingPolicy struct {
	GuardrailFloorPercent int   `mapstructure:"guardrailFloorPercent"`
	MaxTiers              int   `mapstructure:"maxTiers"`
	MinPurchasableTokens  int64 `mapstructure:"minPurchasableTokens"`
	MaxPurchasableTokens  int64 `mapstructure:"maxPurchasableTokens"`
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		GuardrailFloorPercent: 90,
		MaxTiers:              10,
		MinPurchasableTokens:  1,
		MaxPurchasableTokens:  1_000_000,
	}
}

// PricingPolicyHolder serves the current policy and hot-reloads it when the
// config file changes. Invalid reloads are ignored, keeping the last good
// policy in place.
type PricingPolicyHolder struct {
	current atomic.Value // holds PricingPolicy
}

func NewPricingPolicyHolder() (*PricingPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/rextra/config")
	v.AddConfigPath("/etc/rextra")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REXTRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPricingPolicy()
	v.SetDefault("pricing.guardrailFloorPercent", defaults.GuardrailFloorPercent)
	v.SetDefault("pricing.maxTiers", defaults.MaxTiers)
	v.SetDefault("pricing.minPurchasableTokens", defaults.MinPurchasableTokens)
	v.SetDefault("pricing.maxPurchasableTokens", defaults.MaxPurchasableTokens)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var policy PricingPolicy
	if err := v.UnmarshalKey("pricing", &policy); err != nil {
		return nil, err
	}
	if err := validatePricingPolicy(policy); err != nil {
		return nil, err
	}

	holder := &PricingPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingPolicy
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-policy] reload failed: %v", err)
			return
		}
		if err := validatePricingPolicy(updated); err != nil {
			log.Printf("[pricing-policy] invalid policy ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PricingPolicyHolder) Get() PricingPolicy {
	return h.current.Load().(PricingPolicy)
}

// NewStaticPricingPolicyHolder returns a holder pinned to the given policy,
// for tests and callers that bypass the config file.
func NewStaticPricingPolicyHolder(policy PricingPolicy) *PricingPolicyHolder {
	holder := &PricingPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func validatePricingPolicy(policy PricingPolicy) error {
	if policy.GuardrailFloorPercent < 0 || policy.GuardrailFloorPercent > 100 {
		return errors.New("pricing.guardrailFloorPercent must be in [0, 100]")
	}
	if policy.MaxTiers < 1 {
		return errors.New("pricing.maxTiers must be positive")
	}
	if policy.MinPurchasableTokens < 1 || policy.MaxPurchasableTokens < policy.MinPurchasableTokens {
		return errors.New("pricing purchasable token bounds are inconsistent")
	}
	return nil
}
