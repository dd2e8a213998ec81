package config

import (
	"os"
	"strconv"
)

// PaymentsConfig carries the payment policy knobs. The on-demand amount
// and account-selection rules vary by deployment, so both are
// configurable rather than hardcoded.
type PaymentsConfig struct {
	// DefaultBaseAmount is applied to vendors created without an amount, in cents.
	DefaultBaseAmount int64
	// OnDemandAmount forces a flat on-demand amount in cents; 0 uses the
	// vendor's classification amount.
	OnDemandAmount int64
	// OnDemandAccount forces every on-demand payment onto one account id;
	// empty uses the vendor's assigned account.
	OnDemandAccount string
	// StrictAccounts queues a "No account assigned" pending entry when the
	// assigned account cannot be resolved, instead of falling back to the
	// default account.
	StrictAccounts bool
	// RunSchedule is a cron spec for the automatic scheduled pass; empty
	// disables it.
	RunSchedule string
}

func LoadPaymentsConfig() *PaymentsConfig {
	return &PaymentsConfig{
		DefaultBaseAmount: getEnvAsInt64("PAYMENTS_DEFAULT_BASE_AMOUNT", 10000),
		OnDemandAmount:    getEnvAsInt64("PAYMENTS_ON_DEMAND_AMOUNT", 0),
		OnDemandAccount:   getEnv("PAYMENTS_ON_DEMAND_ACCOUNT", ""),
		StrictAccounts:    getEnvAsBool("PAYMENTS_STRICT_ACCOUNTS", false),
		RunSchedule:       getEnv("PAYMENTS_RUN_SCHEDULE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.ParseInt(val, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
