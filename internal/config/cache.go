package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds the weather snapshot cache settings
type CacheConfig struct {
	TTLMinutes           int
	SweepIntervalMinutes int
	MaxEntries           int
	EnableSweep          bool
}

const (
	defaultTTLMinutes           = 5
	defaultSweepIntervalMinutes = 10
	defaultMaxEntries           = 1000
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		TTLMinutes:           getEnvInt("CACHE_TTL_MINUTES", defaultTTLMinutes),
		SweepIntervalMinutes: getEnvInt("CACHE_SWEEP_INTERVAL_MINUTES", defaultSweepIntervalMinutes),
		MaxEntries:           getEnvInt("CACHE_MAX_ENTRIES", defaultMaxEntries),
		EnableSweep:          getEnvBool("CACHE_ENABLE_SWEEP", true),
	}

	log.Debug().
		Int("TTLMinutes", config.TTLMinutes).
		Int("SweepIntervalMinutes", config.SweepIntervalMinutes).
		Int("MaxEntries", config.MaxEntries).
		Bool("EnableSweep", config.EnableSweep).
		Msg("Cache configuration loaded")

	return config
}

// DefaultCacheConfig returns the defaults without consulting the environment
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		TTLMinutes:           defaultTTLMinutes,
		SweepIntervalMinutes: defaultSweepIntervalMinutes,
		MaxEntries:           defaultMaxEntries,
		EnableSweep:          true,
	}
}

func (c *CacheConfig) GetTTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func (c *CacheConfig) GetSweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}
