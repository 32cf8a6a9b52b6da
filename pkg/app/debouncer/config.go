package debouncer

import "time"

type Config struct {
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	BatchSize      int           `mapstructure:"batch_size"`
	Workers        int           `mapstructure:"workers"`
	QueueSize      int           `mapstructure:"queue_size"`
	RetentionHours int           `mapstructure:"retention_hours"`
	StoreTimeout   time.Duration `mapstructure:"store_timeout"`
	PurgeInterval  time.Duration `mapstructure:"purge_interval"`
}

func DefaultConfig() Config {
	return Config{
		SweepInterval:  30 * time.Second,
		BatchSize:      100,
		Workers:        4,
		QueueSize:      1000,
		RetentionHours: 72,
		StoreTimeout:   5 * time.Second,
		PurgeInterval:  time.Hour,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SweepInterval <= 0 {
		c.SweepInterval = d.SweepInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.RetentionHours <= 0 {
		c.RetentionHours = d.RetentionHours
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = d.StoreTimeout
	}
	if c.PurgeInterval <= 0 {
		c.PurgeInterval = d.PurgeInterval
	}
	return c
}
