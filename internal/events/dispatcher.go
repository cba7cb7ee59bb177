package events

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DispatcherConfig controls the outbox dispatch loop.
type DispatcherConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		BatchSize:    100,
		PollInterval: 1 * time.Second,
	}
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	defaults := DefaultDispatcherConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	return c
}

// Dispatcher drains unpublished outbox rows and releases them onto the
// polled feed. Releasing after commit keeps consumers from observing events
// for writes that rolled back.
type Dispatcher struct {
	db  *gorm.DB
	log *zap.Logger
	cfg DispatcherConfig
}

type DispatcherParams struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config DispatcherConfig `optional:"true"`
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	return &Dispatcher{
		db:  p.DB,
		log: p.Log.Named("events.dispatcher"),
		cfg: p.Config.withDefaults(),
	}
}

func (d *Dispatcher) RunForever(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := d.RunOnce(ctx); err != nil {
			d.log.Warn("outbox dispatch failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce releases one batch and returns how many events were published.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	if d.db == nil {
		return 0, errors.New("dispatcher_unavailable")
	}

	now := time.Now().UTC()
	result := d.db.WithContext(ctx).Exec(
		`UPDATE company_events
		 SET published = true, published_at = ?
		 WHERE id IN (
			SELECT id FROM company_events
			WHERE published = false
			ORDER BY id ASC
			LIMIT ?
		 )`,
		now,
		d.cfg.BatchSize,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	released := int(result.RowsAffected)
	if released > 0 {
		d.log.Debug("outbox events released", zap.Int("count", released))
	}
	return released, nil
}
