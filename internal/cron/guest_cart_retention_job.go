package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/pkg/logger"
)

const defaultGuestCartRetention = 30 * 24 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type guestCartSweeper interface {
	DeleteGuestCartsIdleBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// GuestCartRetentionJobParams configure the guest cart sweep.
type GuestCartRetentionJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository guestCartSweeper
	Retention  time.Duration
}

// NewGuestCartRetentionJob builds the job that drops guest carts whose owners
// never came back. User carts are kept indefinitely.
func NewGuestCartRetentionJob(params GuestCartRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultGuestCartRetention
	}
	return &guestCartRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type guestCartRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      guestCartSweeper
	retention time.Duration
	now       func() time.Time
}

func (j *guestCartRetentionJob) Name() string { return "guest-cart-retention" }

func (j *guestCartRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteGuestCartsIdleBefore(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("guest cart retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":      cutoff,
		"retention":   j.retention.String(),
		"carts_swept": deleted,
	})
	j.logg.Info(logCtx, "guest cart sweep complete")
	return nil
}
