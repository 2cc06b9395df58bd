package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/pkg/logger"
)

func TestGuestCartRetentionJobSweepsIdleCarts(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeCartSweeper{swept: 7}
	job := newGuestCartRetentionJob(t, repo)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-defaultGuestCartRetention)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestGuestCartRetentionJobPropagatesErrors(t *testing.T) {
	repo := &fakeCartSweeper{err: errors.New("boom")}
	job := newGuestCartRetentionJob(t, repo)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newGuestCartRetentionJob(t *testing.T, repo *fakeCartSweeper) *guestCartRetentionJob {
	t.Helper()
	jobIface, err := NewGuestCartRetentionJob(GuestCartRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         fakeTxRunner{},
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewGuestCartRetentionJob: %v", err)
	}
	job, ok := jobIface.(*guestCartRetentionJob)
	if !ok {
		t.Fatalf("expected guestCartRetentionJob, got %T", jobIface)
	}
	return job
}

type fakeCartSweeper struct {
	lastCutoff time.Time
	swept      int64
	err        error
	called     int
}

func (f *fakeCartSweeper) DeleteGuestCartsIdleBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.swept, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
