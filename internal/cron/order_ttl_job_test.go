package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeExpirer struct {
	gotWindow time.Duration
	expired   int64
	err       error
}

func (f *fakeExpirer) ExpireAbandoned(_ context.Context, olderThan time.Duration) (int64, error) {
	f.gotWindow = olderThan
	return f.expired, f.err
}

func TestOrderTTLJobSweeps(t *testing.T) {
	expirer := &fakeExpirer{expired: 4}
	job, err := NewOrderTTLJob(OrderTTLJobParams{
		Logger:    testLogger(),
		Orders:    expirer,
		Retention: 240 * time.Hour,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Name() != "order-ttl" {
		t.Fatalf("unexpected job name %q", job.Name())
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if expirer.gotWindow != 240*time.Hour {
		t.Fatalf("retention window not passed through: %s", expirer.gotWindow)
	}
}

func TestOrderTTLJobSurfacesError(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("db down")}
	job, err := NewOrderTTLJob(OrderTTLJobParams{
		Logger:    testLogger(),
		Orders:    expirer,
		Retention: time.Hour,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected job error to surface")
	}
}

func TestOrderTTLJobRejectsMissingDeps(t *testing.T) {
	if _, err := NewOrderTTLJob(OrderTTLJobParams{Logger: testLogger(), Retention: time.Hour}); err == nil {
		t.Fatal("expected error without order service")
	}
	if _, err := NewOrderTTLJob(OrderTTLJobParams{Logger: testLogger(), Orders: &fakeExpirer{}}); err == nil {
		t.Fatal("expected error without retention window")
	}
}
