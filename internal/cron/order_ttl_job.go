package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/petbazaar/petbazaar-backend/pkg/logger"
)

// abandonedOrderExpirer is the slice of the order service the job needs.
type abandonedOrderExpirer interface {
	ExpireAbandoned(ctx context.Context, olderThan time.Duration) (int64, error)
}

// OrderTTLJobParams configure the pending order sweeper.
type OrderTTLJobParams struct {
	Logger    *logger.Logger
	Orders    abandonedOrderExpirer
	Retention time.Duration
}

// NewOrderTTLJob builds the cron job that expires pending orders whose bank
// transfer reference never arrived within the retention window.
func NewOrderTTLJob(params OrderTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	if params.Retention <= 0 {
		return nil, fmt.Errorf("retention window must be positive")
	}
	return &orderTTLJob{
		logg:      params.Logger,
		orders:    params.Orders,
		retention: params.Retention,
	}, nil
}

type orderTTLJob struct {
	logg      *logger.Logger
	orders    abandonedOrderExpirer
	retention time.Duration
}

func (j *orderTTLJob) Name() string { return "order-ttl" }

func (j *orderTTLJob) Run(ctx context.Context) error {
	expired, err := j.orders.ExpireAbandoned(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("expire abandoned orders: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"count":           expired,
		"retention_hours": j.retention.Hours(),
	})
	j.logg.Info(logCtx, "pending order sweep complete")
	return nil
}
