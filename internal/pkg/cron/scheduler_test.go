package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(nil)
	var ok, failed atomic.Int32
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		ok.Add(1)
		return nil
	})
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		failed.Add(1)
		return errors.New("boom")
	})
	s.AddJob("disabled", 0, func(ctx context.Context) error {
		t.Fatal("disabled job must not run")
		return nil
	})

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(1), failed.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NotPanics(t, func() { NewScheduler(nil).Stop() })
}

type recapServiceStub struct {
	recap.RecapService
	actor user.Actor
	req   recap.AggregateAllRequest
	err   error
}

func (s *recapServiceStub) AggregateAll(ctx context.Context, actor user.Actor, req recap.AggregateAllRequest) (recap.AggregateAllResponse, error) {
	s.actor, s.req = actor, req
	if s.err != nil {
		return recap.AggregateAllResponse{}, s.err
	}
	return recap.AggregateAllResponse{Period: period.New(2025, time.March)}, nil
}

func TestRecapRefreshJob(t *testing.T) {
	now := func() time.Time { return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC) }

	t.Run("aggregates the current month", func(t *testing.T) {
		stub := &recapServiceStub{}
		require.NoError(t, RecapRefreshJob(stub, now, nil)(context.Background()))
		assert.Equal(t, "2025-03", stub.req.Period)
		assert.True(t, stub.actor.Can(user.PermissionRecapGenerate))
	})

	t.Run("wraps service errors", func(t *testing.T) {
		stub := &recapServiceStub{err: user.ErrInsufficientPermissions}
		err := RecapRefreshJob(stub, now, nil)(context.Background())
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
		assert.ErrorContains(t, err, "2025-03")
	})
}
