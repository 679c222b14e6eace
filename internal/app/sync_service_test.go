package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/mocks"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

type syncFixture struct {
	svc    *SyncService
	store  *QuoteStore
	remote *mocks.MockRemoteQuotes
}

func newSyncFixture(t *testing.T, local ...domain.Quote) *syncFixture {
	t.Helper()

	store, _ := newTestStore(t, local...)
	remote := mocks.NewMockRemoteQuotes(t)

	svc := NewSyncService(SyncServiceConfig{
		Store:           store,
		Remote:          remote,
		Logger:          discardLogger(),
		Timeout:         time.Second,
		PushConcurrency: 2,
	})
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	return &syncFixture{svc: svc, store: store, remote: remote}
}

func TestNewSyncService_PanicsWithoutDependencies(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Panics(t, func() { NewSyncService(SyncServiceConfig{Remote: mocks.NewMockRemoteQuotes(t)}) })
	assert.Panics(t, func() { NewSyncService(SyncServiceConfig{Store: store}) })
}

func TestSyncService_Reconcile_RemoteWins(t *testing.T) {
	f := newSyncFixture(t, q("A", "X"), q("B", "Y"))
	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).Return([]domain.Quote{q("A", "X"), q("C", "Z")}, nil)

	result, err := f.svc.Reconcile(context.Background(), TriggerManual)

	require.NoError(t, err)
	assert.Equal(t, SyncSuccess, result.Status)
	assert.Equal(t, TriggerManual, result.Trigger)
	assert.Equal(t, 1, result.UnmergedLocal)
	assert.Equal(t, 2, result.RemoteCount)
	assert.Equal(t, 3, result.Total)
	assert.False(t, result.FinishedAt.Before(result.StartedAt))

	want := []domain.Quote{q("A", "X"), q("C", "Z"), q("B", "Y")}
	if diff := cmp.Diff(want, f.store.Snapshot()); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncService_Reconcile_Idempotent(t *testing.T) {
	f := newSyncFixture(t, q("A", "X"), q("B", "Y"))
	remote := []domain.Quote{q("A", "X"), q("C", "Z")}
	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).Return(remote, nil).Twice()

	_, err := f.svc.Reconcile(context.Background(), TriggerManual)
	require.NoError(t, err)

	first := f.store.Snapshot()

	result, err := f.svc.Reconcile(context.Background(), TriggerPeriodic)
	require.NoError(t, err)

	assert.Equal(t, first, f.store.Snapshot())
	assert.Equal(t, 1, result.UnmergedLocal, "local-only quotes stay unmerged until the remote has them")
}

func TestSyncService_Reconcile_EmptyRemoteKeepsLocal(t *testing.T) {
	f := newSyncFixture(t, q("A", "X"))
	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).Return([]domain.Quote{}, nil)

	result, err := f.svc.Reconcile(context.Background(), TriggerManual)

	require.NoError(t, err)
	assert.Equal(t, 1, result.UnmergedLocal)
	assert.Equal(t, []domain.Quote{q("A", "X")}, f.store.Snapshot())
}

func TestSyncService_Reconcile_FetchFailureLeavesLocalUntouched(t *testing.T) {
	store, slots := newTestStore(t, q("A", "X"))
	remote := mocks.NewMockRemoteQuotes(t)
	remote.EXPECT().FetchRemoteQuotes(mock.Anything).
		Return(nil, domain.NewRemoteError("fetch", 503, "Service Unavailable"))

	svc := NewSyncService(SyncServiceConfig{Store: store, Remote: remote, Logger: discardLogger()})
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	before := slots.Dump()

	result, err := svc.Reconcile(context.Background(), TriggerManual)

	require.Error(t, err)
	assert.True(t, domain.IsRemote(err))

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepPerform, step)

	require.NotNil(t, result)
	assert.Equal(t, SyncFailed, result.Status)
	assert.Contains(t, result.Error, "503")
	assert.Equal(t, 1, result.Total)

	assert.Equal(t, []domain.Quote{q("A", "X")}, store.Snapshot())
	assert.Equal(t, before, slots.Dump())

	last, ok := svc.LastResult()
	require.True(t, ok)
	assert.Equal(t, SyncFailed, last.Status)
}

func TestSyncService_Reconcile_RejectsIncompleteRemote(t *testing.T) {
	f := newSyncFixture(t, q("A", "X"))
	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).Return([]domain.Quote{q("", "X")}, nil)

	_, err := f.svc.Reconcile(context.Background(), TriggerManual)

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepVerify, step)
	assert.Equal(t, []domain.Quote{q("A", "X")}, f.store.Snapshot())
}

func TestSyncService_Reconcile_PersistenceFailure(t *testing.T) {
	store, slots := newTestStore(t, q("A", "X"))
	remote := mocks.NewMockRemoteQuotes(t)
	remote.EXPECT().FetchRemoteQuotes(mock.Anything).Return([]domain.Quote{q("B", "Y")}, nil)

	svc := NewSyncService(SyncServiceConfig{Store: store, Remote: remote, Logger: discardLogger()})
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	slots.FailWrites(errors.New("disk full"))

	result, err := svc.Reconcile(context.Background(), TriggerManual)

	assert.True(t, domain.IsPersistence(err))

	step, _ := GetExecutionStep(err)
	assert.Equal(t, StepArchive, step)
	assert.Equal(t, SyncFailed, result.Status)
	assert.Equal(t, []domain.Quote{q("A", "X")}, store.Snapshot())
}

func TestSyncService_Reconcile_KeepsAddsDuringFetch(t *testing.T) {
	f := newSyncFixture(t, q("A", "X"))
	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).RunAndReturn(func(ctx context.Context) ([]domain.Quote, error) {
		_, err := f.store.Add(ctx, q("Late", "Y"))
		require.NoError(t, err)

		return []domain.Quote{q("R", "Z")}, nil
	})

	result, err := f.svc.Reconcile(context.Background(), TriggerManual)

	require.NoError(t, err)
	assert.Equal(t, 2, result.UnmergedLocal)
	assert.Equal(t, []domain.Quote{q("R", "Z"), q("A", "X"), q("Late", "Y")}, f.store.Snapshot())
}

func TestSyncService_Reconcile_CoalescesConcurrentTriggers(t *testing.T) {
	f := newSyncFixture(t, q("A", "X"))

	started := make(chan struct{})
	release := make(chan struct{})

	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).RunAndReturn(func(context.Context) ([]domain.Quote, error) {
		close(started)
		<-release

		return []domain.Quote{q("R", "Z")}, nil
	}).Once()

	results := make([]*SyncResult, 3)

	var wg sync.WaitGroup
	wg.Go(func() {
		results[0], _ = f.svc.Reconcile(context.Background(), TriggerManual)
	})

	<-started

	for i := 1; i < len(results); i++ {
		wg.Go(func() {
			results[i], _ = f.svc.Reconcile(context.Background(), TriggerPeriodic)
		})
	}

	// Give the joiners time to attach to the in-flight pass.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, SyncSuccess, r.Status)
		assert.Equal(t, TriggerManual, r.Trigger)
	}

	assert.Equal(t, 2, f.store.Len())
}

func TestSyncService_Reconcile_CallerGivesUp(t *testing.T) {
	f := newSyncFixture(t, q("A", "X"))

	release := make(chan struct{})
	f.remote.EXPECT().FetchRemoteQuotes(mock.Anything).RunAndReturn(func(context.Context) ([]domain.Quote, error) {
		<-release
		return []domain.Quote{q("R", "Z")}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.svc.Reconcile(ctx, TriggerManual)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)

	require.Eventually(t, func() bool {
		last, ok := f.svc.LastResult()
		return ok && last.Status == SyncSuccess
	}, time.Second, 5*time.Millisecond, "the shared pass finishes without its caller")
}

func TestSyncService_Reconcile_Timeout(t *testing.T) {
	store, _ := newTestStore(t, q("A", "X"))
	remote := mocks.NewMockRemoteQuotes(t)
	remote.EXPECT().FetchRemoteQuotes(mock.Anything).RunAndReturn(func(ctx context.Context) ([]domain.Quote, error) {
		<-ctx.Done()
		return nil, domain.NewRemoteError("fetch", 0, ctx.Err().Error())
	})

	svc := NewSyncService(SyncServiceConfig{
		Store:   store,
		Remote:  remote,
		Logger:  discardLogger(),
		Timeout: 20 * time.Millisecond,
	})
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	result, err := svc.Reconcile(context.Background(), TriggerPeriodic)

	assert.True(t, domain.IsRemote(err))
	assert.Equal(t, SyncFailed, result.Status)
}

func TestSyncService_Stop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store, _ := newTestStore(t, q("A", "X"))
	remote := mocks.NewMockRemoteQuotes(t)

	started := make(chan struct{})
	remote.EXPECT().FetchRemoteQuotes(mock.Anything).RunAndReturn(func(ctx context.Context) ([]domain.Quote, error) {
		close(started)
		<-ctx.Done()

		return nil, ctx.Err()
	})

	svc := NewSyncService(SyncServiceConfig{Store: store, Remote: remote, Logger: discardLogger()})

	done := make(chan *SyncResult)
	go func() {
		result, _ := svc.Reconcile(context.Background(), TriggerManual)
		done <- result
	}()

	<-started
	require.NoError(t, svc.Stop(context.Background()))

	result := <-done
	assert.Equal(t, SyncCancelled, result.Status)

	_, err := svc.Reconcile(context.Background(), TriggerManual)
	require.ErrorIs(t, err, ErrSyncStopped)
}

func TestSyncService_LastResult_Empty(t *testing.T) {
	f := newSyncFixture(t)

	_, ok := f.svc.LastResult()

	assert.False(t, ok)
}

func TestSyncService_PushAll(t *testing.T) {
	f := newSyncFixture(t)
	quotes := []domain.Quote{q("A", "X"), q("B", "Y"), q("C", "Z")}

	f.remote.EXPECT().PushQuote(mock.Anything, q("A", "X")).Return(&ports.PushResult{RemoteID: 101}, nil)
	f.remote.EXPECT().PushQuote(mock.Anything, q("B", "Y")).Return(nil, domain.NewRemoteError("push", 500, "boom"))
	f.remote.EXPECT().PushQuote(mock.Anything, q("C", "Z")).Return(&ports.PushResult{RemoteID: 103}, nil)

	outcomes := f.svc.PushAll(context.Background(), quotes)

	require.Len(t, outcomes, 3)
	assert.Equal(t, 101, outcomes[0].RemoteID)
	require.NoError(t, outcomes[0].Err)
	assert.True(t, domain.IsRemote(outcomes[1].Err))
	assert.Equal(t, q("B", "Y"), outcomes[1].Quote)
	assert.Equal(t, 103, outcomes[2].RemoteID)
}

func TestSyncService_PushInBackground(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store, _ := newTestStore(t)
	remote := mocks.NewMockRemoteQuotes(t)

	pushed := make(chan domain.Quote, 1)
	remote.EXPECT().PushQuote(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, quote domain.Quote) (*ports.PushResult, error) {
		pushed <- quote
		return nil, errors.New("remote down")
	})

	svc := NewSyncService(SyncServiceConfig{Store: store, Remote: remote, Logger: discardLogger()})

	svc.PushInBackground(context.Background(), q("A", "X"))

	assert.Equal(t, q("A", "X"), <-pushed)
	require.NoError(t, svc.Stop(context.Background()))

	svc.PushInBackground(context.Background(), q("B", "Y"))
}

func TestSyncService_StopDrainsBackgroundPushes(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store, _ := newTestStore(t)
	remote := mocks.NewMockRemoteQuotes(t)

	started := make(chan struct{})
	outcome := make(chan error, 1)
	remote.EXPECT().PushQuote(mock.Anything, q("Slow", "X")).RunAndReturn(func(ctx context.Context, _ domain.Quote) (*ports.PushResult, error) {
		close(started)

		select {
		case <-time.After(100 * time.Millisecond):
			outcome <- nil
			return &ports.PushResult{RemoteID: 7}, nil
		case <-ctx.Done():
			outcome <- ctx.Err()
			return nil, ctx.Err()
		}
	}).Once()

	svc := NewSyncService(SyncServiceConfig{Store: store, Remote: remote, Logger: discardLogger()})

	svc.PushInBackground(context.Background(), q("Slow", "X"))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, svc.Stop(ctx))
	require.NoError(t, <-outcome, "the push finished instead of being cancelled")
}

func TestSyncService_StopCancelsPushesWhenItsContextEnds(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store, _ := newTestStore(t)
	remote := mocks.NewMockRemoteQuotes(t)

	started := make(chan struct{})
	outcome := make(chan error, 1)
	remote.EXPECT().PushQuote(mock.Anything, mock.Anything).RunAndReturn(func(ctx context.Context, _ domain.Quote) (*ports.PushResult, error) {
		close(started)
		<-ctx.Done()
		outcome <- ctx.Err()

		return nil, ctx.Err()
	}).Once()

	svc := NewSyncService(SyncServiceConfig{Store: store, Remote: remote, Logger: discardLogger()})

	svc.PushInBackground(context.Background(), q("Stuck", "X"))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, svc.Stop(ctx), context.DeadlineExceeded)
	require.ErrorIs(t, <-outcome, context.Canceled)
}

func TestSyncService_PushInBackgroundRacingStop(t *testing.T) {
	store, _ := newTestStore(t)
	remote := mocks.NewMockRemoteQuotes(t)
	remote.EXPECT().PushQuote(mock.Anything, mock.Anything).Return(&ports.PushResult{}, nil).Maybe()

	svc := NewSyncService(SyncServiceConfig{Store: store, Remote: remote, Logger: discardLogger()})

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() { svc.PushInBackground(context.Background(), q("A", "X")) })
	}

	require.NoError(t, svc.Stop(context.Background()))
	wg.Wait()

	// Pushes requested after Stop are dropped, so nothing is left running.
	svc.PushInBackground(context.Background(), q("Late", "X"))
	remote.AssertNotCalled(t, "PushQuote", mock.Anything, q("Late", "X"))
}

func TestSyncService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	store, _ := newTestStore(t, q("A", "X"))
	remote := mocks.NewMockRemoteQuotes(t)
	remote.EXPECT().FetchRemoteQuotes(mock.Anything).Return([]domain.Quote{q("B", "Y")}, nil)

	svc := NewSyncService(SyncServiceConfig{
		Store:   store,
		Remote:  remote,
		Metrics: telemetry.NewSyncMetrics(reg),
		Logger:  discardLogger(),
	})
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	_, err := svc.Reconcile(context.Background(), TriggerManual)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	assert.InDelta(t, 1, values["quotes_sync_runs_total"], 0)
	assert.InDelta(t, 1, values["quotes_sync_unmerged_local_total"], 0)
}
