package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allegro/techsite/pkg/domain"
	"github.com/allegro/techsite/pkg/scheduler/mocks"
)

func countingBuilder() (*mocks.BuilderMock, *int32) {
	var n int32
	return &mocks.BuilderMock{BuildFunc: func(ctx context.Context) domain.Page {
		i := atomic.AddInt32(&n, 1)
		return domain.Page{Posts: []domain.FeedItem{{Title: "post"}}, GeneratedAt: time.Unix(int64(i), 0)}
	}}, &n
}

func TestNewScheduler(t *testing.T) {
	builder, _ := countingBuilder()

	s := NewScheduler(Params{Builder: builder, UpdateInterval: 5 * time.Minute})
	assert.Equal(t, 5*time.Minute, s.updateInterval)

	s = NewScheduler(Params{Builder: builder})
	assert.Equal(t, 30*time.Minute, s.updateInterval, "default interval")

	_, ok := s.Page()
	assert.False(t, ok, "no page before first build")
}

func TestScheduler_Refresh(t *testing.T) {
	builder, n := countingBuilder()
	s := NewScheduler(Params{Builder: builder, UpdateInterval: time.Hour})

	page := s.Refresh(context.Background())
	assert.Equal(t, time.Unix(1, 0), page.GeneratedAt)

	latest, ok := s.Page()
	require.True(t, ok)
	assert.Equal(t, page, latest)

	s.Refresh(context.Background())
	latest, _ = s.Page()
	assert.Equal(t, time.Unix(2, 0), latest.GeneratedAt, "page replaced by a fresh build")
	assert.Equal(t, int32(2), atomic.LoadInt32(n))
}

func TestScheduler_Refresh_Concurrent(t *testing.T) {
	var active, maxActive int32
	builder := &mocks.BuilderMock{BuildFunc: func(ctx context.Context) domain.Page {
		cur := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&maxActive)
			if cur <= old || atomic.CompareAndSwapInt32(&maxActive, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return domain.Page{}
	}}
	s := NewScheduler(Params{Builder: builder})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Refresh(context.Background())
			_, _ = s.Page()
		}()
	}
	wg.Wait()

	assert.Len(t, builder.BuildCalls(), 5)
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive), "builds are serialized")
}

func TestScheduler_StartStop(t *testing.T) {
	builder, n := countingBuilder()
	s := NewScheduler(Params{Builder: builder, UpdateInterval: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	require.Eventually(t, func() bool { return atomic.LoadInt32(n) >= 2 }, time.Second, 10*time.Millisecond,
		"initial build and at least one periodic build")

	s.Stop()
	calls := atomic.LoadInt32(n)
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, calls, atomic.LoadInt32(n), "no builds after stop")

	_, ok := s.Page()
	assert.True(t, ok)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	builder, _ := countingBuilder()
	s := NewScheduler(Params{Builder: builder})
	s.Stop()
}
