package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techcollege/portal/cli/api"
)

type listerFunc[R any] func(ctx context.Context) ([]R, error)

func (f listerFunc[R]) List(ctx context.Context) ([]R, error) {
	return f(ctx)
}

func staticLister(records ...api.Cooperation) listerFunc[api.Cooperation] {
	return func(context.Context) ([]api.Cooperation, error) {
		return records, nil
	}
}

func TestListStore_Reload(t *testing.T) {
	t.Run("Should start in the loading state", func(t *testing.T) {
		s := New[api.Cooperation]("international", staticLister())

		assert.Equal(t, StatusLoading, s.Status())
		assert.Empty(t, s.Snapshot())
		assert.NoError(t, s.Err())
	})

	t.Run("Should store the server sequence verbatim", func(t *testing.T) {
		records := []api.Cooperation{
			{ID: "c", Order: 3},
			{ID: "a", Order: 1},
			{ID: "b", Order: 2},
		}
		s := New[api.Cooperation]("international", staticLister(records...))

		require.NoError(t, s.Reload(t.Context()))

		assert.Equal(t, StatusReady, s.Status())
		assert.Equal(t, records, s.Snapshot())
		assert.Equal(t, 3, s.Len())
		assert.False(t, s.LoadedAt().IsZero())
		assert.Equal(t, uint64(1), s.Generation())
	})

	t.Run("Should hand out copies of the snapshot", func(t *testing.T) {
		s := New[api.Cooperation]("international", staticLister(api.Cooperation{ID: "a", OrgName: "БГУ"}))
		require.NoError(t, s.Reload(t.Context()))

		snapshot := s.Snapshot()
		snapshot[0].OrgName = "changed"

		assert.Equal(t, "БГУ", s.Snapshot()[0].OrgName)
	})

	t.Run("Should produce equal snapshots for repeated reloads of unchanged data", func(t *testing.T) {
		s := New[api.Cooperation]("international", staticLister(api.Cooperation{ID: "a"}, api.Cooperation{ID: "b"}))

		require.NoError(t, s.Reload(t.Context()))
		first := s.Snapshot()
		require.NoError(t, s.Reload(t.Context()))

		assert.Equal(t, first, s.Snapshot())
		assert.Equal(t, uint64(2), s.Generation())
	})

	t.Run("Should enter the error state and expose an empty snapshot on failure", func(t *testing.T) {
		fail := true
		s := New[api.Cooperation]("international", listerFunc[api.Cooperation](func(context.Context) ([]api.Cooperation, error) {
			if fail {
				return nil, &api.HTTPError{Status: 500}
			}
			return []api.Cooperation{{ID: "a"}}, nil
		}))

		err := s.Reload(t.Context())

		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrHTTP)
		assert.Equal(t, StatusError, s.Status())
		assert.ErrorIs(t, s.Err(), api.ErrHTTP)
		assert.Empty(t, s.Snapshot())
		assert.Zero(t, s.Len())

		fail = false
		require.NoError(t, s.Reload(t.Context()))
		assert.Equal(t, StatusReady, s.Status())
		assert.NoError(t, s.Err())
		assert.Equal(t, 1, s.Len())
	})

	t.Run("Should discard a response superseded by a newer reload", func(t *testing.T) {
		var calls atomic.Int32
		releaseFirst := make(chan struct{})
		firstStarted := make(chan struct{})
		s := New[api.Cooperation]("international", listerFunc[api.Cooperation](func(context.Context) ([]api.Cooperation, error) {
			if calls.Add(1) == 1 {
				close(firstStarted)
				<-releaseFirst
				return []api.Cooperation{{ID: "old"}}, nil
			}
			return []api.Cooperation{{ID: "new"}}, nil
		}))

		var wg sync.WaitGroup
		var firstErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			firstErr = s.Reload(context.Background())
		}()
		<-firstStarted
		require.NoError(t, s.Reload(t.Context()))
		close(releaseFirst)
		wg.Wait()

		assert.ErrorIs(t, firstErr, ErrStale)
		assert.Equal(t, []api.Cooperation{{ID: "new"}}, s.Snapshot())
		assert.Equal(t, uint64(2), s.Generation())
	})

	t.Run("Should drop responses that arrive after Close", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		s := New[api.Cooperation]("international", listerFunc[api.Cooperation](func(context.Context) ([]api.Cooperation, error) {
			close(started)
			<-release
			return []api.Cooperation{{ID: "late"}}, nil
		}))

		done := make(chan error, 1)
		go func() { done <- s.Reload(context.Background()) }()
		<-started
		s.Close()
		close(release)

		assert.ErrorIs(t, <-done, ErrClosed)
		assert.Equal(t, StatusIdle, s.Status())
		assert.Empty(t, s.Snapshot())
	})

	t.Run("Should refuse to reload once closed", func(t *testing.T) {
		var calls atomic.Int32
		s := New[api.Cooperation]("international", listerFunc[api.Cooperation](func(context.Context) ([]api.Cooperation, error) {
			calls.Add(1)
			return nil, nil
		}))
		s.Close()

		assert.ErrorIs(t, s.Reload(t.Context()), ErrClosed)
		assert.Zero(t, calls.Load())
	})
}

func TestListStore_Find(t *testing.T) {
	t.Run("Should find records in the current snapshot", func(t *testing.T) {
		s := New[api.Cooperation]("international", staticLister(api.Cooperation{ID: "a"}, api.Cooperation{ID: "b", OrgName: "БГУ"}))
		require.NoError(t, s.Reload(t.Context()))

		found, ok := s.Find(func(c api.Cooperation) bool { return c.ID == "b" })
		_, missing := s.Find(func(c api.Cooperation) bool { return c.ID == "z" })

		assert.True(t, ok)
		assert.Equal(t, "БГУ", found.OrgName)
		assert.False(t, missing)
	})

	t.Run("Should find nothing before the first reload", func(t *testing.T) {
		s := New[api.Cooperation]("international", staticLister(api.Cooperation{ID: "a"}))

		_, ok := s.Find(func(api.Cooperation) bool { return true })

		assert.False(t, ok)
	})
}
