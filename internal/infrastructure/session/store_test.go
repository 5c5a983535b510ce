package session

import (
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
	"github.com/pricelens/backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	factory := func() *usecase.Workflow {
		return usecase.NewWorkflow(nil, nil, nil, usecase.NewQueryBuilder(10), logger.NewNoOpLogger())
	}
	return NewStore(ttl, factory, logger.NewTestLogger(t))
}

func TestStore(t *testing.T) {
	t.Run("create issues distinct sessions", func(t *testing.T) {
		store := newTestStore(t, time.Minute)

		id1, w1 := store.Create()
		id2, w2 := store.Create()

		assert.NotEmpty(t, id1)
		assert.NotEqual(t, id1, id2)
		assert.NotSame(t, w1, w2)
		assert.Equal(t, 2, store.Size())
	})

	t.Run("get returns the same workflow", func(t *testing.T) {
		store := newTestStore(t, time.Minute)
		id, created := store.Create()

		got, err := store.Get(id)
		require.NoError(t, err)
		assert.Same(t, created, got)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		store := newTestStore(t, time.Minute)

		_, err := store.Get("no-such-session")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("expired session is not found", func(t *testing.T) {
		store := newTestStore(t, 10*time.Millisecond)
		id, _ := store.Create()

		time.Sleep(20 * time.Millisecond)

		_, err := store.Get(id)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("access renews the deadline", func(t *testing.T) {
		store := newTestStore(t, 50*time.Millisecond)
		id, _ := store.Create()

		// Keep touching the session past its original TTL.
		for i := 0; i < 4; i++ {
			time.Sleep(25 * time.Millisecond)
			_, err := store.Get(id)
			require.NoError(t, err)
		}
	})

	t.Run("get or create reuses a live session", func(t *testing.T) {
		store := newTestStore(t, time.Minute)
		id, created := store.Create()

		gotID, got := store.GetOrCreate(id)
		assert.Equal(t, id, gotID)
		assert.Same(t, created, got)
	})

	t.Run("get or create replaces unknown and empty ids", func(t *testing.T) {
		store := newTestStore(t, time.Minute)

		id1, _ := store.GetOrCreate("")
		id2, _ := store.GetOrCreate("expired-or-bogus")

		assert.NotEmpty(t, id1)
		assert.NotEmpty(t, id2)
		assert.NotEqual(t, id1, id2)
	})

	t.Run("delete removes the session", func(t *testing.T) {
		store := newTestStore(t, time.Minute)
		id, _ := store.Create()

		store.Delete(id)

		_, err := store.Get(id)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.Equal(t, 0, store.Size())
	})
}
