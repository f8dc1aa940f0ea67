package browse_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trolleyhk/trolley/internal/core/browse"
	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/search"
)

func catalog() []domain.Product {
	return []domain.Product{
		{ProductID: "1", Name: "Milk", Category: "Dairy"},
		{ProductID: "2", Name: "Bread", Category: "Bakery"},
	}
}

func loaded(t *testing.T, mode search.Mode) *browse.Controller {
	t.Helper()
	c := browse.New(mode)
	seq := c.BeginLoad()
	require.True(t, c.ApplyLoad(seq, catalog(), nil))
	return c
}

func TestControllerLoad(t *testing.T) {
	t.Run("StartsIdle", func(t *testing.T) {
		c := browse.New(search.ModeClient)
		assert.Equal(t, browse.PhaseIdle, c.Phase())
		assert.Nil(t, c.Snapshot())
	})

	t.Run("LoadingThenLoaded", func(t *testing.T) {
		c := browse.New(search.ModeClient)
		seq := c.BeginLoad()
		assert.Equal(t, browse.PhaseLoading, c.Phase())

		require.True(t, c.ApplyLoad(seq, catalog(), nil))
		assert.Equal(t, browse.PhaseLoaded, c.Phase())
		assert.Equal(t, catalog(), c.Snapshot())
		assert.Equal(t, catalog(), c.Products())
	})

	t.Run("LoadFailure", func(t *testing.T) {
		c := browse.New(search.ModeClient)
		seq := c.BeginLoad()
		require.True(t, c.ApplyLoad(seq, nil, errors.New("connection refused")))
		assert.Equal(t, browse.PhaseError, c.Phase())
		assert.Equal(t, "connection refused", c.ErrMessage())
	})

	t.Run("ReloadReplacesSnapshot", func(t *testing.T) {
		c := loaded(t, search.ModeClient)
		next := []domain.Product{{ProductID: "3", Name: "Eggs", Category: "Dairy"}}

		seq := c.BeginLoad()
		require.True(t, c.ApplyLoad(seq, next, nil))
		assert.Equal(t, next, c.Snapshot())
		assert.Equal(t, next, c.Products())
	})

	t.Run("FailedReloadKeepsSnapshot", func(t *testing.T) {
		c := loaded(t, search.ModeClient)
		seq := c.BeginLoad()
		require.True(t, c.ApplyLoad(seq, nil, errors.New("boom")))
		assert.Equal(t, browse.PhaseError, c.Phase())
		assert.Equal(t, catalog(), c.Snapshot())
	})
}

func TestControllerClientSearch(t *testing.T) {
	t.Run("SynchronousWithoutLoading", func(t *testing.T) {
		c := loaded(t, search.ModeClient)
		seq, async := c.Search("dai")
		assert.False(t, async)
		assert.Zero(t, seq)
		assert.Equal(t, browse.PhaseLoaded, c.Phase())

		require.Len(t, c.Products(), 1)
		assert.Equal(t, "1", c.Products()[0].ProductID)
		assert.Equal(t, "dai", c.Query())
	})

	t.Run("EmptyQueryShowsAll", func(t *testing.T) {
		c := loaded(t, search.ModeClient)
		c.Search("dai")
		c.Search("")
		assert.Equal(t, catalog(), c.Products())
	})

	t.Run("BeforeAnyLoad", func(t *testing.T) {
		c := browse.New(search.ModeClient)
		_, async := c.Search("milk")
		assert.False(t, async)
		assert.Equal(t, browse.PhaseIdle, c.Phase())
		assert.Empty(t, c.Products())
	})

	t.Run("LoadClearsQuery", func(t *testing.T) {
		c := loaded(t, search.ModeClient)
		c.Search("dai")
		next := append(catalog(), domain.Product{ProductID: "3", Name: "Daikon", Category: "Produce"})

		seq := c.BeginLoad()
		require.True(t, c.ApplyLoad(seq, next, nil))
		// load requests show-all, so the query is gone
		assert.Empty(t, c.Query())
		assert.Equal(t, next, c.Products())
	})
}

func TestControllerServerSearch(t *testing.T) {
	dairy := []domain.Product{{ProductID: "9", Name: "Yogurt", Category: "Dairy"}}

	t.Run("GoesThroughLoading", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seq, async := c.Search("Dairy")
		require.True(t, async)
		assert.Equal(t, browse.PhaseLoading, c.Phase())

		require.True(t, c.ApplySearch(seq, dairy, nil))
		assert.Equal(t, browse.PhaseLoaded, c.Phase())
		assert.Equal(t, dairy, c.Products())
	})

	t.Run("KeepsSnapshot", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seq, _ := c.Search("Dairy")
		require.True(t, c.ApplySearch(seq, dairy, nil))
		assert.Equal(t, catalog(), c.Snapshot())
	})

	t.Run("FailureShowsMessage", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seq, _ := c.Search("Dairy")
		require.True(t, c.ApplySearch(seq, nil, errors.New("status 500")))
		assert.Equal(t, browse.PhaseError, c.Phase())
		assert.Equal(t, "status 500", c.ErrMessage())
	})

	t.Run("EmptyQueryResetsWithoutRequest", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seq, async := c.Search("")
		assert.False(t, async)
		assert.Zero(t, seq)
		assert.Equal(t, browse.PhaseLoaded, c.Phase())
		assert.Equal(t, catalog(), c.Products())
	})
}

func TestControllerStaleResponses(t *testing.T) {
	resultA := []domain.Product{{ProductID: "a", Name: "Apple", Category: "Produce"}}
	resultB := []domain.Product{{ProductID: "b", Name: "Banana", Category: "Produce"}}

	t.Run("LastInitiatedWins", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seqA, _ := c.Search("app")
		seqB, _ := c.Search("ban")

		require.True(t, c.ApplySearch(seqB, resultB, nil))
		assert.False(t, c.ApplySearch(seqA, resultA, nil))

		assert.Equal(t, resultB, c.Products())
		assert.Equal(t, browse.PhaseLoaded, c.Phase())
	})

	t.Run("StaleFailureIsDiscardedSilently", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seqA, _ := c.Search("app")
		seqB, _ := c.Search("ban")

		require.True(t, c.ApplySearch(seqB, resultB, nil))
		assert.False(t, c.ApplySearch(seqA, nil, errors.New("timeout")))
		assert.Equal(t, browse.PhaseLoaded, c.Phase())
		assert.Empty(t, c.ErrMessage())
	})

	t.Run("InOrderCompletionsBothApply", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seqA, _ := c.Search("app")
		seqB, _ := c.Search("ban")

		require.True(t, c.ApplySearch(seqA, resultA, nil))
		require.True(t, c.ApplySearch(seqB, resultB, nil))
		assert.Equal(t, resultB, c.Products())
	})

	t.Run("StaleLoadAfterNewerSearch", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		loadSeq := c.BeginLoad()
		searchSeq, _ := c.Search("ban")

		require.True(t, c.ApplySearch(searchSeq, resultB, nil))
		assert.False(t, c.ApplyLoad(loadSeq, resultA, nil))
		assert.Equal(t, resultB, c.Products())
	})
}

func TestControllerReset(t *testing.T) {
	t.Run("RestoresSnapshotAndClearsQuery", func(t *testing.T) {
		c := loaded(t, search.ModeClient)
		c.Search("dai")
		c.Reset()
		assert.Equal(t, catalog(), c.Products())
		assert.Empty(t, c.Query())
		assert.Equal(t, browse.PhaseLoaded, c.Phase())
	})

	t.Run("ClearsError", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seq, _ := c.Search("Dairy")
		require.True(t, c.ApplySearch(seq, nil, errors.New("boom")))

		c.Reset()
		assert.Equal(t, browse.PhaseLoaded, c.Phase())
		assert.Empty(t, c.ErrMessage())
		assert.Equal(t, catalog(), c.Products())
	})

	t.Run("IdleWithoutSnapshot", func(t *testing.T) {
		c := browse.New(search.ModeClient)
		c.Reset()
		assert.Equal(t, browse.PhaseIdle, c.Phase())
	})

	t.Run("DiscardsInFlightCompletions", func(t *testing.T) {
		c := loaded(t, search.ModeServer)
		seq, _ := c.Search("Dairy")
		c.Reset()

		stale := []domain.Product{{ProductID: "9", Name: "Yogurt", Category: "Dairy"}}
		assert.False(t, c.ApplySearch(seq, stale, nil))
		assert.Equal(t, catalog(), c.Products())
	})
}
