package selection

import (
	"math/rand"
	"testing"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	tu "github.com/desertthunder/galx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("Toggle", func(t *testing.T) {
		view := &tu.RecordingView{}
		s := NewStore(view)

		selected, err := s.Toggle(models.KindPhoto, "p1")
		require.NoError(t, err)
		assert.True(t, selected)
		assert.Equal(t, []string{"p1"}, view.Marked)
		visible, count := view.Toolbar()
		assert.True(t, visible)
		assert.Equal(t, 1, count)

		selected, err = s.Toggle(models.KindPhoto, "p1")
		require.NoError(t, err)
		assert.False(t, selected)
		assert.Empty(t, view.Marked)
		visible, count = view.Toolbar()
		assert.False(t, visible)
		assert.Zero(t, count)
	})

	t.Run("Toggle keeps photos and albums apart", func(t *testing.T) {
		s := NewStore(nil)
		_, _ = s.Toggle(models.KindPhoto, "x")
		_, _ = s.Toggle(models.KindAlbum, "x")

		snap := s.Snapshot()
		assert.Equal(t, []string{"x"}, snap.Photos)
		assert.Equal(t, []string{"x"}, snap.Albums)
		assert.Equal(t, 2, s.Count())
	})

	t.Run("Toggle rejects unselectable input", func(t *testing.T) {
		s := NewStore(nil)
		_, err := s.Toggle(models.KindOther, "doc")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
		_, err = s.Toggle(models.KindPhoto, "")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
		assert.Zero(t, s.Count())
	})

	t.Run("SelectAll skips hidden and unselectable items", func(t *testing.T) {
		view := &tu.RecordingView{}
		s := NewStore(view)
		items := []models.Item{
			{ID: "p1", Kind: models.KindPhoto},
			{ID: "p2", Kind: models.KindPhoto, Hidden: true},
			{ID: "a1", Kind: models.KindAlbum},
			{ID: "f1", Kind: models.KindOther},
		}

		assert.Equal(t, 2, s.SelectAll(items))
		assert.Equal(t, 0, s.SelectAll(items))
		assert.ElementsMatch(t, []string{"p1", "a1"}, view.Marked)
		_, count := view.Toolbar()
		assert.Equal(t, 2, count)
	})

	t.Run("SelectAll then Clear empties both sets", func(t *testing.T) {
		view := &tu.RecordingView{}
		s := NewStore(view)
		s.SelectAll([]models.Item{{ID: "p1", Kind: models.KindPhoto}, {ID: "a1", Kind: models.KindAlbum}})
		s.Clear()

		assert.True(t, s.Snapshot().Empty())
		assert.Empty(t, view.Marked)
		visible, _ := view.Toolbar()
		assert.False(t, visible)
	})

	t.Run("Clear on empty store still syncs", func(t *testing.T) {
		view := &tu.RecordingView{}
		s := NewStore(view)
		s.Clear()
		s.Clear()
		assert.Equal(t, 2, view.Syncs)
	})

	t.Run("Prune drops ids that are no longer rendered", func(t *testing.T) {
		s := NewStore(nil)
		_, _ = s.Toggle(models.KindPhoto, "p1")
		_, _ = s.Toggle(models.KindPhoto, "p2")
		_, _ = s.Toggle(models.KindAlbum, "a1")

		removed := s.Prune([]models.Item{{ID: "p1", Kind: models.KindPhoto}, {ID: "a1", Kind: models.KindPhoto}})
		assert.Equal(t, 2, removed)
		assert.Equal(t, Snapshot{Photos: []string{"p1"}, Albums: []string{}}, s.Snapshot())
	})

	t.Run("SetView syncs immediately", func(t *testing.T) {
		s := NewStore(nil)
		_, _ = s.Toggle(models.KindAlbum, "a1")

		view := &tu.RecordingView{}
		s.SetView(view)
		assert.Equal(t, []string{"a1"}, view.Marked)
	})
}

func TestStoreToolbarMatchesSetsForAnySequence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d"}
	kinds := []models.ItemKind{models.KindPhoto, models.KindAlbum}

	for run := 0; run < 50; run++ {
		view := &tu.RecordingView{}
		s := NewStore(view)

		for step := 0; step < 40; step++ {
			switch rng.Intn(10) {
			case 0:
				s.Clear()
			case 1:
				s.SelectAll([]models.Item{{ID: "a", Kind: models.KindPhoto}, {ID: "b", Kind: models.KindAlbum}})
			default:
				_, err := s.Toggle(kinds[rng.Intn(2)], ids[rng.Intn(len(ids))])
				require.NoError(t, err)
			}

			snap := s.Snapshot()
			visible, count := view.Toolbar()
			require.Equal(t, len(snap.Photos)+len(snap.Albums), count)
			require.Equal(t, count > 0, visible)
			require.Len(t, view.Marked, count)
		}
	}
}
