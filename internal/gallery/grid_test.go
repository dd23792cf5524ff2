package gallery

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/selection"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/state"
	tu "github.com/desertthunder/galx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGrid struct {
	renders []models.FolderContent
}

func (r *recordingGrid) RenderGrid(content models.FolderContent) {
	r.renders = append(r.renders, content)
}

func newFixture(t *testing.T) (*tu.FakeGallery, *state.AppState, *recordingGrid, *Grid) {
	t.Helper()
	api := tu.NewFakeGallery()
	api.PutFolder(models.FolderContent{FolderID: "f1", Items: []models.Item{
		{ID: "p1", Kind: models.KindPhoto, Media: true},
		{ID: "p2", Kind: models.KindPhoto, Media: true},
		{ID: "a1", Kind: models.KindAlbum},
	}})
	api.PutFolder(models.FolderContent{FolderID: "f2", Items: []models.Item{{ID: "p9", Kind: models.KindPhoto}}})

	st := state.New("f1", selection.NewStore(nil), nil)
	view := &recordingGrid{}
	return api, st, view, NewGrid(api, st, view, nil)
}

func TestGrid(t *testing.T) {
	ctx := context.Background()

	t.Run("Refresh renders and prunes removed selections", func(t *testing.T) {
		api, st, view, grid := newFixture(t)
		_, _ = st.Selection.Toggle(models.KindPhoto, "p2")
		_, _ = st.Selection.Toggle(models.KindAlbum, "a1")

		require.NoError(t, api.DeletePhoto(ctx, "p2"))
		require.NoError(t, grid.Refresh(ctx))

		require.Len(t, view.renders, 1)
		assert.Len(t, view.renders[0].Items, 2)
		assert.Equal(t, selection.Snapshot{Photos: []string{}, Albums: []string{"a1"}}, st.Selection.Snapshot())
	})

	t.Run("Refresh failure keeps previous content", func(t *testing.T) {
		api, _, view, grid := newFixture(t)
		require.NoError(t, grid.Refresh(ctx))

		api.Fail["FolderContent"] = errors.New("offline")
		assert.Error(t, grid.Refresh(ctx))
		assert.Len(t, grid.Items(), 3)
		assert.Len(t, view.renders, 1)
	})

	t.Run("Open clears selection when the folder changes", func(t *testing.T) {
		_, st, _, grid := newFixture(t)
		_, _ = st.Selection.Toggle(models.KindPhoto, "p1")

		require.NoError(t, grid.Open(ctx, "f2"))
		assert.Equal(t, "f2", st.Folder())
		assert.Zero(t, st.Selection.Count())
		item, ok := grid.Lookup("p9")
		assert.True(t, ok)
		assert.Equal(t, "p9", item.ID)
	})

	t.Run("RefreshFolder ignores other folders", func(t *testing.T) {
		api, _, _, grid := newFixture(t)
		require.NoError(t, grid.RefreshFolder(ctx, "f2"))
		assert.Empty(t, api.CallsTo("FolderContent"))

		require.NoError(t, grid.RefreshFolder(ctx, "f1"))
		assert.Len(t, api.CallsTo("FolderContent"), 1)
	})

	t.Run("content for a folder left mid-flight is discarded", func(t *testing.T) {
		api, st, view, _ := newFixture(t)
		slow := &switchingAPI{inner: api, onFetch: func() { st.SetFolder("f2") }}
		grid := NewGrid(slow, st, view, nil)

		err := grid.Refresh(ctx)
		assert.ErrorIs(t, err, shared.ErrStaleSession)
		assert.Empty(t, view.renders)
	})
}

type switchingAPI struct {
	inner   API
	onFetch func()
}

func (s *switchingAPI) FolderContent(ctx context.Context, folderID string) (*models.FolderContent, error) {
	content, err := s.inner.FolderContent(ctx, folderID)
	s.onFetch()
	return content, err
}
