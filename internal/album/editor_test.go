package album

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/selection"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/state"
	tu "github.com/desertthunder/galx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type editorView struct {
	mu         sync.Mutex
	albums     []models.Album
	covers     []string
	candidates []models.Item
	chosen     []string
	closed     int
}

func (v *editorView) RenderAlbum(album models.Album, coverID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.albums = append(v.albums, album)
	v.covers = append(v.covers, coverID)
}

func (v *editorView) RenderCandidates(candidates []models.Item, chosen []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.candidates = candidates
	v.chosen = chosen
}

func (v *editorView) CloseEditor() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed++
}

func (v *editorView) lastCover() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.covers) == 0 {
		return ""
	}
	return v.covers[len(v.covers)-1]
}

type refresher struct {
	mu      sync.Mutex
	folders []string
}

func (r *refresher) RefreshFolder(_ context.Context, folderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folders = append(r.folders, folderID)
	return nil
}

type displaying string

func (d displaying) IsDisplaying(albumID string) bool { return string(d) == albumID }

type editorFixture struct {
	api      *tu.FakeGallery
	view     *editorView
	back     *tu.BackStack
	notifier *tu.RecordingNotifier
	refresh  *refresher
	editor   *Editor
}

func newEditorFixture(t *testing.T, display DisplayChecker) *editorFixture {
	t.Helper()
	api := tu.NewFakeGallery()
	api.PutAlbum(models.Album{
		ID: "a1", Name: "Trip", FolderID: "f1", CoverItemID: "p1",
		Items: []models.Item{{ID: "p1", Kind: models.KindPhoto}, {ID: "p2", Kind: models.KindPhoto}, {ID: "p3", Kind: models.KindPhoto}},
	})
	api.PutFolder(models.FolderContent{FolderID: "f1", Items: []models.Item{
		{ID: "p1", Kind: models.KindPhoto, Media: true, Attached: true},
		{ID: "p4", Kind: models.KindPhoto, Media: true},
		{ID: "p5", Kind: models.KindPhoto, Media: true},
		{ID: "p6", Kind: models.KindPhoto, Media: true, Attached: true},
		{ID: "doc", Kind: models.KindOther},
		{ID: "a1", Kind: models.KindAlbum},
	}})

	f := &editorFixture{
		api:      api,
		view:     &editorView{},
		back:     &tu.BackStack{},
		notifier: &tu.RecordingNotifier{},
		refresh:  &refresher{},
	}
	f.editor = NewEditor(EditorDeps{
		API:       api,
		State:     state.New("f1", selection.NewStore(nil), nil),
		View:      f.view,
		Back:      f.back,
		Notifier:  f.notifier,
		Refresher: f.refresh,
		Display:   display,
	})
	return f
}

func TestEditorOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("renders members with the effective cover", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))

		assert.Equal(t, PhaseOpen, f.editor.Phase())
		assert.Equal(t, "p1", f.view.lastCover())
		assert.Equal(t, []string{editorBackKey}, f.back.Keys())

		entries := f.editor.ReorderEntries()
		require.Len(t, entries, 4)
		assert.True(t, entries[3].Control)
	})

	t.Run("fetch failure returns to closed", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		f.api.Fail["GetAlbum"] = errors.New("offline")

		assert.Error(t, f.editor.Open(ctx, "a1"))
		assert.Equal(t, PhaseClosed, f.editor.Phase())
		assert.Empty(t, f.view.albums)
		assert.Empty(t, f.back.Keys())
		assert.Zero(t, f.notifier.Count())
	})

	t.Run("failed open of another album tears down the previous session", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))
		require.Equal(t, []string{editorBackKey}, f.back.Keys())
		f.api.Fail["GetAlbum:a2"] = errors.New("offline")

		assert.Error(t, f.editor.Open(ctx, "a2"))
		assert.Equal(t, PhaseClosed, f.editor.Phase())
		assert.Empty(t, f.back.Keys())
		assert.Equal(t, 1, f.view.closed)
	})

	t.Run("fetch resolved after close is discarded", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		f.api.OnGetAlbum = func(string) {
			f.api.OnGetAlbum = nil
			_ = f.editor.Close(ctx)
		}

		assert.ErrorIs(t, f.editor.Open(ctx, "a1"), shared.ErrStaleSession)
		assert.Equal(t, PhaseClosed, f.editor.Phase())
		assert.Empty(t, f.view.albums)
	})

	t.Run("new open replaces transient state", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		f.api.PutAlbum(models.Album{ID: "a2", FolderID: "f1", Items: []models.Item{{ID: "p9"}}})
		require.NoError(t, f.editor.Open(ctx, "a1"))
		require.NoError(t, f.editor.OpenAddPhotos(ctx))
		_, err := f.editor.ToggleCandidate("p4")
		require.NoError(t, err)

		require.NoError(t, f.editor.Open(ctx, "a2"))
		snap := f.editor.Snapshot()
		assert.Equal(t, "a2", snap.AlbumID)
		assert.False(t, snap.AddOpen)
		assert.Empty(t, snap.Chosen)
		assert.Equal(t, []string{editorBackKey}, f.back.Keys())
	})
}

func TestEditorCover(t *testing.T) {
	ctx := context.Background()

	t.Run("set then remove cover falls back to a remaining member", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))

		require.NoError(t, f.editor.SetCover(ctx, "p3"))
		assert.Equal(t, "p3", f.view.lastCover())
		assert.Equal(t, "p3", f.editor.Snapshot().PendingCover)

		require.NoError(t, f.editor.RemoveItem(ctx, "p3"))
		server, _ := f.api.Album("a1")
		assert.Contains(t, []string{"p1", "p2"}, server.EffectiveCover())
		assert.Equal(t, server.EffectiveCover(), f.view.lastCover())
		assert.Empty(t, f.editor.Snapshot().PendingCover)

		assert.Len(t, f.api.CallsTo("GetAlbum"), 2, "remove re-fetches the album")
	})

	t.Run("removed cover is never shown when the re-fetch fails", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))
		f.api.Fail["GetAlbum"] = errors.New("offline")

		require.NoError(t, f.editor.RemoveItem(ctx, "p1"))
		assert.Equal(t, "p2", f.view.lastCover())
		assert.NotContains(t, f.editor.Snapshot().Album.ItemIDs(), "p1")
	})

	t.Run("failed save notifies", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))
		f.api.Fail["SetCover"] = errors.New("boom")

		assert.Error(t, f.editor.SetCover(ctx, "p2"))
		assert.Equal(t, 1, f.notifier.Count())
		assert.Equal(t, "p2", f.view.lastCover(), "cover is rendered optimistically")
	})

	t.Run("control and non-members cannot be cover", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))

		assert.ErrorIs(t, f.editor.SetCover(ctx, AddControlID), shared.ErrNotAMember)
		assert.ErrorIs(t, f.editor.SetCover(ctx, "p9"), shared.ErrNotAMember)
		assert.Empty(t, f.api.CallsTo("SetCover"))
	})

	t.Run("operations require an open session", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		assert.ErrorIs(t, f.editor.SetCover(ctx, "p1"), shared.ErrSessionClosed)
		assert.ErrorIs(t, f.editor.RemoveItem(ctx, "p1"), shared.ErrSessionClosed)
		assert.ErrorIs(t, f.editor.OpenAddPhotos(ctx), shared.ErrSessionClosed)
		assert.ErrorIs(t, f.editor.StartReorder("p1"), shared.ErrSessionClosed)
	})
}

func TestEditorAddPhotos(t *testing.T) {
	ctx := context.Background()

	t.Run("candidates are unattached media of the working folder", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))
		require.NoError(t, f.editor.OpenAddPhotos(ctx))

		ids := make([]string, 0, len(f.view.candidates))
		for _, c := range f.view.candidates {
			ids = append(ids, c.ID)
		}
		assert.Equal(t, []string{"p4", "p5"}, ids)
		assert.Empty(t, f.view.chosen)
		assert.Equal(t, []string{editorBackKey, addPhotosBackKey}, f.back.Keys())
	})

	t.Run("commit adds chosen ids in one call and reloads", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))
		require.NoError(t, f.editor.OpenAddPhotos(ctx))

		assert.ErrorIs(t, f.editor.CommitAddPhotos(ctx), shared.ErrNoSelection)

		on, err := f.editor.ToggleCandidate("p5")
		require.NoError(t, err)
		assert.True(t, on)
		_, err = f.editor.ToggleCandidate("p4")
		require.NoError(t, err)
		assert.Equal(t, []string{"p4", "p5"}, f.view.chosen)

		_, err = f.editor.ToggleCandidate("p1")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)

		require.NoError(t, f.editor.CommitAddPhotos(ctx))
		calls := f.api.CallsTo("AddItems")
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"p4", "p5"}, calls[0].IDs)

		snap := f.editor.Snapshot()
		assert.False(t, snap.AddOpen)
		assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, snap.Album.ItemIDs())
		assert.Equal(t, []string{editorBackKey}, f.back.Keys())
	})

	t.Run("failed commit notifies and keeps the sub-flow open", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))
		require.NoError(t, f.editor.OpenAddPhotos(ctx))
		_, _ = f.editor.ToggleCandidate("p4")
		f.api.Fail["AddItems"] = errors.New("boom")

		assert.Error(t, f.editor.CommitAddPhotos(ctx))
		assert.Equal(t, 1, f.notifier.Count())
		assert.True(t, f.editor.Snapshot().AddOpen)
	})

	t.Run("back closes the sub-flow before the session", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))
		require.NoError(t, f.editor.OpenAddPhotos(ctx))

		assert.True(t, f.back.Back())
		assert.False(t, f.editor.Snapshot().AddOpen)
		assert.Equal(t, PhaseOpen, f.editor.Phase())

		assert.True(t, f.back.Back())
		assert.Equal(t, PhaseClosed, f.editor.Phase())
		assert.False(t, f.back.Back())
	})
}

func TestEditorReorder(t *testing.T) {
	ctx := context.Background()
	f := newEditorFixture(t, nil)
	require.NoError(t, f.editor.Open(ctx, "a1"))

	require.NoError(t, f.editor.StartReorder("p3"))
	assert.True(t, f.editor.NudgeReorder(-1))
	assert.True(t, f.editor.MoveReorder("p1", 0, 0, 100))

	result, err := f.editor.EndReorder(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1", "p2"}, result.IDs)
	assert.Equal(t, []string{"p3", "p1", "p2"}, f.editor.Snapshot().Album.ItemIDs())

	calls := f.api.CallsTo("ReorderAlbum")
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].IDs, AddControlID)
}

func TestEditorClose(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes the owning folder", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Open(ctx, "a1"))
		require.NoError(t, f.editor.OpenAddPhotos(ctx))

		require.NoError(t, f.editor.Close(ctx))
		assert.Equal(t, PhaseClosed, f.editor.Phase())
		assert.Equal(t, []string{"f1"}, f.refresh.folders)
		assert.Equal(t, 1, f.view.closed)
		assert.Empty(t, f.back.Keys())

		snap := f.editor.Snapshot()
		assert.False(t, snap.AddOpen)
		assert.Empty(t, snap.Candidates)
	})

	t.Run("skips refresh while the viewer shows the album", func(t *testing.T) {
		f := newEditorFixture(t, displaying("a1"))
		require.NoError(t, f.editor.Open(ctx, "a1"))

		require.NoError(t, f.editor.Close(ctx))
		assert.Empty(t, f.refresh.folders)
	})

	t.Run("closing a closed session does nothing", func(t *testing.T) {
		f := newEditorFixture(t, nil)
		require.NoError(t, f.editor.Close(ctx))
		assert.Empty(t, f.refresh.folders)
		assert.Zero(t, f.view.closed)
	})
}
