package album

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	tu "github.com/desertthunder/galx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUnlocker struct {
	items []models.Item
	err   error
}

func (u *recordingUnlocker) Unlock(item models.Item) error {
	u.items = append(u.items, item)
	return u.err
}

func newNavFixture() (*tu.FakeGallery, *tu.FakeViewer) {
	api := tu.NewFakeGallery()
	api.PutAlbum(models.Album{ID: "a1", Items: []models.Item{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}})
	api.PutAlbum(models.Album{ID: "solo", Items: []models.Item{{ID: "p9"}}})
	api.PutAlbum(models.Album{ID: "empty"})
	return api, &tu.FakeViewer{}
}

func TestNavigatorOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("hands snapshot and start index to the viewer", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)

		opened, err := nav.Open(ctx, "a1", false)
		require.NoError(t, err)
		assert.True(t, opened)
		assert.Equal(t, []string{"context:a1:0", "expand:a1:3", "load:p1:0", "show", "indicator:1/3"}, viewer.Recorded())
		assert.True(t, nav.IsDisplaying("a1"))
	})

	t.Run("fromEnd starts at the last item", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)

		_, err := nav.Open(ctx, "a1", true)
		require.NoError(t, err)
		_, index, _ := nav.Current()
		assert.Equal(t, 2, index)
		assert.Contains(t, viewer.Recorded(), "load:p3:2")
	})

	t.Run("empty album touches nothing", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)
		_, err := nav.Open(ctx, "a1", false)
		require.NoError(t, err)
		before := viewer.Recorded()

		opened, err := nav.Open(ctx, "empty", false)
		require.NoError(t, err)
		assert.False(t, opened)
		assert.Equal(t, before, viewer.Recorded())

		albumID, index, items := nav.Current()
		assert.Equal(t, "a1", albumID)
		assert.Zero(t, index)
		assert.Len(t, items, 3)
	})

	t.Run("a newer open of an empty album supersedes a pending one", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)
		api.OnGetAlbum = func(albumID string) {
			if albumID != "a1" {
				return
			}
			api.OnGetAlbum = nil
			opened, err := nav.Open(ctx, "empty", false)
			assert.NoError(t, err)
			assert.False(t, opened)
		}

		_, err := nav.Open(ctx, "a1", false)
		assert.ErrorIs(t, err, shared.ErrStaleSession)
		assert.Empty(t, viewer.Recorded())
		assert.False(t, nav.IsDisplaying("a1"))
	})

	t.Run("fetch failure is returned without touching the viewer", func(t *testing.T) {
		api, viewer := newNavFixture()
		api.Fail["GetAlbum"] = errors.New("offline")
		nav := NewNavigator(api, viewer, nil, nil, nil)

		_, err := nav.Open(ctx, "a1", false)
		assert.Error(t, err)
		assert.Empty(t, viewer.Recorded())
		assert.False(t, nav.IsDisplaying("a1"))
	})

	t.Run("fetch resolved after close is discarded", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)
		api.OnGetAlbum = func(string) { nav.Close() }

		_, err := nav.Open(ctx, "a1", false)
		assert.ErrorIs(t, err, shared.ErrStaleSession)
		assert.Empty(t, viewer.Recorded())
	})
}

func TestNavigatorNavigate(t *testing.T) {
	ctx := context.Background()

	t.Run("wraps in both directions", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)
		_, err := nav.Open(ctx, "a1", false)
		require.NoError(t, err)

		assert.True(t, nav.Navigate(-1))
		_, index, _ := nav.Current()
		assert.Equal(t, 2, index)

		assert.True(t, nav.Navigate(1))
		_, index, _ = nav.Current()
		assert.Equal(t, 0, index)

		events := viewer.Recorded()
		assert.Equal(t, "indicator:1/3", events[len(events)-1])
		assert.Contains(t, events, "load:p3:2")
	})

	t.Run("single item is a no-op", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)
		_, err := nav.Open(ctx, "solo", false)
		require.NoError(t, err)
		before := viewer.Recorded()

		assert.False(t, nav.Navigate(1))
		assert.Equal(t, before, viewer.Recorded())
	})

	t.Run("inactive navigator is a no-op", func(t *testing.T) {
		_, viewer := newNavFixture()
		nav := NewNavigator(tu.NewFakeGallery(), viewer, nil, nil, nil)
		assert.False(t, nav.Navigate(1))
	})

	t.Run("close ends display", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)
		_, _ = nav.Open(ctx, "a1", false)
		nav.Close()
		assert.False(t, nav.IsDisplaying("a1"))
		assert.False(t, nav.Navigate(1))
	})
}

func TestNavigatorOpenEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("denied is a no-op", func(t *testing.T) {
		api, viewer := newNavFixture()
		unlocker := &recordingUnlocker{}
		nav := NewNavigator(api, viewer, nil, unlocker, nil)

		gate, err := nav.OpenEntry(ctx, models.Item{ID: "a1", Kind: models.KindAlbum, Access: models.AccessDenied})
		require.NoError(t, err)
		assert.Equal(t, GateDenied, gate)
		assert.Empty(t, api.Calls())
		assert.Empty(t, unlocker.items)
		assert.Empty(t, viewer.Recorded())
	})

	t.Run("locked routes to unlock flow", func(t *testing.T) {
		api, viewer := newNavFixture()
		unlocker := &recordingUnlocker{}
		nav := NewNavigator(api, viewer, nil, unlocker, nil)
		item := models.Item{ID: "a1", Kind: models.KindAlbum, Access: models.AccessLocked, SafeID: "s1", UnlockMode: "pin"}

		gate, err := nav.OpenEntry(ctx, item)
		require.NoError(t, err)
		assert.Equal(t, GateLocked, gate)
		assert.Equal(t, []models.Item{item}, unlocker.items)
		assert.Empty(t, api.Calls())
	})

	t.Run("locked but unlocked opens", func(t *testing.T) {
		api, viewer := newNavFixture()
		unlocked := func(id string) bool { return id == "s1" }
		nav := NewNavigator(api, viewer, unlocked, &recordingUnlocker{}, nil)

		gate, err := nav.OpenEntry(ctx, models.Item{ID: "a1", Kind: models.KindAlbum, Access: models.AccessLocked, SafeID: "s1"})
		require.NoError(t, err)
		assert.Equal(t, GateOpened, gate)
		assert.True(t, nav.IsDisplaying("a1"))
	})

	t.Run("empty album reports empty gate", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)
		gate, err := nav.OpenEntry(ctx, models.Item{ID: "empty", Kind: models.KindAlbum})
		require.NoError(t, err)
		assert.Equal(t, GateEmpty, gate)
	})

	t.Run("photos are rejected", func(t *testing.T) {
		api, viewer := newNavFixture()
		nav := NewNavigator(api, viewer, nil, nil, nil)
		_, err := nav.OpenEntry(ctx, models.Item{ID: "p1", Kind: models.KindPhoto})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

func TestBrowserUnlocker(t *testing.T) {
	var opened string
	u := BrowserUnlocker{BaseURL: "https://photos.example.com", Open: func(url string) error {
		opened = url
		return nil
	}}

	require.NoError(t, u.Unlock(models.Item{ID: "a1", SafeID: "s1", UnlockMode: "password"}))
	assert.Equal(t, "https://photos.example.com/unlock/s1?mode=password", opened)
}
