package tasks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/selection"
	"github.com/desertthunder/galx/internal/shared"
	tu "github.com/desertthunder/galx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSink struct {
	name string
	data []byte
	err  error
}

func (s *memSink) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.name = name
	s.data = buf.Bytes()
	return "mem://" + name, nil
}

type countingRefresher struct {
	mu    sync.Mutex
	count int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return r.err
}

type confirmFunc func(string) bool

func (f confirmFunc) Confirm(message string) bool { return f(message) }

type busyRecorder struct{ states []bool }

func (b *busyRecorder) SetBusy(busy bool) { b.states = append(b.states, busy) }

type journalCall struct {
	action models.Action
	target string
	failed bool
}

type memJournal struct {
	mu    sync.Mutex
	calls []journalCall
}

func (j *memJournal) Record(_ context.Context, action models.Action, targetID, _ string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, journalCall{action: action, target: targetID, failed: err != nil})
}

func selectionWith(t *testing.T, photos, albums []string) *selection.Store {
	t.Helper()
	store := selection.NewStore(nil)
	for _, id := range photos {
		_, err := store.Toggle(models.KindPhoto, id)
		require.NoError(t, err)
	}
	for _, id := range albums {
		_, err := store.Toggle(models.KindAlbum, id)
		require.NoError(t, err)
	}
	return store
}

func fixedNow() time.Time { return time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC) }

func TestDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("empty selection is a no-op", func(t *testing.T) {
		api := tu.NewFakeGallery()
		sink := &memSink{}
		c := NewBatchCoordinator(Deps{API: api, Selection: selection.NewStore(nil), Sink: sink})

		location, err := c.Download(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, location)
		assert.Empty(t, api.Calls())
	})

	t.Run("one request with the selected photo ids", func(t *testing.T) {
		api := tu.NewFakeGallery()
		api.Archive = []byte("zipdata")
		sink := &memSink{}
		busy := &busyRecorder{}
		journal := &memJournal{}
		prog := make(chan ProgressUpdate, 10)
		c := NewBatchCoordinator(Deps{
			API:       api,
			Selection: selectionWith(t, []string{"p2", "p1"}, []string{"a1"}),
			Sink:      sink,
			Controls:  busy,
			Journal:   journal,
			Now:       fixedNow,
		})

		location, err := c.Download(ctx, prog)
		require.NoError(t, err)

		calls := api.CallsTo("BatchDownload")
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"p1", "p2"}, calls[0].IDs)
		assert.Equal(t, []byte("zipdata"), sink.data)
		assert.True(t, strings.HasPrefix(sink.name, "photos_20261019_123000_"))
		assert.Equal(t, "mem://"+sink.name, location)
		assert.Equal(t, []bool{true, false}, busy.states)
		require.Len(t, journal.calls, 1)
		assert.False(t, journal.calls[0].failed)

		close(prog)
		var phases []Phase
		for u := range prog {
			phases = append(phases, u.Phase)
		}
		assert.Equal(t, []Phase{DownloadPhotos, SaveArchive}, phases)
	})

	t.Run("failure notifies and re-enables controls", func(t *testing.T) {
		api := tu.NewFakeGallery()
		api.Fail["BatchDownload"] = errors.New("boom")
		notifier := &tu.RecordingNotifier{}
		busy := &busyRecorder{}
		c := NewBatchCoordinator(Deps{
			API:       api,
			Selection: selectionWith(t, []string{"p1"}, nil),
			Sink:      &memSink{},
			Notifier:  notifier,
			Controls:  busy,
		})

		_, err := c.Download(ctx, nil)
		assert.Error(t, err)
		assert.Equal(t, 1, notifier.Count())
		assert.Equal(t, []bool{true, false}, busy.states)
		assert.Len(t, api.CallsTo("BatchDownload"), 1)
	})

	t.Run("sink failure is reported", func(t *testing.T) {
		api := tu.NewFakeGallery()
		notifier := &tu.RecordingNotifier{}
		c := NewBatchCoordinator(Deps{
			API:       api,
			Selection: selectionWith(t, []string{"p1"}, nil),
			Sink:      &memSink{err: errors.New("disk full")},
			Notifier:  notifier,
		})

		_, err := c.Download(ctx, nil)
		assert.EqualError(t, err, "disk full")
		assert.Equal(t, 1, notifier.Count())
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmation shows the total count", func(t *testing.T) {
		api := tu.NewFakeGallery()
		var asked string
		c := NewBatchCoordinator(Deps{
			API:       api,
			Selection: selectionWith(t, []string{"p1", "p2"}, []string{"a1"}),
			Confirmer: confirmFunc(func(m string) bool { asked = m; return false }),
		})

		result, err := c.Delete(ctx, nil)
		require.NoError(t, err)
		assert.True(t, result.Cancelled)
		assert.Equal(t, "Delete 3 selected item(s)?", asked)
		assert.Empty(t, api.Calls())
	})

	t.Run("nothing selected", func(t *testing.T) {
		c := NewBatchCoordinator(Deps{API: tu.NewFakeGallery(), Selection: selection.NewStore(nil)})
		_, err := c.Delete(ctx, nil)
		assert.ErrorIs(t, err, shared.ErrNoSelection)
	})

	t.Run("middle failure still attempts every id and clears both sets", func(t *testing.T) {
		api := tu.NewFakeGallery()
		photos := []string{"p1", "p2", "p3", "p4"}
		albums := []string{"a1", "a2"}
		api.PutAlbum(models.Album{ID: "a1"})
		api.PutAlbum(models.Album{ID: "a2"})
		// N = 6, the third attempt fails
		api.Fail["DeletePhoto:p3"] = errors.New("server error")
		store := selectionWith(t, photos, albums)
		refresher := &countingRefresher{}
		journal := &memJournal{}
		notifier := &tu.RecordingNotifier{}
		c := NewBatchCoordinator(Deps{
			API:       api,
			Selection: store,
			Refresher: refresher,
			Journal:   journal,
			Notifier:  notifier,
			Confirmer: confirmFunc(func(string) bool { return true }),
		})

		result, err := c.Delete(ctx, nil)
		require.NoError(t, err)

		calls := api.Calls()
		require.Len(t, calls, 6)
		var order []string
		for _, call := range calls {
			order = append(order, call.ID)
		}
		assert.Equal(t, []string{"p1", "p2", "p3", "p4", "a1", "a2"}, order)

		assert.Equal(t, 6, result.Attempted)
		assert.Len(t, result.Deleted, 5)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "p3", result.Failed[0].ID)

		assert.True(t, store.Snapshot().Empty())
		assert.Equal(t, 1, refresher.count)
		assert.Len(t, journal.calls, 6)
		assert.Zero(t, notifier.Count(), "best-effort loop stays silent")
	})

	t.Run("all failing still clears and refreshes", func(t *testing.T) {
		api := tu.NewFakeGallery()
		api.Fail["DeletePhoto"] = errors.New("offline")
		api.Fail["DeleteAlbum"] = errors.New("offline")
		store := selectionWith(t, []string{"p1"}, []string{"a1"})
		refresher := &countingRefresher{err: errors.New("still offline")}
		c := NewBatchCoordinator(Deps{API: api, Selection: store, Refresher: refresher})

		result, err := c.Delete(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, result.Failed, 2)
		assert.Equal(t, 0, store.Count())
		assert.Equal(t, 1, refresher.count)
	})

	t.Run("progress reports each attempt", func(t *testing.T) {
		api := tu.NewFakeGallery()
		prog := make(chan ProgressUpdate, 20)
		c := NewBatchCoordinator(Deps{API: api, Selection: selectionWith(t, []string{"p1", "p2"}, nil)})

		_, err := c.Delete(ctx, prog)
		require.NoError(t, err)
		close(prog)

		var messages []string
		for u := range prog {
			messages = append(messages, u.Message)
		}
		assert.Equal(t, []string{"[1/2] deleting photo p1", "[2/2] deleting photo p2"}, messages)
	})
}

func TestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("one request then refresh", func(t *testing.T) {
		api := tu.NewFakeGallery()
		api.PutFolder(models.FolderContent{FolderID: "f2"})
		refresher := &countingRefresher{}
		c := NewBatchCoordinator(Deps{API: api, Selection: selectionWith(t, []string{"p1", "p2"}, []string{"a1"}), Refresher: refresher})

		require.NoError(t, c.Move(ctx, "f2", nil))
		calls := api.CallsTo("MovePhotos")
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"p1", "p2"}, calls[0].IDs)
		assert.Equal(t, "f2", calls[0].Target)
		assert.Equal(t, 1, refresher.count)
	})

	t.Run("failure notifies without refresh", func(t *testing.T) {
		api := tu.NewFakeGallery()
		api.Fail["MovePhotos"] = errors.New("denied")
		store := selectionWith(t, []string{"p1"}, nil)
		refresher := &countingRefresher{}
		notifier := &tu.RecordingNotifier{}
		c := NewBatchCoordinator(Deps{API: api, Selection: store, Refresher: refresher, Notifier: notifier})

		assert.Error(t, c.Move(ctx, "f2", nil))
		assert.Equal(t, 1, notifier.Count())
		assert.Zero(t, refresher.count)
		assert.Equal(t, 1, store.Count(), "no local rollback or clear")
	})

	t.Run("requires target and photos", func(t *testing.T) {
		c := NewBatchCoordinator(Deps{API: tu.NewFakeGallery(), Selection: selectionWith(t, nil, []string{"a1"})})
		assert.ErrorIs(t, c.Move(ctx, "", nil), shared.ErrMissingArgument)
		assert.ErrorIs(t, c.Move(ctx, "f2", nil), shared.ErrNoSelection)
	})
}

func TestDeleteSingle(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by kind", func(t *testing.T) {
		api := tu.NewFakeGallery()
		api.PutAlbum(models.Album{ID: "a1"})
		c := NewBatchCoordinator(Deps{API: api, Selection: selection.NewStore(nil)})

		require.NoError(t, c.DeleteSingle(ctx, models.Item{ID: "p1", Kind: models.KindPhoto}))
		require.NoError(t, c.DeleteSingle(ctx, models.Item{ID: "a1", Kind: models.KindAlbum}))
		assert.Len(t, api.CallsTo("DeletePhoto"), 1)
		assert.Len(t, api.CallsTo("DeleteAlbum"), 1)
		assert.ErrorIs(t, c.DeleteSingle(ctx, models.Item{ID: "x", Kind: models.KindOther}), shared.ErrInvalidArgument)
	})

	t.Run("failure shows a blocking notification", func(t *testing.T) {
		api := tu.NewFakeGallery()
		api.Fail["DeletePhoto"] = errors.New("locked")
		notifier := &tu.RecordingNotifier{}
		c := NewBatchCoordinator(Deps{API: api, Selection: selection.NewStore(nil), Notifier: notifier})

		assert.Error(t, c.DeleteSingle(ctx, models.Item{ID: "p1", DisplayName: "beach.jpg", Kind: models.KindPhoto}))
		require.Equal(t, 1, notifier.Count())
		assert.Contains(t, notifier.Messages[0], "beach.jpg")
	})
}

func TestBusyGuard(t *testing.T) {
	api := tu.NewFakeGallery()
	c := NewBatchCoordinator(Deps{API: api, Selection: selectionWith(t, []string{"p1"}, nil), Sink: &memSink{}})

	require.NoError(t, c.begin())
	_, err := c.Download(context.Background(), nil)
	assert.ErrorIs(t, err, shared.ErrBusy)
	c.end()

	_, err = c.Download(context.Background(), nil)
	assert.NoError(t, err)
}

func TestSendProgressNeverBlocks(t *testing.T) {
	prog := make(chan ProgressUpdate)
	done := make(chan struct{})
	go func() {
		sendProgress(prog, refreshUpdate())
		sendProgress(nil, refreshUpdate())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sendProgress blocked on an unbuffered channel")
	}
}
