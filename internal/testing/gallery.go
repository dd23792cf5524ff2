package testing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

// Call is one recorded request against [FakeGallery].
type Call struct {
	Method string
	ID     string
	IDs    []string
	Target string
	Seq    uint64
}

// FakeGallery is an in-memory gallery server.
//
// Failures are injected through Fail, keyed by method name ("DeletePhoto") or method and id ("DeletePhoto:p2").
type FakeGallery struct {
	mu      sync.Mutex
	albums  map[string]*models.Album
	folders map[string]*models.FolderContent
	calls   []Call
	nextID  int

	Fail    map[string]error
	Archive []byte

	// OnGetAlbum runs before GetAlbum returns, outside the fake's lock.
	OnGetAlbum func(albumID string)
}

func NewFakeGallery() *FakeGallery {
	return &FakeGallery{
		albums:  make(map[string]*models.Album),
		folders: make(map[string]*models.FolderContent),
		Fail:    make(map[string]error),
		Archive: []byte("PK\x03\x04"),
	}
}

// PutAlbum stores a copy of album.
func (f *FakeGallery) PutAlbum(album models.Album) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := album
	a.Items = slices.Clone(album.Items)
	f.albums[album.ID] = &a
}

// PutFolder stores a copy of content.
func (f *FakeGallery) PutFolder(content models.FolderContent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := content
	c.Items = slices.Clone(content.Items)
	f.folders[content.FolderID] = &c
}

// Album returns a copy of the stored album.
func (f *FakeGallery) Album(id string) (models.Album, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.albums[id]
	if !ok {
		return models.Album{}, false
	}
	out := *a
	out.Items = slices.Clone(a.Items)
	return out, true
}

// Calls returns the recorded requests.
func (f *FakeGallery) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns the recorded requests for one method.
func (f *FakeGallery) CallsTo(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// record appends a call and returns the injected failure, if any. Callers hold mu.
func (f *FakeGallery) record(c Call) error {
	c.IDs = slices.Clone(c.IDs)
	f.calls = append(f.calls, c)
	if err, ok := f.Fail[c.Method+":"+c.ID]; ok {
		return err
	}
	return f.Fail[c.Method]
}

func (f *FakeGallery) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	f.mu.Lock()
	err := f.record(Call{Method: "GetAlbum", ID: albumID})
	var out *models.Album
	if a, ok := f.albums[albumID]; ok && err == nil {
		cp := *a
		cp.Items = slices.Clone(a.Items)
		out = &cp
	}
	hook := f.OnGetAlbum
	f.mu.Unlock()

	if hook != nil {
		hook(albumID)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}
	return out, nil
}

func (f *FakeGallery) CreateAlbum(ctx context.Context, name, folderID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "CreateAlbum", Target: folderID}); err != nil {
		return "", err
	}
	f.nextID++
	id := "album-" + strconv.Itoa(f.nextID)
	f.albums[id] = &models.Album{ID: id, Name: name, FolderID: folderID}
	if folder, ok := f.folders[folderID]; ok {
		folder.Items = append(folder.Items, models.Item{ID: id, DisplayName: name, Kind: models.KindAlbum})
	}
	return id, nil
}

func (f *FakeGallery) UpdateAlbum(ctx context.Context, albumID, name, folderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "UpdateAlbum", ID: albumID, Target: folderID}); err != nil {
		return err
	}
	a, ok := f.albums[albumID]
	if !ok {
		return shared.ErrAlbumNotFound
	}
	a.Name = name
	if folderID != "" {
		a.FolderID = folderID
	}
	return nil
}

func (f *FakeGallery) DeleteAlbum(ctx context.Context, albumID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "DeleteAlbum", ID: albumID}); err != nil {
		return err
	}
	if _, ok := f.albums[albumID]; !ok {
		return shared.ErrAlbumNotFound
	}
	delete(f.albums, albumID)
	f.dropFromFolders(albumID)
	return nil
}

func (f *FakeGallery) ReorderAlbum(ctx context.Context, albumID string, itemIDs []string, seq uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "ReorderAlbum", ID: albumID, IDs: itemIDs, Seq: seq}); err != nil {
		return err
	}
	a, ok := f.albums[albumID]
	if !ok {
		return shared.ErrAlbumNotFound
	}
	reordered := make([]models.Item, 0, len(a.Items))
	for _, id := range itemIDs {
		if i := a.IndexOf(id); i >= 0 {
			reordered = append(reordered, a.Items[i])
		}
	}
	for _, item := range a.Items {
		if !slices.Contains(itemIDs, item.ID) {
			reordered = append(reordered, item)
		}
	}
	a.Items = reordered
	return nil
}

func (f *FakeGallery) AddItems(ctx context.Context, albumID string, itemIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "AddItems", ID: albumID, IDs: itemIDs}); err != nil {
		return err
	}
	a, ok := f.albums[albumID]
	if !ok {
		return shared.ErrAlbumNotFound
	}
	for _, id := range itemIDs {
		if a.Contains(id) {
			continue
		}
		item := f.lookup(id)
		item.Attached = false
		a.Items = append(a.Items, item)
		f.setAttached(id, true)
	}
	return nil
}

func (f *FakeGallery) RemoveItems(ctx context.Context, albumID string, itemIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "RemoveItems", ID: albumID, IDs: itemIDs}); err != nil {
		return err
	}
	a, ok := f.albums[albumID]
	if !ok {
		return shared.ErrAlbumNotFound
	}
	a.Items = slices.DeleteFunc(a.Items, func(item models.Item) bool { return slices.Contains(itemIDs, item.ID) })
	if slices.Contains(itemIDs, a.CoverItemID) {
		a.CoverItemID = ""
	}
	for _, id := range itemIDs {
		f.setAttached(id, false)
	}
	return nil
}

func (f *FakeGallery) SetCover(ctx context.Context, albumID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "SetCover", ID: albumID, Target: itemID}); err != nil {
		return err
	}
	a, ok := f.albums[albumID]
	if !ok {
		return shared.ErrAlbumNotFound
	}
	a.CoverItemID = itemID
	return nil
}

func (f *FakeGallery) FolderContent(ctx context.Context, folderID string) (*models.FolderContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "FolderContent", ID: folderID}); err != nil {
		return nil, err
	}
	folder, ok := f.folders[folderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrFolderNotFound, folderID)
	}
	out := *folder
	out.Items = slices.Clone(folder.Items)
	return &out, nil
}

func (f *FakeGallery) BatchDownload(ctx context.Context, photoIDs []string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "BatchDownload", IDs: photoIDs}); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(f.Archive)), nil
}

func (f *FakeGallery) MovePhotos(ctx context.Context, photoIDs []string, targetFolderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "MovePhotos", IDs: photoIDs, Target: targetFolderID}); err != nil {
		return err
	}
	target, ok := f.folders[targetFolderID]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrFolderNotFound, targetFolderID)
	}
	for _, id := range photoIDs {
		item := f.lookup(id)
		f.dropFromFolders(id)
		target.Items = append(target.Items, item)
	}
	return nil
}

func (f *FakeGallery) DeletePhoto(ctx context.Context, photoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "DeletePhoto", ID: photoID}); err != nil {
		return err
	}
	f.dropFromFolders(photoID)
	for _, a := range f.albums {
		a.Items = slices.DeleteFunc(a.Items, func(item models.Item) bool { return item.ID == photoID })
	}
	return nil
}

// lookup finds an item by id across folders, defaulting to a bare photo. Callers hold mu.
func (f *FakeGallery) lookup(id string) models.Item {
	for _, folder := range f.folders {
		for _, item := range folder.Items {
			if item.ID == id {
				return item
			}
		}
	}
	return models.Item{ID: id, Kind: models.KindPhoto, Media: true}
}

func (f *FakeGallery) setAttached(id string, attached bool) {
	for _, folder := range f.folders {
		for i := range folder.Items {
			if folder.Items[i].ID == id {
				folder.Items[i].Attached = attached
			}
		}
	}
}

func (f *FakeGallery) dropFromFolders(id string) {
	for _, folder := range f.folders {
		folder.Items = slices.DeleteFunc(folder.Items, func(item models.Item) bool { return item.ID == id })
	}
}
