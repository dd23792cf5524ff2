package models

// ItemKind classifies a grid entry.
type ItemKind string

const (
	KindPhoto ItemKind = "photo"
	KindAlbum ItemKind = "album"
	KindOther ItemKind = "other" // folders, documents and anything else rendered but never selectable
)

// Selectable reports whether items of this kind participate in selection.
func (k ItemKind) Selectable() bool {
	return k == KindPhoto || k == KindAlbum
}

// AccessMarker is the access state rendered on an album tile.
type AccessMarker string

const (
	AccessNone   AccessMarker = ""
	AccessDenied AccessMarker = "denied" // shared content the viewer has no grant for
	AccessLocked AccessMarker = "locked" // protected content that needs the unlock flow
)

// Item is a single addressable grid entry.
type Item struct {
	ID          string
	DisplayName string
	Kind        ItemKind
	Media       bool         // true for image/video items
	Attached    bool         // true when the item already belongs to an album
	Hidden      bool         // hidden by an access-control flag, skipped by select-all
	Access      AccessMarker // only meaningful for albums
	SafeID      string       // identifier handed to the unlock flow
	UnlockMode  string
}

// Label returns the display name, falling back to the id.
func (i Item) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.ID
}

// Album is an ordered, named collection of items.
type Album struct {
	ID          string
	Name        string
	FolderID    string
	Items       []Item
	CoverItemID string
}

// ItemIDs returns member ids in album order.
func (a Album) ItemIDs() []string {
	ids := make([]string, len(a.Items))
	for i, item := range a.Items {
		ids[i] = item.ID
	}
	return ids
}

// Contains reports whether id is a member of the album.
func (a Album) Contains(id string) bool {
	return a.IndexOf(id) >= 0
}

// IndexOf returns the position of id in the album or -1.
func (a Album) IndexOf(id string) int {
	for i, item := range a.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// EffectiveCover returns the item id shown as the album thumbnail.
//
// The explicit cover wins only while it references a member; otherwise the first item is used.
// An empty album has no cover.
func (a Album) EffectiveCover() string {
	if a.CoverItemID != "" && a.Contains(a.CoverItemID) {
		return a.CoverItemID
	}
	if len(a.Items) == 0 {
		return ""
	}
	return a.Items[0].ID
}

// FolderContent is the list of items rendered for one folder.
type FolderContent struct {
	FolderID string
	Items    []Item
}

// Candidates filters the folder down to media items that are not attached to any album.
func (f FolderContent) Candidates() []Item {
	candidates := make([]Item, 0, len(f.Items))
	for _, item := range f.Items {
		if item.Kind == KindPhoto && item.Media && !item.Attached {
			candidates = append(candidates, item)
		}
	}
	return candidates
}
