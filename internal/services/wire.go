// Gallery API response shapes and their normalization into models.
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/galx/internal/models"
)

// flexID accepts ids encoded as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", b)
	}
	*f = flexID(n.String())
	return nil
}

// wireItem is a grid or album member as sent by either API generation.
type wireItem struct {
	ID          flexID   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Filename    string   `json:"filename"`
	Type        string   `json:"type"`
	ItemType    string   `json:"item_type"`
	MediaType   string   `json:"media_type"`
	AlbumID     flexID   `json:"album_id"`
	Albums      []flexID `json:"albums"`
	Hidden      bool     `json:"hidden"`
	Access      string   `json:"access"`
	Locked      bool     `json:"locked"`
	Denied      bool     `json:"access_denied"`
	SafeID      string   `json:"safe_id"`
	UnlockMode  string   `json:"unlock_mode"`

	bare bool
}

// UnmarshalJSON accepts a full object or a bare id.
func (w *wireItem) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var id flexID
		if err := id.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		*w = wireItem{ID: id, bare: true}
		return nil
	}

	type plain wireItem
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*w = wireItem(p)
	return nil
}

func (w wireItem) kind() (models.ItemKind, bool) {
	if w.bare {
		return models.KindPhoto, true
	}

	if w.ItemType != "" {
		media := w.MediaType == "" || w.MediaType == "image" || w.MediaType == "video"
		switch strings.ToLower(w.ItemType) {
		case "photo", "media":
			return models.KindPhoto, media
		case "album":
			return models.KindAlbum, false
		default:
			return models.KindOther, false
		}
	}

	switch strings.ToLower(w.Type) {
	case "", "photo", "image", "video":
		return models.KindPhoto, true
	case "album":
		return models.KindAlbum, false
	default:
		return models.KindOther, false
	}
}

func (w wireItem) access() models.AccessMarker {
	switch {
	case w.Access == string(models.AccessDenied) || w.Denied:
		return models.AccessDenied
	case w.Access == string(models.AccessLocked) || w.Locked:
		return models.AccessLocked
	default:
		return models.AccessNone
	}
}

func (w wireItem) toModel() models.Item {
	kind, media := w.kind()
	name := w.DisplayName
	if name == "" {
		name = w.Name
	}
	if name == "" {
		name = w.Filename
	}
	return models.Item{
		ID:          string(w.ID),
		DisplayName: name,
		Kind:        kind,
		Media:       media,
		Attached:    w.AlbumID != "" || len(w.Albums) > 0,
		Hidden:      w.Hidden,
		Access:      w.access(),
		SafeID:      w.SafeID,
		UnlockMode:  w.UnlockMode,
	}
}

func toItems(in []wireItem) []models.Item {
	items := make([]models.Item, 0, len(in))
	for _, w := range in {
		if w.ID == "" {
			continue
		}
		items = append(items, w.toModel())
	}
	return items
}

type wireAlbum struct {
	ID           flexID     `json:"id"`
	Name         string     `json:"name"`
	FolderID     flexID     `json:"folder_id"`
	Items        []wireItem `json:"items"`
	Photos       []wireItem `json:"photos"`
	CoverItemID  flexID     `json:"cover_item_id"`
	CoverPhotoID flexID     `json:"cover_photo_id"`
}

// toModel prefers the current field names and falls back to the legacy ones.
func (w wireAlbum) toModel(requestedID string) *models.Album {
	members := w.Items
	if members == nil {
		members = w.Photos
	}
	cover := w.CoverItemID
	if cover == "" {
		cover = w.CoverPhotoID
	}
	id := string(w.ID)
	if id == "" {
		id = requestedID
	}
	return &models.Album{
		ID:          id,
		Name:        w.Name,
		FolderID:    string(w.FolderID),
		Items:       toItems(members),
		CoverItemID: string(cover),
	}
}

// wireFolder accepts the unified item list or the legacy split photos/albums lists.
type wireFolder struct {
	Items  []wireItem `json:"items"`
	Photos []wireItem `json:"photos"`
	Albums []wireItem `json:"albums"`
}

func (w wireFolder) toModel(folderID string) *models.FolderContent {
	if w.Items != nil {
		return &models.FolderContent{FolderID: folderID, Items: toItems(w.Items)}
	}

	items := make([]models.Item, 0, len(w.Albums)+len(w.Photos))
	for _, a := range toItems(w.Albums) {
		a.Kind, a.Media = models.KindAlbum, false
		items = append(items, a)
	}
	items = append(items, toItems(w.Photos)...)
	return &models.FolderContent{FolderID: folderID, Items: items}
}

type wireCreated struct {
	ID      flexID `json:"id"`
	AlbumID flexID `json:"album_id"`
}

func (w wireCreated) id() string {
	if w.ID != "" {
		return string(w.ID)
	}
	return string(w.AlbumID)
}

type albumRequest struct {
	Name     string `json:"name"`
	FolderID string `json:"folder_id,omitempty"`
}

type itemIDsRequest struct {
	ItemIDs  []string `json:"item_ids"`
	Sequence uint64   `json:"sequence,omitempty"`
}

type coverRequest struct {
	ItemID string `json:"item_id"`
}

type photoIDsRequest struct {
	PhotoIDs       []string `json:"photo_ids"`
	TargetFolderID string   `json:"target_folder_id,omitempty"`
}
