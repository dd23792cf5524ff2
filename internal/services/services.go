package services

import (
	"context"
	"io"

	"github.com/desertthunder/galx/internal/models"
)

// Gallery is the remote album and photo store.
type Gallery interface {
	GetAlbum(ctx context.Context, albumID string) (*models.Album, error)
	CreateAlbum(ctx context.Context, name, folderID string) (string, error)
	UpdateAlbum(ctx context.Context, albumID, name, folderID string) error
	DeleteAlbum(ctx context.Context, albumID string) error

	// ReorderAlbum persists the full member order. seq is echoed to the server and may be zero.
	ReorderAlbum(ctx context.Context, albumID string, itemIDs []string, seq uint64) error
	AddItems(ctx context.Context, albumID string, itemIDs []string) error
	RemoveItems(ctx context.Context, albumID string, itemIDs []string) error
	SetCover(ctx context.Context, albumID, itemID string) error

	FolderContent(ctx context.Context, folderID string) (*models.FolderContent, error)

	// BatchDownload returns the archive body. The caller closes it.
	BatchDownload(ctx context.Context, photoIDs []string) (io.ReadCloser, error)
	MovePhotos(ctx context.Context, photoIDs []string, targetFolderID string) error
	DeletePhoto(ctx context.Context, photoID string) error
}

var _ Gallery = (*GalleryClient)(nil)
