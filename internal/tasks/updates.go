package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	DownloadPhotos Phase = iota
	SaveArchive
	DeletePhotos
	DeleteAlbums
	MovePhotos
	RefreshGrid
	FetchAlbums
	ExportAlbums
)

func (p Phase) String() string {
	switch p {
	case DownloadPhotos:
		return "download_photos"
	case SaveArchive:
		return "save_archive"
	case DeletePhotos:
		return "delete_photos"
	case DeleteAlbums:
		return "delete_albums"
	case MovePhotos:
		return "move_photos"
	case RefreshGrid:
		return "refresh_grid"
	case FetchAlbums:
		return "fetch_albums"
	case ExportAlbums:
		return "export_albums"
	default:
		return ""
	}
}

func downloadingUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPhotos,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Requesting archive for %d photo(s)...", count),
	}
}

func archiveSavedUpdate(location string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveArchive,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Archive saved: %s", location),
		Data:    location,
	}
}

func deleteUpdate(phase Phase, step, total int, id string, err error) ProgressUpdate {
	noun := "photo"
	if phase == DeleteAlbums {
		noun = "album"
	}
	if err != nil {
		return ProgressUpdate{
			Phase:   phase,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s %s: %v", step, total, noun, id, err),
		}
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] deleting %s %s", step, total, noun, id),
	}
}

func movingUpdate(count int, target string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MovePhotos,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Moving %d photo(s) to %s...", count, target),
	}
}

func refreshUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshGrid,
		Step:    1,
		Total:   1,
		Message: "Refreshing folder...",
	}
}

func fetchingAlbumsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching %d album(s)...", total),
	}
}

func exportingAlbumUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
