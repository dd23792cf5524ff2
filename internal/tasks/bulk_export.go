package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/galx/internal/formatter"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"golang.org/x/time/rate"
)

// AlbumFetcher loads one album.
type AlbumFetcher interface {
	GetAlbum(ctx context.Context, albumID string) (*models.Album, error)
}

// BulkExportOpts contains configuration for bulk album manifest exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, md, txt, yaml
	OutputDir  string           // Base output directory (default: album_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 5)
	RateLimit  float64          // Album fetches per second (default: 5)
}

// AlbumExportJob is one fetched album waiting to be written.
type AlbumExportJob struct {
	AlbumID string
	Album   *models.Album
}

// AlbumExportResult is the outcome of exporting one album.
type AlbumExportResult struct {
	AlbumID   string
	AlbumName string
	Success   bool
	Files     []string
	Error     error
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalAlbums       int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []AlbumExportResult
}

type manifestEntry struct {
	AlbumID   string   `json:"album_id"`
	AlbumName string   `json:"album_name"`
	Success   bool     `json:"success"`
	Files     []string `json:"files,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type exportManifest struct {
	Format     string          `json:"format"`
	ExportedAt time.Time       `json:"exported_at"`
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Albums     []manifestEntry `json:"albums"`
}

// BulkExport exports multiple album manifests concurrently with rate limiting and progress tracking.
//
// Albums are fetched sequentially through a rate limiter and written by a pool of workers. Partial
// failures are recorded per album and summarized in export_manifest.json.
func BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	api AlbumFetcher,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: gallery client not initialized", shared.ErrServiceUnavailable)
	}
	ids = shared.UniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: album ids", shared.ErrMissingArgument)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("album_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalAlbums:     len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]AlbumExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan AlbumExportJob, len(ids))
	results := make(chan AlbumExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts)
	}

	// The producer owns jobs; workers own results. Both close only after their senders are done.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		sendProgress(prog, fetchingAlbumsUpdate(len(ids)))
		for i, albumID := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			album, err := api.GetAlbum(ctx, albumID)
			if err != nil {
				results <- AlbumExportResult{
					AlbumID:   albumID,
					AlbumName: fmt.Sprintf("Unknown (%s)", albumID),
					Error:     fmt.Errorf("failed to fetch album: %w", err),
				}
				continue
			}

			jobs <- AlbumExportJob{AlbumID: albumID, Album: album}
			sendProgress(prog, exportingAlbumUpdate(i+1, len(ids), album.Name))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.AlbumName, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.AlbumName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes albums from the jobs channel until it is drained.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan AlbumExportJob,
	results chan<- AlbumExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- exportSingleAlbum(job, opts)
	}
}

func exportSingleAlbum(j AlbumExportJob, opts BulkExportOpts) AlbumExportResult {
	result := AlbumExportResult{
		AlbumID:   j.AlbumID,
		AlbumName: j.Album.Name,
		Files:     []string{},
	}
	if result.AlbumName == "" {
		result.AlbumName = j.AlbumID
	}

	files, err := formatter.WriteExport(j.Album, opts.Format, opts.OutputDir)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return result
	}
	result.Files = files
	result.Success = true
	return result
}

func writeManifest(result *BulkExportResult, format formatter.Format, path string) error {
	m := exportManifest{
		Format:     string(format),
		ExportedAt: time.Now().UTC(),
		Total:      result.TotalAlbums,
		Successful: result.SuccessfulExports,
		Failed:     result.FailedExports,
		Albums:     make([]manifestEntry, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		entry := manifestEntry{AlbumID: r.AlbumID, AlbumName: r.AlbumName, Success: r.Success, Files: r.Files}
		if r.Error != nil {
			entry.Error = r.Error.Error()
		}
		m.Albums = append(m.Albums, entry)
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
