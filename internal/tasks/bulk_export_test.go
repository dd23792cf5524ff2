package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/galx/internal/formatter"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	tu "github.com/desertthunder/galx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture() *tu.FakeGallery {
	api := tu.NewFakeGallery()
	api.PutAlbum(models.Album{ID: "a1", Name: "Summer", Items: []models.Item{{ID: "p1"}, {ID: "p2"}}})
	api.PutAlbum(models.Album{ID: "a2", Name: "Winter", Items: []models.Item{{ID: "p3"}}, CoverItemID: "p3"})
	return api
}

func TestBulkExport(t *testing.T) {
	ctx := context.Background()

	t.Run("exports every album and writes a manifest", func(t *testing.T) {
		api := exportFixture()
		dir := t.TempDir()
		prog := make(chan ProgressUpdate, 20)

		result, err := BulkExport(ctx, prog, api, []string{"a1", "a2", "a1"}, BulkExportOpts{
			Format:     formatter.FormatYAML,
			OutputDir:  dir,
			NumWorkers: 2,
			RateLimit:  100,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalAlbums)
		assert.Equal(t, 2, result.SuccessfulExports)
		assert.Zero(t, result.FailedExports)
		tu.AssertFileExists(t, filepath.Join(dir, "a1.yaml"))
		tu.AssertFileExists(t, filepath.Join(dir, "a2.yaml"))
		assert.Equal(t, filepath.Join(dir, "export_manifest.json"), result.ManifestPath)

		data, err := os.ReadFile(result.ManifestPath)
		require.NoError(t, err)
		var manifest exportManifest
		require.NoError(t, json.Unmarshal(data, &manifest))
		assert.Equal(t, "yaml", manifest.Format)
		assert.Equal(t, 2, manifest.Successful)
		assert.Len(t, manifest.Albums, 2)

		close(prog)
		sawExport := false
		for u := range prog {
			if u.Phase == ExportAlbums {
				sawExport = true
			}
		}
		assert.True(t, sawExport)
	})

	t.Run("fetch failures are recorded per album", func(t *testing.T) {
		api := exportFixture()
		api.Fail["GetAlbum:a2"] = errors.New("gone")
		dir := t.TempDir()

		result, err := BulkExport(ctx, nil, api, []string{"a1", "a2"}, BulkExportOpts{OutputDir: dir, RateLimit: 100})
		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessfulExports)
		assert.Equal(t, 1, result.FailedExports)
		tu.AssertFileExists(t, filepath.Join(dir, "a1.json"))

		var failed AlbumExportResult
		for _, r := range result.Results {
			if !r.Success {
				failed = r
			}
		}
		assert.Equal(t, "a2", failed.AlbumID)
		assert.ErrorContains(t, failed.Error, "gone")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := BulkExport(ctx, nil, exportFixture(), nil, BulkExportOpts{OutputDir: t.TempDir()})
		assert.ErrorIs(t, err, shared.ErrMissingArgument)

		_, err = BulkExport(ctx, nil, nil, []string{"a1"}, BulkExportOpts{})
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})

	t.Run("canceled context stops before writing a manifest", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		dir := t.TempDir()

		result, err := BulkExport(canceled, nil, exportFixture(), []string{"a1", "a2"}, BulkExportOpts{OutputDir: dir})
		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		assert.Empty(t, result.ManifestPath)
	})
}
