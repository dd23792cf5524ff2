package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/galx/internal/album"
	"github.com/desertthunder/galx/internal/formatter"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/selection"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/state"
	"github.com/desertthunder/galx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AlbumShow prints an album's members in order with the effective cover marked.
func (r *Runner) AlbumShow(ctx context.Context, cmd *cli.Command) error {
	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	a, err := api.GetAlbum(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(formatter.NewManifest(a), cmd.Bool("pretty"))
	}

	r.printAlbum(a)
	return nil
}

func (r *Runner) printAlbum(a *models.Album) {
	r.writePlainHeader(shared.SanitizeLabel(a.Name))
	r.writePlain("ID: %s\n", a.ID)
	if a.FolderID != "" {
		r.writePlain("Folder: %s\n", a.FolderID)
	}
	r.writePlain("Items: %d\n\n", len(a.Items))

	cover := a.EffectiveCover()
	for i, item := range a.Items {
		mark := "  "
		if item.ID == cover {
			mark = "★ "
		}
		r.writePlain("%s%3d. %-16s %s\n", mark, i+1, item.ID, shared.SanitizeLabel(item.DisplayName))
	}
}

// AlbumExport renders one album manifest to stdout or into a directory.
func (r *Runner) AlbumExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	a, err := api.GetAlbum(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		data, err := formatter.Export(a, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	files, err := formatter.WriteExport(a, format, outputDir)
	if err != nil {
		return err
	}

	r.logger.Info("album exported", "album_id", a.ID, "format", format, "files", len(files))
	r.writePlain("✓ Exported %s\n", shared.SanitizeLabel(a.Name))
	for _, f := range files {
		r.writePlain("  %s\n", f)
	}
	return nil
}

// AlbumExportAll exports many albums concurrently and writes a manifest of the run.
//
// Albums come from repeated --id flags, every album of --folder, or both.
func (r *Runner) AlbumExportAll(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("id")
	if folderID := cmd.String("folder"); folderID != "" {
		content, err := api.FolderContent(ctx, folderID)
		if err != nil {
			return err
		}
		for _, item := range content.Items {
			if item.Kind == models.KindAlbum && item.Access == models.AccessNone {
				ids = append(ids, item.ID)
			}
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: pass --id or a --folder containing albums", shared.ErrMissingArgument)
	}

	r.logger.Info("starting bulk export", "albums", len(ids), "format", format)
	r.writePlain("Exporting %d album(s)...\n\n", len(shared.UniqueIDs(ids)))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)

	result, err := tasks.BulkExport(ctx, progressCh, api, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalAlbums)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d album(s):\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.AlbumID, res.Error)
			}
		}
	}
	return nil
}

// AlbumCreate creates an empty album.
func (r *Runner) AlbumCreate(ctx context.Context, cmd *cli.Command) error {
	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}

	id, err := api.CreateAlbum(ctx, name, cmd.String("folder"))
	if err != nil {
		return err
	}

	r.logger.Info("album created", "album_id", id, "folder_id", cmd.String("folder"))
	r.writePlain("✓ Created album %s (%s)\n", shared.SanitizeLabel(name), id)
	return nil
}

// AlbumRename renames an album and optionally moves it to another folder.
func (r *Runner) AlbumRename(ctx context.Context, cmd *cli.Command) error {
	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}

	if err := api.UpdateAlbum(ctx, cmd.String("id"), name, cmd.String("folder")); err != nil {
		return err
	}

	r.writePlain("✓ Album %s renamed to %s\n", cmd.String("id"), shared.SanitizeLabel(name))
	return nil
}

// AlbumDelete deletes one album after confirmation.
func (r *Runner) AlbumDelete(ctx context.Context, cmd *cli.Command) error {
	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	albumID := cmd.String("id")
	if !cmd.Bool("yes") && !r.Confirm(fmt.Sprintf("Delete album %s?", albumID)) {
		r.writePlain("Cancelled\n")
		return nil
	}

	journal, closeJournal := r.journal()
	defer closeJournal()

	coordinator := tasks.NewBatchCoordinator(tasks.Deps{
		API:       api,
		Selection: selection.NewStore(nil),
		Journal:   journal,
		Logger:    shared.WithLogger(r.logger, "component", "batch"),
	})
	if err := coordinator.DeleteSingle(ctx, models.Item{ID: albumID, Kind: models.KindAlbum}); err != nil {
		return err
	}

	r.writePlain("✓ Deleted album %s\n", albumID)
	return nil
}

// editSession opens an editing session on albumID. folderID selects where add-photos candidates come
// from and defaults to the album's own folder.
func (r *Runner) editSession(ctx context.Context, albumID, folderID string) (*album.Editor, func(), error) {
	api, err := r.client(ctx)
	if err != nil {
		return nil, nil, err
	}

	journal, closeJournal := r.journal()
	st := state.New(folderID, selection.NewStore(nil), r.config.Access.Unlocked)
	editor := album.NewEditor(album.EditorDeps{
		API:     api,
		State:   st,
		Journal: journal,
		Logger:  shared.WithLogger(r.logger, "component", "editor"),
	})

	if err := editor.Open(ctx, albumID); err != nil {
		closeJournal()
		return nil, nil, err
	}
	if folderID == "" {
		st.SetFolder(editor.Snapshot().Album.FolderID)
	}

	closeFn := func() {
		if err := editor.Close(context.WithoutCancel(ctx)); err != nil {
			r.logger.Warn("failed to close album session", "album_id", albumID, "error", err)
		}
		closeJournal()
	}
	return editor, closeFn, nil
}

// AlbumCover sets the album cover to one of its members.
func (r *Runner) AlbumCover(ctx context.Context, cmd *cli.Command) error {
	editor, done, err := r.editSession(ctx, cmd.String("id"), "")
	if err != nil {
		return err
	}
	defer done()

	itemID := cmd.String("item")
	if err := editor.SetCover(ctx, itemID); err != nil {
		return err
	}

	r.writePlain("✓ Cover of %s set to %s\n", cmd.String("id"), itemID)
	return nil
}

// AlbumCandidates lists the folder photos that can still be added to the album.
func (r *Runner) AlbumCandidates(ctx context.Context, cmd *cli.Command) error {
	editor, done, err := r.editSession(ctx, cmd.String("id"), cmd.String("folder"))
	if err != nil {
		return err
	}
	defer done()

	if err := editor.OpenAddPhotos(ctx); err != nil {
		return err
	}
	candidates := editor.Snapshot().Candidates

	if cmd.Bool("json") {
		out := make([]folderItemJSON, 0, len(candidates))
		for _, item := range candidates {
			out = append(out, folderItemJSON{ID: item.ID, Name: item.DisplayName, Kind: string(item.Kind), Media: item.Media})
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(candidates) == 0 {
		r.writePlain("No unattached photos to add\n")
		return nil
	}
	for _, item := range candidates {
		r.writePlain("  %-16s %s\n", item.ID, shared.SanitizeLabel(item.DisplayName))
	}
	return nil
}

// AlbumAdd adds unattached folder photos to the album in one request.
func (r *Runner) AlbumAdd(ctx context.Context, cmd *cli.Command) error {
	editor, done, err := r.editSession(ctx, cmd.String("id"), cmd.String("folder"))
	if err != nil {
		return err
	}
	defer done()

	if err := editor.OpenAddPhotos(ctx); err != nil {
		return err
	}

	ids := shared.UniqueIDs(cmd.StringSlice("item"))
	for _, id := range ids {
		if _, err := editor.ToggleCandidate(id); err != nil {
			return fmt.Errorf("cannot add %s: %w", id, err)
		}
	}
	if err := editor.CommitAddPhotos(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Added %d photo(s) to %s\n", len(ids), cmd.String("id"))
	snap := editor.Snapshot()
	r.printAlbum(&snap.Album)
	return nil
}

// AlbumRemove removes members from the album one at a time. The first failure stops the loop.
func (r *Runner) AlbumRemove(ctx context.Context, cmd *cli.Command) error {
	editor, done, err := r.editSession(ctx, cmd.String("id"), "")
	if err != nil {
		return err
	}
	defer done()

	ids := shared.UniqueIDs(cmd.StringSlice("item"))
	for i, id := range ids {
		if err := editor.RemoveItem(ctx, id); err != nil {
			if i > 0 {
				r.writePlain("Removed %d of %d item(s) before failing\n", i, len(ids))
			}
			return err
		}
	}

	r.writePlain("✓ Removed %d item(s) from %s\n", len(ids), cmd.String("id"))
	return nil
}

// AlbumMove moves one member by --by slots and persists the new order.
func (r *Runner) AlbumMove(ctx context.Context, cmd *cli.Command) error {
	by := int(cmd.Int("by"))
	if by == 0 {
		return fmt.Errorf("%w: --by must not be zero", shared.ErrInvalidArgument)
	}

	editor, done, err := r.editSession(ctx, cmd.String("id"), "")
	if err != nil {
		return err
	}
	defer done()

	itemID := cmd.String("item")
	if err := editor.StartReorder(itemID); err != nil {
		return err
	}

	dir, steps := 1, by
	if by < 0 {
		dir, steps = -1, -by
	}
	moved := 0
	for ; moved < steps; moved++ {
		if !editor.NudgeReorder(dir) {
			break
		}
	}

	if moved == 0 {
		return errors.New("item is already at the edge of the album")
	}

	result, err := editor.EndReorder(ctx)
	if err != nil {
		return err
	}

	r.logger.Debug("album reordered", "album_id", cmd.String("id"), "seq", result.Seq, "moved", moved)
	r.writePlain("✓ Moved %s by %d\n", itemID, moved*dir)
	r.writePlain("Order: %s\n", strings.Join(result.IDs, ", "))
	return nil
}
