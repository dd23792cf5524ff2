package main

import (
	"context"

	"github.com/desertthunder/galx/internal/archive"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/selection"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// selectionFrom builds a selection store from the repeated --photo and --album flags.
func selectionFrom(cmd *cli.Command) (*selection.Store, error) {
	store := selection.NewStore(nil)
	for _, id := range shared.UniqueIDs(cmd.StringSlice("photo")) {
		if _, err := store.Toggle(models.KindPhoto, id); err != nil {
			return nil, err
		}
	}
	for _, id := range shared.UniqueIDs(cmd.StringSlice("album")) {
		if _, err := store.Toggle(models.KindAlbum, id); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// printProgress writes progress updates until the channel is closed. The returned channel is closed once
// every update has been written.
func (r *Runner) printProgress(progressCh <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.DownloadPhotos, tasks.FetchAlbums:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SaveArchive:
				r.writePlain("💾 %s\n", update.Message)
			case tasks.DeletePhotos, tasks.DeleteAlbums, tasks.ExportAlbums:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.MovePhotos:
				r.writePlain("📦 %s\n", update.Message)
			case tasks.RefreshGrid:
				r.writePlain("🔄 %s\n", update.Message)
			}
		}
	}()
	return done
}

// coordinator wires a batch coordinator over sel for one CLI invocation.
func (r *Runner) coordinator(api tasks.API, sel *selection.Store, sink tasks.ArchiveSink, confirmer tasks.Confirmer, journal tasks.Journal) *tasks.BatchCoordinator {
	return tasks.NewBatchCoordinator(tasks.Deps{
		API:       api,
		Selection: sel,
		Sink:      sink,
		Confirmer: confirmer,
		Journal:   journal,
		Logger:    shared.WithLogger(r.logger, "component", "batch"),
	})
}

// PhotosDownload requests one archive for the selected photos and saves it to the configured sink.
func (r *Runner) PhotosDownload(ctx context.Context, cmd *cli.Command) error {
	sel, err := selectionFrom(cmd)
	if err != nil {
		return err
	}
	if len(sel.Snapshot().Photos) == 0 {
		r.writePlain("Nothing to download: no photos selected\n")
		return nil
	}

	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	sink, closeSink, err := archive.Open(ctx, r.config.Archive)
	if err != nil {
		return err
	}
	defer closeSink()

	journal, closeJournal := r.journal()
	defer closeJournal()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)
	location, err := r.coordinator(api, sel, sink, nil, journal).Download(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("✓ Archive saved to %s\n", location)
	return nil
}

// PhotosDelete deletes the selected photos and albums one by one after a single confirmation.
//
// Individual failures do not stop the loop; they are listed afterwards and kept in the journal.
func (r *Runner) PhotosDelete(ctx context.Context, cmd *cli.Command) error {
	sel, err := selectionFrom(cmd)
	if err != nil {
		return err
	}

	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	var confirmer tasks.Confirmer = r
	if cmd.Bool("yes") {
		confirmer = nil
	}

	journal, closeJournal := r.journal()
	defer closeJournal()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)
	result, err := r.coordinator(api, sel, nil, confirmer, journal).Delete(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}
	if result.Cancelled {
		r.writePlain("Cancelled\n")
		return nil
	}

	r.writePlainln("")
	r.writePlainHeader("Delete Complete!")
	r.writePlain("Deleted: %d/%d\n", len(result.Deleted), result.Attempted)
	if len(result.Failed) > 0 {
		r.writePlain("\nFailed to delete %d item(s):\n", len(result.Failed))
		for _, f := range result.Failed {
			r.writePlain("  - %s %s: %v\n", f.Kind, f.ID, f.Err)
		}
		r.writePlain("\nRun 'galx journal --failures' for the full history.\n")
	}
	return nil
}

// PhotosMove moves the selected photos to another folder in one request.
func (r *Runner) PhotosMove(ctx context.Context, cmd *cli.Command) error {
	sel, err := selectionFrom(cmd)
	if err != nil {
		return err
	}
	if skipped := len(sel.Snapshot().Albums); skipped > 0 {
		r.logger.Warn("albums cannot be moved, ignoring them", "count", skipped)
	}

	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	journal, closeJournal := r.journal()
	defer closeJournal()

	target := cmd.String("to")
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)
	err = r.coordinator(api, sel, nil, nil, journal).Move(ctx, target, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("✓ Moved %d photo(s) to %s\n", len(sel.Snapshot().Photos), target)
	return nil
}

var _ tasks.Confirmer = (*Runner)(nil)
