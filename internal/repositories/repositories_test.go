package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "journal")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without a sequence")
	}
}

func TestJournalRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJournalRepository(db)
		entry := models.NewJournalEntry(models.ActionDeletePhoto, "p1", "batch", nil)

		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		if entry.ID() == "" {
			t.Error("entry ID should be set after creation")
		}
		if entry.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", entry.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJournalRepository(db)
		entry := models.NewJournalEntry(models.ActionDeleteAlbum, "a1", "batch", errors.New("server error"))
		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		got, err := repo.Get(entry.ID())
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}

		if got.Action() != models.ActionDeleteAlbum {
			t.Errorf("expected action %s, got %s", models.ActionDeleteAlbum, got.Action())
		}
		if got.TargetID() != "a1" {
			t.Errorf("expected target a1, got %s", got.TargetID())
		}
		if got.OK() {
			t.Error("expected failed entry")
		}
		if got.ErrorMessage() != "server error" {
			t.Errorf("expected error message, got %q", got.ErrorMessage())
		}
		if got.DeletedAt() != nil {
			t.Error("new entry should not be deleted")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJournalRepository(db)
		entry := models.NewJournalEntry(models.ActionReorder, "a1", "seq=1", errors.New("timeout"))
		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		entry.SetOutcome(nil)
		if err := repo.Update(entry); err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}

		got, err := repo.Get(entry.ID())
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if !got.OK() || got.ErrorMessage() != "" {
			t.Errorf("expected successful outcome, got ok=%v msg=%q", got.OK(), got.ErrorMessage())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJournalRepository(db)
		entry := models.NewJournalEntry(models.ActionSetCover, "a1", "p3", nil)
		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		if err := repo.Delete(entry.ID()); err != nil {
			t.Fatalf("failed to delete entry: %v", err)
		}

		if _, err := repo.Get(entry.ID()); err == nil {
			t.Error("expected error when getting deleted entry")
		}
		if err := repo.Delete(entry.ID()); err == nil {
			t.Error("expected error when deleting twice")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJournalRepository(db)
		seed := []*models.JournalEntry{
			models.NewJournalEntry(models.ActionDeletePhoto, "p1", "batch", nil),
			models.NewJournalEntry(models.ActionDeletePhoto, "p2", "batch", errors.New("gone")),
			models.NewJournalEntry(models.ActionDeleteAlbum, "a1", "batch", nil),
			models.NewJournalEntry(models.ActionMovePhotos, "f2", "p3", errors.New("denied")),
		}
		for _, e := range seed {
			if err := repo.Create(e); err != nil {
				t.Fatalf("failed to create entry: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 entries, got %d", len(all))
		}
		if all[0].TargetID() != "p1" {
			t.Errorf("expected ascending sequence order, first is %s", all[0].TargetID())
		}

		photos, err := repo.List(map[string]any{"action": models.ActionDeletePhoto})
		if err != nil {
			t.Fatalf("List by action failed: %v", err)
		}
		if len(photos) != 2 {
			t.Errorf("expected 2 delete_photo entries, got %d", len(photos))
		}

		byTarget, err := repo.List(map[string]any{"target_id": "a1"})
		if err != nil {
			t.Fatalf("List by target failed: %v", err)
		}
		if len(byTarget) != 1 {
			t.Errorf("expected 1 entry for a1, got %d", len(byTarget))
		}

		failures, err := repo.Failures(1)
		if err != nil {
			t.Fatalf("Failures failed: %v", err)
		}
		if len(failures) != 1 || failures[0].TargetID() != "f2" {
			t.Errorf("expected newest failure f2, got %v", failures)
		}
	})
}

func TestJournalRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewJournalRepository(db)
			entry := models.NewJournalEntry(models.ActionDeletePhoto, "", "", nil)
			if err := repo.Create(entry); err == nil {
				t.Fatal("expected validation error for empty target")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if _, err := NewJournalRepository(db).Get("nonexistent-id"); err == nil {
				t.Fatal("expected error when getting nonexistent entry")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			entry := models.NewJournalEntry(models.ActionAddItems, "a1", "", nil)
			entry.SetID("nonexistent-id")
			if err := NewJournalRepository(db).Update(entry); err == nil {
				t.Fatal("expected error when updating nonexistent entry")
			}
		})
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		if _, err := NewJournalRepository(db).List(nil); err == nil {
			t.Fatal("expected error on closed database")
		}
	})
}

func TestRecorder(t *testing.T) {
	t.Run("records success and failure", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJournalRepository(db)
		rec := NewRecorder(repo, nil)
		ctx := context.Background()

		rec.Record(ctx, models.ActionAddItems, "a1", "p1,p2", nil)
		rec.Record(ctx, models.ActionDownload, "", "p1", errors.New("offline"))

		entries, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[1].TargetID() != "-" {
			t.Errorf("expected placeholder target, got %q", entries[1].TargetID())
		}
		if entries[1].OK() {
			t.Error("expected failed entry")
		}
	})

	t.Run("write failures are swallowed", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		rec := NewRecorder(NewJournalRepository(db), nil)
		rec.Record(context.Background(), models.ActionReorder, "a1", "", nil)

		var nilRec *Recorder
		nilRec.Record(context.Background(), models.ActionReorder, "a1", "", nil)
	})
}
