package models

import (
	"errors"
	"testing"
)

func TestAlbum(t *testing.T) {
	items := []Item{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}

	t.Run("EffectiveCover", func(t *testing.T) {
		tt := []struct {
			name  string
			album Album
			want  string
		}{
			{name: "no explicit cover uses first item", album: Album{Items: items}, want: "p1"},
			{name: "explicit member cover", album: Album{Items: items, CoverItemID: "p3"}, want: "p3"},
			{name: "stale cover falls back to first", album: Album{Items: items[:2], CoverItemID: "p3"}, want: "p1"},
			{name: "empty album", album: Album{CoverItemID: "p3"}, want: ""},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if got := tc.album.EffectiveCover(); got != tc.want {
					t.Errorf("expected cover %q, got %q", tc.want, got)
				}
			})
		}
	})

	t.Run("ItemIDs keeps order", func(t *testing.T) {
		got := Album{Items: []Item{{ID: "b"}, {ID: "a"}}}.ItemIDs()
		if len(got) != 2 || got[0] != "b" || got[1] != "a" {
			t.Errorf("unexpected order: %v", got)
		}
	})
}

func TestFolderContentCandidates(t *testing.T) {
	content := FolderContent{Items: []Item{
		{ID: "p1", Kind: KindPhoto, Media: true},
		{ID: "p2", Kind: KindPhoto, Media: true, Attached: true},
		{ID: "a1", Kind: KindAlbum},
		{ID: "doc", Kind: KindOther},
		{ID: "p3", Kind: KindPhoto, Media: true},
	}}

	got := content.Candidates()
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p3" {
		t.Errorf("expected [p1 p3], got %v", got)
	}
}

func TestJournalEntry(t *testing.T) {
	t.Run("successful entry validates", func(t *testing.T) {
		e := NewJournalEntry(ActionDeletePhoto, "p1", "", nil)
		if err := e.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
		if !e.OK() {
			t.Error("expected entry to be ok")
		}
	})

	t.Run("failed entry keeps message", func(t *testing.T) {
		e := NewJournalEntry(ActionDeleteAlbum, "a1", "", errors.New("boom"))
		if e.OK() || e.ErrorMessage() != "boom" {
			t.Errorf("expected failed entry with message, got ok=%v msg=%q", e.OK(), e.ErrorMessage())
		}
	})

	t.Run("missing target is invalid", func(t *testing.T) {
		e := NewJournalEntry(ActionReorder, "", "", nil)
		if err := e.Validate(); err == nil {
			t.Error("expected validation error")
		}
	})
}
