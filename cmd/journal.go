package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/galx/internal/repositories"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/urfave/cli/v3"
)

type journalEntryJSON struct {
	Sequence  int       `json:"sequence"`
	Action    string    `json:"action"`
	TargetID  string    `json:"target_id"`
	Detail    string    `json:"detail,omitempty"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal prints recorded mutation attempts, newest first.
func (r *Runner) Journal(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.OpenJournal(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer db.Close()

	criteria := map[string]any{
		"action":    cmd.String("action"),
		"target_id": cmd.String("target"),
		"limit":     int(cmd.Int("limit")),
	}
	if cmd.Bool("failures") {
		criteria["ok"] = false
	}

	entries, err := repositories.NewJournalRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]journalEntryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, journalEntryJSON{
				Sequence:  e.Sequence(),
				Action:    string(e.Action()),
				TargetID:  e.TargetID(),
				Detail:    e.Detail(),
				OK:        e.OK(),
				Error:     e.ErrorMessage(),
				CreatedAt: e.CreatedAt(),
			})
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		r.writePlain("No journal entries\n")
		return nil
	}

	r.writePlainHeader("Journal")
	for _, e := range entries {
		status := "✓"
		if !e.OK() {
			status = "✗"
		}
		r.writePlain("%s #%-5d %s  %-13s %-16s %s\n",
			status, e.Sequence(), e.CreatedAt().Local().Format(time.DateTime), e.Action(), e.TargetID(), e.Detail())
		if msg := e.ErrorMessage(); msg != "" {
			r.writePlain("         %s\n", msg)
		}
	}
	return nil
}
