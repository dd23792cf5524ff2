package main

import (
	"context"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/urfave/cli/v3"
)

type folderItemJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind"`
	Media    bool   `json:"media,omitempty"`
	Attached bool   `json:"attached,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
	Access   string `json:"access,omitempty"`
}

type folderJSON struct {
	FolderID string           `json:"folder_id"`
	Items    []folderItemJSON `json:"items"`
}

// FolderList prints the items of one folder in grid order.
func (r *Runner) FolderList(ctx context.Context, cmd *cli.Command) error {
	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	folderID := cmd.String("id")
	r.logger.Debug("listing folder", "folder_id", folderID)

	content, err := api.FolderContent(ctx, folderID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := folderJSON{FolderID: content.FolderID, Items: make([]folderItemJSON, 0, len(content.Items))}
		for _, item := range content.Items {
			out.Items = append(out.Items, folderItemJSON{
				ID:       item.ID,
				Name:     item.DisplayName,
				Kind:     string(item.Kind),
				Media:    item.Media,
				Attached: item.Attached,
				Hidden:   item.Hidden,
				Access:   string(item.Access),
			})
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Folder " + folderID)
	if len(content.Items) == 0 {
		r.writePlain("(empty)\n")
		return nil
	}
	for _, item := range content.Items {
		r.writePlain("  %-6s %-16s %s%s\n", item.Kind, item.ID, shared.SanitizeLabel(item.Label()), itemFlags(item))
	}
	r.writePlain("\n%d item(s), %d unattached photo(s)\n", len(content.Items), len(content.Candidates()))
	return nil
}

func itemFlags(item models.Item) string {
	var flags string
	switch item.Access {
	case models.AccessDenied:
		flags += "  [no access]"
	case models.AccessLocked:
		flags += "  [locked]"
	}
	if item.Attached {
		flags += "  [in album]"
	}
	if item.Hidden {
		flags += "  [hidden]"
	}
	return flags
}
