// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// newApp builds the root command. Global flags are inherited by every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "galx",
		Usage:   "Compose, curate and bulk-manage photo gallery albums",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("GALX_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.loadConfig,
		Commands: r.register(),
		Writer:   r.output,
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func albumIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "id",
		Usage:    "Album ID",
		Required: true,
	}
}

// setupCommand handles setup operations for configuration, database and authentication.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the journal database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "session",
				Usage: "Import the gallery browser session from a copied cURL request",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for the session file (default: auth.session_file)",
					},
				},
				Action: r.SetupSession,
			},
			{
				Name:  "login",
				Usage: "Sign in with the gallery's OAuth2 provider and save the tokens",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: defaultLoginTimeout,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.SetupLogin,
			},
		},
	}
}

// folderCommand handles folder browsing
func folderCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "folder",
		Usage: "Folder operations",
		Commands: []*cli.Command{
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "List the items of a folder",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Folder ID",
						Required: true,
					},
				}, jsonFlags()...),
				Action: r.FolderList,
			},
		},
	}
}

// albumCommand handles album composition
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Album composition operations",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show an album's members in order",
				Flags:  append([]cli.Flag{albumIDFlag()}, jsonFlags()...),
				Action: r.AlbumShow,
			},
			{
				Name:  "export",
				Usage: "Export an album manifest",
				Flags: []cli.Flag{
					albumIDFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, text, yaml",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: print to stdout)",
					},
				},
				Action: r.AlbumExport,
			},
			{
				Name:  "export-all",
				Usage: "Export many albums concurrently and write a manifest",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Album ID (repeatable)",
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Export every album in this folder",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, text, yaml",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: album_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Album fetches per second",
						Value: 5,
					},
				},
				Action: r.AlbumExportAll,
			},
			{
				Name:  "create",
				Usage: "Create an empty album in a folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Album name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "folder",
						Usage:    "Folder ID",
						Required: true,
					},
				},
				Action: r.AlbumCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename an album or move it to another folder",
				Flags: []cli.Flag{
					albumIDFlag(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "New album name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "New owning folder ID",
					},
				},
				Action: r.AlbumRename,
			},
			{
				Name:  "delete",
				Usage: "Delete an album",
				Flags: []cli.Flag{
					albumIDFlag(),
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.AlbumDelete,
			},
			{
				Name:  "cover",
				Usage: "Set the album cover",
				Flags: []cli.Flag{
					albumIDFlag(),
					&cli.StringFlag{
						Name:     "item",
						Usage:    "Member item ID",
						Required: true,
					},
				},
				Action: r.AlbumCover,
			},
			{
				Name:  "candidates",
				Usage: "List folder photos that can be added to an album",
				Flags: append([]cli.Flag{
					albumIDFlag(),
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Folder to pick from (default: the album's folder)",
					},
				}, jsonFlags()...),
				Action: r.AlbumCandidates,
			},
			{
				Name:  "add",
				Usage: "Add unattached folder photos to an album",
				Flags: []cli.Flag{
					albumIDFlag(),
					&cli.StringSliceFlag{
						Name:     "item",
						Usage:    "Photo ID to add (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Folder to pick from (default: the album's folder)",
					},
				},
				Action: r.AlbumAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove members from an album",
				Flags: []cli.Flag{
					albumIDFlag(),
					&cli.StringSliceFlag{
						Name:     "item",
						Usage:    "Member item ID to remove (repeatable)",
						Required: true,
					},
				},
				Action: r.AlbumRemove,
			},
			{
				Name:  "move",
				Usage: "Move one member left or right in the album order",
				Flags: []cli.Flag{
					albumIDFlag(),
					&cli.StringFlag{
						Name:     "item",
						Usage:    "Member item ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "by",
						Usage:    "Slots to move, negative moves towards the front",
						Required: true,
					},
				},
				Action: r.AlbumMove,
			},
		},
	}
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "photo",
			Aliases: []string{"p"},
			Usage:   "Photo ID (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "album",
			Aliases: []string{"a"},
			Usage:   "Album ID (repeatable)",
		},
	}
}

// photosCommand handles batch actions over a selection
func photosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "photos",
		Usage: "Batch actions over selected photos and albums",
		Commands: []*cli.Command{
			{
				Name:   "download",
				Usage:  "Download the selected photos as one archive",
				Flags:  selectionFlags(),
				Action: r.PhotosDownload,
			},
			{
				Name:  "delete",
				Usage: "Delete the selected photos and albums",
				Flags: append(selectionFlags(), &cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "Skip the confirmation prompt",
				}),
				Action: r.PhotosDelete,
			},
			{
				Name:  "move",
				Usage: "Move the selected photos to another folder",
				Flags: append(selectionFlags(), &cli.StringFlag{
					Name:     "to",
					Usage:    "Target folder ID",
					Required: true,
				}),
				Action: r.PhotosMove,
			},
		},
	}
}

// journalCommand prints recorded mutation attempts
func journalCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Show recorded album and batch mutations",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Show only the newest entries",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "failures",
				Usage: "Show failed attempts only",
			},
			&cli.StringFlag{
				Name:  "action",
				Usage: "Filter by action, e.g. reorder or delete_photo",
			},
			&cli.StringFlag{
				Name:  "target",
				Usage: "Filter by target ID",
			},
		}, jsonFlags()...),
		Action: r.Journal,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing and album editing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive gallery browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "folder",
				Usage:    "Folder ID to open",
				Required: true,
			},
		},
		Action: r.TUI,
	}
}
