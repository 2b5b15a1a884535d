// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is attached to every command that reads config.toml.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// subjectFlags identify the council/counter/year subject a command targets.
func subjectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "council",
			Usage: "Council slug or name (omit with --site for site-wide counters)",
		},
		&cli.StringFlag{
			Name:     "counter",
			Usage:    "Counter slug, e.g. total-debt",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "year",
			Usage: "Financial year, e.g. 2023-24",
		},
		&cli.BoolFlag{
			Name:  "site",
			Usage: "Target the site-wide aggregate instead of one council",
		},
	}
}

// setupCommand initializes the config file and the local cache database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the cache database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles session import and verification
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage backend session authentication",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import session cookie and CSRF token from a saved browser cURL command",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "no-verify",
						Usage: "Skip the backend ping after importing",
					},
				},
				Action: r.AuthImport,
			},
			{
				Name:   "status",
				Usage:  "Check session state against the backend",
				Action: r.AuthStatus,
			},
		},
	}
}

// insightsCommand handles one-shot insight fetches
func insightsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "insights",
		Usage: "Fetch and export insight sequences",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Fetch the insight sequence for a subject",
				Flags: append(subjectFlags(),
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Store the fetched set in the local cache",
					},
				),
				Action: r.InsightsShow,
			},
			{
				Name:  "export",
				Usage: "Export an insight sequence to CSV, Markdown, text or JSON",
				Flags: append(subjectFlags(),
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt or json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				),
				Action: r.InsightsExport,
			},
		},
	}
}

// contributeCommand handles one-shot value submissions
func contributeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "contribute",
		Usage: "Submit field values and review past submissions",
		Commands: []*cli.Command{
			{
				Name:  "submit",
				Usage: "Submit a value for an editable field",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "field",
						Usage:    "Field key, e.g. total-debt",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "value",
						Usage:    "Value to submit",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "year",
						Usage: "Financial year (required for temporal fields)",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Citation URL for the value",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Field kind: text, monetary, integer, percentage, url or list",
						Value: "monetary",
					},
					&cli.BoolFlag{
						Name:  "force-entered",
						Usage: "Submit the value exactly as entered, skipping the magnitude check",
					},
					&cli.BoolFlag{
						Name:  "force-suggested",
						Usage: "Accept the magnitude suggestion without prompting",
					},
				},
				Action: r.ContributeSubmit,
			},
			{
				Name:  "history",
				Usage: "Show recent submissions and total points from the local journal",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum entries to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ContributeHistory,
			},
		},
	}
}

// fieldsCommand handles field metadata lookups
func fieldsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "fields",
		Usage: "Inspect editable field metadata",
		Commands: []*cli.Command{
			{
				Name:  "options",
				Usage: "Fetch the option set for a list-kind field",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FieldOptions,
			},
		},
	}
}

// moderateCommand handles moderation actions on pending contributions
func moderateCommand(r *Runner) *cli.Command {
	idFlag := &cli.StringFlag{
		Name:     "id",
		Usage:    "Contribution ID",
		Required: true,
	}

	return &cli.Command{
		Name:  "moderate",
		Usage: "Moderate pending contributions",
		Commands: []*cli.Command{
			{
				Name:   "approve",
				Usage:  "Approve a pending contribution",
				Flags:  []cli.Flag{idFlag},
				Action: r.ModerateApprove,
			},
			{
				Name:  "reject",
				Usage: "Reject a pending contribution",
				Flags: []cli.Flag{
					idFlag,
					&cli.StringFlag{
						Name:  "reason",
						Usage: "Rejection reason shown to the contributor",
					},
				},
				Action: r.ModerateReject,
			},
			{
				Name:  "delete",
				Usage: "Permanently delete a contribution (asks for confirmation)",
				Flags: []cli.Flag{
					idFlag,
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.ModerateDelete,
			},
		},
	}
}

// cacheCommand handles the local insight cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local insight cache",
		Commands: []*cli.Command{
			{
				Name:  "warm",
				Usage: "Prefetch insight sets for council × counter × year combinations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringSliceFlag{
						Name:  "council",
						Usage: "Council slug (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "counter",
						Usage: "Counter slug (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "year",
						Usage: "Financial year (repeatable)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent fetchers",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Refetch subjects that are still fresh in the cache",
					},
				},
				Action: r.CacheWarm,
			},
			{
				Name:  "dump",
				Usage: "List every cached insight set",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CacheDump,
			},
			{
				Name:   "purge",
				Usage:  "Delete cached sets older than the configured TTL",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CachePurge,
			},
			{
				Name:  "clear",
				Usage: "Delete every cached insight set (asks for confirmation)",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing and editing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive insight carousel and edit sheet",
		Flags: append(subjectFlags(),
			configFlag(),
		),
		Action: r.TUI,
	}
}
