// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP service.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the emotion detection and recommendation HTTP service",
		Action: r.Serve,
	}
}

// detectCommand classifies a local image.
func detectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "detect",
		Usage: "Detect the emotion on the face in a JPEG or PNG image",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "image",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the same JSON the HTTP endpoint returns",
			},
		},
		Action: r.Detect,
	}
}

// recommendCommand prints the tracks for a display emotion.
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Print music recommendations for an emotion (Happy, Sad, Neutral, Angry, Surprise, Fear)",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "emotion",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv, json",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "Store the recommendation in the history database",
			},
		},
		Action: r.Recommend,
	}
}

// historyCommand lists stored recommendations.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previously served recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "emotion",
				Aliases: []string{"e"},
				Usage:   "Only show this emotion",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of rows",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Show counts per emotion instead of rows",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// exportCommand writes recommendations for several emotions to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export recommendations for every configured emotion",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, text",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: moodmix_export_{timestamp})",
			},
			&cli.StringSliceFlag{
				Name:    "emotion",
				Aliases: []string{"e"},
				Usage:   "Emotion to export, repeatable (default: all configured)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent writers",
				Value: 3,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Playlist fetches per second",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "covers",
				Usage: "Download the first album cover for markdown exports",
			},
		},
		Action: r.Export,
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing recommendations.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse recommendations interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format used from the TUI",
				Value: "markdown",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Export directory used from the TUI",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the TUI owns the terminal",
				Value: "./tmp/moodmix-tui.log",
			},
		},
		Action: r.TUI,
	}
}
