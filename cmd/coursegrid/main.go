// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/coursegrid"
	"github.com/poiesic/coursegrid/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "coursegrid",
		Usage: "Search a course catalog and build a weekly schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./coursegrid.db",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Replace the stored catalog with a JSON or CSV catalog file",
				ArgsUsage: "<file>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Store the catalog even if it is unchanged since the last import",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of sections written per transaction",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N sections",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for each batch write",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the catalog",
				ArgsUsage: "[query]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "subject", Usage: "Restrict to department codes"},
					&cli.StringSliceFlag{Name: "term", Usage: "Restrict to terms"},
					&cli.StringSliceFlag{Name: "hub", Usage: "Restrict to hub units"},
					&cli.StringSliceFlag{Name: "college", Usage: "Restrict to colleges"},
					&cli.StringSliceFlag{Name: "status", Usage: "Restrict to enrollment statuses"},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Result order (relevance, code, title, professor, credits)",
						Value: string(defaultSort),
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results (0 uses the configured default)",
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Number of grouped results to skip",
					},
					&cli.BoolFlag{
						Name:  "flat",
						Usage: "Return individual sections instead of grouped courses",
					},
					&cli.BoolFlag{
						Name:  "resolve-dept",
						Usage: "Treat a leading department name in the query as a subject filter",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show one section",
				ArgsUsage: "<id>",
				Action:    showCommand,
			},
			{
				Name:   "subjects",
				Usage:  "List the departments present in the catalog",
				Action: subjectsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "match",
						Usage: "Suggest departments matching a partial name instead",
					},
				},
			},
			{
				Name:   "terms",
				Usage:  "List the displayed terms present in the catalog",
				Action: termsCommand,
			},
			{
				Name:   "hubs",
				Usage:  "List the hub units present in the catalog",
				Action: hubsCommand,
			},
			{
				Name:      "validate",
				Usage:     "Check a set of sections for time conflicts",
				ArgsUsage: "<id...>",
				Action:    validateCommand,
			},
			{
				Name:  "schedule",
				Usage: "Manage the saved schedule",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show the saved schedule",
						Action: scheduleShowCommand,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "csv",
								Usage: "Write calendar events as CSV",
							},
						},
					},
					{
						Name:      "add",
						Usage:     "Add a section to the schedule",
						ArgsUsage: "<id>",
						Action:    scheduleAddCommand,
					},
					{
						Name:      "remove",
						Usage:     "Remove a section from the schedule",
						ArgsUsage: "<id>",
						Action:    scheduleRemoveCommand,
					},
					{
						Name:   "clear",
						Usage:  "Remove every section from the schedule",
						Action: scheduleClearCommand,
					},
					{
						Name:      "set",
						Usage:     "Replace the schedule with the given sections",
						ArgsUsage: "<id...>",
						Action:    scheduleSetCommand,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// openDatabase opens the database named by --db with configuration taken
// from the environment.
func openDatabase(c *cli.Context) (*coursegrid.Database, error) {
	cfg := config.DefaultConfig().FromEnv(os.LookupEnv)
	return coursegrid.NewDatabase(c.String("db"),
		coursegrid.WithConfig(cfg),
		coursegrid.WithLogger(slog.Default()))
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
