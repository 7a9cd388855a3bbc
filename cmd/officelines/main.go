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
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/officelines"
	"github.com/poiesic/officelines/core"
	"github.com/poiesic/officelines/ingestion"
	"github.com/poiesic/officelines/remote"
	"github.com/poiesic/officelines/search"
	"github.com/poiesic/officelines/storage"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

var (
	numberStyle  = color.New(color.FgCyan).SprintFunc()
	successStyle = color.New(color.FgGreen).SprintFunc()
	warnStyle    = color.New(color.FgYellow).SprintFunc()
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	dbFlag := &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to the line database directory",
	}
	csvFlag := &cli.StringFlag{
		Name:  "csv",
		Usage: "Path to a CSV line export to read directly",
	}
	storeFlag := &cli.StringFlag{
		Name:  "store",
		Usage: "Storage backend (badger, sqlite)",
		Value: string(officelines.StoreBadger),
	}

	return &cli.App{
		Name:      "officelines",
		Usage:     "Search quotes from The Office",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import a CSV line export into the database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the line database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "csv",
						Usage:    "Path to the CSV line export",
						Required: true,
					},
					storeFlag,
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of lines to write in each batch",
						Value: ingestion.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent batch writers (0 uses half the CPUs)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Import even if the file is unchanged since the last import",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search lines",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag,
					csvFlag,
					storeFlag,
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to show",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "copy",
						Usage: "Copy the Nth result to the clipboard",
					},
					&cli.StringFlag{
						Name:  "remote",
						Usage: "Path to a remote search YAML config",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show a single line by id",
				ArgsUsage: "ID",
				Action:    showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the line database directory",
						Required: true,
					},
					storeFlag,
				},
			},
			{
				Name:      "speakers",
				Usage:     "List speakers and their line counts",
				ArgsUsage: "[PATTERN]",
				Action:    speakersCommand,
				Flags:     []cli.Flag{dbFlag, csvFlag, storeFlag},
			},
		},
	}
}

func openDatabase(c *cli.Context) (*officelines.Database, error) {
	db, err := officelines.NewDatabase(c.String("db"),
		officelines.WithStore(officelines.StoreKind(c.String("store"))))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithProgress(c.App.ErrWriter),
	}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, ingestion.WithPoolSize(workers))
	}

	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	result, err := pipeline.ImportFile(ctx, c.String("csv"), c.Bool("force"))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	w := c.App.Writer
	if result.Unchanged {
		fmt.Fprintf(w, "%s unchanged since last import (%d lines)\n", result.Source, result.Imported)
		return nil
	}
	fmt.Fprintf(w, "%s %d lines from %s (skipped %d, deleted %d, removed %d)\n",
		successStyle("Imported"), result.Imported, result.Source, result.Skipped, result.Deleted, result.Removed)
	return nil
}

// lineSource is a searcher plus the lines it covers, used for speaker
// suggestions. Lines is nil for remote searchers.
type lineSource struct {
	searcher officelines.LineSearcher
	lines    func(ctx context.Context) ([]*core.Line, error)
	close    func() error
}

func openLocalSource(c *cli.Context) (*lineSource, error) {
	switch {
	case c.String("db") != "":
		db, err := openDatabase(c)
		if err != nil {
			return nil, err
		}
		return &lineSource{
			searcher: db,
			lines:    db.LineRepository().AllLines,
			close:    db.Close,
		}, nil

	case c.String("csv") != "":
		corpus, err := officelines.LoadCorpus(c.String("csv"))
		if err != nil {
			return nil, fmt.Errorf("failed to load lines: %w", err)
		}
		return corpusSource(corpus), nil

	default:
		slog.Debug("no line source given, using sample lines")
		corpus, err := officelines.SampleCorpus()
		if err != nil {
			return nil, err
		}
		return corpusSource(corpus), nil
	}
}

func corpusSource(corpus *officelines.Corpus) *lineSource {
	return &lineSource{
		searcher: corpus,
		lines: func(context.Context) ([]*core.Line, error) {
			return corpus.Lines(), nil
		},
		close: func() error { return nil },
	}
}

func openSearchSource(c *cli.Context) (*lineSource, error) {
	configPath := c.String("remote")
	if configPath == "" {
		return openLocalSource(c)
	}

	cfg, err := remote.LoadConfig(configPath)
	if errors.Is(err, remote.ErrConfigMissing) {
		slog.Warn("remote search not configured, falling back to local lines", "err", err)
		return openLocalSource(c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load remote config: %w", err)
	}

	client, err := remote.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote client: %w", err)
	}
	return &lineSource{searcher: client, close: func() error { return nil }}, nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("search query is required")
	}
	limit := c.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	source, err := openSearchSource(c)
	if err != nil {
		return err
	}
	defer source.close()

	results, err := source.searcher.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := c.App.Writer
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found")
		if source.lines != nil {
			lines, err := source.lines(ctx)
			if err != nil {
				return err
			}
			if names := search.SuggestSpeakers(lines, query, 3); len(names) > 0 {
				fmt.Fprintf(w, "%s %s\n", warnStyle("Did you mean:"), strings.Join(names, ", "))
			}
		}
		return nil
	}

	shown := results
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for i, line := range shown {
		fmt.Fprintf(w, "%s %s\n", numberStyle(fmt.Sprintf("%3d.", i+1)), line.DisplayText())
	}
	if more := len(results) - len(shown); more > 0 {
		fmt.Fprintf(w, "... and %d more\n", more)
	}

	if n := c.Int("copy"); n != 0 {
		if n < 1 || n > len(shown) {
			return fmt.Errorf("copy: no result %d (showing %d)", n, len(shown))
		}
		if err := copyToClipboard(shown[n-1].CopyText()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(w, successStyle("Copied to clipboard!"))
	}

	return nil
}

func showCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 1 {
		return fmt.Errorf("exactly one line id is required")
	}
	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid line id %q: %w", c.Args().First(), err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	line, err := db.LineRepository().GetLine(ctx, core.ID(id))
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("line %d not found", id)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s %s\n", numberStyle(fmt.Sprintf("#%d", line.Id)), line.DisplayText())
	return nil
}

func speakersCommand(c *cli.Context) error {
	ctx := context.Background()

	source, err := openLocalSource(c)
	if err != nil {
		return err
	}
	defer source.close()

	lines, err := source.lines(ctx)
	if err != nil {
		return err
	}

	counts := search.FilterSpeakers(search.CountSpeakers(lines), strings.Join(c.Args().Slice(), " "))
	for _, sc := range counts {
		fmt.Fprintf(c.App.Writer, "%s  %s\n", numberStyle(fmt.Sprintf("%6d", sc.Lines)), sc.Name)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
