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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	docmem "github.com/poiesic/docmem"
	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/chunker"
	"github.com/poiesic/docmem/config"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/ingestion"
	"github.com/poiesic/docmem/lifecycle"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "docmem",
		Usage: "Document memory: study files into a vector store and search them semantically",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the fragment store directory (overrides config)",
			},
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Usage:   "Embedding method (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit machine-readable JSON instead of text",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "study",
				Usage:     "Ingest a document into the store",
				ArgsUsage: "<file>",
				Action:    studyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "File type (md, pdf); inferred from the extension when omitted",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Search stored documents semantically",
				ArgsUsage: "<query>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "document",
						Usage: "Restrict search to one document (id or file path)",
					},
					&cli.IntFlag{
						Name:    "max-hits",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List studied documents",
				Action: listCommand,
			},
			{
				Name:      "check",
				Usage:     "Check whether a document was studied",
				ArgsUsage: "<document id or file path>",
				Action:    checkCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete studied documents",
				ArgsUsage: "[document id or file path]...",
				Action:    deleteCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete every document in the active collection",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show statistics for the active collection",
				Action: statsCommand,
			},
		},
	}
}

// setup loads .env credentials and configures the default logger before any
// command runs.
func setup(c *cli.Context) error {
	// Absent .env files are the common case.
	godotenv.Load()

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

// loadConfig resolves the application config from the --config flag, with
// flag overrides applied on top.
func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	var cfg *config.AppConfig
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if dbPath := c.String("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if method := c.String("method"); method != "" {
		cfg.Embedding.Method = method
	}
	return cfg, nil
}

// openDatabase builds the database facade from configuration.
func openDatabase(c *cli.Context) (*docmem.Database, *config.AppConfig, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	aiConfig := ai.NewConfig(
		ai.WithMethod(cfg.Embedding.Method),
		ai.WithLocalHost(cfg.Embedding.LocalHost),
		ai.WithLocalModel(cfg.Embedding.LocalModel),
		ai.WithRemoteModel(cfg.Embedding.RemoteModel),
		ai.WithAPIKey(os.Getenv(cfg.Embedding.APIKeyEnv)),
	)

	db, err := docmem.NewDatabase(cfg.Database.Path, docmem.WithAIConfig(aiConfig))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return db, cfg, nil
}

// emit writes result as indented JSON when --json is set, otherwise via the
// printText formatter.
func emit(c *cli.Context, result any, printText func()) error {
	if c.Bool("json") {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	printText()
	return nil
}

// resolveFileType uses the --type flag when given, otherwise infers the
// type from the file extension.
func resolveFileType(c *cli.Context, path string) (core.FileType, error) {
	tag := c.String("type")
	if tag == "" {
		tag = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	return core.ParseFileType(tag)
}

func studyCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("study requires exactly one file argument")
	}
	path := c.Args().First()

	fileType, err := resolveFileType(c, path)
	if err != nil {
		return err
	}

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	splitter, err := chunker.New(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	pipeline, err := db.NewIngestionPipeline(ingestion.WithChunker(splitter))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	result, err := pipeline.Study(context.Background(), path, fileType)
	if err != nil {
		return fmt.Errorf("studying %s: %w", path, err)
	}

	return emit(c, result, func() {
		switch result.Status {
		case ingestion.StatusExists:
			fmt.Printf("Already studied: %s (%s)\n", result.FilePath, result.DocumentID)
		default:
			fmt.Printf("Studied %s: %d chunks as %s\n", result.FilePath, result.ChunksCount, result.DocumentID)
		}
	})
}

func queryCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("query requires exactly one query argument")
	}
	query := c.Args().First()

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilarIn(context.Background(), query, c.String("document"), c.Int("max-hits"))
	if err != nil {
		return err
	}

	type hit struct {
		DocumentID string  `json:"document_id"`
		FilePath   string  `json:"file_path"`
		ChunkIndex int     `json:"chunk_index"`
		Distance   float32 `json:"distance"`
		Content    string  `json:"content"`
	}
	hits := make([]hit, len(results))
	for i, result := range results {
		hits[i] = hit{
			DocumentID: result.Fragment.DocumentId,
			FilePath:   result.Fragment.FilePath,
			ChunkIndex: result.Fragment.ChunkIndex,
			Distance:   result.Distance,
			Content:    result.Fragment.Content,
		}
	}

	return emit(c, hits, func() {
		if len(hits) == 0 {
			fmt.Println("No results.")
			return
		}
		for i, h := range hits {
			fmt.Printf("%d. %s (chunk %d, distance %.4f)\n", i+1, h.FilePath, h.ChunkIndex, h.Distance)
			fmt.Printf("   %s\n", h.Content)
		}
	})
}

func listCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewLifecycleManager()
	if err != nil {
		return err
	}

	summaries := manager.List(context.Background())
	return emit(c, summaries, func() {
		if len(summaries) == 0 {
			fmt.Println("No documents studied.")
			return
		}
		for _, summary := range summaries {
			fmt.Printf("%s  %s (%s, %d chunks, studied %s)\n",
				summary.DocumentId, summary.FilePath, summary.FileType,
				summary.TotalChunks, summary.Timestamp.Format("2006-01-02 15:04"))
		}
	})
}

func checkCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("check requires exactly one document id or file path")
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewLifecycleManager()
	if err != nil {
		return err
	}

	result, err := manager.Check(context.Background(), c.Args().First())
	if err != nil {
		return err
	}

	return emit(c, result, func() {
		if result.Exists {
			fmt.Printf("Studied: %s (%d chunks)\n", result.DocumentID, result.ChunksCount)
		} else {
			fmt.Printf("Not studied: %s\n", result.DocumentID)
		}
	})
}

func deleteCommand(c *cli.Context) error {
	if c.Bool("all") && c.NArg() > 0 {
		return fmt.Errorf("--all cannot be combined with document arguments")
	}
	if !c.Bool("all") && c.NArg() == 0 {
		return fmt.Errorf("delete requires document ids, file paths, or --all")
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewLifecycleManager()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if c.Bool("all") {
		deleted, err := manager.DeleteAll(ctx)
		if err != nil {
			return err
		}
		return emit(c, map[string]int{"chunks_deleted": deleted}, func() {
			fmt.Printf("Deleted %d chunks.\n", deleted)
		})
	}

	var ids []string
	var paths []string
	for _, arg := range c.Args().Slice() {
		if strings.HasPrefix(arg, core.DocumentIDPrefix) {
			ids = append(ids, arg)
		} else {
			paths = append(paths, arg)
		}
	}

	var results []any
	printers := make([]func(), 0, len(ids)+len(paths))

	if len(ids) > 0 {
		idResults, err := manager.DeleteMany(ctx, ids)
		if err != nil {
			return err
		}
		for _, result := range idResults {
			results = append(results, result)
			printers = append(printers, deletePrinter(result.Status, result.DocumentID, result.ChunksDeleted))
		}
	}
	if len(paths) > 0 {
		pathResults, err := manager.DeleteManyByPaths(ctx, paths)
		if err != nil {
			return err
		}
		for _, result := range pathResults {
			results = append(results, result)
			printers = append(printers, deletePrinter(result.Status, result.FilePath, result.ChunksDeleted))
		}
	}

	return emit(c, results, func() {
		for _, print := range printers {
			print()
		}
	})
}

func deletePrinter(status, target string, chunks int) func() {
	return func() {
		if status == lifecycle.StatusSuccess {
			fmt.Printf("Deleted %s (%d chunks).\n", target, chunks)
		} else {
			fmt.Printf("Not found: %s\n", target)
		}
	}
}

func statsCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := db.NewLifecycleManager()
	if err != nil {
		return err
	}

	stats := manager.Stats(context.Background())
	return emit(c, stats, func() {
		fmt.Printf("Collection:       %s\n", stats.CollectionName)
		fmt.Printf("Embedding method: %s\n", stats.EmbeddingMethod)
		fmt.Printf("Database path:    %s\n", stats.DatabasePath)
		fmt.Printf("Documents:        %d\n", stats.UniqueDocuments)
		fmt.Printf("Chunks:           %d\n", stats.TotalChunks)
		fmt.Printf("Content bytes:    %d\n", stats.TotalContentSizeBytes)
	})
}
