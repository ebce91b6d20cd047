package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories"
	"hiringdesk/resume-intake/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest DIR",
	Short: "Score and store every PDF in a directory",
	Long:  "Ingest walks DIR for .pdf files and runs each one through the same pipeline as the upload endpoint.",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

var (
	ingestBatchID     string
	ingestCompanyID   string
	ingestConcurrency int
)

func init() {
	ingestCmd.Flags().StringVar(&ingestBatchID, "batch", "", "Target batch ID (required)")
	ingestCmd.Flags().StringVar(&ingestCompanyID, "company-id", "", "Company that owns the batch (required)")
	ingestCmd.Flags().IntVar(&ingestConcurrency, "concurrency", 4, "Number of files processed in parallel")
	_ = ingestCmd.MarkFlagRequired("batch")
	_ = ingestCmd.MarkFlagRequired("company-id")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	batchID, err := uuid.Parse(ingestBatchID)
	if err != nil {
		return fmt.Errorf("invalid batch ID: %w", err)
	}
	companyID, err := uuid.Parse(ingestCompanyID)
	if err != nil {
		return fmt.Errorf("invalid company ID: %w", err)
	}

	files, err := findPDFs(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %s", args[0])
	}

	cfg, db, err := connect()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		return err
	}
	if err := storage.EnsureReady(ctx); err != nil {
		return err
	}

	statsCache := services.NewNoopStatsCache()
	if cfg.Redis.Addr != "" {
		cache, client, err := services.NewRedisStatsCache(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		statsCache = cache
	}

	resumeRepo := repositories.NewResumeRepository(db)
	intake := services.NewIntakeService(
		repositories.NewBatchRepository(db),
		resumeRepo,
		storage,
		services.NewPDFParserService(),
		services.NewStatsService(resumeRepo, statsCache),
		cfg.Storage.MaxFileSize,
	)

	identity := auth.Identity{CompanyID: companyID, Role: models.RoleAdmin}
	return ingestFiles(ctx, cmd.OutOrStdout(), intake, identity, batchID, files, ingestConcurrency)
}

func ingestFiles(ctx context.Context, w io.Writer, intake services.IntakeService, identity auth.Identity, batchID uuid.UUID, files []string, concurrency int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	worker := services.NewIngestWorker(intake, identity, batchID, concurrency)
	worker.Start(ctx)

	go func() {
		defer worker.Stop()
		for _, path := range files {
			if !worker.Enqueue(ctx, services.IngestJob{Path: path}) {
				return
			}
		}
	}()

	var (
		stats  models.Stats
		failed int
		fatal  error
	)
	for outcome := range worker.Results() {
		name := filepath.Base(outcome.Job.Path)
		if outcome.Err != nil {
			if errors.Is(outcome.Err, services.ErrBatchNotFound) && fatal == nil {
				fatal = outcome.Err
				cancel()
			}
			if fatal == nil {
				log.Error().Err(outcome.Err).Str("file", outcome.Job.Path).Msg("failed to ingest resume")
			}
			failed++
			continue
		}

		stats.Add(outcome.Resume.Verdict, 1)
		fmt.Fprintf(w, "%-40s %3d %s\n", name, outcome.Resume.Score, outcome.Resume.Verdict)
	}
	if fatal != nil {
		return fatal
	}

	fmt.Fprintf(w, "ingested %d (hire %d, maybe %d, reject %d), failed %d\n",
		stats.Total, stats.Hire, stats.Maybe, stats.Reject, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// findPDFs lists .pdf files under dir in lexical order.
func findPDFs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
