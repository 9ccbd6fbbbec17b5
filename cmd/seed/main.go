// Command seed resets and recreates the "demo" form with sample
// submissions. Maintenance tooling only — the API itself has no delete.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/avahart/kudos/internal/config"
	"github.com/avahart/kudos/internal/model"
	"github.com/avahart/kudos/internal/repository/sqlite"
)

const demoSlug = "demo"

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := seed(context.Background(), db); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed complete", slog.String("slug", demoSlug))
}

func seed(ctx context.Context, db *sqlite.DB) error {
	if err := db.ResetForm(ctx, demoSlug); err != nil {
		return err
	}

	creator := &model.Creator{Name: "Ava Hart"}
	form := &model.Form{Slug: demoSlug, Title: "Ava's Creator Studio"}
	if err := db.CreateWithCreator(ctx, creator, form); err != nil {
		return err
	}

	approved := &model.Submission{
		FormID:  form.ID,
		Name:    "Taylor Gray",
		Role:    "Founder",
		Company: "Acme",
		Quote:   "Kudos helped us turn happy customers into an always-on sales page.",
		Email:   "taylor@acme.co",
	}
	if err := db.Create(ctx, approved); err != nil {
		return err
	}
	if _, err := db.Approve(ctx, approved.ID, time.Now().UTC()); err != nil {
		return err
	}

	pending := &model.Submission{
		FormID:  form.ID,
		Name:    "Jordan Lee",
		Role:    "Course Creator",
		Company: "Growth Lab",
		Quote:   "The intake form is clean and we shipped a testimonial wall in days.",
		Email:   "jordan@growthlab.co",
	}
	return db.Create(ctx, pending)
}
