package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"cycle-insights/pkg/config"
	"cycle-insights/pkg/database"
	"cycle-insights/pkg/models"
)

const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"

	styleBoldCyan = "\033[1;36m"
	styleBoldRed  = "\033[1;31m"
)

// paint drops escape codes when stdout is not a terminal.
func paint(code string) string {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return code
	}
	return ""
}

func printHeader(title string) {
	fmt.Printf("\n%s%s%s\n", paint(styleBoldCyan), title, paint(colorReset))
	fmt.Println(paint(colorDim) + strings.Repeat("-", len(title)+2) + paint(colorReset))
}

func printField(label, value string) {
	fmt.Printf("  %s%-18s%s %s\n", paint(colorBold), label+":", paint(colorReset), value)
}

func printFieldColored(label, value, color string) {
	fmt.Printf("  %s%-18s%s %s%s%s\n", paint(colorBold), label+":", paint(colorReset), paint(color), value, paint(colorReset))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// showProgress draws bars only for interactive stderr.
func showProgress() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func newBar(n int, desc string) *progressbar.ProgressBar {
	if !showProgress() {
		return progressbar.NewOptions(n, progressbar.OptionSetWriter(nopWriter{}))
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// settings resolves config file, env and flags, flags winning.
func settings(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("dsn"); v != "" {
		cfg.DSN = v
	}
	if v, _ := cmd.Flags().GetString("data"); v != "" {
		cfg.DataFile = v
	}
	if v, _ := cmd.Flags().GetString("user"); strings.TrimSpace(v) != "" {
		cfg.UserID = strings.TrimSpace(v)
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	return cfg, nil
}

// clock returns the --today day, or the current time.
func clock(cmd *cobra.Command) (func() time.Time, error) {
	raw, _ := cmd.Flags().GetString("today")
	if raw == "" {
		return func() time.Time { return time.Now().UTC() }, nil
	}
	day, err := models.ParseDay(raw)
	if err != nil {
		return nil, fmt.Errorf("--today: %w", err)
	}
	return func() time.Time { return day }, nil
}

// storeFactory opens the configured backend and returns a per-user store constructor.
type storeFactory func(userID string) database.Store

func openStores(ctx context.Context, cfg config.Config) (storeFactory, func(context.Context) error, func(), error) {
	if cfg.DSN == "" {
		fs := database.NewFileStore(cfg.DataFile, cfg.UserID)
		if cfg.Verbose {
			log.Printf("[INFO] using data file %s", cfg.DataFile)
		}
		return func(userID string) database.Store { return fs.ForUser(userID) }, nil, func() {}, nil
	}

	db, dsnUsed, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.Ping(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	if cfg.Verbose {
		log.Printf("[INFO] connected dsn=%s", redactDSN(dsnUsed))
	}
	repo := database.NewRepository(db, cfg.UserID)
	repo.Verbose = cfg.Verbose
	ready := func(ctx context.Context) error { return database.Ping(ctx, db) }
	return func(userID string) database.Store { return repo.ForUser(userID) }, ready, func() { db.Close() }, nil
}

// openStore is openStores for the configured user.
func openStore(cmd *cobra.Command) (database.Store, config.Config, func(), error) {
	cfg, err := settings(cmd)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	factory, _, closeFn, err := openStores(cmd.Context(), cfg)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return factory(cfg.UserID), cfg, closeFn, nil
}

func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	colon := strings.Index(dsn, ":")
	if at < 0 || colon < 0 || colon > at {
		return dsn
	}
	return dsn[:colon+1] + "***" + dsn[at:]
}

func formatOptional(p *float64, format string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf(format, *p)
}
