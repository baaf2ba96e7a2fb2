// portfolio serves an animated personal portfolio.
//
// Web mode (default) runs the HTTP server: the page, its Server-Sent
// Events stream, project click counting and the admin statistics API.
// Terminal mode plays the same intro, particle background and skill
// badges full-screen in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/doneil/portfolio/internal/config"
	"github.com/doneil/portfolio/internal/content"
	"github.com/doneil/portfolio/internal/particles"
	"github.com/doneil/portfolio/internal/shell"
	"github.com/doneil/portfolio/internal/tui"
	"github.com/doneil/portfolio/internal/visits"
	"github.com/doneil/portfolio/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		mode        string
		contentPath string
		dbPath      string
		envFile     string
	)
	flagSet := pflag.NewFlagSet("portfolio", pflag.ContinueOnError)
	flagSet.StringVar(&mode, "mode", "web", "web or tui")
	flagSet.StringVar(&contentPath, "content", "", "YAML content file (default: built-in, or CONTENT_FILE)")
	flagSet.StringVar(&dbPath, "db", "", "SQLite database for visit statistics (default: DATABASE_PATH)")
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if contentPath != "" {
		cfg.ContentPath = contentPath
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	catalog := content.Default()
	if cfg.ContentPath != "" {
		catalog, err = content.Load(cfg.ContentPath)
		if err != nil {
			return err
		}
	}

	timing := shell.Timing{
		TypeInterval:  cfg.TypeInterval,
		FrameInterval: cfg.FrameInterval,
		StageDelay:    cfg.StageDelay,
		SectionDelay:  cfg.SectionDelay,
		FadeHold:      cfg.FadeHold,
	}

	switch mode {
	case "web":
		logger, closeLog, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()
		return runWeb(cfg, catalog, timing, logger)
	case "tui":
		logger, closeLog, err := newLogger(cfg, io.Discard)
		if err != nil {
			return err
		}
		defer closeLog()
		return runTUI(cfg, catalog, timing, logger)
	default:
		return fmt.Errorf("unknown mode %q (want web or tui)", mode)
	}
}

// newLogger logs text records to LOG_FILE when set, and to fallback
// otherwise.
func newLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	out := fallback
	closeFn := func() {}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = file
		closeFn = func() { file.Close() }
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func runWeb(cfg *config.Config, catalog *content.Catalog, timing shell.Timing, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := visits.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	tracker, err := visits.NewTracker(db,
		visits.WithSalt(cfg.VisitorSalt),
		visits.WithRetention(cfg.VisitorRetention),
		visits.WithLogger(logger.With("component", "visits")),
	)
	if err != nil {
		return err
	}
	defer tracker.Wait()
	if cfg.VisitorSalt == "" {
		logger.Warn("VISITOR_SALT not set, visitor hashes will not survive a restart")
	}
	go tracker.RunCleanup(ctx, cfg.CleanupInterval)

	particleCfg := particles.DefaultConfig()
	particleCfg.Count = cfg.ParticleCount

	server, err := web.New(catalog, tracker, web.Options{
		Timing:         timing,
		Particles:      particleCfg,
		StreamInterval: cfg.StreamInterval,
		Logger:         logger.With("component", "web"),
		AdminUsername:  cfg.AdminUsername,
		AdminPassword:  cfg.AdminPassword,
		SecureCookies:  cfg.Production(),
	})
	if err != nil {
		return err
	}

	logger.Info("portfolio starting",
		"env", cfg.AppEnv,
		"addr", cfg.Addr(),
		"database", cfg.DatabasePath,
		"admin", cfg.AdminEnabled(),
	)
	return server.Run(ctx, cfg.Addr(), cfg.ShutdownTimeout)
}

func runTUI(cfg *config.Config, catalog *content.Catalog, timing shell.Timing, logger *slog.Logger) error {
	particleCfg := tui.DefaultParticles()
	if cfg.ParticleCount < particleCfg.Count {
		particleCfg.Count = cfg.ParticleCount
	}

	model := tui.New(catalog, tui.Options{
		Timing:    timing,
		Particles: particleCfg,
		Logger:    logger.With("component", "tui"),
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := program.Run()
	model.Close()
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `portfolio: animated personal portfolio.

Usage:
  portfolio [flags]

Examples:
  # Serve the site on $PORT (default 8080)
  portfolio

  # Play the portfolio in the terminal
  portfolio --mode tui

  # Serve custom content with statistics in a scratch database
  portfolio --content me.yaml --db /tmp/portfolio.db

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
