// Command export writes the full assessment report, or one school's report,
// as an xlsx workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/feblcsack/partyRock/internal/adapters/export/xlsx"
	"github.com/feblcsack/partyRock/internal/adapters/repository"
	service "github.com/feblcsack/partyRock/internal/app"
	"github.com/feblcsack/partyRock/internal/config"
	"github.com/feblcsack/partyRock/internal/domain/report"
	"github.com/feblcsack/partyRock/pkg/logger"
)

const reportFilePermission = 0o644

// options holds the command-line flags.
type options struct {
	school string
	dir    string
	seed   string
}

func main() {
	var (
		school = flag.String("school", "", "Export only this school (exact name); default is the full report")
		dir    = flag.String("dir", "", "Output directory (default: report_dir from config)")
		seed   = flag.String("seed", "", "JSON file of projects to load into an empty store first")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.InitWith(os.Stderr, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	path, err := run(ctx, cfg, options{school: *school, dir: *dir, seed: *seed})
	if err != nil {
		logger.Get().Error(ctx, "export failed", logger.Error(err))
		os.Exit(1)
	}
	os.Stdout.WriteString(path + "\n")
}

// run builds the requested report from the configured store and writes it
// into the output directory. It returns the written file's path.
func run(ctx context.Context, cfg *config.Config, opts options) (string, error) {
	l := logger.Named("export").With(logger.String("store", cfg.Store))

	store, err := repository.OpenStore(ctx, cfg.Store, repository.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return "", err
	}
	svc := service.New(
		service.WithStore(store),
		service.WithLogger(l),
		service.WithStrictValidation(cfg.StrictValidation),
		service.WithTopN(cfg.TopN),
	)
	if err := svc.Start(ctx); err != nil {
		return "", err
	}
	defer svc.Stop()

	if opts.seed != "" {
		if err := seedStore(ctx, svc, store, opts.seed, l); err != nil {
			return "", err
		}
	}

	var rep report.Report
	if opts.school != "" {
		rep, err = svc.SchoolReport(ctx, opts.school)
	} else {
		rep, err = svc.FullReport(ctx)
	}
	if err != nil {
		return "", err
	}

	dir := opts.dir
	if dir == "" {
		dir = cfg.ReportDir
	}
	return writeReport(ctx, dir, rep)
}

// seedStore imports the seed file unless the store already holds projects.
func seedStore(ctx context.Context, svc *service.Service, store repository.Store, path string, l logger.Logger) error {
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		l.Warn(ctx, "store is not empty; seed skipped", logger.Int("projects", n), logger.String("seed", path))
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	_, err = svc.Import(ctx, f)
	return err
}

func writeReport(ctx context.Context, dir string, rep report.Report) (string, error) {
	path := filepath.Join(dir, filepath.Base(xlsx.Filename(rep)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, reportFilePermission)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := xlsx.Write(ctx, f, rep); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return path, nil
}
