// Command engine runs rating sweeps from the command line. Scheduling is
// external; this binary performs exactly one pass and exits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/clutchgolf/engine/internal/adapters/repository"
	service "github.com/clutchgolf/engine/internal/app"
	"github.com/clutchgolf/engine/internal/batch"
	"github.com/clutchgolf/engine/internal/config"
	"github.com/clutchgolf/engine/pkg/logger"
)

func main() {
	var (
		runPlayers   = flag.Bool("players", false, "run the player metrics sweep")
		runManagers  = flag.Bool("managers", false, "run the manager rating sweep")
		tournamentID = flag.String("tournament", "", "restrict the player sweep to one tournament's field")
		dbPath       = flag.String("db", "", "SQLite database path (overrides config)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	store, err := repository.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "failed to close store", logger.Error(err))
		}
	}()

	svc := service.New(cfg, service.WithStore(store), service.WithLogger(log))
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}

	if !*runPlayers && !*runManagers {
		os.Stderr.WriteString("nothing to do: pass -players and/or -managers\n")
		os.Exit(2)
	}

	exitCode := 0
	if *runPlayers {
		report, err := svc.RunPlayerSweep(ctx, *tournamentID)
		if err != nil {
			log.Error(ctx, "player sweep aborted", logger.Error(err))
			exitCode = 1
		}
		emitReport(ctx, log, report)
	}
	if *runManagers {
		report, err := svc.RunManagerSweep(ctx)
		if err != nil {
			log.Error(ctx, "manager sweep aborted", logger.Error(err))
			exitCode = 1
		}
		emitReport(ctx, log, report)
	}
	os.Exit(exitCode)
}

// emitReport writes the run report to stdout so schedulers can archive it.
func emitReport(ctx context.Context, log logger.Logger, report batch.Report) {
	out, err := json.Marshal(report)
	if err != nil {
		log.Error(ctx, "failed to encode report", logger.Error(err))
		return
	}
	os.Stdout.Write(append(out, '\n'))
}
