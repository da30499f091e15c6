package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robottwo/linpredict/internal/config"
	"github.com/robottwo/linpredict/internal/core"
	"github.com/robottwo/linpredict/internal/journal"
	"github.com/robottwo/linpredict/internal/predict"
	"github.com/robottwo/linpredict/internal/styles"
	"github.com/robottwo/linpredict/internal/ui"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var BUILD_VERSION = "dev"

var serverURL = flag.String("server", "", "prediction server base URL (overrides config)")
var configFile = flag.String("config", "", "use a custom config file instead of ~/.linpredict.yaml")
var historyLimit = flag.Int("history", 0, "print the last `N` journaled prediction attempts and exit")
var resetJournal = flag.Bool("reset-journal", false, "delete all journaled prediction attempts and exit")

var helpFlag bool
var versionFlag bool

func init() {
	flag.BoolVar(&helpFlag, "h", false, "display help information")
	flag.BoolVar(&helpFlag, "help", false, "display help information")

	flag.BoolVar(&versionFlag, "v", false, "display build version")
	flag.BoolVar(&versionFlag, "version", false, "display build version")

	if err := zap.RegisterSink("zstd", openZstdSink); err != nil {
		panic(fmt.Sprintf("failed to register zstd sink: %v", err))
	}
}

func main() {
	flag.Parse()

	if versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if helpFlag {
		printUsage()
		return
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR("linpredict: "+err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session", sessionID))
	logger.Info("-------- new linpredict session --------", zap.Any("args", os.Args))

	if *historyLimit > 0 || *resetJournal {
		j, err := openJournal(cfg, logger)
		if err != nil {
			return err
		}
		defer closeJournal(j, logger)

		if *resetJournal {
			return resetEntries(os.Stdout, j)
		}
		return printHistory(os.Stdout, j, *historyLimit, time.Now())
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal; run linpredict interactively")
	}

	client := predict.NewClient(predict.ClientConfig{
		BaseURL:   cfg.ServerURL,
		Timeout:   cfg.Timeout,
		UserAgent: "linpredict/" + BUILD_VERSION,
		Logger:    logger,
	})

	opts := ui.Options{
		Predictor: client,
		Health:    client,
		Logger:    logger,
		SessionID: sessionID,
		Endpoint:  client.Endpoint(),
	}

	if cfg.Journal {
		j, err := openJournal(cfg, logger)
		if err != nil {
			logger.Warn("journal disabled", zap.Error(err))
		} else {
			defer closeJournal(j, logger)
			opts.Journal = j
		}
	}

	points, err := ui.Run(ctx, opts)
	if err != nil {
		logger.Error("program exited with error", zap.Error(err))
		return err
	}
	logger.Info("session ended", zap.Int("points", points.Len()))
	return nil
}

func loadConfig() (config.Config, error) {
	path := *configFile
	if path == "" {
		path = core.ConfigFile()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if cfg.JournalPath == "" {
		cfg.JournalPath = core.JournalFile()
	}
	return cfg, cfg.Validate()
}

func initializeLogger(cfg config.Config) (*zap.Logger, error) {
	logLevel, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		"zstd://" + core.SessionLogFile(time.Now()),
	}
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}

	if err := core.RotateLogFiles(); err != nil {
		logger.Warn("failed to rotate log files", zap.Error(err))
	}

	return logger, nil
}

func openJournal(cfg config.Config, logger *zap.Logger) (*journal.Journal, error) {
	j, err := journal.NewJournal(cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", cfg.JournalPath, err)
	}
	j.Logger = logger
	return j, nil
}

func closeJournal(j *journal.Journal, logger *zap.Logger) {
	if err := j.Close(); err != nil {
		logger.Warn("failed to close journal", zap.Error(err))
	}
}

func printUsage() {
	fmt.Println(styles.HEADING("Usage:") + " linpredict [flags]")
	fmt.Println("\nInteractive client for a linear regression prediction service.")
	fmt.Println()

	fmt.Println(styles.HEADING("Options:"))

	// -h and -help share a usage string; print them on one line
	printed := make(map[string]bool)

	flag.VisitAll(func(f *flag.Flag) {
		if printed[f.Name] {
			return
		}

		aliases := []string{"-" + f.Name}
		flag.VisitAll(func(p *flag.Flag) {
			if p.Name != f.Name && p.Usage == f.Usage {
				aliases = append(aliases, "-"+p.Name)
				printed[p.Name] = true
			}
		})
		printed[f.Name] = true

		flagStr := strings.Join(aliases, ", ")
		argName, usage := flag.UnquoteUsage(f)
		if argName != "" {
			flagStr += " <" + argName + ">"
		}

		fmt.Printf("  %-28s %s\n", flagStr, usage)
	})

	fmt.Println()
	fmt.Println(styles.HEADING("Keys:"))
	fmt.Printf("  %-28s %s\n", "Enter", "Request a prediction for the current value")
	fmt.Printf("  %-28s %s\n", "Up/Down", "Step the value by 0.1 within 0-10")
	fmt.Printf("  %-28s %s\n", "Tab", "Inspect points on the chart")
	fmt.Printf("  %-28s %s\n", "Ctrl+Y", "Copy the results as CSV")
	fmt.Printf("  %-28s %s\n", "Esc, Ctrl+C", "Quit")
}
