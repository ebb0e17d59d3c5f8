package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/carwyn/sixnations/internal/api"
	"github.com/carwyn/sixnations/internal/api/handler"
	"github.com/carwyn/sixnations/internal/config"
	"github.com/carwyn/sixnations/internal/engine"
	"github.com/carwyn/sixnations/internal/excel"
	"github.com/carwyn/sixnations/internal/logging"
	"github.com/carwyn/sixnations/internal/seed"
	"github.com/carwyn/sixnations/internal/store"
	"github.com/carwyn/sixnations/internal/validator"
)

const defaultConfigFile = "tournament.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sixnations",
		Short: "Six Nations championship fixture scheduler",
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter tournament.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and validate fixture schedules",
	}

	var configFile string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: tournament.yaml in current directory)")

	var outputFile string
	var seedFlag int64
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			var seedPtr *int64
			if cmd.Flags().Changed("seed") {
				seedPtr = &seedFlag
			}
			return runGenerate(configPath, outputFile, seedPtr)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")
	generateCmd.Flags().Int64Var(&seedFlag, "seed", 0, "Random seed for reproducible schedules")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate an exported schedule against championship rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, validateCmd)

	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the scheduling API server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	seedCmd := &cobra.Command{
		Use:          "seed",
		Short:        "Apply the database schema and insert the six nations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	}

	rootCmd.AddCommand(initCmd, scheduleCmd, serveCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

func runGenerate(configPath, outputPath string, seedPtr *int64) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := cfg.EngineOptions()
	opts.Seed = seedPtr

	eng := engine.New(cfg.Directory(), cfg.History())
	schedule, err := eng.Generate(context.Background(), cfg.Roster(), cfg.Season.Year, opts)
	if err != nil {
		return fmt.Errorf("generating schedule: %w", err)
	}

	fmt.Printf("✓ All %d fixtures scheduled for the %d championship\n", len(schedule.Fixtures), schedule.Season)
	fmt.Println()
	for _, line := range schedule.Summary {
		fmt.Printf("  %s\n", line)
	}

	f, err := excel.Generate(schedule)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	names := make([]string, 0, len(cfg.Roster()))
	for _, t := range cfg.Roster() {
		names = append(names, t.Name)
	}

	violations, err := validator.Validate(cfg.Season.Year, names, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errCount := 0
	warnCount := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errCount++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnCount++
			fmt.Printf("⚠ %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d warnings\n", errCount, warnCount)

	if errCount > 0 {
		return fmt.Errorf("%d constraint violations found", errCount)
	}
	return nil
}

func runServe(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	eng := engine.New(st, st)
	h := handler.New(st, eng, logger)
	router := api.NewRouter(h, cfg, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func runSeed(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	st, err := store.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	if err := seed.Run(ctx, st.Pool(), logger); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	fmt.Println("✓ Database seeded")
	return nil
}

const configTemplate = `# Six Nations Tournament Configuration
# ====================================
# This file defines the roster and scheduling policy for one championship.

# Season defines the year and the weekend window fixtures may occupy.
# When the window is omitted it defaults to February through April of the
# season year.
season:
  year: 2026
  window_start: "2026-02-01"
  window_end: "2026-04-30"

# The six competing nations. Rankings must be the numbers 1 through 6 and
# drive which fixture headlines the final round. Stadium coordinates are
# only needed by the travel venue strategy.
teams:
  - name: Ireland
    ranking: 1
    stadium: Aviva Stadium
    city: Dublin
    latitude: 53.3352
    longitude: -6.2285
  - name: France
    ranking: 2
    stadium: Stade de France
    city: Saint-Denis
    latitude: 48.9244
    longitude: 2.3601
  - name: England
    ranking: 3
    stadium: Twickenham
    city: London
    latitude: 51.4559
    longitude: -0.3416
  - name: Scotland
    ranking: 4
    stadium: Murrayfield
    city: Edinburgh
    latitude: 55.9422
    longitude: -3.2409
  - name: Wales
    ranking: 5
    stadium: Principality Stadium
    city: Cardiff
    latitude: 51.4782
    longitude: -3.1826
  - name: Italy
    ranking: 6
    stadium: Stadio Olimpico
    city: Rome
    latitude: 41.9339
    longitude: 12.4547

# Kick-off slots for each match weekend. Times use 24-hour format and
# same-day slots must be at least two hours apart.
kickoffs:
  - day: saturday
    time: "12:30"
  - day: saturday
    time: "14:45"
  - day: saturday
    time: "17:00"

# Rest weeks insert a fallow weekend after the named round. The Six Nations
# traditionally rests after rounds 2 and 3.
rest_weeks: [2, 3]

# Venue strategy decides who hosts each pairing.
# "balanced" alternates venues against the previous meeting and keeps every
# team between two and three home fixtures.
# "travel" additionally weighs cumulative away travel distance.
venue_strategy: balanced

# Round ordering decides which pairings land in which match week.
# "random" keeps the drawn order. "marquee-last" moves the round containing
# the highest-profile fixture into the final match week.
round_ordering: marquee-last

# Scoring weights for identifying the marquee fixture. The score rewards
# two strong teams and penalizes mismatches.
scoring:
  rank_sum_weight: 10
  rank_diff_weight: 1

# Last season's fixtures, used to alternate venues. Omit the section for a
# fresh start where home advantage is decided by balance alone.
previous_season:
  year: 2025
  results:
    - home: France
      away: Wales
    - home: Scotland
      away: Italy
    - home: Ireland
      away: England
    - home: Italy
      away: Wales
    - home: England
      away: France
    - home: Scotland
      away: Ireland
    - home: Wales
      away: Ireland
    - home: England
      away: Scotland
    - home: Italy
      away: France
    - home: Ireland
      away: France
    - home: Scotland
      away: Wales
    - home: England
      away: Italy
    - home: Italy
      away: Ireland
    - home: Wales
      away: England
    - home: France
      away: Scotland
`
