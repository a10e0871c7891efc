// healthtwin is the command line companion to the scoring service. It
// scores parameter files and runs intervention simulations without a
// running server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/felixphool/healthtwin/internal/config"
	"github.com/felixphool/healthtwin/internal/database"
	"github.com/felixphool/healthtwin/internal/domain"
	"github.com/felixphool/healthtwin/internal/ingest"
	"github.com/felixphool/healthtwin/internal/scoring"
	"github.com/felixphool/healthtwin/internal/twin"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	rootCmd := &cobra.Command{
		Use:     "healthtwin",
		Short:   "Score patient health parameters and simulate interventions",
		Version: scoring.EngineVersion,
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log scoring details to stderr")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetOutput(os.Stderr)
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
	}

	scoreCmd := &cobra.Command{
		Use:   "score <file>",
		Short: "Score a parameter file (.json, .csv or .xlsx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := loadParameters(args[0])
			if err != nil {
				return err
			}

			engine := scoring.NewEngine(logger)
			result, err := engine.ScoreRaw(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	var (
		simAge        int
		simGender     string
		simConditions []string
		simSeed       int64
		simWeeks      int
		simBaseline   string
		simPlan       string
	)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project an intervention over a baseline and score each week",
		Long: `Simulate runs an intervention against a patient baseline and prints
the weekly parameter projections with their scores.

The baseline comes either from --baseline (a parameter file) or from a
generated digital twin described by --age, --gender, --conditions and
--seed. The intervention is read from --plan, a JSON file with optional
exercise, diet, medication and sleep sections.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := scoring.NewEngine(logger)

			baseline, err := resolveBaseline(simBaseline, twin.Profile{
				Age:        simAge,
				Gender:     simGender,
				Conditions: simConditions,
				Seed:       simSeed,
			})
			if err != nil {
				return err
			}

			var intervention twin.Intervention
			if simPlan != "" {
				data, err := os.ReadFile(simPlan)
				if err != nil {
					return fmt.Errorf("reading intervention plan: %w", err)
				}
				if err := json.Unmarshal(data, &intervention); err != nil {
					return fmt.Errorf("parsing intervention plan: %w", err)
				}
			}

			simulator := twin.NewSimulator(engine, logger)
			outcomes, err := simulator.Simulate(context.Background(), baseline, intervention, simWeeks)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), outcomes)
		},
	}

	simulateCmd.Flags().IntVar(&simAge, "age", 45, "twin age in years")
	simulateCmd.Flags().StringVar(&simGender, "gender", "M", "twin gender (M or F)")
	simulateCmd.Flags().StringSliceVar(&simConditions, "conditions", nil, "twin conditions (diabetes, hypertension, ...)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "twin generation seed")
	simulateCmd.Flags().IntVar(&simWeeks, "weeks", 12, "number of weeks to simulate")
	simulateCmd.Flags().StringVar(&simBaseline, "baseline", "", "parameter file to use instead of a generated twin")
	simulateCmd.Flags().StringVar(&simPlan, "plan", "", "JSON file describing the intervention")

	migrateCmd := &cobra.Command{
		Use:       "migrate {up|down|version}",
		Short:     "Manage the PostgreSQL schema",
		Long:      "Migrate applies, rolls back, or reports the schema version of the\nPostgreSQL database named by the server configuration.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configManager, err := config.NewManager()
			if err != nil {
				return err
			}
			cfg := configManager.GetConfig()

			dbConfig := database.Config{
				Host:     cfg.Database.Host,
				Port:     cfg.Database.Port,
				Database: cfg.Database.Database,
				Username: cfg.Database.Username,
				Password: cfg.Database.Password,
				SSLMode:  cfg.Database.SSLMode,
			}

			migrateLogger := logrus.New()
			migrateLogger.SetOutput(os.Stderr)
			migrateLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			migrator, err := database.NewMigrator(dbConfig.URL(), cfg.Database.MigrationsPath, migrateLogger)
			if err != nil {
				return err
			}
			defer migrator.Close()

			switch args[0] {
			case "up":
				return migrator.Up()
			case "down":
				return migrator.Down()
			default:
				version, dirty, err := migrator.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%v)\n", version, dirty)
				return nil
			}
		},
	}

	rootCmd.AddCommand(scoreCmd, simulateCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadParameters reads a raw parameter mapping from a JSON, CSV or XLSX
// file, keyed by extension.
func loadParameters(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var raw map[string]any
		if err := json.NewDecoder(f).Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return raw, nil
	case ".csv":
		return ingest.ReadCSV(f)
	case ".xlsx":
		return ingest.ReadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .json, .csv or .xlsx)", filepath.Ext(path))
	}
}

func resolveBaseline(path string, profile twin.Profile) (*domain.ParameterSet, error) {
	if path == "" {
		return twin.GenerateBaseline(profile), nil
	}
	raw, err := loadParameters(path)
	if err != nil {
		return nil, err
	}
	return scoring.ParseParameters(raw)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
