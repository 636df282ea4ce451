// Package main provides the fabriq CLI entry point.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fabriq/internal/config"
	"fabriq/internal/history"
)

var (
	// Global flags
	configPath  string
	dataPath    string
	modelName   string
	historyPath string
	verbose     bool
	timeout     time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fabriq",
	Short: "fabriq - fabric sales smart assistant",
	Long: `fabriq answers free-text questions about a fabric sales dataset.

Deterministic rules handle counting, listing, ranking, comparison and
description queries directly. Anything else falls back to a streamed LLM
completion; returned code blocks run in a restricted interpreter that can
print text and produce a chart.

Run without arguments to start the interactive session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()
		return s.interactive(cmd.Context())
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()
		return s.resolve(cmd.Context(), strings.Join(args, " "))
	},
}

var historyN int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent questions and answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.HistoryPath == "" {
			return fmt.Errorf("history is disabled")
		}
		st, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.Recent(historyN)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("[%s] (%s) %s\n%s\n\n",
				e.AskedAt.Format("2006-01-02 15:04"), e.Source, e.Question, e.Answer)
		}
		return nil
	},
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if modelName != "" {
		cfg.Model = modelName
	}
	if historyPath != "none" {
		if historyPath != "" {
			cfg.HistoryPath = historyPath
		}
	} else {
		cfg.HistoryPath = ""
	}
	return cfg, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "sales dataset path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "completion model (overrides config)")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "history db path; \"none\" disables history")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "completion request timeout")

	historyCmd.Flags().IntVarP(&historyN, "count", "n", 10, "number of exchanges to show")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
