// Command lumidb is the entry point for the LumiDB REPL, grounded on
// the teacher's cmd/veridicaldb/main.go cobra tree (root command,
// --config flag, version subcommand), adapted to LumiDB's pipeline
// engine and to spec.md §6's CLI surface (`lumidb [--in <path>...]`).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brody715/lumidb/internal/config"
	"github.com/brody715/lumidb/internal/logger"
	"github.com/brody715/lumidb/pkg/db"
	"github.com/brody715/lumidb/pkg/repl"
)

var (
	version   = "0.1.0"
	buildDate = "dev"

	cfgFile   string
	pluginDir string
	inPaths   []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lumidb",
		Short: "LumiDB — an in-memory pipeline query REPL",
		Long: `LumiDB is an in-memory, single-node tabular data store driven by a
pipeline query language of the form f0(args) | f1(args) | ... | fn(args).

Start the interactive shell:
  lumidb

Run one or more scripts before starting the shell:
  lumidb --in setup.lumi --in seed.lumi`,
		RunE: runREPL,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVarP(&pluginDir, "plugin-dir", "", "", "directory to search for plugins")
	rootCmd.Flags().StringArrayVar(&inPaths, "in", nil, "path to a script of pipeline queries to run before the REPL starts (repeatable)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lumidb %s (built %s)\n", version, buildDate)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runREPL(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if pluginDir != "" {
		cfg.PluginDir = pluginDir
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logSlot := logger.NewSlot(log)

	database, err := db.New(logSlot)
	if err != nil {
		log.Errorw("failed to create database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	r, err := repl.New(database, cfg.REPL.HistoryFile)
	if err != nil {
		log.Errorw("failed to start repl", "error", err)
		os.Exit(1)
	}
	defer r.Close()

	for _, path := range inPaths {
		if err := repl.RunScript(r, path); err != nil {
			log.Errorw("failed to run script", "path", path, "error", err)
			os.Exit(1)
		}
	}

	if err := r.Run(); err != nil {
		log.Errorw("repl error", "error", err)
		os.Exit(1)
	}
	return nil
}
