package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/creativeyann17/fat/pkg/registry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// defaultExtensionsFile is picked up from the working directory when present
const defaultExtensionsFile = "Extensions.toml"

var (
	rawBytes       bool
	debug          bool
	extensionsPath string

	// reg is loaded once before any command runs
	reg *registry.Registry
)

var rootCmd = &cobra.Command{
	Use:   "fat",
	Short: "fat - file analysis tool, analyzes files and provides required info",
	Long: `fat recognizes what a file really is and reports what is inside archives.

ZIP-based formats (APK, JAR, DOCX, ...) are recognized from their content,
and ZIP and RAR archives can be listed with sizes, ratios and methods.`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(debug)
		r, err := loadRegistry(extensionsPath)
		if err != nil {
			return err
		}
		reg = r
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rawBytes, "byte", "b", false, "Show sizes as raw byte counts")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&extensionsPath, "extensions", "",
		"Extensions table (TOML, optionally .xz); default ./"+defaultExtensionsFile+" if present, else built-in")
}

func setupLogging(debug bool) {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: debug,
	})
	slog.SetDefault(slog.New(logger))
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path != "" {
		return registry.Load(path)
	}
	if _, err := os.Stat(defaultExtensionsFile); err == nil {
		slog.Debug("using extensions table from working directory", "path", defaultExtensionsFile)
		return registry.Load(defaultExtensionsFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		slog.Debug("ignoring extensions table", "path", defaultExtensionsFile, "error", err)
	}
	return registry.Default(), nil
}

// human reports whether sizes should be rendered with units
func human() bool {
	return !rawBytes
}

// forEachFile runs fn for every path, logging failures and continuing.
// It returns an error when at least one path failed.
func forEachFile(paths []string, fn func(path string) error) error {
	var failed int
	for i, p := range paths {
		if i > 0 {
			fmt.Println()
		}
		if err := fn(p); err != nil {
			slog.Error("failed", "path", p, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}
