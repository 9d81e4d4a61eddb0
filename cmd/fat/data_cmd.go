// cmd/fat/data_cmd.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/fat/pkg/fat"
	"github.com/creativeyann17/fat/pkg/report"
)

func init() {
	rootCmd.AddCommand(dataCmd())
}

func dataCmd() *cobra.Command {
	var asJSON bool
	var showProgress bool
	var exclude []string

	cmd := &cobra.Command{
		Use:     "data FILE...",
		Aliases: []string{"metadata"},
		Short:   "List the contents of ZIP and RAR archives",
		Long: `List the entries of ZIP and RAR archives with their sizes, compression
ratios, types, timestamps and checksums, plus the compression methods used.

The container is chosen from the file extension (zip, rar) and otherwise from
the magic bytes, so APK, DOCX and other ZIP-based files are listed too.
Entries with unsafe paths are skipped and reported as warnings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return forEachFile(args, func(path string) error {
				if _, err := fat.CheckFile(path); err != nil {
					return err
				}

				opts := &report.Options{
					InputPath: path,
					Registry:  reg,
					Exclude:   exclude,
					Verbose:   debug,
					Quiet:     asJSON,
				}

				var progressCb report.ProgressCallback
				wait := func() {}
				if showProgress && !asJSON {
					cb, progress := fat.ProgressBarCallback()
					progressCb = cb
					wait = progress.Wait
				}

				r, err := report.Inspect(opts, progressCb)
				wait()
				if r == nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					if encErr := enc.Encode(r); encErr != nil {
						return encErr
					}
				} else {
					fmt.Print(r.Summary(human()))
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar while listing")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Gitignore-style pattern of entries to leave out of the listing (repeatable)")

	return cmd
}
