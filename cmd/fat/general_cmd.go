// cmd/fat/general_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/fat/pkg/fat"
)

func init() {
	rootCmd.AddCommand(generalCmd())
}

func generalCmd() *cobra.Command {
	var noDigest bool
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "general FILE...",
		Short: "Show general file information",
		Long:  "Show name, size, timestamps, permissions and the BLAKE3 digest of files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return forEachFile(args, func(path string) error {
				var onRead func(n int)
				wait := func() {}
				if showProgress && !noDigest {
					if fi, err := fat.CheckFile(path); err == nil {
						onRead, wait = fat.DigestProgress(path, fi.Size())
					}
				}

				info, err := fat.General(path, !noDigest, onRead)
				wait()
				if info != nil {
					fmt.Print(info.Summary(human()))
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&noDigest, "no-digest", false, "Skip computing the BLAKE3 digest")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar while hashing")

	return cmd
}
