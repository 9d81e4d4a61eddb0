// cmd/fat/recognize_cmd.go
package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/fat/pkg/fat"
)

func init() {
	rootCmd.AddCommand(recognizeCmd())
}

func recognizeCmd() *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "recognize FILE...",
		Short: "Recognize the real extension of files",
		Long: `Recognize what a file really is.

Files named .zip or without an extension are inspected: APK, JAR, DOCX and
other ZIP-based formats are told apart by their landmark entries. Files
without an extension are otherwise classified by their magic bytes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return forEachFile(args, func(path string) error {
				rec, err := fat.Recognize(path, reg)
				if err != nil {
					return err
				}
				if rec.Sniffed() {
					slog.Debug("recognized from content", "path", path, "id", string(rec.FormatID))
				}
				fmt.Print(extensionInfo(rec.Info, analyze))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&analyze, "analyze", "a", false, "Also show alternate MIME types, description and further reading")

	return cmd
}
