// cmd/fat/analyze_cmd.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/fat/pkg/fat"
	"github.com/creativeyann17/fat/pkg/registry"
)

func init() {
	rootCmd.AddCommand(analyzeCmd())
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Show extension info for the file name's extension",
		Long: `Show everything the extensions table knows about the extension in the
file name, without looking at the content.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return forEachFile(args, func(path string) error {
				if _, err := fat.CheckFile(path); err != nil {
					return err
				}
				fmt.Print(extensionInfo(reg.Lookup(fat.NominalExtension(path)), true))
				return nil
			})
		},
	}
}

// extensionInfo renders a registry record; more adds alternate MIME types,
// the description and the reference link
func extensionInfo(e registry.Extension, more bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Extension: %s\n", e.Extension)
	fmt.Fprintf(&b, "# Category: %s\n", e.Category)
	fmt.Fprintf(&b, "# Name: %s\n", e.Name)
	if e.PreferredMIME != "" {
		fmt.Fprintf(&b, "# Media type (mime): %s\n", e.PreferredMIME)
	}
	if !more {
		return b.String()
	}
	if alt := e.AlternateMIMEs(); len(alt) > 0 {
		fmt.Fprintf(&b, "# Other possible media types (mimes): %s\n", strings.Join(alt, "; "))
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "# Description: %s\n", e.Description)
	}
	if e.FurtherReading != "" {
		fmt.Fprintf(&b, "# Further reading: %s\n", e.FurtherReading)
	}
	return b.String()
}
