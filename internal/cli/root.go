// Package cli is the cobra-based command surface: build, servers, version.
// It is the only collaborator allowed to construct an importer.Options
// from flags and drive the GXL writer; the core never imports this
// package back.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lsp2gxl",
	Short: "Reify LSP cross-references as a typed hierarchical graph",
	Long:  "lsp2gxl drives an external LSP server over a project and writes a GXL graph of its directories, files, symbols and semantic relations.",
}

// Execute runs the configured command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		printBanner(out)
		fmt.Fprintln(out)
		defaultHelp(cmd, args)
	})
}
