package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/uni-bremen-agst/LSP2GXL/internal/serverregistry"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List registered LSP servers and whether they resolve on PATH",
	RunE:  runServers,
}

func init() {
	rootCmd.AddCommand(serversCmd)
}

func runServers(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", Bold("Registered LSP servers:"))

	registry := serverregistry.Default()
	for _, s := range registry.All() {
		if _, err := exec.LookPath(s.Command); err != nil {
			fmt.Fprintf(out, "  %s %-28s %s not found on PATH\n", Error("✗"), Keyword(s.Name), Dim(s.Command))
			continue
		}
		fmt.Fprintf(out, "  %s %-28s %s\n", Success("✓"), Keyword(s.Name), Dim(s.Command))
	}
	return nil
}
