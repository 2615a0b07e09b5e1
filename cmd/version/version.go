// Package version implements the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chiheye/LLMGraphChat/internal/version"
)

// VersionCmd prints version and build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Long: "Print version and build information.\n\n" +
		"Reports the semantic version of the graphchat binary along with the " +
		"git commit and build date it was produced from.",
	Example: `  # Print version information
  graphchat version`,
	RunE: runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
	return nil
}
