package cmdlets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/domilx/Conductor/pkg/buildinfo"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		Run:   versionCmdRun,
	}
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionCmdRun(c *cobra.Command, args []string) {
	fmt.Println("Conductor", buildinfo.Release())
}
