package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and Commit are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = ""
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			v := "adscout " + Version
			if Commit != "" {
				v += " (" + Commit + ")"
			}
			fmt.Println(v)
		},
	}
}
