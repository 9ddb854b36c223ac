package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/adscout/adscout/pkg/types"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <slug>",
		Short:   "Show a single listing",
		Long:    "Fetch the full record of a listing by its slug, including\ngallery and seller contact details.",
		Example: `  adscout show mountain-bike-7`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			d, err := newClient(cfg).GetAd(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			resolved := domain.ResolvedFromDetail(d)

			if jsonOutput() {
				return outputJSON(resolved)
			}
			return printAdDetail(&resolved)
		},
	}
}
