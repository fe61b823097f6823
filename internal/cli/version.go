package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MacroPower/xgoimages/internal/version"
)

// NewVersionCmd returns the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version of the xgoimages CLI",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cc.OutOrStdout(), version.String())
			if err != nil {
				return fmt.Errorf("write version: %w", err)
			}

			return nil
		},
	}
}
