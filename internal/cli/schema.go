package cli

import (
	"github.com/spf13/cobra"

	"github.com/MacroPower/xgoimages/pkg/config"
)

// NewSchemaCmd returns the schema command.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			return config.WriteSchema(cc.OutOrStdout())
		},
	}
}
