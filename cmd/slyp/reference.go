package main

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/slyp/internal/codes"
)

func newReferenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reference",
		Short: "Print the error code reference as reStructuredText",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return codes.WriteReference(cmd.OutOrStdout())
		},
	}
}
