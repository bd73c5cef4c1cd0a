package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/spritegroup/scene"
)

// validate <scene>: parse and check a scene file.
func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene>",
		Short: "Check a scene file for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := scene.Load(fsys, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s: %d groups, %d sprites\n", spec.Name, len(spec.Groups), len(spec.Sprites))
			return nil
		},
	}
}
