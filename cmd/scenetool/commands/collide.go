package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	groupA string
	groupB string
	mode   string
	steps  int
)

// collide <scene>: step a scene and list colliding pairs between two groups.
func collideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collide <scene>",
		Short: "Print the sprites of one group that collide with another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sc, err := build(args[0])
			if err != nil {
				return err
			}
			step(sc, steps, 1.0/60)

			hits, err := sc.Collisions(groupA, groupB, mode)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(w, "no collisions")
				return nil
			}
			for _, h := range hits {
				fmt.Fprintf(w, "%s -> %s\n", h.A, h.B)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&groupA, "a", "", "first group")
	cmd.Flags().StringVar(&groupB, "b", "", "second group")
	cmd.Flags().StringVar(&mode, "mode", "rect", "collision test: rect, circle or mask")
	cmd.Flags().IntVar(&steps, "frames", 0, "updates to run before testing")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}
