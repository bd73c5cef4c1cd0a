package commands

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/milk9111/spritegroup/surface"
)

var (
	out    string
	frames int
	dt     float64
)

// render <scene>: step a scene headless and write the last frame as a PNG.
func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Render a scene to a PNG without opening a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 0 {
				return fmt.Errorf("frames must not be negative")
			}
			spec, sc, err := build(args[0])
			if err != nil {
				return err
			}

			dst := surface.New(spec.Width, spec.Height)
			sc.Draw(dst)
			var changed int
			for i := 0; i < frames; i++ {
				step(sc, 1, dt)
				changed += len(sc.Draw(dst))
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := png.Encode(f, dst.Image()); err != nil {
				_ = f.Close()
				return fmt.Errorf("encode %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s after %d frames (%d changed rects)\n", out, frames, changed)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "scene.png", "output PNG path")
	cmd.Flags().IntVar(&frames, "frames", 0, "updates to run before the final draw")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60, "seconds per update")
	return cmd
}
