package commands

import (
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/milk9111/spritegroup/assets"
	"github.com/milk9111/spritegroup/scene"
	"github.com/milk9111/spritegroup/scenes"
)

var (
	dir  string
	fsys fs.FS
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "scenetool",
		Short:        "Validate, render and inspect sprite scenes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				fsys = scenes.FS
				return nil
			}
			if _, err := os.Stat(dir); err != nil {
				return err
			}
			fsys = os.DirFS(dir)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dir, "dir", "", "directory holding scenes, scripts and images (default: embedded samples)")

	root.AddCommand(validateCmd(), renderCmd(), collideCmd())
	return root
}

// build loads a scene with images and scripts resolved from the same tree.
func build(name string) (*scene.Spec, *scene.Scene, error) {
	spec, err := scene.Load(fsys, name)
	if err != nil {
		return nil, nil, err
	}
	sc, err := scene.Build(spec, scene.Options{
		Images:  assets.NewCache(fsys),
		Scripts: fsys,
	})
	if err != nil {
		return nil, nil, err
	}
	return spec, sc, nil
}

func step(sc *scene.Scene, frames int, dt float64) {
	for i := 0; i < frames; i++ {
		sc.Update(dt)
	}
}
