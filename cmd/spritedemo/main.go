package main

import (
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/spritegroup/scenes"
)

func main() {
	sceneName := flag.String("scene", scenes.Default, "scene file to open")
	dir := flag.String("dir", "", "directory holding scenes, scripts and images (default: embedded samples)")
	watch := flag.Bool("watch", false, "reload the scene when files under -dir change")
	scale := flag.Int("scale", 2, "window scale factor")
	flag.Parse()

	var src fs.FS = scenes.FS
	if *dir != "" {
		src = os.DirFS(*dir)
	}

	game, err := newGame(src, *sceneName)
	if err != nil {
		log.Fatal(err)
	}
	if *watch {
		if *dir == "" {
			log.Fatal("-watch needs -dir")
		}
		if err := game.watch(*dir); err != nil {
			log.Fatal(err)
		}
		defer game.close()
	}

	size := game.scene.Size()
	ebiten.SetWindowSize(size.X*max(*scale, 1), size.Y*max(*scale, 1))
	ebiten.SetWindowTitle("spritedemo: " + game.scene.Name())

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
