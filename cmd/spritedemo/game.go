package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/spritegroup/assets"
	"github.com/milk9111/spritegroup/scene"
	"github.com/milk9111/spritegroup/surface/ebitensurface"
)

type game struct {
	src     fs.FS
	name    string
	scene   *scene.Scene
	canvas  *ebitensurface.Surface
	watcher *scene.Watcher
	events  int
}

func newGame(src fs.FS, name string) (*game, error) {
	g := &game{src: src, name: name}
	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

// load builds the scene into a fresh canvas. The old scene is kept on error.
func (g *game) load() error {
	spec, err := scene.Load(g.src, g.name)
	if err != nil {
		return err
	}
	sc, err := scene.Build(spec, scene.Options{
		Backend: ebitensurface.Backend,
		Images:  assets.NewCache(g.src),
		Scripts: g.src,
	})
	if err != nil {
		return err
	}
	g.scene = sc
	g.canvas = ebitensurface.New(spec.Width, spec.Height)
	return nil
}

// watch reloads on changes under dir and its scripts directory.
func (g *game) watch(dir string) error {
	dirs := []string{dir}
	if info, err := os.Stat(filepath.Join(dir, "scripts")); err == nil && info.IsDir() {
		dirs = append(dirs, filepath.Join(dir, "scripts"))
	}
	w, err := scene.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *game) close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *game) pollReload() {
	if g.watcher == nil {
		return
	}
	changed := false
drain:
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				break drain
			}
			log.Printf("spritedemo: %s changed", path)
			changed = true
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				break drain
			}
			log.Printf("spritedemo: watch: %v", err)
		default:
			break drain
		}
	}
	if !changed {
		return
	}
	if err := g.load(); err != nil {
		log.Printf("spritedemo: reload %s: %v", g.name, err)
	}
}

func (g *game) Update() error {
	g.pollReload()
	g.scene.Update(1 / float64(ebiten.TPS()))
	g.events += len(g.scene.Events())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(g.canvas)
	screen.DrawImage(g.canvas.Image(), nil)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  sprites: %d  events: %d", ebiten.ActualFPS(), g.scene.All.Len(), g.events))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := g.scene.Size()
	return size.X, size.Y
}
