// Package sprite manages drawable game objects and the groups that hold them.
//
// A Sprite pairs an optional image with a bounding rectangle. Every sprite
// embeds a Base, which records the groups it belongs to. Membership is
// symmetric: adding a sprite to a group records the group on the sprite and
// the reverse, so either side can be used.
//
//	hero := &Hero{}
//	hero.Bind(hero)
//	hero.SetImage(img)
//	hero.SetRect(image.Rect(0, 0, 16, 16))
//
//	all := sprite.NewGroup()
//	layers := sprite.NewLayeredUpdates(0)
//	hero.Add(all, layers)
//
//	all.Update(dt)
//	layers.Clear(screen, sprite.ColorEraser(bg))
//	changed := layers.Draw(screen)
//
// Group variants differ in how they draw. Group draws in insertion order,
// RenderUpdates and OrderedUpdates also report the rectangles that changed,
// LayeredUpdates sorts by layer, LayeredDirty redraws only what changed, and
// GroupSingle holds at most one sprite.
//
// Sprites and groups are not safe for concurrent use; lock them yourself.
package sprite
