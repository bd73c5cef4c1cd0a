package sprite

// GroupSingle holds at most one sprite. Adding another replaces it.
type GroupSingle struct {
	core
	sprite Sprite
}

func NewGroupSingle(s Sprite) *GroupSingle {
	g := &GroupSingle{}
	g.core = newCore(g, "GroupSingle")
	if s != nil {
		g.Add(s)
	}
	return g
}

// Sprite returns the held sprite or nil.
func (g *GroupSingle) Sprite() Sprite {
	return g.sprite
}

// SetSprite replaces the held sprite. nil empties the group.
func (g *GroupSingle) SetSprite(s Sprite) {
	if s == nil {
		g.Empty()
		return
	}
	g.Add(s)
}

func (g *GroupSingle) addInternal(s Sprite) bool {
	if old := g.sprite; old != nil {
		g.removeInternal(old)
		old.base().removeGroup(g)
	}
	g.sprite = s
	return g.core.addInternal(s)
}

func (g *GroupSingle) removeInternal(s Sprite) {
	if g.sprite != nil && g.sprite.base() == s.base() {
		g.sprite = nil
	}
	g.core.removeInternal(s)
}

func (g *GroupSingle) Copy() Container {
	return NewGroupSingle(g.sprite)
}
