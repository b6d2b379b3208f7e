package ui

import "github.com/hubastard/meshbridge/engine/gui"

// textureManager allocates managed texture ids and collects the frame's
// texture delta.
type textureManager struct {
	next  uint64
	delta gui.TexturesDelta
	live  map[gui.TextureID]struct{}
}

func (m *textureManager) set(id gui.TextureID, d gui.ImageDelta) {
	if m.live == nil {
		m.live = make(map[gui.TextureID]struct{})
	}
	m.live[id] = struct{}{}
	m.delta.Set = append(m.delta.Set, gui.TextureSet{ID: id, Delta: d})
}

func (m *textureManager) take() gui.TexturesDelta {
	d := m.delta
	m.delta = gui.TexturesDelta{}
	return d
}

// LoadTexture uploads img under a new managed id with the next frame output.
func (c *Ctx) LoadTexture(img gui.ImageData, opts gui.TextureOptions) gui.TextureID {
	id := gui.ManagedTexture(c.textures.next)
	c.textures.next++
	c.textures.set(id, gui.FullImage(img, opts))
	return id
}

// UpdateTexture replaces the sub-rect of id at (x, y) with img.
func (c *Ctx) UpdateTexture(id gui.TextureID, x, y int, img gui.ImageData, opts gui.TextureOptions) {
	c.textures.set(id, gui.PartialImage(x, y, img, opts))
}

// FreeTexture releases id. Draws already submitted this frame may still use
// it; the backend frees it once they are issued.
func (c *Ctx) FreeTexture(id gui.TextureID) {
	if id == gui.FontTexture {
		return
	}
	if _, ok := c.textures.live[id]; !ok {
		return
	}
	delete(c.textures.live, id)
	c.textures.delta.Free = append(c.textures.delta.Free, id)
}
