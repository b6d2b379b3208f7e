// Package texcache owns every GPU texture the GUI refers to. It applies a
// frame's texture delta in two phases: creates and patches before any draw,
// frees only after the frame's draws have been issued.
package texcache

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gui"
)

var (
	// ErrAllocationFailed means the device could not allocate a texture.
	// Nothing referencing the failed id may be drawn this frame.
	ErrAllocationFailed = errors.New("texcache: allocation failed")
	// ErrDanglingReference means an id with no live texture was referenced.
	ErrDanglingReference = errors.New("texcache: dangling texture reference")
	// ErrPatchOutOfBounds means a patch does not fit inside its texture.
	ErrPatchOutOfBounds = errors.New("texcache: patch out of bounds")
	// ErrNativeTexture means a delta tried to write an application texture.
	ErrNativeTexture = errors.New("texcache: texture is owned by the application")
)

// Retryable reports whether every error joined in err is an allocation
// failure. Such sets stay queued in the cache and are applied again by the
// next ApplyCreatesAndPatches.
func Retryable(err error) bool {
	for err != nil {
		if j, ok := err.(interface{ Unwrap() []error }); ok {
			errs := j.Unwrap()
			for _, e := range errs {
				if !Retryable(e) {
					return false
				}
			}
			return len(errs) > 0
		}
		if err == ErrAllocationFailed {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Record is the cache's view of one live texture.
type Record struct {
	ID            gui.TextureID
	Texture       gfx.Texture
	Width, Height int
	Format        gfx.TextureFormat
	Options       gui.TextureOptions
	// Native textures were registered by the application; the cache does
	// not re-upload them.
	Native bool
}

type Cache struct {
	dev     gfx.Device
	records map[gui.TextureID]*Record
	// freed ids stay here as tombstones so lookups can say why they failed.
	freed       map[gui.TextureID]struct{}
	pendingFree []gui.TextureID
	// retry holds sets that failed to allocate, and the sets for the same
	// ids that came after them, in delta order.
	retry    []gui.TextureSet
	nextUser uint64
}

func New(dev gfx.Device) *Cache {
	return &Cache{
		dev:     dev,
		records: make(map[gui.TextureID]*Record),
		freed:   make(map[gui.TextureID]struct{}),
	}
}

// ApplyCreatesAndPatches queues the delta's frees and applies its sets,
// after any sets left over from an earlier allocation failure. A failing
// set does not stop the others; the errors are joined. Sets that failed to
// allocate are kept for the next call, together with every later set for
// the same id.
func (c *Cache) ApplyCreatesAndPatches(delta gui.TexturesDelta) error {
	c.pendingFree = append(c.pendingFree, delta.Free...)
	sets := dropFreed(c.retry, delta.Free)
	c.retry = nil
	sets = append(sets, delta.Set...)

	var (
		errs   []error
		failed map[gui.TextureID]bool
	)
	for _, s := range sets {
		if failed[s.ID] {
			c.retry = append(c.retry, s)
			continue
		}
		err := c.Set(s.ID, s.Delta)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrAllocationFailed) {
			if failed == nil {
				failed = make(map[gui.TextureID]bool)
			}
			failed[s.ID] = true
			c.retry = append(c.retry, s)
		}
		errs = append(errs, err)
	}
	if len(c.retry) > 0 {
		core.Logger().Warn("texture sets deferred", "sets", len(c.retry), "ids", len(failed))
	}
	return errors.Join(errs...)
}

// dropFreed removes sets for ids the library has freed since; they never
// reached the device.
func dropFreed(sets []gui.TextureSet, freed []gui.TextureID) []gui.TextureSet {
	if len(sets) == 0 || len(freed) == 0 {
		return sets
	}
	out := sets[:0]
	for _, s := range sets {
		if !slices.Contains(freed, s.ID) {
			out = append(out, s)
		}
	}
	return out
}

// Deferred returns the number of sets waiting for an allocation retry.
func (c *Cache) Deferred() int { return len(c.retry) }

// Set applies one image delta.
func (c *Cache) Set(id gui.TextureID, d gui.ImageDelta) error {
	if err := d.Image.Validate(); err != nil {
		return fmt.Errorf("texture %s: %w", id, err)
	}
	if d.Pos != nil {
		return c.patch(id, d)
	}
	return c.replace(id, d)
}

func (c *Cache) patch(id gui.TextureID, d gui.ImageDelta) error {
	rec, err := c.Lookup(id)
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	if rec.Native {
		return fmt.Errorf("patch: %w: %s", ErrNativeTexture, id)
	}
	x, y := d.Pos[0], d.Pos[1]
	img := d.Image
	if x < 0 || y < 0 || x+img.Width > rec.Width || y+img.Height > rec.Height {
		return fmt.Errorf("%w: %s rect (%d,%d %dx%d) in %dx%d", ErrPatchOutOfBounds, id, x, y, img.Width, img.Height, rec.Width, rec.Height)
	}
	if gfx.FormatFor(img.Format) != rec.Format {
		return fmt.Errorf("patch %s: %w: %v into %v texture", id, gui.ErrInvalidImage, img.Format, rec.Format)
	}
	if err := c.dev.UpdateTexture(rec.Texture, x, y, img.Width, img.Height, img.Pixels); err != nil {
		return fmt.Errorf("patch %s: %w", id, err)
	}
	return nil
}

func (c *Cache) replace(id gui.TextureID, d gui.ImageDelta) error {
	img := d.Image
	format := gfx.FormatFor(img.Format)
	if rec, ok := c.records[id]; ok {
		if rec.Native {
			return fmt.Errorf("replace: %w: %s", ErrNativeTexture, id)
		}
		if rec.Width == img.Width && rec.Height == img.Height && rec.Format == format && rec.Options == d.Options {
			if err := c.dev.UpdateTexture(rec.Texture, 0, 0, img.Width, img.Height, img.Pixels); err != nil {
				return fmt.Errorf("replace %s: %w", id, err)
			}
			return nil
		}
		c.dev.DeleteTexture(rec.Texture)
		delete(c.records, id)
	}

	tex, err := c.dev.CreateTexture(gfx.TextureDesc{
		Width:     img.Width,
		Height:    img.Height,
		Format:    format,
		MinFilter: gfx.FilterFor(d.Options.Minification),
		MagFilter: gfx.FilterFor(d.Options.Magnification),
		Pixels:    img.Pixels,
	})
	if err != nil {
		if errors.Is(err, gfx.ErrOutOfMemory) {
			return fmt.Errorf("%w: %s %dx%d: %v", ErrAllocationFailed, id, img.Width, img.Height, err)
		}
		return fmt.Errorf("create %s: %w", id, err)
	}
	c.records[id] = &Record{
		ID: id, Texture: tex,
		Width: img.Width, Height: img.Height,
		Format: format, Options: d.Options,
	}
	delete(c.freed, id)
	core.Logger().Debug("texture created", "id", id, "w", img.Width, "h", img.Height, "format", img.Format)
	return nil
}

// ApplyFrees deletes every queued id and returns how many were live.
// Call it only once the frame's draws have been issued.
func (c *Cache) ApplyFrees() int {
	n := 0
	for _, id := range c.pendingFree {
		rec, ok := c.records[id]
		if !ok {
			continue
		}
		if !rec.Native {
			c.dev.DeleteTexture(rec.Texture)
		}
		delete(c.records, id)
		c.freed[id] = struct{}{}
		n++
	}
	c.pendingFree = c.pendingFree[:0]
	return n
}

// PendingFrees returns the number of ids queued for the next ApplyFrees.
func (c *Cache) PendingFrees() int { return len(c.pendingFree) }

// Lookup returns the live record for id.
func (c *Cache) Lookup(id gui.TextureID) (*Record, error) {
	if rec, ok := c.records[id]; ok {
		return rec, nil
	}
	if _, ok := c.freed[id]; ok {
		return nil, fmt.Errorf("%w: %s was freed", ErrDanglingReference, id)
	}
	return nil, fmt.Errorf("%w: %s is unknown", ErrDanglingReference, id)
}

// RegisterNative adopts an application-created texture under a new user id.
// The application keeps ownership of the device texture; freeing the id
// only forgets it.
func (c *Cache) RegisterNative(tex gfx.Texture, opts gui.TextureOptions) gui.TextureID {
	id := gui.UserTexture(c.nextUser)
	c.nextUser++
	w, h := tex.Size()
	c.records[id] = &Record{
		ID: id, Texture: tex,
		Width: w, Height: h,
		Format: tex.Format(), Options: opts,
		Native: true,
	}
	return id
}

// Len returns the number of live textures.
func (c *Cache) Len() int { return len(c.records) }

// Destroy deletes every texture the cache owns.
func (c *Cache) Destroy() {
	for id, rec := range c.records {
		if !rec.Native {
			c.dev.DeleteTexture(rec.Texture)
		}
		delete(c.records, id)
	}
	c.pendingFree = nil
	c.retry = nil
}
