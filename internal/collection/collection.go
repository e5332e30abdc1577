// Package collection owns the ordered photo sequence and its transforms.
//
// Every operation is a no-op when it references an absent id. A Collection is
// not safe for concurrent use; callers serialize access (see workspace).
package collection

import (
	"slices"

	"github.com/kozaktomas/batch-collage/internal/photo"
)

// ReleaseFunc is called with a photo after it has been removed, so the owner
// of its backing resource can free it.
type ReleaseFunc func(photo.Photo)

// Collection is the ordered list of photos.
type Collection struct {
	photos   []photo.Photo
	revision uint64
	release  ReleaseFunc
}

// Option configures a Collection.
type Option func(*Collection)

// WithReleaseHook sets the function called for removed photos.
func WithReleaseHook(fn ReleaseFunc) Option {
	return func(c *Collection) {
		c.release = fn
	}
}

// New creates an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection) indexOf(id string) int {
	return slices.IndexFunc(c.photos, func(p photo.Photo) bool { return p.ID == id })
}

func (c *Collection) bump() {
	c.revision++
}

// Revision increases on every effective mutation.
func (c *Collection) Revision() uint64 {
	return c.revision
}

// Len returns the number of photos.
func (c *Collection) Len() int {
	return len(c.photos)
}

// Photos returns a copy of the ordered sequence.
func (c *Collection) Photos() []photo.Photo {
	return slices.Clone(c.photos)
}

// Get returns the photo with the given id.
func (c *Collection) Get(id string) (photo.Photo, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return photo.Photo{}, false
	}
	return c.photos[i], true
}

// Contains reports whether a photo with the given id exists.
func (c *Collection) Contains(id string) bool {
	return c.indexOf(id) >= 0
}

// Add appends photos with default transform state.
func (c *Collection) Add(photos ...photo.Photo) {
	if len(photos) == 0 {
		return
	}
	for _, p := range photos {
		p.OffsetX = 0
		p.OffsetY = 0
		p.Rotation = photo.Rotate0
		c.photos = append(c.photos, p)
	}
	c.bump()
}

// Remove deletes the photo with the given id and releases it.
func (c *Collection) Remove(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	removed := c.photos[i]
	c.photos = slices.Delete(c.photos, i, i+1)
	c.bump()
	if c.release != nil {
		c.release(removed)
	}
	return true
}

// Rotate turns the photo a quarter turn clockwise.
func (c *Collection) Rotate(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.photos[i].Rotation = c.photos[i].Rotation.Next()
	c.bump()
	return true
}

// Update replaces the record with the same id. The rotation is snapped to a
// quarter turn; the natural size and image stay as decoded.
func (c *Collection) Update(p photo.Photo) bool {
	i := c.indexOf(p.ID)
	if i < 0 {
		return false
	}
	cur := c.photos[i]
	p.Rotation = p.Rotation.Normalize()
	p.NaturalWidth = cur.NaturalWidth
	p.NaturalHeight = cur.NaturalHeight
	if p.Image == nil {
		p.Image = cur.Image
	}
	c.photos[i] = p
	c.bump()
	return true
}

// Swap exchanges the positions of two photos.
func (c *Collection) Swap(id1, id2 string) bool {
	if id1 == id2 {
		return false
	}
	i, j := c.indexOf(id1), c.indexOf(id2)
	if i < 0 || j < 0 {
		return false
	}
	c.photos[i], c.photos[j] = c.photos[j], c.photos[i]
	c.bump()
	return true
}

// Partition splits the sequence into consecutive batches of size photos; the
// last batch may be shorter. A size below 1 is treated as 1.
func (c *Collection) Partition(size int) [][]photo.Photo {
	return Partition(c.photos, size)
}

// Partition splits photos into consecutive batches of the given size.
func Partition(photos []photo.Photo, size int) [][]photo.Photo {
	if size < 1 {
		size = 1
	}
	batches := make([][]photo.Photo, 0, (len(photos)+size-1)/size)
	for chunk := range slices.Chunk(photos, size) {
		batches = append(batches, slices.Clone(chunk))
	}
	return batches
}

// BatchOf returns the batch index holding the photo with the given id.
func (c *Collection) BatchOf(id string, size int) int {
	i := c.indexOf(id)
	if i < 0 {
		return -1
	}
	if size < 1 {
		size = 1
	}
	return i / size
}
