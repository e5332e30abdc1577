package interaction

import "sync"

// Carrier hands a dragged photo id from the canvas where a drag started to
// the canvas where it is dropped. It holds at most one id, and each published
// id can be taken once.
type Carrier struct {
	mu sync.Mutex
	id string
}

// NewCarrier creates an empty carrier.
func NewCarrier() *Carrier {
	return &Carrier{}
}

// Publish replaces the carried id.
func (c *Carrier) Publish(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
}

// Take returns the carried id and empties the carrier.
func (c *Carrier) Take() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.id
	c.id = ""
	return id, id != ""
}

// Peek returns the carried id without consuming it.
func (c *Carrier) Peek() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id, c.id != ""
}

// Clear empties the carrier.
func (c *Carrier) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = ""
}
