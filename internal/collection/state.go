package collection

import "github.com/kozaktomas/batch-collage/internal/photo"

// PhotoState is the serializable part of a photo record.
type PhotoState struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	NaturalWidth  int            `json:"natural_width"`
	NaturalHeight int            `json:"natural_height"`
	OffsetX       float64        `json:"offset_x"`
	OffsetY       float64        `json:"offset_y"`
	Rotation      photo.Rotation `json:"rotation"`
}

// State is a serializable snapshot of the collection.
type State struct {
	Revision uint64       `json:"revision"`
	Photos   []PhotoState `json:"photos"`
}

// State returns a snapshot of the ordered photos without pixel data.
func (c *Collection) State() State {
	s := State{
		Revision: c.revision,
		Photos:   make([]PhotoState, 0, len(c.photos)),
	}
	for _, p := range c.photos {
		s.Photos = append(s.Photos, PhotoState{
			ID:            p.ID,
			Name:          p.Name,
			NaturalWidth:  p.NaturalWidth,
			NaturalHeight: p.NaturalHeight,
			OffsetX:       p.OffsetX,
			OffsetY:       p.OffsetY,
			Rotation:      p.Rotation,
		})
	}
	return s
}
