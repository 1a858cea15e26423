package annotation

import (
	"math"

	"ecowatch/models"
)

// Reference frame the detail view assumes for every stored image
const (
	ReferenceWidth  = 800.0
	ReferenceHeight = 600.0
)

// Point is a position in image-local display pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotator tracks a single pointer drag over an image. At most one box
// exists at a time; starting a new drag replaces it.
type Annotator struct {
	tracking bool
	anchor   Point
	box      *models.BoundingBox
}

// PointerDown starts a drag at p and returns the zero-size box anchored there
func (a *Annotator) PointerDown(p Point) models.BoundingBox {
	a.tracking = true
	a.anchor = p
	box := models.BoundingBox{X: p.X, Y: p.Y}
	a.box = &box
	return box
}

// PointerMove resizes the box toward p. It reports false when no drag is active.
func (a *Annotator) PointerMove(p Point) (models.BoundingBox, bool) {
	if !a.tracking {
		return models.BoundingBox{}, false
	}
	box := models.BoundingBox{
		X:      math.Min(a.anchor.X, p.X),
		Y:      math.Min(a.anchor.Y, p.Y),
		Width:  math.Abs(p.X - a.anchor.X),
		Height: math.Abs(p.Y - a.anchor.Y),
	}
	a.box = &box
	return box, true
}

// PointerUp finishes the drag. Boxes under the minimum size are discarded
// and nil is returned.
func (a *Annotator) PointerUp() *models.BoundingBox {
	if !a.tracking {
		return a.Box()
	}
	a.tracking = false
	if a.box == nil || !a.box.Valid() {
		a.box = nil
		return nil
	}
	return a.Box()
}

// PointerLeave behaves like PointerUp while a drag is active
func (a *Annotator) PointerLeave() *models.BoundingBox {
	return a.PointerUp()
}

// Tracking reports whether a drag is in progress
func (a *Annotator) Tracking() bool {
	return a.tracking
}

// Box returns a copy of the current box, or nil
func (a *Annotator) Box() *models.BoundingBox {
	if a.box == nil {
		return nil
	}
	b := *a.box
	return &b
}

// Clear drops any box and stops tracking
func (a *Annotator) Clear() {
	a.tracking = false
	a.box = nil
}

// EventKind names a pointer event
type EventKind string

const (
	EventDown  EventKind = "down"
	EventMove  EventKind = "move"
	EventUp    EventKind = "up"
	EventLeave EventKind = "leave"
)

// Event is one recorded pointer event
type Event struct {
	Kind EventKind `json:"kind"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Replay feeds events through a fresh annotator and returns the resulting
// box. A drag still in progress at the end is finalized.
func Replay(events []Event) *models.BoundingBox {
	var a Annotator
	for _, e := range events {
		p := Point{X: e.X, Y: e.Y}
		switch e.Kind {
		case EventDown:
			a.PointerDown(p)
		case EventMove:
			a.PointerMove(p)
		case EventUp:
			a.PointerUp()
		case EventLeave:
			a.PointerLeave()
		}
	}
	if a.Tracking() {
		return a.PointerUp()
	}
	return a.Box()
}

// Project maps a stored box onto percentages of the fixed 800x600 reference
// frame. Images of other sizes will be misplaced.
func Project(box *models.BoundingBox) *models.BoxPercent {
	if box == nil {
		return nil
	}
	return &models.BoxPercent{
		Left:   box.X / ReferenceWidth * 100,
		Top:    box.Y / ReferenceHeight * 100,
		Width:  box.Width / ReferenceWidth * 100,
		Height: box.Height / ReferenceHeight * 100,
	}
}
