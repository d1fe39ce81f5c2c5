// Package position maps document ranges to overlay anchor points.
package position

import (
	"strings"

	"github.com/bastiangx/wordassist/pkg/surface"
)

// DefaultMargin is the gap in pixels between a word and its overlay.
const DefaultMargin = 5

// Point is a page coordinate.
type Point struct {
	X int
	Y int
}

// Placement selects on which side of the range the anchor is placed.
type Placement int

const (
	PlaceRight Placement = iota
	PlaceBelow
)

// ParsePlacement accepts "right" or "below"; anything else is PlaceRight.
func ParsePlacement(s string) Placement {
	if strings.EqualFold(strings.TrimSpace(s), "below") {
		return PlaceBelow
	}
	return PlaceRight
}

func (p Placement) String() string {
	if p == PlaceBelow {
		return "below"
	}
	return "right"
}

// Geometry is the part of a surface the calculator needs.
type Geometry interface {
	Bounds(offset, length int) surface.Rect
	RootRect() surface.Rect
}

// Calculator turns a range into the page point where the overlay goes.
type Calculator struct {
	Geometry  Geometry
	Margin    int
	Placement Placement
}

// New returns a calculator with the default margin, placing to the right.
func New(g Geometry) *Calculator {
	return &Calculator{Geometry: g, Margin: DefaultMargin}
}

// AnchorFor returns the point right of (or below) the box holding
// [offset, offset+length), translated to page coordinates.
func (c *Calculator) AnchorFor(offset, length int) Point {
	b := c.Geometry.Bounds(offset, length)
	root := c.Geometry.RootRect()

	if c.Placement == PlaceBelow {
		return Point{
			X: root.Left + b.Left,
			Y: root.Top + b.Top + b.Height + c.Margin,
		}
	}
	return Point{
		X: root.Left + b.Left + b.Width + c.Margin,
		Y: root.Top + b.Top,
	}
}
