package layout

import "github.com/ByLCY/quire/geom"

// epsilon absorbs rounding when comparing heights that were summed in a different order.
const epsilon geom.Pt = 1e-6

// Area 是一块可供内容流入的矩形区域。TopInset/BottomInset 为页眉页脚等
// 预留的高度，cursor 记录已被内容占用的高度。
// 区域只会被消耗，不会变大。
type Area struct {
	X, Y          geom.Pt
	Width, Height geom.Pt
	TopInset      geom.Pt
	BottomInset   geom.Pt

	used geom.Pt
}

// NewArea returns an area over r with the given reserved insets. Negative
// sizes are clamped to zero.
func NewArea(r geom.Rect, top, bottom geom.Pt) *Area {
	return &Area{
		X:           r.X,
		Y:           r.Y,
		Width:       geom.NonNegative(r.Width),
		Height:      geom.NonNegative(r.Height),
		TopInset:    geom.NonNegative(top),
		BottomInset: geom.NonNegative(bottom),
	}
}

// ContentRect is the region between the insets.
func (a *Area) ContentRect() geom.Rect {
	return geom.Rect{
		X:      a.X,
		Y:      a.Y + a.TopInset,
		Width:  a.Width,
		Height: geom.NonNegative(a.Height - a.TopInset - a.BottomInset),
	}
}

// Cursor is the absolute y where the next content starts.
func (a *Area) Cursor() geom.Pt { return a.Y + a.TopInset + a.used }

// Used is the height consumed so far.
func (a *Area) Used() geom.Pt { return a.used }

// AtTop reports whether nothing has been placed yet.
func (a *Area) AtTop() bool { return a.used <= epsilon }

// Available is the height left below the cursor, never negative.
func (a *Area) Available() geom.Pt {
	return geom.NonNegative(a.ContentRect().Height - a.used)
}

// Fits reports whether h more points fit below the cursor.
func (a *Area) Fits(h geom.Pt) bool { return h <= a.Available()+epsilon }

// Take consumes h points and returns the full-width rectangle they occupy.
// Taking more than is available is allowed and shows up as overflow.
func (a *Area) Take(h geom.Pt) geom.Rect {
	h = geom.NonNegative(h)
	r := geom.Rect{X: a.X, Y: a.Cursor(), Width: a.Width, Height: h}
	a.used += h
	return r
}

// Remaining returns the unconsumed part as a fresh area without insets.
func (a *Area) Remaining() *Area {
	r := a.ContentRect()
	r.Y = a.Cursor()
	r.Height = a.Available()
	return NewArea(r, 0, 0)
}

// Indent returns a copy narrowed by left and right, sharing no state with a.
func (a *Area) Indent(left, right geom.Pt) *Area {
	b := *a
	b.X += left
	b.Width = geom.NonNegative(a.Width - left - right)
	return &b
}
