package layout

import (
	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// Op names a recorded drawing primitive.
type Op string

const (
	OpBeginPage Op = "begin-page"
	OpEndPage   Op = "end-page"
	OpRectangle Op = "rectangle"
	OpLine      Op = "line"
	OpString    Op = "string"
	OpImage     Op = "image"
)

// Primitive is one recorded drawing call. Only the fields of its Op are set.
type Primitive struct {
	Op     Op            `json:"op"`
	Page   int           `json:"page"`
	Rect   geom.Rect     `json:"rect,omitempty"`
	From   geom.Point    `json:"from,omitempty"`
	To     geom.Point    `json:"to,omitempty"`
	Fill   *dom.Color    `json:"fill,omitempty"`
	Stroke *Pen          `json:"stroke,omitempty"`
	Text   string        `json:"text,omitempty"`
	Font   *Font         `json:"font,omitempty"`
	Align  dom.Alignment `json:"align,omitempty"`
	Image  ImageRef      `json:"image,omitempty"`
	Crop   PixelRect     `json:"crop,omitempty"`
}

// Recorder is an in-memory PageSink keeping the ordered primitive list.
type Recorder struct {
	Primitives []Primitive
	page       int
}

var _ PageSink = (*Recorder)(nil)

func (r *Recorder) BeginPage(page *Page) error {
	r.page = page.Index
	r.Primitives = append(r.Primitives, Primitive{Op: OpBeginPage, Page: r.page, Rect: geom.Rect{Width: page.Size.Width, Height: page.Size.Height}})
	return nil
}

func (r *Recorder) EndPage() error {
	r.Primitives = append(r.Primitives, Primitive{Op: OpEndPage, Page: r.page})
	return nil
}

func (r *Recorder) DrawRectangle(rect geom.Rect, fill *dom.Color, stroke *Pen) {
	r.Primitives = append(r.Primitives, Primitive{Op: OpRectangle, Page: r.page, Rect: rect, Fill: fill, Stroke: stroke})
}

func (r *Recorder) DrawLine(from, to geom.Point, pen Pen) {
	r.Primitives = append(r.Primitives, Primitive{Op: OpLine, Page: r.page, From: from, To: to, Stroke: &pen})
}

func (r *Recorder) DrawString(text string, font Font, rect geom.Rect, align dom.Alignment) {
	r.Primitives = append(r.Primitives, Primitive{Op: OpString, Page: r.page, Rect: rect, Text: text, Font: &font, Align: align})
}

func (r *Recorder) DrawImage(img ImageRef, dest geom.Rect, crop PixelRect) {
	r.Primitives = append(r.Primitives, Primitive{Op: OpImage, Page: r.page, Rect: dest, Image: img, Crop: crop})
}

// Filter returns the recorded primitives of the given op.
func (r *Recorder) Filter(op Op) []Primitive {
	var out []Primitive
	for _, p := range r.Primitives {
		if p.Op == op {
			out = append(out, p)
		}
	}
	return out
}
