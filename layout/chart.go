package layout

import (
	"fmt"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// ChartFormatInfo is a measured chart. Rectangles inside it, including the
// RenderInfos of its text areas, are relative to the chart origin.
type ChartFormatInfo struct {
	Type       dom.ChartType `json:"type"`
	Width      geom.Pt       `json:"width"`
	Height     geom.Pt       `json:"height"`
	Areas      []ChartArea   `json:"areas,omitempty"`
	Plot       geom.Rect     `json:"plot"`
	Categories []string      `json:"categories,omitempty"`
	Series     []dom.Series  `json:"series"`
	Max        float64       `json:"max"`
	Bookmarks  []string      `json:"bookmarks,omitempty"`
}

func (c *ChartFormatInfo) Extent() geom.Size { return geom.Size{Width: c.Width, Height: c.Height} }

// ChartArea is one text area around the plot.
type ChartArea struct {
	Name    string        `json:"name"`
	Rect    geom.Rect     `json:"rect"`
	Content []*RenderInfo `json:"content,omitempty"`
}

var seriesPalette = []dom.Color{
	dom.RGB(0x4e, 0x79, 0xa7),
	dom.RGB(0xf2, 0x8e, 0x2b),
	dom.RGB(0xe1, 0x57, 0x59),
	dom.RGB(0x76, 0xb7, 0xb2),
	dom.RGB(0x59, 0xa1, 0x4f),
}

func (p *pass) formatChart(c *dom.Chart, path string) (FormatInfo, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, configErr(path, "图表尺寸必须大于 0")
	}
	info := &ChartFormatInfo{
		Type:       c.Type,
		Width:      c.Width,
		Height:     c.Height,
		Categories: c.Categories,
		Series:     c.Series,
		Max:        1,
	}
	for _, s := range c.Series {
		for _, v := range s.Values {
			info.Max = max(info.Max, v)
		}
	}

	type measured struct {
		name string
		blk  *block
		size geom.Pt
	}
	// vertical areas take their height from content, side areas their width.
	measure := func(name string, ta *dom.TextArea, width geom.Pt, side bool) (*measured, error) {
		if ta == nil {
			return nil, nil
		}
		els := make([]dom.Element, len(ta.Paragraphs))
		for i, par := range ta.Paragraphs {
			els[i] = par
		}
		blk, err := p.formatBlock(els, width, fmt.Sprintf("%s/%s", path, name), "")
		if err != nil {
			return nil, err
		}
		info.Bookmarks = append(info.Bookmarks, blk.bookmarks...)
		m := &measured{name: name, blk: blk, size: ta.Size}
		if m.size <= 0 {
			m.size = blk.height
			if side {
				m.size = blockTextWidth(blk)
			}
		}
		return m, nil
	}

	W, H := c.Width, c.Height
	header, err := measure("header", c.HeaderArea, W, false)
	if err != nil {
		return nil, err
	}
	footer, err := measure("footer", c.FooterArea, W, false)
	if err != nil {
		return nil, err
	}
	left, err := measure("left", c.LeftArea, W/4, true)
	if err != nil {
		return nil, err
	}
	right, err := measure("right", c.RightArea, W/4, true)
	if err != nil {
		return nil, err
	}
	size := func(m *measured) geom.Pt {
		if m == nil {
			return 0
		}
		return m.size
	}
	top0, bottom0 := size(header), H-size(footer)
	lw, rw := size(left), size(right)
	inner := geom.NonNegative(W - lw - rw)
	top, err := measure("top", c.TopArea, inner, false)
	if err != nil {
		return nil, err
	}
	bottom, err := measure("bottom", c.BottomArea, inner, false)
	if err != nil {
		return nil, err
	}

	middle := geom.NonNegative(bottom0 - top0)
	rects := []struct {
		m    *measured
		rect geom.Rect
	}{
		{header, geom.Rect{X: 0, Y: 0, Width: W, Height: size(header)}},
		{top, geom.Rect{X: lw, Y: top0, Width: inner, Height: size(top)}},
		{left, geom.Rect{X: 0, Y: top0, Width: lw, Height: middle}},
		{right, geom.Rect{X: W - rw, Y: top0, Width: rw, Height: middle}},
		{bottom, geom.Rect{X: lw, Y: bottom0 - size(bottom), Width: inner, Height: size(bottom)}},
		{footer, geom.Rect{X: 0, Y: bottom0, Width: W, Height: size(footer)}},
	}
	for _, r := range rects {
		if r.m == nil {
			continue
		}
		area := ChartArea{Name: r.m.name, Rect: r.rect}
		for _, it := range r.m.blk.items {
			ext := it.info.Extent()
			rect := geom.Rect{X: r.rect.X, Y: r.rect.Y + it.y, Width: ext.Width, Height: ext.Height}
			area.Content = append(area.Content, newRenderInfo(it.el, it.path, it.info, rect, 0))
		}
		info.Areas = append(info.Areas, area)
	}
	info.Plot = geom.Rect{
		X:      lw,
		Y:      top0 + size(top),
		Width:  inner,
		Height: geom.NonNegative(middle - size(top) - size(bottom)),
	}
	return info, nil
}

// blockTextWidth is the widest laid-out line of the paragraphs in b.
func blockTextWidth(b *block) geom.Pt {
	var w geom.Pt
	for _, it := range b.items {
		pi, ok := it.info.(*ParagraphFormatInfo)
		if !ok {
			w = geom.Max(w, it.info.Extent().Width)
			continue
		}
		for _, l := range pi.Lines {
			w = geom.Max(w, l.Width+pi.LeftIndent+pi.RightIndent)
		}
	}
	return w
}

func renderChart(origin geom.Rect, info *ChartFormatInfo, g Graphics) {
	frame := Pen{Width: 0.5, Color: dom.Black}
	g.DrawRectangle(origin, nil, &frame)
	for _, a := range info.Areas {
		for _, ri := range a.Content {
			shifted := *ri
			shifted.Layout.Rect = ri.Layout.Rect.Offset(origin.X, origin.Y)
			renderShape(&shifted, g)
		}
	}

	plot := info.Plot.Offset(origin.X, origin.Y)
	if plot.Empty() {
		return
	}
	g.DrawLine(geom.Point{X: plot.X, Y: plot.Y}, geom.Point{X: plot.X, Y: plot.Bottom()}, frame)
	g.DrawLine(geom.Point{X: plot.X, Y: plot.Bottom()}, geom.Point{X: plot.Right(), Y: plot.Bottom()}, frame)

	slots := len(info.Categories)
	for _, s := range info.Series {
		slots = max(slots, len(s.Values))
	}
	if slots == 0 || len(info.Series) == 0 {
		return
	}
	scale := func(v float64, full geom.Pt) geom.Pt {
		return geom.NonNegative(geom.Pt(v/info.Max) * full)
	}
	for si, s := range info.Series {
		color := seriesPalette[si%len(seriesPalette)]
		if s.Color != nil {
			color = *s.Color
		}
		switch info.Type {
		case dom.ChartBar:
			slot := plot.Height / geom.Pt(slots)
			thick := slot * 0.8 / geom.Pt(len(info.Series))
			for i, v := range s.Values {
				y := plot.Y + geom.Pt(i)*slot + slot*0.1 + geom.Pt(si)*thick
				g.DrawRectangle(geom.Rect{X: plot.X, Y: y, Width: scale(v, plot.Width), Height: thick}, &color, nil)
			}
		case dom.ChartLine:
			slot := plot.Width / geom.Pt(slots)
			pen := Pen{Width: 1, Color: color}
			for i := 1; i < len(s.Values); i++ {
				from := geom.Point{X: plot.X + (geom.Pt(i)-0.5)*slot, Y: plot.Bottom() - scale(s.Values[i-1], plot.Height)}
				to := geom.Point{X: plot.X + (geom.Pt(i)+0.5)*slot, Y: plot.Bottom() - scale(s.Values[i], plot.Height)}
				g.DrawLine(from, to, pen)
			}
		default:
			slot := plot.Width / geom.Pt(slots)
			thick := slot * 0.8 / geom.Pt(len(info.Series))
			for i, v := range s.Values {
				h := scale(v, plot.Height)
				x := plot.X + geom.Pt(i)*slot + slot*0.1 + geom.Pt(si)*thick
				g.DrawRectangle(geom.Rect{X: x, Y: plot.Bottom() - h, Width: thick, Height: h}, &color, nil)
			}
		}
	}
}
