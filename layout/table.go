package layout

import (
	"fmt"
	"slices"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// DefaultCellPadding is the left/right cell padding used when a table leaves it unset.
var DefaultCellPadding = geom.Mm(1.2)

// TableFormatInfo is the part of a table placed on one page. Cell and row
// coordinates are absolute page coordinates.
type TableFormatInfo struct {
	Columns   []geom.Pt  `json:"columns"`
	Rows      []RowInfo  `json:"rows"`
	Cells     []CellInfo `json:"cells"`
	Width     geom.Pt    `json:"width"`
	Height    geom.Pt    `json:"height"`
	Continued bool       `json:"continued,omitempty"`
}

func (t *TableFormatInfo) Extent() geom.Size { return geom.Size{Width: t.Width, Height: t.Height} }

// RowInfo is a placed row. Repeated marks a heading row drawn again on a continuation page.
type RowInfo struct {
	Index    int     `json:"index"`
	Y        geom.Pt `json:"y"`
	Height   geom.Pt `json:"height"`
	Repeated bool    `json:"repeated,omitempty"`
}

// CellInfo is one logical cell as drawn on a page; merged cells appear once
// per page. Continued marks the part of a merged cell below a page break.
type CellInfo struct {
	Row       int           `json:"row"`
	Col       int           `json:"col"`
	RowSpan   int           `json:"rowSpan"`
	ColSpan   int           `json:"colSpan"`
	Rect      geom.Rect     `json:"rect"`
	Borders   dom.Borders   `json:"borders"`
	Shading   *dom.Color    `json:"shading,omitempty"`
	Content   []*RenderInfo `json:"content,omitempty"`
	Continued bool          `json:"continued,omitempty"`
}

// tableLayout 是与分页无关的表格测量结果，每张表只计算一次。
type tableLayout struct {
	table      *dom.Table
	path       string
	grid       *GridMap
	colX       []geom.Pt // colX[i] 为第 i 列左边相对表格的偏移，长度 cols+1
	rowHeights []geom.Pt
	cells      []cellLayout // 与 grid.Cells() 一一对应
	headings   int

	leftPad, rightPad, topPad, bottomPad geom.Pt
}

type cellLayout struct {
	gc      *GridCell
	content *block
	borders dom.Borders
	shading *dom.Color
	valign  dom.VerticalAlignment
}

func (tl *tableLayout) width() geom.Pt { return tl.colX[len(tl.colX)-1] }

func (p *pass) measureTable(t *dom.Table, path string) (*tableLayout, error) {
	if len(t.Columns) == 0 {
		return nil, configErr(path, "表格没有声明列")
	}
	tl := &tableLayout{
		table:     t,
		path:      path,
		colX:      make([]geom.Pt, len(t.Columns)+1),
		leftPad:   DefaultCellPadding,
		rightPad:  DefaultCellPadding,
		topPad:    t.TopPadding,
		bottomPad: t.BottomPadding,
	}
	if t.LeftPadding != nil {
		tl.leftPad = *t.LeftPadding
	}
	if t.RightPadding != nil {
		tl.rightPad = *t.RightPadding
	}
	for i, col := range t.Columns {
		if col.Width <= 0 {
			return nil, configErr(fmt.Sprintf("%s/column[%d]", path, i), "列宽必须显式给出且大于 0")
		}
		tl.colX[i+1] = tl.colX[i] + col.Width
	}
	for r, row := range t.Rows {
		rowPath := fmt.Sprintf("%s/row[%d]", path, r)
		switch {
		case row.Height < 0:
			return nil, configErr(rowPath, "行高不能为负: %v", row.Height)
		case row.HeightRule != dom.RowHeightAuto && row.Height <= 0:
			return nil, configErr(rowPath, "行高规则 %s 需要大于 0 的行高", row.HeightRule)
		case row.KeepWith < 0:
			return nil, configErr(rowPath, "KeepWith 不能为负: %d", row.KeepWith)
		}
	}
	grid, err := ResolveTable(t, path)
	if err != nil {
		return nil, err
	}
	tl.grid = grid

	// 纵向合并的单元格只把内容高度平均计入起始行，不撑高被跨越的行。
	contributions := make([]geom.Pt, len(t.Rows))
	tl.cells = make([]cellLayout, len(grid.Cells()))
	for i, gc := range grid.Cells() {
		row := t.Rows[gc.Row]
		inner := geom.NonNegative(tl.colX[gc.Col+gc.ColSpan] - tl.colX[gc.Col] - tl.leftPad - tl.rightPad)
		cl := cellLayout{gc: gc, borders: t.Borders, shading: t.Shading, valign: row.VerticalAlignment}
		var els []dom.Element
		if c := gc.Cell; c != nil {
			els = c.Elements
			cl.borders = t.Borders.Override(c.Borders)
			if c.Shading != nil {
				cl.shading = c.Shading
			}
			if c.VerticalAlignment != nil {
				cl.valign = *c.VerticalAlignment
			}
		}
		content, err := p.formatBlock(els, inner, fmt.Sprintf("%s/row[%d]/cell[%d]", path, gc.Row, gc.Col), "")
		if err != nil {
			return nil, err
		}
		cl.content = content
		tl.cells[i] = cl
		contributions[gc.Row] = geom.Max(contributions[gc.Row], content.height/geom.Pt(gc.RowSpan))
	}

	tl.rowHeights = make([]geom.Pt, len(t.Rows))
	for r, row := range t.Rows {
		measured := contributions[r] + tl.topPad + tl.bottomPad
		switch row.HeightRule {
		case dom.RowHeightExactly:
			tl.rowHeights[r] = row.Height
		case dom.RowHeightAtLeast:
			tl.rowHeights[r] = geom.Max(measured, row.Height)
		default:
			tl.rowHeights[r] = measured
		}
	}
	for tl.headings < len(t.Rows) && t.Rows[tl.headings].HeadingFormat {
		tl.headings++
	}
	return tl, nil
}

// tableFragment collects the rows placed on the current page.
type tableFragment struct {
	x, y      geom.Pt
	rows      []RowInfo
	continued bool
	// freshUntil 为本页仍视作“空白页”的已用高度；表格从页中开始时为 -1。
	freshUntil geom.Pt
}

func (p *pass) startFragment(tl *tableLayout, continued bool) *tableFragment {
	fr := &tableFragment{x: p.body.X + tl.table.LeftIndent, y: p.body.Cursor(), continued: continued, freshUntil: -1}
	if p.body.AtTop() {
		fr.freshUntil = 0
	}
	return fr
}

func (fr *tableFragment) fresh(a *Area) bool {
	return fr.freshUntil >= 0 && a.Used() <= fr.freshUntil+epsilon
}

func (p *pass) placeRow(tl *tableLayout, fr *tableFragment, r int, repeated bool) {
	rect := p.body.Take(tl.rowHeights[r])
	fr.rows = append(fr.rows, RowInfo{Index: r, Y: rect.Y, Height: rect.Height, Repeated: repeated})
}

// flowTable places the rows of t in order, starting a new page when a row
// does not fit. A row moves together with the rows its KeepWith count or
// its merged-down cells reach. Rows taller than a fresh page are placed anyway.
func (p *pass) flowTable(t *dom.Table, path string) error {
	tl, err := p.measureTable(t, path)
	if err != nil {
		return err
	}
	n := len(t.Rows)
	if n == 0 {
		return nil
	}
	fr := p.startFragment(tl, false)
	for r := 0; r < n; {
		end := tl.groupEnd(r)
		h := tl.sumHeights(r, end)
		if !p.body.Fits(h) {
			if !fr.fresh(p.body) {
				if err := p.closeFragment(tl, fr); err != nil {
					return err
				}
				if err := p.newPage(); err != nil {
					return err
				}
				fr = p.startFragment(tl, true)
				if r >= tl.headings {
					for hr := 0; hr < tl.headings; hr++ {
						p.placeRow(tl, fr, hr, true)
					}
				}
				fr.freshUntil = p.body.Used()
			}
			if !p.body.Fits(h) {
				end, h = r+1, tl.rowHeights[r]
			}
		}
		for i := r; i < end; i++ {
			p.placeRow(tl, fr, i, false)
		}
		r = end
	}
	return p.closeFragment(tl, fr)
}

// groupEnd is one past the last row that must share a page with row r.
func (tl *tableLayout) groupEnd(r int) int {
	n := len(tl.rowHeights)
	end := r + 1
	for i := r; i < end; i++ {
		end = max(end, min(n, i+1+tl.table.Rows[i].KeepWith))
		for _, gc := range tl.grid.RowCells(i) {
			end = max(end, gc.LastRow()+1)
		}
	}
	return end
}

func (tl *tableLayout) sumHeights(from, to int) geom.Pt {
	var h geom.Pt
	for r := from; r < to; r++ {
		h += tl.rowHeights[r]
	}
	return h
}

// cellOf returns the measured layout of an owning cell.
func (tl *tableLayout) cellOf(gc *GridCell) *cellLayout {
	start := tl.grid.rowStart[gc.Row]
	for k, c := range tl.grid.RowCells(gc.Row) {
		if c == gc {
			return &tl.cells[start+k]
		}
	}
	return nil
}

// spanHeight sums the heights of fr.rows[j] and the consecutive rows after
// it up to grid row last.
func (fr *tableFragment) spanHeight(j, last int) geom.Pt {
	h := fr.rows[j].Height
	for m := j + 1; m < len(fr.rows) && fr.rows[m].Index == fr.rows[m-1].Index+1 && fr.rows[m].Index <= last; m++ {
		h += fr.rows[m].Height
	}
	return h
}

// closeFragment resolves the cells of the rows placed in fr and adds the
// fragment to the page. A merged cell covers only the spanned rows that
// landed on the same page; when such a cell is cut by a page break, the rows
// on the following page get a continuation cell carrying its borders and shading.
func (p *pass) closeFragment(tl *tableLayout, fr *tableFragment) error {
	if len(fr.rows) == 0 {
		return nil
	}
	info := &TableFormatInfo{
		Columns:   make([]geom.Pt, len(tl.table.Columns)),
		Rows:      fr.rows,
		Width:     tl.width(),
		Continued: fr.continued,
	}
	for i, col := range tl.table.Columns {
		info.Columns[i] = col.Width
	}
	first := slices.IndexFunc(fr.rows, func(r RowInfo) bool { return !r.Repeated })
	for j, row := range fr.rows {
		info.Height += row.Height
		if j == first && fr.continued {
			info.Cells = append(info.Cells, tl.continuationCells(fr, j)...)
		}
		start := tl.grid.rowStart[row.Index]
		for k, gc := range tl.grid.RowCells(row.Index) {
			cl := &tl.cells[start+k]
			content, err := p.relayout(cl.content)
			if err != nil {
				return err
			}
			cl.content = content
			rect := geom.Rect{
				X:      fr.x + tl.colX[gc.Col],
				Y:      row.Y,
				Width:  tl.colX[gc.Col+gc.ColSpan] - tl.colX[gc.Col],
				Height: fr.spanHeight(j, gc.LastRow()),
			}
			inner := rect.Inset(tl.leftPad, tl.topPad, tl.rightPad, tl.bottomPad)
			var offset geom.Pt
			if free := inner.Height - content.height; free > 0 {
				switch cl.valign {
				case dom.VAlignCenter:
					offset = free / 2
				case dom.VAlignBottom:
					offset = free
				}
			}
			info.Cells = append(info.Cells, CellInfo{
				Row:     gc.Row,
				Col:     gc.Col,
				RowSpan: gc.RowSpan,
				ColSpan: gc.ColSpan,
				Rect:    rect,
				Borders: cl.borders,
				Shading: cl.shading,
				Content: p.placeBlock(content, inner.X, inner.Y+offset),
			})
		}
	}
	rect := geom.Rect{X: fr.x, Y: fr.rows[0].Y, Width: info.Width, Height: info.Height}
	p.addItem(tl.table, tl.path, info, rect)
	return nil
}

// continuationCells covers the cells that started on an earlier page and
// still span fr.rows[j]. Their content stays with the origin row.
func (tl *tableLayout) continuationCells(fr *tableFragment, j int) []CellInfo {
	row := fr.rows[j]
	var out []CellInfo
	for c := 0; c < tl.grid.Cols(); {
		gc := tl.grid.Owner(row.Index, c)
		c = gc.Col + gc.ColSpan
		if gc.Row >= row.Index {
			continue
		}
		cl := tl.cellOf(gc)
		out = append(out, CellInfo{
			Row:     gc.Row,
			Col:     gc.Col,
			RowSpan: gc.RowSpan,
			ColSpan: gc.ColSpan,
			Rect: geom.Rect{
				X:      fr.x + tl.colX[gc.Col],
				Y:      row.Y,
				Width:  tl.colX[gc.Col+gc.ColSpan] - tl.colX[gc.Col],
				Height: fr.spanHeight(j, gc.LastRow()),
			},
			Borders:   cl.borders,
			Shading:   cl.shading,
			Continued: true,
		})
	}
	return out
}

func renderTable(info *TableFormatInfo, g Graphics) {
	for i := range info.Cells {
		c := &info.Cells[i]
		if c.Shading != nil {
			g.DrawRectangle(c.Rect, c.Shading, nil)
		}
		r := c.Rect
		edges := []struct {
			b        *dom.Border
			from, to geom.Point
		}{
			{c.Borders.Top, geom.Point{X: r.X, Y: r.Y}, geom.Point{X: r.Right(), Y: r.Y}},
			{c.Borders.Left, geom.Point{X: r.X, Y: r.Y}, geom.Point{X: r.X, Y: r.Bottom()}},
			{c.Borders.Bottom, geom.Point{X: r.X, Y: r.Bottom()}, geom.Point{X: r.Right(), Y: r.Bottom()}},
			{c.Borders.Right, geom.Point{X: r.Right(), Y: r.Y}, geom.Point{X: r.Right(), Y: r.Bottom()}},
		}
		for _, e := range edges {
			if e.b != nil && e.b.Width > 0 {
				g.DrawLine(e.from, e.to, Pen{Width: e.b.Width, Color: e.b.Color})
			}
		}
		for _, ri := range c.Content {
			renderShape(ri, g)
		}
	}
}
