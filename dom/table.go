package dom

import "github.com/ByLCY/quire/geom"

// RowHeightRule governs how a row height is derived.
type RowHeightRule int

const (
	RowHeightAuto RowHeightRule = iota
	RowHeightAtLeast
	RowHeightExactly
)

func (r RowHeightRule) String() string {
	switch r {
	case RowHeightAtLeast:
		return "at-least"
	case RowHeightExactly:
		return "exactly"
	default:
		return "auto"
	}
}

// VerticalAlignment positions cell content inside the cell height.
type VerticalAlignment int

const (
	VAlignTop VerticalAlignment = iota
	VAlignCenter
	VAlignBottom
)

// Border is one edge of a cell frame.
type Border struct {
	Width geom.Pt
	Color Color
}

// Borders holds the four edges; nil means no line on that edge.
type Borders struct {
	Top    *Border
	Left   *Border
	Bottom *Border
	Right  *Border
}

// AllBorders returns Borders with the same line on every edge.
func AllBorders(width geom.Pt, c Color) Borders {
	b := Border{Width: width, Color: c}
	return Borders{Top: &b, Left: &b, Bottom: &b, Right: &b}
}

// Override returns b with the non-nil edges of o applied on top.
func (b Borders) Override(o *Borders) Borders {
	if o == nil {
		return b
	}
	if o.Top != nil {
		b.Top = o.Top
	}
	if o.Left != nil {
		b.Left = o.Left
	}
	if o.Bottom != nil {
		b.Bottom = o.Bottom
	}
	if o.Right != nil {
		b.Right = o.Right
	}
	return b
}

// Table is a grid of cells. Every column needs an explicit width.
type Table struct {
	Columns []*Column
	Rows    []*Row
	Borders Borders
	Shading *Color

	LeftIndent    geom.Pt
	TopPadding    geom.Pt
	BottomPadding geom.Pt
	// LeftPadding/RightPadding default to 1.2mm when nil.
	LeftPadding  *geom.Pt
	RightPadding *geom.Pt
}

// AddColumn appends a column of the given width.
func (t *Table) AddColumn(width geom.Pt) *Column {
	c := &Column{Width: width}
	t.Columns = append(t.Columns, c)
	return c
}

// AddRow appends a row with one undeclared slot per column.
func (t *Table) AddRow() *Row {
	r := &Row{Cells: make([]*Cell, len(t.Columns))}
	t.Rows = append(t.Rows, r)
	return r
}

// Column is a table column.
type Column struct {
	Width geom.Pt
}

// Row is a table row. Cells is indexed by column; nil marks an undeclared slot.
type Row struct {
	Height            geom.Pt
	HeightRule        RowHeightRule
	VerticalAlignment VerticalAlignment
	// HeadingFormat rows at the top of the table repeat on continuation pages.
	HeadingFormat bool
	// KeepWith keeps this row on the same page as the next KeepWith rows.
	KeepWith int
	Cells    []*Cell
}

// Cell returns the declared cell at col, creating it when missing.
func (r *Row) Cell(col int) *Cell {
	for len(r.Cells) <= col {
		r.Cells = append(r.Cells, nil)
	}
	if r.Cells[col] == nil {
		r.Cells[col] = &Cell{}
	}
	return r.Cells[col]
}

// Cell is a declared table cell.
type Cell struct {
	MergeRight        int
	MergeDown         int
	VerticalAlignment *VerticalAlignment
	Borders           *Borders
	Shading           *Color
	Elements          []Element
}

// AddParagraph appends a paragraph holding plain text.
func (c *Cell) AddParagraph(text string) *Paragraph {
	p := NewParagraph(text)
	c.Elements = append(c.Elements, p)
	return p
}
