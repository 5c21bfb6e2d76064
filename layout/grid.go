package layout

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ByLCY/quire/dom"
)

// Span declares one owning cell of a grid: its origin and merge counts.
type Span struct {
	Row, Col   int
	MergeRight int
	MergeDown  int
	Cell       *dom.Cell
}

// GridCell is an owning (possibly merged) cell. Implicit cells fill
// coordinates no declared cell covers; their Cell is nil.
type GridCell struct {
	Row     int       `json:"row"`
	Col     int       `json:"col"`
	RowSpan int       `json:"rowSpan"`
	ColSpan int       `json:"colSpan"`
	Cell    *dom.Cell `json:"-"`
}

// Implicit reports whether the cell was not declared.
func (c *GridCell) Implicit() bool { return c.Cell == nil }

// LastRow is the index of the last row the cell covers.
func (c *GridCell) LastRow() int { return c.Row + c.RowSpan - 1 }

// GridMap maps every coordinate of a rows×cols grid to exactly one owner.
type GridMap struct {
	rows, cols int
	owners     []*GridCell
	cells      []*GridCell
	// rowStart[r] is the index in cells of the first cell whose origin row is r.
	rowStart []int
}

// ResolveGrid places the spans on a rows×cols grid. Blocks that leave the
// grid or carry negative merges yield a ConfigurationError, intersecting
// blocks an OverlappingMergeError. Runs in O(rows×cols).
func ResolveGrid(rows, cols int, spans []Span) (*GridMap, error) {
	return resolveGrid("table", rows, cols, spans)
}

func resolveGrid(node string, rows, cols int, spans []Span) (*GridMap, error) {
	if rows < 0 || cols < 0 {
		return nil, configErr(node, "表格尺寸无效: %d×%d", rows, cols)
	}
	g := &GridMap{rows: rows, cols: cols, owners: make([]*GridCell, rows*cols)}
	for _, s := range spans {
		at := fmt.Sprintf("%s/row[%d]/cell[%d]", node, s.Row, s.Col)
		if s.MergeRight < 0 || s.MergeDown < 0 {
			return nil, configErr(at, "合并数不能为负: right=%d down=%d", s.MergeRight, s.MergeDown)
		}
		if s.Row < 0 || s.Col < 0 || s.Row+s.MergeDown >= rows || s.Col+s.MergeRight >= cols {
			return nil, configErr(at, "单元格范围超出表格 %d×%d", rows, cols)
		}
		gc := &GridCell{Row: s.Row, Col: s.Col, RowSpan: s.MergeDown + 1, ColSpan: s.MergeRight + 1, Cell: s.Cell}
		for r := s.Row; r <= s.Row+s.MergeDown; r++ {
			for c := s.Col; c <= s.Col+s.MergeRight; c++ {
				if other := g.owners[r*cols+c]; other != nil {
					return nil, &OverlappingMergeError{
						Table: node,
						Cell:  GridPos{Row: s.Row, Col: s.Col},
						Other: GridPos{Row: other.Row, Col: other.Col},
						At:    GridPos{Row: r, Col: c},
					}
				}
				g.owners[r*cols+c] = gc
			}
		}
	}

	// 行优先扫描一遍：补齐未声明的坐标，同时按阅读顺序收集拥有者。
	g.rowStart = make([]int, rows+1)
	for r := 0; r < rows; r++ {
		g.rowStart[r] = len(g.cells)
		for c := 0; c < cols; c++ {
			gc := g.owners[r*cols+c]
			if gc == nil {
				gc = &GridCell{Row: r, Col: c, RowSpan: 1, ColSpan: 1}
				g.owners[r*cols+c] = gc
			}
			if gc.Row == r && gc.Col == c {
				g.cells = append(g.cells, gc)
			}
		}
	}
	g.rowStart[rows] = len(g.cells)
	return g, nil
}

// ResolveTable builds the grid of a table. path names the table in errors.
func ResolveTable(t *dom.Table, path string) (*GridMap, error) {
	cols := len(t.Columns)
	var spans []Span
	for r, row := range t.Rows {
		for c, cell := range row.Cells {
			if cell == nil {
				continue
			}
			spans = append(spans, Span{Row: r, Col: c, MergeRight: cell.MergeRight, MergeDown: cell.MergeDown, Cell: cell})
		}
	}
	return resolveGrid(path, len(t.Rows), cols, spans)
}

// Rows is the number of grid rows.
func (g *GridMap) Rows() int { return g.rows }

// Cols is the number of grid columns.
func (g *GridMap) Cols() int { return g.cols }

// Owner returns the cell owning (row, col), or nil outside the grid.
func (g *GridMap) Owner(row, col int) *GridCell {
	if row < 0 || col < 0 || row >= g.rows || col >= g.cols {
		return nil
	}
	return g.owners[row*g.cols+col]
}

// IsOrigin reports whether (row, col) is the top-left coordinate of its owner.
func (g *GridMap) IsOrigin(row, col int) bool {
	o := g.Owner(row, col)
	return o != nil && o.Row == row && o.Col == col
}

// Cells returns the owning cells in reading order. The slice must not be modified.
func (g *GridMap) Cells() []*GridCell { return g.cells }

// RowCells returns the owning cells whose origin lies on row.
func (g *GridMap) RowCells(row int) []*GridCell {
	if row < 0 || row >= g.rows {
		return nil
	}
	return g.cells[g.rowStart[row]:g.rowStart[row+1]]
}

// CompareCells orders cells by the row of their top-left coordinate, then by
// column. It is a comparator for slices.SortFunc and friends.
func CompareCells(a, b *GridCell) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}

// SortCells sorts cells into reading order. Equal coordinates keep their input order.
func SortCells(cells []*GridCell) {
	slices.SortStableFunc(cells, CompareCells)
}
