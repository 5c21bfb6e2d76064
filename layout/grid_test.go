package layout

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/ByLCY/quire/dom"
)

// randomSpans 生成互不重叠的合并声明。
func randomSpans(rng *rand.Rand, rows, cols int) []Span {
	taken := make([]bool, rows*cols)
	free := func(r0, c0, d, w int) bool {
		if r0+d >= rows || c0+w >= cols {
			return false
		}
		for r := r0; r <= r0+d; r++ {
			for c := c0; c <= c0+w; c++ {
				if taken[r*cols+c] {
					return false
				}
			}
		}
		return true
	}
	var spans []Span
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if taken[r*cols+c] || rng.Intn(3) == 0 {
				continue
			}
			d, w := rng.Intn(3), rng.Intn(3)
			for !free(r, c, d, w) {
				if d > 0 {
					d--
				} else {
					w--
				}
			}
			for rr := r; rr <= r+d; rr++ {
				for cc := c; cc <= c+w; cc++ {
					taken[rr*cols+cc] = true
				}
			}
			spans = append(spans, Span{Row: r, Col: c, MergeRight: w, MergeDown: d, Cell: &dom.Cell{}})
		}
	}
	rng.Shuffle(len(spans), func(i, j int) { spans[i], spans[j] = spans[j], spans[i] })
	return spans
}

func TestGridPartitionsEveryCoordinate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		rows, cols := 1+rng.Intn(12), 1+rng.Intn(8)
		g, err := ResolveGrid(rows, cols, randomSpans(rng, rows, cols))
		if err != nil {
			t.Fatalf("第 %d 次: 合法的合并声明不应报错: %v", iter, err)
		}
		covered := map[*GridCell]int{}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				o := g.Owner(r, c)
				if o == nil {
					t.Fatalf("坐标 (%d,%d) 没有拥有者", r, c)
				}
				if r < o.Row || r > o.LastRow() || c < o.Col || c >= o.Col+o.ColSpan {
					t.Fatalf("坐标 (%d,%d) 的拥有者 %+v 未覆盖它", r, c, o)
				}
				covered[o]++
			}
		}
		area := 0
		for _, cell := range g.Cells() {
			if covered[cell] != cell.RowSpan*cell.ColSpan {
				t.Fatalf("单元格 %+v 覆盖了 %d 个坐标", cell, covered[cell])
			}
			area += cell.RowSpan * cell.ColSpan
		}
		if area != rows*cols || len(covered) != len(g.Cells()) {
			t.Fatalf("拥有者集合与坐标不一致: area=%d cells=%d owners=%d", area, len(g.Cells()), len(covered))
		}
	}
}

func TestGridCellsInReadingOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g, err := ResolveGrid(9, 6, randomSpans(rng, 9, 6))
	if err != nil {
		t.Fatalf("ResolveGrid 失败: %v", err)
	}
	if !slices.IsSortedFunc(g.Cells(), CompareCells) {
		t.Fatalf("Cells() 必须按行、列顺序返回")
	}

	shuffled := slices.Clone(g.Cells())
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	SortCells(shuffled)
	if !slices.Equal(shuffled, g.Cells()) {
		t.Fatalf("排序结果应与阅读顺序一致")
	}
	again := slices.Clone(shuffled)
	SortCells(again)
	if !slices.Equal(again, shuffled) {
		t.Fatalf("重复排序应保持不变")
	}

	// 坐标相同的元素保持原有先后。
	a := &GridCell{Row: 1, Col: 1}
	b := &GridCell{Row: 1, Col: 1}
	c := &GridCell{Row: 0, Col: 5}
	set := []*GridCell{a, b, c}
	SortCells(set)
	if set[0] != c || set[1] != a || set[2] != b {
		t.Fatalf("排序应稳定")
	}
	if CompareCells(&GridCell{Row: 0, Col: 9}, &GridCell{Row: 1, Col: 0}) >= 0 {
		t.Fatalf("行号优先于列号")
	}
}

func TestGridOverlapIsConfigurationError(t *testing.T) {
	spans := []Span{
		{Row: 0, Col: 0, MergeRight: 1, MergeDown: 1},
		{Row: 1, Col: 1},
	}
	_, err := ResolveGrid(3, 3, spans)
	var overlap *OverlappingMergeError
	if !errors.As(err, &overlap) {
		t.Fatalf("期望 OverlappingMergeError，得到 %v", err)
	}
	if overlap.Cell != (GridPos{1, 1}) || overlap.Other != (GridPos{0, 0}) || overlap.At != (GridPos{1, 1}) {
		t.Fatalf("重叠位置错误: %+v", overlap)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("重叠错误应匹配 ErrConfiguration")
	}
}

func TestGridRejectsSpanLeavingGrid(t *testing.T) {
	for _, s := range []Span{
		{Row: 0, Col: 2, MergeRight: 1},
		{Row: 2, Col: 0, MergeDown: 1},
		{Row: 0, Col: 0, MergeRight: -1},
	} {
		_, err := ResolveGrid(3, 3, []Span{s})
		var cfg *ConfigurationError
		if !errors.As(err, &cfg) || !errors.Is(err, ErrConfiguration) {
			t.Fatalf("span %+v 应返回 ConfigurationError，得到 %v", s, err)
		}
	}
}

func TestResolveTableImplicitCells(t *testing.T) {
	tbl := &dom.Table{}
	tbl.AddColumn(50)
	tbl.AddColumn(50)
	tbl.AddColumn(50)
	r0 := tbl.AddRow()
	r0.Cell(0).MergeRight = 1
	tbl.AddRow()

	g, err := ResolveTable(tbl, "section[0]/table[0]")
	if err != nil {
		t.Fatalf("ResolveTable 失败: %v", err)
	}
	if len(g.Cells()) != 5 {
		t.Fatalf("应有 5 个拥有者单元格，得到 %d", len(g.Cells()))
	}
	if g.Owner(0, 1) != g.Owner(0, 0) || !g.IsOrigin(0, 0) || g.IsOrigin(0, 1) {
		t.Fatalf("合并区域归属错误")
	}
	if !g.Owner(1, 2).Implicit() || g.Owner(0, 0).Implicit() {
		t.Fatalf("未声明的坐标应为隐式单元格")
	}
	if len(g.RowCells(0)) != 2 || len(g.RowCells(1)) != 3 {
		t.Fatalf("RowCells 数量错误: %d / %d", len(g.RowCells(0)), len(g.RowCells(1)))
	}

	r0.Cell(1).MergeDown = 0
	_, err = ResolveTable(tbl, "section[0]/table[0]")
	var overlap *OverlappingMergeError
	if !errors.As(err, &overlap) || overlap.Table != "section[0]/table[0]" {
		t.Fatalf("声明在合并区域内的单元格应报重叠并带表格路径，得到 %v", err)
	}
}
