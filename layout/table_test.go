package layout

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

func newTable(cols int, width geom.Pt) *dom.Table {
	t := &dom.Table{}
	for i := 0; i < cols; i++ {
		t.AddColumn(width)
	}
	return t
}

func TestTableExactlyRowIgnoresContent(t *testing.T) {
	tbl := newTable(2, 50)
	tbl.AddRow().Cell(0).AddParagraph("a")
	r1 := tbl.AddRow()
	r1.HeightRule = dom.RowHeightExactly
	r1.Height = 20
	r1.Cell(0).AddParagraph(lines(4)) // 40pt
	tbl.AddRow().Cell(1).AddParagraph("c")

	doc := dom.NewDocument()
	doc.AddSection().Add(tbl)
	res := formatDoc(t, doc, Options{})
	tables := tableItems(res)
	if len(tables) != 1 {
		t.Fatalf("应只有一个表格片段，得到 %d", len(tables))
	}
	rows := tables[0].Rows
	if rows[0].Height != 10 || rows[1].Height != 20 || rows[2].Height != 10 {
		t.Fatalf("行高错误: %+v", rows)
	}
	if !approx(rows[1].Y, rows[0].Y+10) || !approx(rows[2].Y, rows[1].Y+20) {
		t.Fatalf("Exactly 行不应影响相邻行的位置: %+v", rows)
	}
	if tables[0].Height != 40 {
		t.Fatalf("表格高度应为 40，得到 %v", tables[0].Height)
	}
}

func TestTableAtLeastAndPadding(t *testing.T) {
	tbl := newTable(1, 80)
	tbl.TopPadding, tbl.BottomPadding = 2, 3
	r0 := tbl.AddRow()
	r0.HeightRule, r0.Height = dom.RowHeightAtLeast, 30
	r0.Cell(0).AddParagraph("x")
	r1 := tbl.AddRow()
	r1.HeightRule, r1.Height = dom.RowHeightAtLeast, 5
	r1.Cell(0).AddParagraph(lines(2))

	doc := dom.NewDocument()
	doc.AddSection().Add(tbl)
	rows := tableItems(formatDoc(t, doc, Options{}))[0].Rows
	if rows[0].Height != 30 || rows[1].Height != 25 {
		t.Fatalf("AtLeast 取测量值与声明值的较大者: %+v", rows)
	}
}

func TestTableMergedCellDrawnOnce(t *testing.T) {
	tbl := newTable(3, 40)
	tbl.Borders = dom.AllBorders(0.5, dom.Black)
	r0 := tbl.AddRow()
	c := r0.Cell(0)
	c.MergeRight, c.MergeDown = 1, 1
	c.AddParagraph("merged")
	tbl.AddRow()

	doc := dom.NewDocument()
	doc.AddSection().Add(tbl)
	res := formatDoc(t, doc, Options{})
	ti := tableItems(res)[0]
	if len(ti.Cells) != 3 {
		t.Fatalf("2×3 表格含一个 2×2 合并应有 3 个逻辑单元格，得到 %d", len(ti.Cells))
	}
	first := ti.Cells[0]
	if first.Rect.Width != 80 || !approx(first.Rect.Height, ti.Rows[0].Height+ti.Rows[1].Height) {
		t.Fatalf("合并单元格应覆盖整个区域: %+v", first.Rect)
	}

	var rec Recorder
	if err := Render(res, &rec); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if got := len(rec.Filter(OpLine)); got != 3*4 {
		t.Fatalf("每个逻辑单元格绘制 4 条边，期望 12 条，得到 %d", got)
	}
}

func TestTableMergedRowsContributeToOwnerOnly(t *testing.T) {
	tbl := newTable(2, 40)
	c := tbl.AddRow().Cell(0)
	c.MergeDown = 1
	c.AddParagraph(lines(6)) // 60pt 分摊到两行 => 起始行 30
	tbl.AddRow().Cell(1).AddParagraph("b")

	doc := dom.NewDocument()
	doc.AddSection().Add(tbl)
	rows := tableItems(formatDoc(t, doc, Options{}))[0].Rows
	if rows[0].Height != 30 || rows[1].Height != 10 {
		t.Fatalf("纵向合并只计入起始行: %+v", rows)
	}
}

func TestTableVerticalAlignment(t *testing.T) {
	tbl := newTable(3, 40)
	row := tbl.AddRow()
	row.HeightRule, row.Height = dom.RowHeightExactly, 40
	row.VerticalAlignment = dom.VAlignBottom
	row.Cell(0).AddParagraph("top")
	row.Cell(0).VerticalAlignment = dom.Ptr(dom.VAlignTop)
	row.Cell(1).AddParagraph("center")
	row.Cell(1).VerticalAlignment = dom.Ptr(dom.VAlignCenter)
	row.Cell(2).AddParagraph("bottom")

	doc := dom.NewDocument()
	doc.AddSection().Add(tbl)
	ti := tableItems(formatDoc(t, doc, Options{}))[0]
	y := ti.Rows[0].Y
	want := []geom.Pt{y, y + 15, y + 30}
	for i, cell := range ti.Cells {
		if got := cell.Content[0].Layout.Rect.Y; !approx(got, want[i]) {
			t.Fatalf("单元格 %d 内容 y=%v，期望 %v", i, got, want[i])
		}
		if cell.Rect.Height != 40 {
			t.Fatalf("垂直对齐不应改变单元格高度: %v", cell.Rect.Height)
		}
	}
}

func TestTableSplitsAcrossPagesAndRepeatsHeading(t *testing.T) {
	tbl := newTable(2, 60)
	head := tbl.AddRow()
	head.HeadingFormat = true
	head.HeightRule, head.Height = dom.RowHeightExactly, 20
	for i := 0; i < 99; i++ {
		r := tbl.AddRow()
		r.HeightRule, r.Height = dom.RowHeightExactly, 20
		r.Cell(0).AddParagraph("x")
	}

	doc := dom.NewDocument()
	sec := doc.AddSection()
	sec.Add(tbl)
	res := formatDoc(t, doc, Options{})
	frags := tableItems(res)
	if len(frags) < 3 {
		t.Fatalf("100 行应跨越至少 3 页，得到 %d 个片段", len(frags))
	}
	bodyHeight := res.Pages[0].Body.Height
	seen := map[int]int{}
	for i, fr := range frags {
		if fr.Height > bodyHeight+1e-6 {
			t.Fatalf("片段 %d 高度 %v 超出正文区域 %v", i, fr.Height, bodyHeight)
		}
		if i > 0 {
			if !fr.Continued || fr.Rows[0].Index != 0 || !fr.Rows[0].Repeated {
				t.Fatalf("续页片段 %d 应以重复的标题行开头: %+v", i, fr.Rows[0])
			}
		}
		for _, r := range fr.Rows {
			if !r.Repeated {
				seen[r.Index]++
			}
		}
	}
	for r := 0; r < 100; r++ {
		if seen[r] != 1 {
			t.Fatalf("行 %d 出现了 %d 次", r, seen[r])
		}
	}
}

func TestTableKeepWith(t *testing.T) {
	tbl := newTable(1, 60)
	for i := 0; i < 3; i++ {
		r := tbl.AddRow()
		r.HeightRule, r.Height = dom.RowHeightExactly, 20
	}
	tbl.Rows[1].KeepWith = 1

	doc := dom.NewDocument()
	sec := doc.AddSection()
	body := sec.PageSetup.PageHeight - sec.PageSetup.TopMargin - sec.PageSetup.BottomMargin
	// 填充段落让第二行刚好放得下、第三行放不下。
	filler := dom.NewParagraph("f")
	filler.Format.Font.Size = dom.Ptr(body - 50)
	sec.Add(filler, tbl)

	res := formatDoc(t, doc, Options{})
	frags := tableItems(res)
	if len(frags) != 2 {
		t.Fatalf("期望 2 个片段，得到 %d", len(frags))
	}
	if len(frags[0].Rows) != 1 || frags[1].Rows[0].Index != 1 {
		t.Fatalf("KeepWith 行应与后一行一起换页: %+v / %+v", frags[0].Rows, frags[1].Rows)
	}
}

func TestTableOversizedRowIsPlaced(t *testing.T) {
	tbl := newTable(1, 60)
	r := tbl.AddRow()
	r.HeightRule, r.Height = dom.RowHeightExactly, 5000
	tbl.AddRow().Cell(0).AddParagraph("after")

	doc := dom.NewDocument()
	doc.AddSection().AddParagraph("before")
	doc.Sections[0].Add(tbl)
	res := formatDoc(t, doc, Options{})
	frags := tableItems(res)
	if len(frags) != 2 || frags[0].Rows[0].Height != 5000 {
		t.Fatalf("超高的行也必须放置: %d 个片段", len(frags))
	}
	if res.Pages[1].Items[0].Format != frags[0] {
		t.Fatalf("超高行应另起一页")
	}
}

func TestTableMergedRowsMoveTogether(t *testing.T) {
	tbl := newTable(2, 50)
	tbl.Borders = dom.AllBorders(0.5, dom.Black)
	for i := 0; i < 2; i++ {
		r := tbl.AddRow()
		r.HeightRule, r.Height = dom.RowHeightExactly, 20
	}
	tbl.Rows[0].Cell(0).MergeDown = 1

	doc := dom.NewDocument()
	sec := doc.AddSection()
	// 第一行放得下，两行放不下。
	sec.Add(filler(bodyHeight()-25), tbl)

	res := formatDoc(t, doc, Options{})
	frags := tableItems(res)
	if len(frags) != 1 || len(frags[0].Rows) != 2 {
		t.Fatalf("纵向合并的行应一起换页: %d 个片段", len(frags))
	}
	if res.Pages[1].Items[0].Format != frags[0] {
		t.Fatalf("表格应整体移到第 2 页")
	}
	c := frags[0].Cells[0]
	if c.Row != 0 || c.Col != 0 || c.RowSpan != 2 || c.Rect.Height != 40 {
		t.Fatalf("合并单元格应覆盖两行: %+v", c)
	}
}

func TestTableMergedCellContinuesOnNextPage(t *testing.T) {
	tbl := newTable(2, 50)
	tbl.Borders = dom.AllBorders(0.5, dom.Black)
	r0 := tbl.AddRow()
	r0.HeightRule, r0.Height = dom.RowHeightExactly, bodyHeight()-10
	r1 := tbl.AddRow()
	r1.HeightRule, r1.Height = dom.RowHeightExactly, 30
	merged := r0.Cell(0)
	merged.MergeDown = 1
	merged.Shading = dom.Ptr(dom.RGB(0xee, 0xee, 0xee))
	merged.AddParagraph("merged")
	r1.Cell(1).AddParagraph("b")

	doc := dom.NewDocument()
	doc.AddSection().Add(tbl)
	frags := tableItems(formatDoc(t, doc, Options{}))
	if len(frags) != 2 {
		t.Fatalf("期望 2 个片段，得到 %d", len(frags))
	}
	if c := frags[0].Cells[0]; c.Rect.Height != bodyHeight()-10 || len(c.Content) != 1 {
		t.Fatalf("首页部分应只覆盖本页的行并带内容: %+v", c)
	}
	second := frags[1]
	if !second.Continued || len(second.Cells) != 2 {
		t.Fatalf("续页应含延续单元格与 (1,1): %+v", second.Cells)
	}
	cont := second.Cells[0]
	if !cont.Continued || cont.Row != 0 || cont.Col != 0 {
		t.Fatalf("坐标 (1,0) 应由延续单元格覆盖: %+v", cont)
	}
	if cont.Rect.Y != second.Rows[0].Y || cont.Rect.Height != 30 || cont.Rect.Width != 50 {
		t.Fatalf("延续单元格位置错误: %+v", cont.Rect)
	}
	if cont.Shading == nil || cont.Borders.Top == nil || len(cont.Content) != 0 {
		t.Fatalf("延续单元格应保留边框与底纹且不重复内容: %+v", cont)
	}
	if c := second.Cells[1]; c.Row != 1 || c.Col != 1 {
		t.Fatalf("第二个单元格应为 (1,1): %+v", c)
	}
}

func TestTablePageFieldFollowsRowPage(t *testing.T) {
	tbl := newTable(1, 100)
	for i := 0; i < 120; i++ {
		r := tbl.AddRow()
		r.HeightRule, r.Height = dom.RowHeightExactly, 20
		r.Cell(0).AddParagraph("p").AddField(&dom.Field{Type: dom.FieldPage})
	}
	doc := dom.NewDocument()
	doc.AddSection().Add(tbl)

	res := formatDoc(t, doc, Options{})
	if len(res.Pages) < 3 {
		t.Fatalf("表格应跨多页，得到 %d 页", len(res.Pages))
	}
	for i, page := range res.Pages {
		want := "p" + strconv.Itoa(i+1)
		for _, it := range page.Items {
			ti, ok := it.Format.(*TableFormatInfo)
			if !ok {
				continue
			}
			for _, c := range ti.Cells {
				if got := firstLine(t, c.Content[0]); got != want {
					t.Fatalf("第 %d 页行 %d 的页码应为 %q，得到 %q", i+1, c.Row, want, got)
				}
			}
		}
	}
}

func TestTableConfigurationErrors(t *testing.T) {
	noWidth := newTable(2, 50)
	noWidth.Columns[1].Width = 0
	noWidth.AddRow()

	zeroExact := newTable(1, 50)
	zeroExact.AddRow().HeightRule = dom.RowHeightExactly

	nested := newTable(1, 50)
	nested.AddRow().Cell(0).Elements = []dom.Element{newTable(1, 10)}

	outside := newTable(2, 50)
	outside.AddRow().Cell(1).MergeRight = 1

	cases := []struct {
		tbl  *dom.Table
		node string
	}{
		{noWidth, "section[0]/table[0]/column[1]"},
		{zeroExact, "section[0]/table[0]/row[0]"},
		{nested, "section[0]/table[0]/row[0]/cell[0]/table[0]"},
		{outside, "section[0]/table[0]/row[0]/cell[1]"},
	}
	for _, c := range cases {
		doc := dom.NewDocument()
		doc.AddSection().Add(c.tbl)
		_, err := NewFormatter(Options{Typesetter: &stubTypesetter{}}).FormatDocument(doc)
		var cfg *ConfigurationError
		if !errors.As(err, &cfg) || !errors.Is(err, ErrConfiguration) {
			t.Fatalf("期望 ConfigurationError，得到 %v", err)
		}
		if cfg.Node != c.node {
			t.Fatalf("错误应指明节点 %s，得到 %s", c.node, cfg.Node)
		}
	}
}

// bigTable 与常见的基准一致：10 列、每列 15mm、每行固定 20pt。
func bigTable(rows int) *dom.Document {
	tbl := newTable(10, geom.Mm(15))
	tbl.Borders = dom.AllBorders(0.5, dom.Black)
	for i := 0; i < rows; i++ {
		r := tbl.AddRow()
		r.HeightRule, r.Height = dom.RowHeightExactly, 20
		for c := 0; c < 10; c++ {
			r.Cell(c).AddParagraph("cell")
		}
	}
	doc := dom.NewDocument()
	doc.AddSection().Add(tbl)
	return doc
}

func TestTableCostScalesLinearly(t *testing.T) {
	work := func(rows int) (int, time.Duration) {
		ts := &stubTypesetter{}
		doc := bigTable(rows)
		best := time.Duration(1<<63 - 1)
		// 先预热一轮，再取多次中的最快值，减少 GC 与调度的干扰。
		for i := 0; i < 6; i++ {
			ts.calls = 0
			start := time.Now()
			if _, err := NewFormatter(Options{Typesetter: ts}).FormatDocument(doc); err != nil {
				t.Fatalf("排版失败: %v", err)
			}
			if i > 0 {
				best = min(best, time.Since(start))
			}
		}
		return ts.calls, best
	}
	small, smallTime := work(1000)
	large, largeTime := work(10000)
	if ratio := float64(large) / float64(small); ratio > 15 {
		t.Fatalf("工作量比值 %.1f 超出线性范围", ratio)
	}
	if testing.Short() {
		return
	}
	if ratio := float64(largeTime) / float64(smallTime); ratio > 15 {
		t.Fatalf("耗时比值 %.1f（%v / %v）接近平方级", ratio, largeTime, smallTime)
	}
}

func BenchmarkTable1000(b *testing.B)  { benchmarkTable(b, 1000) }
func BenchmarkTable10000(b *testing.B) { benchmarkTable(b, 10000) }

func benchmarkTable(b *testing.B, rows int) {
	doc := bigTable(rows)
	f := NewFormatter(Options{Typesetter: &stubTypesetter{}})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.FormatDocument(doc); err != nil {
			b.Fatal(err)
		}
	}
}
