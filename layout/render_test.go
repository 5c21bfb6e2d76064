package layout

import (
	"testing"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

func TestRenderEmitsPagesInOrder(t *testing.T) {
	doc := dom.NewDocument()
	sec := doc.AddSection()
	sec.Headers.Primary = []dom.Element{dom.NewParagraph("head")}
	sec.AddParagraph("one\ntwo")
	sec.Add(&dom.PageBreak{})
	sec.AddParagraph("three")

	res := formatDoc(t, doc, Options{})
	var rec Recorder
	if err := Render(res, &rec); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	var got []string
	for _, p := range rec.Primitives {
		switch p.Op {
		case OpString:
			got = append(got, p.Text)
		default:
			got = append(got, string(p.Op))
		}
	}
	want := []string{
		"begin-page", "head", "one", "two", "end-page",
		"begin-page", "head", "three", "end-page",
	}
	if len(got) != len(want) {
		t.Fatalf("绘图调用序列错误: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("第 %d 个调用为 %q，期望 %q（%v）", i, got[i], want[i], got)
		}
	}
	strs := rec.Filter(OpString)
	if strs[2].Rect.Y-strs[1].Rect.Y != 10 || strs[1].Page != 0 || strs[3].Page != 1 {
		t.Fatalf("行位置错误: %+v", strs[1:3])
	}
}

func TestRenderParagraphIndentAndAlignment(t *testing.T) {
	doc := dom.NewDocument()
	p := doc.AddSection().AddParagraph("x")
	p.Format.LeftIndent = dom.Ptr(geom.Pt(10))
	p.Format.RightIndent = dom.Ptr(geom.Pt(10))
	p.Format.Alignment = dom.Ptr(dom.AlignRight)

	res := formatDoc(t, doc, Options{})
	var rec Recorder
	RenderPage(res.Pages[0], &rec)
	s := rec.Filter(OpString)[0]
	body := res.Pages[0].Body
	if s.Rect.X != body.X+10 || s.Rect.Width != body.Width-20 || s.Align != dom.AlignRight {
		t.Fatalf("缩进或对齐错误: %+v", s)
	}
}

func TestRenderBarcode(t *testing.T) {
	doc := dom.NewDocument()
	doc.AddSection().Add(
		&dom.Barcode{Type: dom.BarcodeQR, Code: "https://example.com", Width: 60, Height: 60},
		&dom.Barcode{Type: dom.BarcodeCode128, Code: "中文", Width: 100, Height: 30},
	)
	res := formatDoc(t, doc, Options{})
	var rec Recorder
	if err := Render(res, &rec); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	imgs := rec.Filter(OpImage)
	if len(imgs) != 1 || imgs[0].Image.Image == nil {
		t.Fatalf("二维码应作为图片绘制: %+v", imgs)
	}
	if imgs[0].Rect.Width != 60 || imgs[0].Crop.Width != 240 {
		t.Fatalf("条码尺寸错误: %+v", imgs[0])
	}
	strs := rec.Filter(OpString)
	if len(strs) != 1 || strs[0].Text != "invalid image type" {
		t.Fatalf("无法编码的条码应绘制占位框: %+v", strs)
	}
}

func TestRenderChartAreas(t *testing.T) {
	doc := dom.NewDocument()
	sec := doc.AddSection()
	sec.AddParagraph("above")
	sec.Add(&dom.Chart{
		Type:       dom.ChartColumn,
		Width:      200,
		Height:     100,
		HeaderArea: &dom.TextArea{Paragraphs: []*dom.Paragraph{dom.NewParagraph("title")}},
		LeftArea:   &dom.TextArea{Size: 20, Paragraphs: []*dom.Paragraph{dom.NewParagraph("y")}},
		Categories: []string{"a", "b"},
		Series:     []dom.Series{{Name: "s", Values: []float64{1, 2}}},
	})
	res := formatDoc(t, doc, Options{})
	chart := res.Pages[0].Items[1]
	info := chart.Format.(*ChartFormatInfo)
	if info.Plot.X != 20 || info.Plot.Y != 10 || info.Plot.Height != 90 || info.Plot.Width != 180 {
		t.Fatalf("绘图区错误: %+v", info.Plot)
	}

	var rec Recorder
	RenderPage(res.Pages[0], &rec)
	var title Primitive
	for _, s := range rec.Filter(OpString) {
		if s.Text == "title" {
			title = s
		}
	}
	if title.Rect.Y != chart.Layout.Rect.Y || title.Rect.X != chart.Layout.Rect.X {
		t.Fatalf("图表文字区应相对图表原点绘制: %+v / %+v", title.Rect, chart.Layout.Rect)
	}
	// 边框 1 个加两列柱形。
	if got := len(rec.Filter(OpRectangle)); got != 3 {
		t.Fatalf("期望 3 个矩形，得到 %d", got)
	}
}
