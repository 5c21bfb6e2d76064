package layout

import (
	"fmt"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// Graphics receives the drawing primitives of placed shapes. Coordinates are
// points with the origin at the top-left corner of the page.
type Graphics interface {
	// DrawRectangle fills and/or strokes r; nil skips that part.
	DrawRectangle(r geom.Rect, fill *dom.Color, stroke *Pen)
	DrawLine(from, to geom.Point, pen Pen)
	// DrawString draws one line of text inside r, aligned horizontally.
	DrawString(text string, font Font, r geom.Rect, align dom.Alignment)
	// DrawImage paints the crop window (in source pixels) of img into dest.
	DrawImage(img ImageRef, dest geom.Rect, crop PixelRect)
}

// PageSink is a Graphics that also knows page boundaries.
type PageSink interface {
	Graphics
	BeginPage(page *Page) error
	EndPage() error
}

// Render walks every page of res in order and emits its primitives to sink.
func Render(res *Result, sink PageSink) error {
	for _, page := range res.Pages {
		if err := sink.BeginPage(page); err != nil {
			return fmt.Errorf("开始第 %d 页失败: %w", page.Index+1, err)
		}
		RenderPage(page, sink)
		if err := sink.EndPage(); err != nil {
			return fmt.Errorf("结束第 %d 页失败: %w", page.Index+1, err)
		}
	}
	return nil
}

// RenderPage draws header, body and footer of one page.
func RenderPage(page *Page, g Graphics) {
	for _, group := range [][]*RenderInfo{page.Header, page.Items, page.Footer} {
		for _, ri := range group {
			renderShape(ri, g)
		}
	}
}

func renderShape(ri *RenderInfo, g Graphics) {
	rect := ri.Layout.Rect
	switch fi := ri.Format.(type) {
	case *ParagraphFormatInfo:
		renderParagraph(rect, fi, g)
	case *TableFormatInfo:
		renderTable(fi, g)
	case *ImageFormatInfo:
		dest := geom.Rect{X: rect.X, Y: rect.Y, Width: fi.Width, Height: fi.Height}
		if fi.Failure != ImageFailureNone {
			renderFailureBox(dest, fi.Failure, g)
			return
		}
		g.DrawImage(ImageRef{Source: fi.Source}, dest, fi.Crop)
	case *BarcodeFormatInfo:
		dest := geom.Rect{X: rect.X, Y: rect.Y, Width: fi.Width, Height: fi.Height}
		if fi.Failure != ImageFailureNone || fi.Image == nil {
			renderFailureBox(dest, fi.Failure, g)
			return
		}
		b := fi.Image.Bounds()
		g.DrawImage(ImageRef{Image: fi.Image}, dest, PixelRect{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()})
	case *ChartFormatInfo:
		renderChart(geom.Rect{X: rect.X, Y: rect.Y, Width: fi.Width, Height: fi.Height}, fi, g)
	}
}

func renderParagraph(rect geom.Rect, fi *ParagraphFormatInfo, g Graphics) {
	x := rect.X + fi.LeftIndent
	w := geom.NonNegative(fi.Width - fi.LeftIndent - fi.RightIndent)
	y := rect.Y + fi.SpaceBefore
	for _, line := range fi.Lines {
		h := fi.lineAdvance(line)
		g.DrawString(line.Content, fi.Font, geom.Rect{X: x, Y: y, Width: w, Height: h}, fi.Alignment)
		y += h
	}
}

var failureCaptions = map[ImageFailure]string{
	ImageFailureEmptySize:    "empty image size",
	ImageFailureFileNotFound: "image not found",
	ImageFailureInvalidType:  "invalid image type",
	ImageFailureNotRead:      "image not read",
}

// renderFailureBox 绘制浅灰色占位框，并在中间用红字标明失败原因。
func renderFailureBox(dest geom.Rect, f ImageFailure, g Graphics) {
	fill := dom.LightGray
	g.DrawRectangle(dest, &fill, nil)
	caption, ok := failureCaptions[f]
	if !ok {
		caption = failureCaptions[ImageFailureNotRead]
	}
	font := Font{Name: "Body", Size: 8, Color: dom.Red}
	line := geom.Rect{X: dest.X, Y: dest.Y + (dest.Height-font.Size*1.2)/2, Width: dest.Width, Height: font.Size * 1.2}
	g.DrawString(caption, font, line, dom.AlignCenter)
}
