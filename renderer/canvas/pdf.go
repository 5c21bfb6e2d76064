package canvasrenderer

import (
	"fmt"
	"image"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/logging"
)

// PDF 是把页面逐页写成 PDF 的 layout.PageSink。
// 绘制接口不返回错误，首个错误会被记录并由 EndPage 或 Close 返回。
type PDF struct {
	r    *Renderer
	w    io.Writer
	info dom.Info

	writer *pdf.PDF
	canvas *canvas.Canvas
	ctx    *canvas.Context
	err    error
}

var _ layout.PageSink = (*PDF)(nil)

// NewPDF returns a sink writing to w. Call Close after the last page.
func (r *Renderer) NewPDF(w io.Writer, info dom.Info) *PDF {
	return &PDF{r: r, w: w, info: info}
}

func (s *PDF) BeginPage(page *layout.Page) error {
	if s.err != nil {
		return s.err
	}
	width, height := mm(page.Size.Width), mm(page.Size.Height)
	if s.writer == nil {
		s.writer = pdf.New(s.w, width, height, nil)
		s.writer.SetInfo(s.info.Title, s.info.Subject, s.info.Keywords, s.info.Author, "quire")
	} else {
		s.writer.NewPage(width, height)
	}
	s.canvas = canvas.New(width, height)
	s.ctx = canvas.NewContext(s.canvas)
	s.ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	logging.Logger().Debug("渲染页面", "index", page.Index, "number", page.Number)
	return nil
}

func (s *PDF) EndPage() error {
	if s.canvas == nil {
		return fmt.Errorf("EndPage 之前没有调用 BeginPage")
	}
	if s.err != nil {
		return s.err
	}
	s.canvas.RenderTo(s.writer)
	s.canvas, s.ctx = nil, nil
	return nil
}

// Close finishes the PDF document.
func (s *PDF) Close() error {
	if s.err != nil {
		return s.err
	}
	if s.writer == nil {
		return fmt.Errorf("缺少可渲染的页面")
	}
	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func (s *PDF) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *PDF) DrawRectangle(r geom.Rect, fill *dom.Color, stroke *layout.Pen) {
	if fill != nil {
		s.ctx.SetFillColor(toColor(*fill))
	} else {
		s.ctx.SetFillColor(transparent)
	}
	if stroke != nil && stroke.Width > 0 {
		s.ctx.SetStrokeColor(toColor(stroke.Color))
		s.ctx.SetStrokeWidth(mm(stroke.Width))
	} else {
		s.ctx.SetStrokeColor(transparent)
		s.ctx.SetStrokeWidth(0)
	}
	s.ctx.DrawPath(mm(r.X), mm(r.Y), canvas.Rectangle(mm(r.Width), mm(r.Height)))
}

func (s *PDF) DrawLine(from, to geom.Point, pen layout.Pen) {
	if pen.Width <= 0 {
		return
	}
	s.ctx.SetFillColor(transparent)
	s.ctx.SetStrokeColor(toColor(pen.Color))
	s.ctx.SetStrokeWidth(mm(pen.Width))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(mm(to.X-from.X), mm(to.Y-from.Y))
	s.ctx.DrawPath(mm(from.X), mm(from.Y), p)
}

func (s *PDF) DrawString(text string, font layout.Font, r geom.Rect, align dom.Alignment) {
	if text == "" {
		return
	}
	face, err := s.r.fontFace(font)
	if err != nil {
		s.fail(err)
		return
	}
	var textAlign canvas.TextAlign
	var anchorX float64
	switch align {
	case dom.AlignCenter:
		textAlign = canvas.Center
		anchorX = mm(r.X + r.Width/2)
	case dom.AlignRight:
		textAlign = canvas.Right
		anchorX = mm(r.Right())
	default:
		textAlign = canvas.Left
		anchorX = mm(r.X)
	}
	// 基线位置：行顶部加上字体上升部（Ascent，毫米）
	baseline := mm(r.Y) + face.Metrics().Ascent
	s.ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, text, textAlign))
}

func (s *PDF) DrawImage(ref layout.ImageRef, dest geom.Rect, crop layout.PixelRect) {
	img := ref.Image
	if img == nil {
		if s.r.images == nil {
			s.fail(fmt.Errorf("图片 %s 无法读取：未配置图片来源", ref.Source))
			return
		}
		var err error
		if img, err = s.r.images.Image(ref.Source); err != nil {
			s.fail(fmt.Errorf("读取图片 %s 失败: %w", ref.Source, err))
			return
		}
	}
	img = cropImage(img, crop)
	x, y, sx, sy, ok := imageTransform(dest, img.Bounds().Dx(), img.Bounds().Dy())
	if !ok {
		return
	}
	// 每像素 1mm 绘制，再按两个方向各自缩放到目标矩形。
	s.ctx.Push()
	s.ctx.Translate(x, y)
	s.ctx.Scale(sx, sy)
	s.ctx.DrawImage(0, 0, img, canvas.DPMM(1))
	s.ctx.Pop()
}

// imageTransform maps a px×py image onto dest: the origin in millimetres and
// the per-axis scale from pixels to millimetres.
func imageTransform(dest geom.Rect, px, py int) (x, y, sx, sy float64, ok bool) {
	if px <= 0 || py <= 0 || dest.Width <= 0 || dest.Height <= 0 {
		return 0, 0, 0, 0, false
	}
	return mm(dest.X), mm(dest.Y), mm(dest.Width) / float64(px), mm(dest.Height) / float64(py), true
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropImage returns the crop window of img, or img itself when the window
// covers it or the image cannot be cropped.
func cropImage(img image.Image, crop layout.PixelRect) image.Image {
	b := img.Bounds()
	win := image.Rect(b.Min.X+crop.X, b.Min.Y+crop.Y, b.Min.X+crop.X+crop.Width, b.Min.Y+crop.Y+crop.Height).Intersect(b)
	if win.Empty() || win.Eq(b) {
		return img
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(win)
	}
	return img
}
