package layout

import (
	"image"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// 该文件定义排版结果，供排版计算、渲染与调试 JSON 共用。
// 所有坐标单位为 pt，原点在页面左上角。

// Result 保存最终一轮排版得到的页面。
type Result struct {
	Info      dom.Info    `json:"info"`
	Pages     []*Page     `json:"pages"`
	Fields    FieldValues `json:"fields"`
	Passes    int         `json:"passes"`
	Converged bool        `json:"converged"`
	// Warnings 收集非致命问题，例如 *FieldConvergenceWarning。
	Warnings []error `json:"-"`
}

// Page 记录页面尺寸与已定位的内容。
type Page struct {
	Index   int       `json:"index"`   // 物理页序号，从 0 开始
	Section int       `json:"section"` // 所属 section，从 0 开始
	Number  int       `json:"number"`  // 显示页码
	Size    geom.Size `json:"size"`
	Body    geom.Rect `json:"body"` // 正文可用区域（已扣除页眉页脚）

	Header []*RenderInfo `json:"header,omitempty"`
	Items  []*RenderInfo `json:"items"`
	Footer []*RenderInfo `json:"footer,omitempty"`
}

// FieldValues 是整篇文档在一轮排版结束后才能确定的域值。
type FieldValues struct {
	NumPages     int            `json:"numPages"`
	SectionPages []int          `json:"sectionPages"`
	Bookmarks    map[string]int `json:"bookmarks"` // 书签 -> 显示页码
	Sections     int            `json:"sections"`
}

// FormatInfo is the measured size of a shape before it is placed.
type FormatInfo interface {
	Extent() geom.Size
}

// LayoutInfo is where a shape was placed.
type LayoutInfo struct {
	Rect geom.Rect `json:"rect"`
	Page int       `json:"page"`
}

// RenderInfo is a measured and placed shape.
type RenderInfo struct {
	Element dom.Element `json:"-"`
	Path    string      `json:"path"`
	Kind    string      `json:"kind"`
	Layout  LayoutInfo  `json:"layout"`
	Format  FormatInfo  `json:"format"`
}

// Font is a fully resolved font.
type Font struct {
	Name   string    `json:"name"`
	Size   geom.Pt   `json:"size"`
	Bold   bool      `json:"bold,omitempty"`
	Italic bool      `json:"italic,omitempty"`
	Color  dom.Color `json:"color"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content string  `json:"content"`
	Width   geom.Pt `json:"width"`
	Height  geom.Pt `json:"height"`
}

// Pen describes a stroked line.
type Pen struct {
	Width geom.Pt   `json:"width"`
	Color dom.Color `json:"color"`
}

// PixelRect is a window in the pixel space of an image.
type PixelRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageRef names what DrawImage should paint: a source reference resolved by
// the sink, or an in-memory image such as a generated barcode.
type ImageRef struct {
	Source string      `json:"source,omitempty"`
	Image  image.Image `json:"-"`
}

// ParagraphFormatInfo holds the laid-out lines of one paragraph fragment.
type ParagraphFormatInfo struct {
	Lines       []TextLine    `json:"lines"`
	Font        Font          `json:"font"`
	Alignment   dom.Alignment `json:"alignment"`
	LineSpacing float64       `json:"lineSpacing"`
	SpaceBefore geom.Pt       `json:"spaceBefore,omitempty"`
	SpaceAfter  geom.Pt       `json:"spaceAfter,omitempty"`
	LeftIndent  geom.Pt       `json:"leftIndent,omitempty"`
	RightIndent geom.Pt       `json:"rightIndent,omitempty"`
	Width       geom.Pt       `json:"width"`
	Bookmarks   []string      `json:"bookmarks,omitempty"`
}

func (p *ParagraphFormatInfo) lineAdvance(l TextLine) geom.Pt {
	return l.Height * geom.Pt(p.LineSpacing)
}

// LinesHeight is the height of the lines without paragraph spacing.
func (p *ParagraphFormatInfo) LinesHeight() geom.Pt {
	var h geom.Pt
	for _, l := range p.Lines {
		h += p.lineAdvance(l)
	}
	return h
}

func (p *ParagraphFormatInfo) Extent() geom.Size {
	return geom.Size{Width: p.Width, Height: p.SpaceBefore + p.LinesHeight() + p.SpaceAfter}
}

// ImageFailure tags why an image could not be shown.
type ImageFailure int

const (
	ImageFailureNone ImageFailure = iota
	ImageFailureEmptySize
	ImageFailureFileNotFound
	ImageFailureInvalidType
	ImageFailureNotRead
)

func (f ImageFailure) String() string {
	switch f {
	case ImageFailureNone:
		return "none"
	case ImageFailureEmptySize:
		return "empty-size"
	case ImageFailureFileNotFound:
		return "file-not-found"
	case ImageFailureInvalidType:
		return "invalid-type"
	default:
		return "not-read"
	}
}

func (f ImageFailure) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// ImageFormatInfo is the resolved size and crop window of an image.
type ImageFormatInfo struct {
	Source  string       `json:"source"`
	Width   geom.Pt      `json:"width"`
	Height  geom.Pt      `json:"height"`
	Crop    PixelRect    `json:"crop"`
	Failure ImageFailure `json:"failure"`
}

func (i *ImageFormatInfo) Extent() geom.Size { return geom.Size{Width: i.Width, Height: i.Height} }

// BarcodeFormatInfo holds a generated barcode scaled to its box.
type BarcodeFormatInfo struct {
	Code    string       `json:"code"`
	Width   geom.Pt      `json:"width"`
	Height  geom.Pt      `json:"height"`
	Image   image.Image  `json:"-"`
	Failure ImageFailure `json:"failure"`
}

func (b *BarcodeFormatInfo) Extent() geom.Size { return geom.Size{Width: b.Width, Height: b.Height} }
