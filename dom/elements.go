package dom

import "github.com/ByLCY/quire/geom"

// Kind tags the closed set of block-level element variants.
type Kind int

const (
	KindParagraph Kind = iota
	KindTable
	KindImage
	KindChart
	KindBarcode
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	case KindChart:
		return "chart"
	case KindBarcode:
		return "barcode"
	case KindPageBreak:
		return "page-break"
	default:
		return "unknown"
	}
}

// Element is a block-level node. The set of implementations is closed.
type Element interface {
	Kind() Kind
	element()
}

func (*Paragraph) Kind() Kind { return KindParagraph }
func (*Table) Kind() Kind     { return KindTable }
func (*Image) Kind() Kind     { return KindImage }
func (*Chart) Kind() Kind     { return KindChart }
func (*Barcode) Kind() Kind   { return KindBarcode }
func (*PageBreak) Kind() Kind { return KindPageBreak }

func (*Paragraph) element() {}
func (*Table) element()     {}
func (*Image) element()     {}
func (*Chart) element()     {}
func (*Barcode) element()   {}
func (*PageBreak) element() {}

// PageBreak forces the following content onto a new page.
type PageBreak struct{}

// Image places a raster image.
type Image struct {
	Source          string
	Width           *geom.Pt
	Height          *geom.Pt
	ScaleWidth      *float64
	ScaleHeight     *float64
	LockAspectRatio *bool
	// Resolution overrides the source resolution on both axes (dots per inch).
	Resolution    *float64
	PictureFormat *PictureFormat
}

// PictureFormat holds crop margins measured on the unscaled image.
type PictureFormat struct {
	CropLeft   geom.Pt
	CropRight  geom.Pt
	CropTop    geom.Pt
	CropBottom geom.Pt
}

// BarcodeType selects the symbology of a Barcode.
type BarcodeType int

const (
	BarcodeCode128 BarcodeType = iota
	BarcodeQR
)

// Barcode renders Code as a machine-readable symbol of the given size.
type Barcode struct {
	Type   BarcodeType
	Code   string
	Width  geom.Pt
	Height geom.Pt
}

// ChartType selects how series are plotted.
type ChartType int

const (
	ChartColumn ChartType = iota
	ChartBar
	ChartLine
)

// Chart is a framed plot with optional text areas around it.
type Chart struct {
	Type   ChartType
	Width  geom.Pt
	Height geom.Pt

	HeaderArea *TextArea
	FooterArea *TextArea
	TopArea    *TextArea
	BottomArea *TextArea
	LeftArea   *TextArea
	RightArea  *TextArea

	Categories []string
	Series     []Series
}

// TextArea is a block of paragraphs inside a chart frame. Size is its height
// for header/footer/top/bottom areas and its width for left/right areas; zero
// means measured from content.
type TextArea struct {
	Size       geom.Pt
	Paragraphs []*Paragraph
}

// Series is one data row of a chart.
type Series struct {
	Name   string
	Values []float64
	Color  *Color
}
