package dom

import "github.com/ByLCY/quire/geom"

// Alignment is the horizontal alignment of paragraph lines.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// Font carries optional font settings; nil fields inherit from the style chain.
type Font struct {
	Name   *string
	Size   *geom.Pt
	Bold   *bool
	Italic *bool
	Color  *Color
}

// ParagraphFormat carries optional paragraph settings; nil fields inherit.
type ParagraphFormat struct {
	Alignment       *Alignment
	SpaceBefore     *geom.Pt
	SpaceAfter      *geom.Pt
	LeftIndent      *geom.Pt
	RightIndent     *geom.Pt
	LineSpacing     *float64 // multiple of the font line height
	KeepTogether    *bool
	PageBreakBefore *bool
	Font            Font
}

// Paragraph is a run of inline content laid out into lines.
type Paragraph struct {
	Style   string
	Format  ParagraphFormat
	Content []Inline
}

// NewParagraph returns a paragraph containing a single text run.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{}
	if text != "" {
		p.Content = append(p.Content, &Text{Value: text})
	}
	return p
}

// AddText appends a text run.
func (p *Paragraph) AddText(s string) *Paragraph {
	p.Content = append(p.Content, &Text{Value: s})
	return p
}

// AddField appends a field placeholder.
func (p *Paragraph) AddField(f *Field) *Paragraph {
	p.Content = append(p.Content, f)
	return p
}

// AddBookmark appends a named anchor.
func (p *Paragraph) AddBookmark(name string) *Paragraph {
	p.Content = append(p.Content, &Bookmark{Name: name})
	return p
}

// AddLineBreak appends a forced line break.
func (p *Paragraph) AddLineBreak() *Paragraph {
	p.Content = append(p.Content, &LineBreak{})
	return p
}

// Inline is paragraph content. The set of implementations is closed.
type Inline interface{ inline() }

// Text is a literal text run.
type Text struct{ Value string }

// LineBreak forces a new line.
type LineBreak struct{}

// Bookmark names the position of its paragraph for PageRef fields.
type Bookmark struct{ Name string }

// FieldType enumerates the fields the formatter can resolve.
type FieldType int

const (
	// FieldPage prints the number of the current page.
	FieldPage FieldType = iota
	// FieldNumPages prints the number of pages in the document.
	FieldNumPages
	// FieldSection prints the number of the current section.
	FieldSection
	// FieldSectionPages prints the number of pages in the current section.
	FieldSectionPages
	// FieldPageRef prints the page number of the bookmark named by Name.
	FieldPageRef
	// FieldInfo prints the document info entry named by Name.
	FieldInfo
)

func (t FieldType) String() string {
	switch t {
	case FieldPage:
		return "page"
	case FieldNumPages:
		return "num-pages"
	case FieldSection:
		return "section"
	case FieldSectionPages:
		return "section-pages"
	case FieldPageRef:
		return "page-ref"
	case FieldInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Field is a placeholder replaced by a value known only while formatting.
// Format is one of "", "ROMAN", "roman", "ALPHABETIC", "alphabetic".
type Field struct {
	Type   FieldType
	Name   string
	Format string
}

func (*Text) inline()      {}
func (*LineBreak) inline() {}
func (*Bookmark) inline()  {}
func (*Field) inline()     {}
