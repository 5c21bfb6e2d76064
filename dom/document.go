// Package dom defines the document tree consumed by the formatter.
//
// The tree is treated as an immutable snapshot while a document is being
// formatted: the formatter reads nodes but never writes back into them.
package dom

import "github.com/ByLCY/quire/geom"

// Document is the root of the tree.
type Document struct {
	Info     Info
	Styles   *Styles
	Sections []*Section
}

// NewDocument returns an empty document carrying the default styles.
func NewDocument() *Document {
	return &Document{Styles: NewStyles()}
}

// AddSection appends a section with the default page setup.
func (d *Document) AddSection() *Section {
	s := &Section{PageSetup: DefaultPageSetup()}
	d.Sections = append(d.Sections, s)
	return s
}

// Info holds document metadata.
type Info struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
	Keywords string `json:"keywords"`
}

// Section is a run of content sharing one page setup. Every section starts on a new page.
type Section struct {
	PageSetup PageSetup
	Headers   HeadersFooters
	Footers   HeadersFooters
	Elements  []Element
}

// Add appends elements to the section body.
func (s *Section) Add(els ...Element) *Section {
	s.Elements = append(s.Elements, els...)
	return s
}

// AddParagraph appends a paragraph holding plain text.
func (s *Section) AddParagraph(text string) *Paragraph {
	p := NewParagraph(text)
	s.Elements = append(s.Elements, p)
	return p
}

// HeadersFooters groups the header (or footer) variants of a section.
type HeadersFooters struct {
	Primary   []Element
	FirstPage []Element
	EvenPage  []Element
}

// PageSetup describes page size, margins and header/footer placement.
type PageSetup struct {
	PageWidth      geom.Pt
	PageHeight     geom.Pt
	TopMargin      geom.Pt
	BottomMargin   geom.Pt
	LeftMargin     geom.Pt
	RightMargin    geom.Pt
	HeaderDistance geom.Pt
	FooterDistance geom.Pt
	// StartingNumber > 0 restarts the displayed page numbers at this section.
	StartingNumber int

	DifferentFirstPageHeaderFooter bool
	OddAndEvenPagesHeaderFooter    bool
}

// DefaultPageSetup is A4 portrait with 2.5cm margins.
func DefaultPageSetup() PageSetup {
	return PageSetup{
		PageWidth:      geom.Mm(210),
		PageHeight:     geom.Mm(297),
		TopMargin:      geom.Cm(2.5),
		BottomMargin:   geom.Cm(2.5),
		LeftMargin:     geom.Cm(2.5),
		RightMargin:    geom.Cm(2.5),
		HeaderDistance: geom.Cm(1.25),
		FooterDistance: geom.Cm(1.25),
	}
}

// ContentWidth is the page width between the side margins.
func (p PageSetup) ContentWidth() geom.Pt {
	return geom.NonNegative(p.PageWidth - p.LeftMargin - p.RightMargin)
}

// PageSizes maps the supported paper names to portrait sizes.
var PageSizes = map[string]geom.Size{
	"A3":     {Width: geom.Mm(297), Height: geom.Mm(420)},
	"A4":     {Width: geom.Mm(210), Height: geom.Mm(297)},
	"A5":     {Width: geom.Mm(148), Height: geom.Mm(210)},
	"LETTER": {Width: geom.Inch(8.5), Height: geom.Inch(11)},
	"LEGAL":  {Width: geom.Inch(8.5), Height: geom.Inch(14)},
}
