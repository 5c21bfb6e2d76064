// Package layout 把 dom 文档树排成逐页的几何结果。
//
// 排版分两步：Format 测量并定位每个形状，得到 RenderInfo；Render 把
// RenderInfo 转成绘图调用交给 Graphics。含有前向引用的域（总页数、
// 本节页数、书签页码）通过多轮排版求不动点。
package layout

import (
	"fmt"
	"sort"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
	"github.com/ByLCY/quire/logging"
)

// Formatter 执行多轮排版。它不保存每轮状态，可以顺序复用。
type Formatter struct {
	opts Options
}

// NewFormatter returns a formatter using opts.
func NewFormatter(opts Options) *Formatter {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	return &Formatter{opts: opts}
}

// Build 是 NewFormatter(opts).FormatDocument(doc) 的简写。
func Build(doc *dom.Document, opts Options) (*Result, error) {
	return NewFormatter(opts).FormatDocument(doc)
}

// FormatDocument runs formatting passes until every forward-referencing field
// printed the value it finally resolved to, or MaxPasses is reached. In the
// latter case the last pass is kept and a *FieldConvergenceWarning is logged
// and attached to the result. Configuration errors abort before any page is returned.
func (f *Formatter) FormatDocument(doc *dom.Document) (*Result, error) {
	if doc == nil {
		return nil, configErr("document", "文档为空")
	}
	if doc.Styles == nil {
		copied := *doc
		copied.Styles = dom.NewStyles()
		doc = &copied
	}
	if err := doc.Styles.Validate(); err != nil {
		return nil, &ConfigurationError{Node: "styles", Reason: "样式表无效", Err: err}
	}

	log := logging.Logger()
	var prev *FieldValues
	for n := 1; ; n++ {
		log.Debug("开始排版", "pass", n)
		p := newPass(f, doc, prev)
		if err := p.run(); err != nil {
			return nil, err
		}
		values := p.values()
		changed := p.changedFields(&values)
		res := &Result{
			Info:      doc.Info,
			Pages:     p.pages,
			Fields:    values,
			Passes:    n,
			Converged: len(changed) == 0,
		}
		if res.Converged {
			log.Debug("域值已收敛", "passes", n, "pages", len(p.pages))
			return res, nil
		}
		if n >= f.opts.MaxPasses {
			w := &FieldConvergenceWarning{Passes: n, Fields: changed}
			log.Warn("域值未收敛，采用最后一轮结果", "passes", n, "fields", changed)
			res.Warnings = append(res.Warnings, w)
			return res, nil
		}
		prev = &values
	}
}

// pass 保存一轮排版的全部状态，结束后即丢弃。
type pass struct {
	f    *Formatter
	doc  *dom.Document
	prev *FieldValues

	pages        []*Page
	reads        []fieldRead
	bookmarks    map[string]int
	sectionPages []int

	section      int
	sectionStart int // index of the first page of the current section
	number       int // display number of the current page
	page         *Page
	body         *Area
	pageReads    int // number of PAGE fields resolved so far
}

func newPass(f *Formatter, doc *dom.Document, prev *FieldValues) *pass {
	return &pass{f: f, doc: doc, prev: prev, bookmarks: map[string]int{}}
}

func (p *pass) run() error {
	for i, sec := range p.doc.Sections {
		if err := p.runSection(i, sec); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) runSection(index int, sec *dom.Section) error {
	path := fmt.Sprintf("section[%d]", index)
	ps := sec.PageSetup
	if ps.PageWidth <= 0 || ps.PageHeight <= 0 {
		return configErr(path, "页面尺寸无效: %v×%v", ps.PageWidth, ps.PageHeight)
	}
	p.section = index
	p.sectionStart = len(p.pages)
	if ps.StartingNumber > 0 {
		p.number = ps.StartingNumber - 1
	}
	if err := p.newPage(); err != nil {
		return err
	}
	for i, el := range sec.Elements {
		if err := p.flow(el, childPath(path, el, i)); err != nil {
			return err
		}
	}
	p.sectionPages = append(p.sectionPages, len(p.pages)-p.sectionStart)
	return nil
}

func childPath(parent string, el dom.Element, i int) string {
	return fmt.Sprintf("%s/%s[%d]", parent, el.Kind(), i)
}

// newPage 结束当前页，排好新页的页眉页脚并据此确定正文区域。
func (p *pass) newPage() error {
	sec := p.doc.Sections[p.section]
	ps := sec.PageSetup
	p.number++
	page := &Page{
		Index:   len(p.pages),
		Section: p.section,
		Number:  p.number,
		Size:    geom.Size{Width: ps.PageWidth, Height: ps.PageHeight},
		Items:   []*RenderInfo{},
	}
	p.pages = append(p.pages, page)
	p.page = page

	firstOfSection := page.Index == p.sectionStart
	width := ps.ContentWidth()
	headerPath := fmt.Sprintf("section[%d]/header", p.section)
	footerPath := fmt.Sprintf("section[%d]/footer", p.section)

	header, err := p.formatBlock(p.pickHeaderFooter(sec.Headers, ps, firstOfSection), width, headerPath, "Header")
	if err != nil {
		return err
	}
	footer, err := p.formatBlock(p.pickHeaderFooter(sec.Footers, ps, firstOfSection), width, footerPath, "Footer")
	if err != nil {
		return err
	}

	top := ps.TopMargin
	if len(header.items) > 0 {
		top = geom.Max(top, ps.HeaderDistance+header.height)
		page.Header = p.placeBlock(header, ps.LeftMargin, ps.HeaderDistance)
	}
	bottom := ps.BottomMargin
	if len(footer.items) > 0 {
		bottom = geom.Max(bottom, ps.FooterDistance+footer.height)
		page.Footer = p.placeBlock(footer, ps.LeftMargin, ps.PageHeight-ps.FooterDistance-footer.height)
	}

	p.body = NewArea(geom.Rect{X: ps.LeftMargin, Y: 0, Width: width, Height: ps.PageHeight}, top, bottom)
	page.Body = p.body.ContentRect()
	return nil
}

// pickHeaderFooter chooses the variant for the current page.
func (p *pass) pickHeaderFooter(hf dom.HeadersFooters, ps dom.PageSetup, firstOfSection bool) []dom.Element {
	switch {
	case ps.DifferentFirstPageHeaderFooter && firstOfSection:
		return hf.FirstPage
	case ps.OddAndEvenPagesHeaderFooter && p.number%2 == 0:
		return hf.EvenPage
	default:
		return hf.Primary
	}
}

// flow 将一个正文元素排入当前页，必要时换页。
func (p *pass) flow(el dom.Element, path string) error {
	switch e := el.(type) {
	case *dom.PageBreak:
		return p.newPage()
	case *dom.Paragraph:
		return p.flowParagraph(e, path)
	case *dom.Table:
		return p.flowTable(e, path)
	}
	reads := p.pageReads
	info, err := p.formatShape(el, p.body.Width, path, "")
	if err != nil {
		return err
	}
	ext := info.Extent()
	if !p.body.Fits(ext.Height) && !p.body.AtTop() {
		if err := p.newPage(); err != nil {
			return err
		}
		if p.pageReads != reads {
			if info, err = p.formatShape(el, p.body.Width, path, ""); err != nil {
				return err
			}
			ext = info.Extent()
		}
	}
	rect := p.body.Take(ext.Height)
	rect.Width = ext.Width
	p.markBookmarks(shapeBookmarks(info))
	p.addItem(el, path, info, rect)
	return nil
}

func (p *pass) addItem(el dom.Element, path string, info FormatInfo, rect geom.Rect) {
	p.page.Items = append(p.page.Items, newRenderInfo(el, path, info, rect, p.page.Index))
}

func newRenderInfo(el dom.Element, path string, info FormatInfo, rect geom.Rect, page int) *RenderInfo {
	return &RenderInfo{
		Element: el,
		Path:    path,
		Kind:    el.Kind().String(),
		Layout:  LayoutInfo{Rect: rect, Page: page},
		Format:  info,
	}
}

// values computes the forward-referencing values this pass actually produced.
func (p *pass) values() FieldValues {
	return FieldValues{
		NumPages:     len(p.pages),
		SectionPages: append([]int(nil), p.sectionPages...),
		Bookmarks:    p.bookmarks,
		Sections:     len(p.doc.Sections),
	}
}

// changedFields lists the keys whose printed value differs from actual.
func (p *pass) changedFields(actual *FieldValues) []string {
	seen := map[string]bool{}
	var changed []string
	for _, r := range p.reads {
		if seen[r.key] {
			continue
		}
		v, ok := actual.lookup(r.key)
		if ok != r.known || v != r.value {
			seen[r.key] = true
			changed = append(changed, r.key)
		}
	}
	sort.Strings(changed)
	return changed
}
