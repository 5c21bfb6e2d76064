package layout

import (
	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// formatShape measures a non-flowing element at width. Paragraphs keep all
// their lines; tables cannot be nested in a block. PageBreak yields nil.
func (p *pass) formatShape(el dom.Element, width geom.Pt, path, defaultStyle string) (FormatInfo, error) {
	switch e := el.(type) {
	case *dom.Paragraph:
		info, _, err := p.formatParagraph(e, p.resolveStyle(e, defaultStyle), width, path)
		if err != nil {
			return nil, err
		}
		return info, nil
	case *dom.Image:
		return p.formatImage(e), nil
	case *dom.Barcode:
		return p.formatBarcode(e, path)
	case *dom.Chart:
		return p.formatChart(e, path)
	case *dom.Table:
		return nil, configErr(path, "表格不能嵌套在单元格、页眉页脚或图表中")
	case *dom.PageBreak:
		return nil, nil
	}
	return nil, configErr(path, "未知元素类型 %T", el)
}

// block 是一组不分页的元素，纵向依次排列，坐标相对于块的左上角。
type block struct {
	items     []blockItem
	height    geom.Pt
	width     geom.Pt
	bookmarks []string

	// 重新排版所需的来源；number 为排版时的页码，pageDependent 表示内容含 PAGE 域。
	els           []dom.Element
	path          string
	defaultStyle  string
	number        int
	pageDependent bool
}

type blockItem struct {
	el   dom.Element
	path string
	info FormatInfo
	y    geom.Pt
}

func (p *pass) formatBlock(els []dom.Element, width geom.Pt, path, defaultStyle string) (*block, error) {
	b := &block{width: width, els: els, path: path, defaultStyle: defaultStyle, number: p.number}
	reads := p.pageReads
	for i, el := range els {
		elPath := childPath(path, el, i)
		info, err := p.formatShape(el, width, elPath, defaultStyle)
		if err != nil {
			return nil, err
		}
		if info == nil {
			continue
		}
		b.bookmarks = append(b.bookmarks, shapeBookmarks(info)...)
		b.items = append(b.items, blockItem{el: el, path: elPath, info: info, y: b.height})
		b.height += info.Extent().Height
	}
	b.pageDependent = p.pageReads != reads
	return b, nil
}

// relayout formats b again when its content shows the page number and the
// block is about to be placed on a page other than the one it was measured on.
func (p *pass) relayout(b *block) (*block, error) {
	if !b.pageDependent || b.number == p.number {
		return b, nil
	}
	return p.formatBlock(b.els, b.width, b.path, b.defaultStyle)
}

// shapeBookmarks lists the bookmarks carried by a measured shape.
func shapeBookmarks(info FormatInfo) []string {
	switch fi := info.(type) {
	case *ParagraphFormatInfo:
		return fi.Bookmarks
	case *ChartFormatInfo:
		return fi.Bookmarks
	}
	return nil
}

// placeBlock returns the RenderInfos of b with its top-left corner at (x, y)
// on the current page, and records the bookmarks it contains.
func (p *pass) placeBlock(b *block, x, y geom.Pt) []*RenderInfo {
	p.markBookmarks(b.bookmarks)
	out := make([]*RenderInfo, 0, len(b.items))
	for _, it := range b.items {
		ext := it.info.Extent()
		rect := geom.Rect{X: x, Y: y + it.y, Width: ext.Width, Height: ext.Height}
		out = append(out, newRenderInfo(it.el, it.path, it.info, rect, p.page.Index))
	}
	return out
}

// markBookmarks records the current page for bookmarks seen for the first time.
func (p *pass) markBookmarks(names []string) {
	for _, name := range names {
		if _, ok := p.bookmarks[name]; !ok {
			p.bookmarks[name] = p.number
		}
	}
}
