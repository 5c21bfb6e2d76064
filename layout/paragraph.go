package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// paragraphStyle 是沿样式链解析完成的段落格式。
type paragraphStyle struct {
	font            Font
	align           dom.Alignment
	spaceBefore     geom.Pt
	spaceAfter      geom.Pt
	leftIndent      geom.Pt
	rightIndent     geom.Pt
	lineSpacing     float64
	keepTogether    bool
	pageBreakBefore bool
}

func resolveAs[T any](styles *dom.Styles, par *dom.Paragraph, path string, def T) T {
	r := dom.Resolve(styles, par, path)
	if v, ok := r.Value.(T); ok && r.IsValue() {
		return v
	}
	return def
}

// resolveStyle reads the paragraph format. Paragraphs without a style use
// defaultStyle, which header and footer blocks set to Header/Footer.
func (p *pass) resolveStyle(par *dom.Paragraph, defaultStyle string) paragraphStyle {
	if par.Style == "" && defaultStyle != "" {
		q := *par
		q.Style = defaultStyle
		par = &q
	}
	s := p.doc.Styles
	st := paragraphStyle{
		font: Font{
			Name:   resolveAs(s, par, "Format.Font.Name", "Body"),
			Size:   resolveAs(s, par, "Format.Font.Size", geom.Pt(10)),
			Bold:   resolveAs(s, par, "Format.Font.Bold", false),
			Italic: resolveAs(s, par, "Format.Font.Italic", false),
			Color:  resolveAs(s, par, "Format.Font.Color", dom.Black),
		},
		align:           resolveAs(s, par, "Format.Alignment", dom.AlignLeft),
		spaceBefore:     resolveAs(s, par, "Format.SpaceBefore", geom.Pt(0)),
		spaceAfter:      resolveAs(s, par, "Format.SpaceAfter", geom.Pt(0)),
		leftIndent:      resolveAs(s, par, "Format.LeftIndent", geom.Pt(0)),
		rightIndent:     resolveAs(s, par, "Format.RightIndent", geom.Pt(0)),
		lineSpacing:     resolveAs(s, par, "Format.LineSpacing", 1.0),
		keepTogether:    resolveAs(s, par, "Format.KeepTogether", false),
		pageBreakBefore: resolveAs(s, par, "Format.PageBreakBefore", false),
	}
	if st.lineSpacing <= 0 {
		st.lineSpacing = 1
	}
	return st
}

// paragraphText joins the inline content, substituting fields.
func (p *pass) paragraphText(par *dom.Paragraph) (text string, bookmarks []string, pageDependent bool) {
	var b strings.Builder
	for _, inl := range par.Content {
		switch v := inl.(type) {
		case *dom.Text:
			b.WriteString(v.Value)
		case *dom.LineBreak:
			b.WriteByte('\n')
		case *dom.Bookmark:
			bookmarks = append(bookmarks, v.Name)
		case *dom.Field:
			s, dep := p.fieldText(v)
			b.WriteString(s)
			pageDependent = pageDependent || dep
		}
	}
	return b.String(), bookmarks, pageDependent
}

// formatParagraph measures par at width. The second result reports whether
// the text must be laid out again when the paragraph moves to another page.
func (p *pass) formatParagraph(par *dom.Paragraph, st paragraphStyle, width geom.Pt, path string) (*ParagraphFormatInfo, bool, error) {
	text, bookmarks, dep := p.paragraphText(par)
	inner := geom.NonNegative(width - st.leftIndent - st.rightIndent)
	lines, err := p.layoutLines(text, inner, st.font)
	if err != nil {
		return nil, false, fmt.Errorf("%s: 文本排版失败: %w", path, err)
	}
	return &ParagraphFormatInfo{
		Lines:       lines,
		Font:        st.font,
		Alignment:   st.align,
		LineSpacing: st.lineSpacing,
		SpaceBefore: st.spaceBefore,
		SpaceAfter:  st.spaceAfter,
		LeftIndent:  st.leftIndent,
		RightIndent: st.rightIndent,
		Width:       width,
		Bookmarks:   bookmarks,
	}, dep, nil
}

func (p *pass) layoutLines(content string, width geom.Pt, font Font) ([]TextLine, error) {
	height := font.Size * 1.2
	if height <= 0 {
		height = 12
	}
	ts := p.f.opts.Typesetter
	if ts == nil {
		parts := strings.Split(content, "\n")
		out := make([]TextLine, 0, len(parts))
		for _, l := range parts {
			out = append(out, TextLine{Content: l, Width: estimateTextWidth(l, font.Size), Height: height})
		}
		return out, nil
	}
	lines, err := ts.LayoutLines(content, width, font)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: height}}
	}
	return lines, nil
}

// estimateTextWidth 粗略估算文本宽度，仅在没有 Typesetter 时使用。
func estimateTextWidth(content string, fontSize geom.Pt) geom.Pt {
	return geom.Pt(utf8.RuneCountInString(content)) * fontSize * 0.5
}

// flowParagraph places par into the body, splitting it line by line across
// pages unless KeepTogether is set.
func (p *pass) flowParagraph(par *dom.Paragraph, path string) error {
	st := p.resolveStyle(par, "")
	if st.pageBreakBefore && !p.body.AtTop() {
		if err := p.newPage(); err != nil {
			return err
		}
	}
	width := p.body.Width
	info, dep, err := p.formatParagraph(par, st, width, path)
	if err != nil {
		return err
	}

	lines := info.Lines
	first := true
	for {
		atTop := p.body.AtTop()
		before := geom.Pt(0)
		if first && !atTop {
			before = st.spaceBefore
		}
		n := 0
		if st.keepTogether && first {
			if atTop || p.body.Fits(before+info.LinesHeight()) {
				n = len(lines)
			}
		} else {
			avail := p.body.Available() - before
			var h geom.Pt
			for n < len(lines) && h+info.lineAdvance(lines[n]) <= avail+epsilon {
				h += info.lineAdvance(lines[n])
				n++
			}
			if n == 0 && atTop {
				// 新页连一行都放不下，照常放置并允许溢出。
				n = 1
			}
		}
		if n == 0 {
			if err := p.newPage(); err != nil {
				return err
			}
			if first && dep {
				if info, dep, err = p.formatParagraph(par, st, width, path); err != nil {
					return err
				}
				lines = info.Lines
			}
			continue
		}

		frag := *info
		frag.Lines = lines[:n]
		frag.SpaceBefore = before
		frag.SpaceAfter = 0
		frag.Bookmarks = nil
		last := n == len(lines)
		if last {
			frag.SpaceAfter = st.spaceAfter
		}
		if first {
			p.markBookmarks(info.Bookmarks)
			frag.Bookmarks = info.Bookmarks
		}
		rect := p.body.Take(frag.Extent().Height)
		p.addItem(par, path, &frag, rect)
		if last {
			return nil
		}
		lines = lines[n:]
		first = false
		if err := p.newPage(); err != nil {
			return err
		}
	}
}
