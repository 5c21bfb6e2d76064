package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// stubTypesetter 是一个最小实现：每个 "\n" 分隔的片段成为一行，行高等于字号。
// calls 统计调用次数，用于衡量排版工作量。
type stubTypesetter struct {
	calls int
}

func (s *stubTypesetter) LayoutLines(text string, width geom.Pt, font Font) ([]TextLine, error) {
	s.calls++
	parts := strings.Split(text, "\n")
	lines := make([]TextLine, len(parts))
	for i, p := range parts {
		lines[i] = TextLine{Content: p, Width: geom.Pt(len(p)) * font.Size / 2, Height: font.Size}
	}
	return lines, nil
}

// stubImages 按引用返回预置的图片信息，未登记的引用视为不存在。
type stubImages map[string]ImageInfo

func (s stubImages) ImageInfo(ref string) (ImageInfo, error) {
	info, ok := s[ref]
	if !ok {
		return ImageInfo{}, ErrImageNotFound
	}
	return info, nil
}

func formatDoc(t *testing.T, doc *dom.Document, opts Options) *Result {
	t.Helper()
	if opts.Typesetter == nil {
		opts.Typesetter = &stubTypesetter{}
	}
	res, err := NewFormatter(opts).FormatDocument(doc)
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return res
}

// lines 返回含 n 行文本的内容，配合 stubTypesetter 使高度恰为 n*字号。
func lines(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "line"
	}
	return strings.Join(parts, "\n")
}

func tableItems(res *Result) []*TableFormatInfo {
	var out []*TableFormatInfo
	for _, page := range res.Pages {
		for _, it := range page.Items {
			if ti, ok := it.Format.(*TableFormatInfo); ok {
				out = append(out, ti)
			}
		}
	}
	return out
}

func approx(a, b geom.Pt) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
