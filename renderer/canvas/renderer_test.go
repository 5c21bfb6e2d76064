package canvasrenderer

import (
	"math"
	"testing"

	"github.com/ByLCY/quire/geom"
	"github.com/ByLCY/quire/layout"
)

func bodyFont() layout.Font { return layout.Font{Name: "Body", Size: 12} }

func TestLayoutLinesGreedyWrapsText(t *testing.T) {
	r := NewRenderer(".")
	lines, err := r.LayoutLines("hello world again", geom.Mm(10), bodyFont())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
}

func TestGreedyWrapHonorsNewlines(t *testing.T) {
	r := NewRenderer(".")
	lines, err := r.LayoutLines("foo\n\nbar", geom.Mm(100), bodyFont())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

// TestLineHeightsInvariant 验证各行高度一致且取自字体度量。
func TestLineHeightsInvariant(t *testing.T) {
	r := NewRenderer(".")
	content := "longlonglong longlonglong longlonglong longlonglong longlonglong"
	lines, err := r.LayoutLines(content, geom.Mm(40), bodyFont())
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines for invariant test, got %d", len(lines))
	}
	textHeight := lines[0].Height
	if textHeight <= 0 {
		t.Fatalf("invalid text height: %v", textHeight)
	}
	for i := 1; i < len(lines); i++ {
		if diff := math.Abs(float64(lines[i].Height - textHeight)); diff > 1e-6 {
			t.Fatalf("line %d Height mismatch: got=%v want=%v", i, lines[i].Height, textHeight)
		}
	}
}

// TestGreedyWrapWidthLimit 验证每行宽度不超过限制。
func TestGreedyWrapWidthLimit(t *testing.T) {
	r := NewRenderer(".")
	limit := geom.Mm(30)
	content := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lines, err := r.LayoutLines(content, limit, bodyFont())
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected the word to be split, got %d lines", len(lines))
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%v limit=%v", i, ln.Width, limit)
		}
	}
}

func TestTokenizeBreaksBetweenCJK(t *testing.T) {
	got := tokenizeContent("排版 ab\ncd")
	want := []string{"排", "版", " ", "ab", "\n", "cd"}
	if len(got) != len(want) {
		t.Fatalf("分词结果错误: %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("第 %d 个片段错误: got=%q want=%q", i, got[i], want[i])
		}
	}
}

func TestWrappedLineDropsLeadingSpace(t *testing.T) {
	r := NewRenderer(".")
	first, _ := r.LayoutLines("alpha", 0, bodyFont())
	lines, err := r.LayoutLines("alpha beta", first[0].Width, bodyFont())
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) != 2 || lines[1].Content != "beta" {
		t.Fatalf("折行后的行首空白应被丢弃: %+v", lines)
	}
}

func TestBoldFontIsWider(t *testing.T) {
	r := NewRenderer(".")
	regular, err := r.LayoutLines("WWWWWW", 0, bodyFont())
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	bold := bodyFont()
	bold.Bold = true
	heavy, err := r.LayoutLines("WWWWWW", 0, bold)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if heavy[0].Width <= regular[0].Width {
		t.Fatalf("粗体应更宽: bold=%v regular=%v", heavy[0].Width, regular[0].Width)
	}
}

func TestMissingFontFileFallsBack(t *testing.T) {
	r := NewRendererWithOptions(Options{
		BaseDir: t.TempDir(),
		Fonts:   map[string]FontFiles{"Body": {Regular: "missing.ttf"}},
	})
	lines, err := r.LayoutLines("fallback", 0, bodyFont())
	if err != nil {
		t.Fatalf("缺失的字体文件应回退到内置字体: %v", err)
	}
	if len(lines) != 1 || lines[0].Width <= 0 {
		t.Fatalf("回退字体未生效: %+v", lines)
	}
}

func TestEmbeddedFontFamily(t *testing.T) {
	r := NewRendererWithOptions(Options{
		Fonts: map[string]FontFiles{"Heading": {Regular: "embed:go-bold"}},
	})
	heading, err := r.LayoutLines("WWWWWW", 0, layout.Font{Name: "Heading", Size: 12})
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	bold := bodyFont()
	bold.Bold = true
	want, _ := r.LayoutLines("WWWWWW", 0, bold)
	if math.Abs(float64(heading[0].Width-want[0].Width)) > 1e-6 {
		t.Fatalf("embed:go-bold 应与内置粗体同宽: %v vs %v", heading[0].Width, want[0].Width)
	}
}
