package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/geom"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/logging"
	"github.com/ByLCY/quire/renderer"
)

// Renderer measures text and draws placed pages via github.com/tdewolff/canvas.
// canvas 内部以毫米为单位，字号以 pt 为单位；layout 一律使用 pt，在边界处换算。
type Renderer struct {
	baseDir string
	fonts   map[string]FontFiles
	images  ImageLoader

	fontMu       sync.Mutex
	fontFamilies map[fontKey]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// FontFiles names the font files of one family. Each value is a path
// relative to BaseDir or an "embed:" built-in name; empty variants fall
// back to Regular, an empty Regular to the built-in Go fonts.
type FontFiles struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// ImageLoader decodes the images referenced by ImageRef.Source.
type ImageLoader interface {
	Image(ref string) (image.Image, error)
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]FontFiles // keyed by layout.Font.Name
	Images  ImageLoader
}

type fontKey struct {
	name         string
	bold, italic bool
}

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// NewRenderer creates a renderer with built-in fonts only.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with declared fonts and an image loader.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		fonts:        map[string]FontFiles{},
		images:       opts.Images,
		fontFamilies: map[fontKey]*fontFamilyEntry{},
	}
	for name, files := range opts.Fonts {
		if name == "" {
			continue
		}
		r.fonts[name] = files
	}
	return r
}

// Render lays every page of res into a PDF and returns its bytes.
func (r *Renderer) Render(res *layout.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(res.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	var buf bytes.Buffer
	sink := r.NewPDF(&buf, res.Info)
	if err := layout.Render(res, sink); err != nil {
		return nil, err
	}
	if err := sink.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LayoutLines 实现 layout.Typesetter，使用贪心换行：优先在空白处断行，
// 单词超出行宽时在词内拆分，"\n" 总是开始新的一行。
func (r *Renderer) LayoutLines(text string, width geom.Pt, font layout.Font) ([]layout.TextLine, error) {
	face, err := r.fontFace(font)
	if err != nil {
		return nil, err
	}
	lines := greedyWrapTokens(text, width.Millimeters(), face)
	height := geom.Mm(face.Metrics().LineHeight)
	if height <= 0 {
		height = font.Size
	}
	for i := range lines {
		lines[i].Height = height
	}
	return lines, nil
}

func (r *Renderer) fontFace(font layout.Font) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	size := float64(font.Size)
	if size <= 0 {
		size = 10
	}
	return family.Face(size, toColor(font.Color), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontKey{name: font.Name, bold: font.Bold, italic: font.Italic}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := canvas.FontRegular
	if font.Bold {
		style = canvas.FontBold
	}
	if font.Italic {
		style |= canvas.FontItalic
	}
	name := font.Name
	if name == "" {
		name = "Body"
	}
	family := canvas.NewFontFamily(name)

	data, err := r.loadFontBytes(key)
	if err == nil {
		err = family.LoadFont(data, 0, style)
	}
	if err != nil {
		logging.Logger().Warn("字体加载失败，使用内置字体", "font", name, "bold", font.Bold, "italic", font.Italic, "err", err)
		family = canvas.NewFontFamily("quire-fallback")
		if fbErr := family.LoadFont(fonts.Builtin(font.Bold, font.Italic), 0, style); fbErr != nil {
			return nil, canvas.FontRegular, fmt.Errorf("加载内置字体失败: %w", fbErr)
		}
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontBytes(key fontKey) ([]byte, error) {
	files, ok := r.fonts[key.name]
	if !ok {
		return fonts.Builtin(key.bold, key.italic), nil
	}
	src := files.Regular
	switch {
	case key.bold && key.italic && files.BoldItalic != "":
		src = files.BoldItalic
	case key.bold && !key.italic && files.Bold != "":
		src = files.Bold
	case key.italic && !key.bold && files.Italic != "":
		src = files.Italic
	}
	if src == "" {
		return fonts.Builtin(key.bold, key.italic), nil
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// toColor 将文档颜色转换为 canvas 颜色；CMYK 按朴素公式近似为 RGB。
func toColor(c dom.Color) color.Color {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	if c.Model == dom.ModelCMYK {
		r = (1 - c.C) * (1 - c.K)
		g = (1 - c.M) * (1 - c.K)
		b = (1 - c.Y) * (1 - c.K)
	}
	return canvas.RGBA(r, g, b, float64(c.A)/255)
}

var transparent = color.RGBA{0, 0, 0, 0}

func mm(p geom.Pt) float64 { return p.Millimeters() }
