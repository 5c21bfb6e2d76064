package layout

import "github.com/ByLCY/quire/geom"

// DefaultMaxPasses bounds the field resolution loop when Options leaves it unset.
const DefaultMaxPasses = 3

// Options 配置排版阶段所需的依赖，例如排版后端与图片来源。
type Options struct {
	Typesetter Typesetter
	Images     ImageSource
	// MaxPasses 为域值收敛前最多执行的排版轮数，<=0 时使用 DefaultMaxPasses。
	MaxPasses int
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// "\n" 必须开始新的一行。
type Typesetter interface {
	LayoutLines(text string, width geom.Pt, font Font) ([]TextLine, error)
}

// ImageInfo is what the core needs to know about an image source.
type ImageInfo struct {
	PixelWidth  int
	PixelHeight int
	// Resolution in dots per inch; zero when the source does not say.
	HorizontalResolution float64
	VerticalResolution   float64
}

// ImageSource resolves image references. Errors should wrap ErrImageNotFound or
// ErrInvalidImageType where they apply; anything else counts as unreadable.
type ImageSource interface {
	ImageInfo(ref string) (ImageInfo, error)
}
