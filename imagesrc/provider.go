// Package imagesrc 为排版提供图片的像素尺寸与分辨率，并为渲染解码图片。
//
// 支持 PNG、JPEG、GIF（标准库）以及 BMP、TIFF、WebP（golang.org/x/image）。
package imagesrc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/logging"
)

// Provider resolves image references to files under BaseDir or to data
// registered in memory. Results are cached per reference; it is safe for
// concurrent use.
type Provider struct {
	BaseDir string

	mu      sync.Mutex
	memory  map[string][]byte
	infos   map[string]infoEntry
	decoded map[string]image.Image
}

type infoEntry struct {
	info layout.ImageInfo
	err  error
}

var _ layout.ImageSource = (*Provider)(nil)

// New returns a provider reading relative paths from baseDir.
func New(baseDir string) *Provider {
	return &Provider{
		BaseDir: baseDir,
		memory:  map[string][]byte{},
		infos:   map[string]infoEntry{},
		decoded: map[string]image.Image{},
	}
}

// Register makes data available under ref, taking precedence over files.
func (p *Provider) Register(ref string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memory[ref] = data
	delete(p.infos, ref)
	delete(p.decoded, ref)
}

// ImageInfo implements layout.ImageSource. A missing source matches
// layout.ErrImageNotFound and an undecodable one layout.ErrInvalidImageType.
func (p *Provider) ImageInfo(ref string) (layout.ImageInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.infos[ref]; ok {
		return e.info, e.err
	}
	var info layout.ImageInfo
	data, err := p.read(ref)
	if err == nil {
		info, err = Inspect(data)
		if err != nil {
			err = fmt.Errorf("%s: %w", ref, err)
		}
	}
	if err != nil {
		logging.Logger().Debug("读取图片信息失败", "ref", ref, "err", err)
	}
	p.infos[ref] = infoEntry{info: info, err: err}
	return info, err
}

// Image decodes the full image behind ref for drawing.
func (p *Provider) Image(ref string) (image.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if img, ok := p.decoded[ref]; ok {
		return img, nil
	}
	data, err := p.read(ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", ref, layout.ErrInvalidImageType, err)
	}
	p.decoded[ref] = img
	return img, nil
}

func (p *Provider) read(ref string) ([]byte, error) {
	if data, ok := p.memory[ref]; ok {
		return data, nil
	}
	if ref == "" {
		return nil, fmt.Errorf("图片路径为空: %w", layout.ErrImageNotFound)
	}
	path := ref
	if !filepath.IsAbs(path) && p.BaseDir != "" {
		path = filepath.Join(p.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%s: %w", path, layout.ErrImageNotFound)
	case err != nil:
		return nil, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	return data, nil
}

// Inspect reads the pixel size and, when recorded, the resolution of an
// encoded image. Resolution is zero when the file does not carry one.
func Inspect(data []byte) (layout.ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return layout.ImageInfo{}, fmt.Errorf("%w: %v", layout.ErrInvalidImageType, err)
	}
	info := layout.ImageInfo{PixelWidth: cfg.Width, PixelHeight: cfg.Height}
	switch format {
	case "png":
		info.HorizontalResolution, info.VerticalResolution = pngResolution(data)
	case "jpeg":
		info.HorizontalResolution, info.VerticalResolution = jpegResolution(data)
	}
	return info, nil
}
