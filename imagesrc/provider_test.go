package imagesrc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/layout"
)

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("编码 PNG 失败: %v", err)
	}
	return buf.Bytes()
}

// withPHYs 在 IHDR 之后插入一个 pHYs 块。
func withPHYs(data []byte, ppmX, ppmY uint32, unit byte) []byte {
	body := make([]byte, 9)
	binary.BigEndian.PutUint32(body[0:4], ppmX)
	binary.BigEndian.PutUint32(body[4:8], ppmY)
	body[8] = unit

	chunk := make([]byte, 0, 21)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(body)))
	chunk = append(chunk, "pHYs"...)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	at := 8 + 12 + 13 // 签名 + IHDR
	out := append([]byte{}, data[:at]...)
	out = append(out, chunk...)
	return append(out, data[at:]...)
}

// withJFIF 在 SOI 之后插入 JFIF APP0 段。
func withJFIF(data []byte, units byte, x, y uint16) []byte {
	seg := []byte{0xFF, 0xE0, 0, 16, 'J', 'F', 'I', 'F', 0, 1, 2, units}
	seg = binary.BigEndian.AppendUint16(seg, x)
	seg = binary.BigEndian.AppendUint16(seg, y)
	seg = append(seg, 0, 0)
	out := append([]byte{}, data[:2]...)
	out = append(out, seg...)
	return append(out, data[2:]...)
}

func createTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatalf("编码 JPEG 失败: %v", err)
	}
	return buf.Bytes()
}

func TestInspectPNGResolution(t *testing.T) {
	data := withPHYs(createTestPNG(t, 40, 20), 5906, 2953, 1) // 150 / 75 dpi
	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if info.PixelWidth != 40 || info.PixelHeight != 20 {
		t.Fatalf("像素尺寸错误: %+v", info)
	}
	if math.Abs(info.HorizontalResolution-150) > 0.1 || math.Abs(info.VerticalResolution-75) > 0.1 {
		t.Fatalf("分辨率错误: %+v", info)
	}

	aspectOnly, err := Inspect(withPHYs(createTestPNG(t, 4, 4), 1, 1, 0))
	if err != nil || aspectOnly.HorizontalResolution != 0 || aspectOnly.VerticalResolution != 0 {
		t.Fatalf("单位未知的 pHYs 不应给出分辨率: %+v %v", aspectOnly, err)
	}
	plain, _ := Inspect(createTestPNG(t, 4, 4))
	if plain.HorizontalResolution != 0 {
		t.Fatalf("没有 pHYs 时分辨率应为 0: %+v", plain)
	}
}

func TestInspectJPEGResolution(t *testing.T) {
	cases := []struct {
		units byte
		x, y  uint16
		want  float64
	}{
		{1, 300, 300, 300},
		{2, 100, 100, 254},
		{0, 1, 1, 0},
	}
	for _, c := range cases {
		info, err := Inspect(withJFIF(createTestJPEG(t, 8, 16), c.units, c.x, c.y))
		if err != nil {
			t.Fatalf("读取失败: %v", err)
		}
		if info.PixelWidth != 8 || info.PixelHeight != 16 {
			t.Fatalf("像素尺寸错误: %+v", info)
		}
		if math.Abs(info.HorizontalResolution-c.want) > 1e-9 || math.Abs(info.VerticalResolution-c.want) > 1e-9 {
			t.Fatalf("units=%d 分辨率错误: %+v", c.units, info)
		}
	}
}

func TestProviderErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := New(dir)
	if _, err := p.ImageInfo("missing.png"); !errors.Is(err, layout.ErrImageNotFound) {
		t.Fatalf("缺失文件应匹配 ErrImageNotFound: %v", err)
	}
	if _, err := p.ImageInfo("bad.png"); !errors.Is(err, layout.ErrInvalidImageType) {
		t.Fatalf("无法解码应匹配 ErrInvalidImageType: %v", err)
	}
	if _, err := p.Image("bad.png"); !errors.Is(err, layout.ErrInvalidImageType) {
		t.Fatalf("解码失败应匹配 ErrInvalidImageType: %v", err)
	}
}

func TestProviderReadsFilesAndMemory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	if err := os.WriteFile(path, createTestPNG(t, 10, 5), 0o644); err != nil {
		t.Fatal(err)
	}
	p := New(dir)
	info, err := p.ImageInfo("a.png")
	if err != nil || info.PixelWidth != 10 {
		t.Fatalf("读取文件失败: %+v %v", info, err)
	}
	// 结果被缓存，删除文件后仍可读取。
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if info, err = p.ImageInfo("a.png"); err != nil || info.PixelHeight != 5 {
		t.Fatalf("缓存失效: %+v %v", info, err)
	}

	p.Register("mem:logo", createTestPNG(t, 3, 7))
	img, err := p.Image("mem:logo")
	if err != nil || img.Bounds().Dy() != 7 {
		t.Fatalf("读取内存图片失败: %v", err)
	}
}

func TestProviderFeedsFormatter(t *testing.T) {
	p := New("")
	p.Register("photo", withPHYs(createTestPNG(t, 300, 150), 5906, 5906, 1))
	info, err := p.ImageInfo("photo")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	got := layout.ResolveImage(&dom.Image{Source: "photo"}, info, nil)
	// 300px @ 150dpi = 2in = 144pt
	if math.Abs(float64(got.Width)-144) > 0.1 || math.Abs(float64(got.Height)-72) > 0.1 {
		t.Fatalf("尺寸错误: %vx%v", got.Width, got.Height)
	}
}
