package dom

import (
	"testing"

	"github.com/ByLCY/quire/geom"
)

func TestGetValueTags(t *testing.T) {
	img := &Image{Source: "logo.png", Width: Ptr(geom.Mm(30))}

	cases := []struct {
		node any
		path string
		want ResultKind
	}{
		{img, "Width", ResultValue},
		{img, "Height", ResultNull},
		{img, "Depth", ResultNotFound},
		{img, "PictureFormat.CropLeft", ResultNull},
		{&Row{Height: 20, HeightRule: RowHeightExactly}, "HeightRule", ResultValue},
		{&Cell{}, "VerticalAlignment", ResultNull},
		{&Table{}, "LeftPadding", ResultNull},
		{NewParagraph("a"), "Style", ResultNull},
		{NewParagraph("a"), "Format.Font.Size", ResultNull},
		{NewParagraph("a"), "Format.Font.Weight", ResultNotFound},
		{&PageBreak{}, "Anything", ResultNotFound},
	}
	for _, c := range cases {
		if got := GetValue(c.node, c.path).Kind; got != c.want {
			t.Fatalf("GetValue(%T, %q) = %v，期望 %v", c.node, c.path, got, c.want)
		}
	}

	img.PictureFormat = &PictureFormat{CropLeft: geom.Mm(5)}
	r := GetValue(img, "PictureFormat.CropLeft")
	if !r.IsValue() || r.Value.(geom.Pt) != geom.Mm(5) {
		t.Fatalf("裁剪值读取错误: %+v", r)
	}
}

func TestGetValueDoesNotConsultStyles(t *testing.T) {
	p := NewParagraph("a")
	p.Style = StyleNormal
	if r := GetValue(p, "Format.Alignment"); r.Kind != ResultNull {
		t.Fatalf("GetValue 不应沿样式链查找，得到 %+v", r)
	}
}
