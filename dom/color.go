package dom

import (
	"fmt"
	"strconv"
	"strings"
)

// ColorModel tells which components of a Color are meaningful.
type ColorModel int

const (
	ModelRGB ColorModel = iota
	ModelCMYK
)

// Color is an opaque color value; layout never converts between models.
type Color struct {
	Model ColorModel `json:"model"`
	R     uint8      `json:"r"`
	G     uint8      `json:"g"`
	B     uint8      `json:"b"`
	A     uint8      `json:"a"`
	// C, M, Y, K in [0,1] when Model is ModelCMYK.
	C float64 `json:"c,omitempty"`
	M float64 `json:"m,omitempty"`
	Y float64 `json:"y,omitempty"`
	K float64 `json:"k,omitempty"`
}

// RGB returns an opaque RGB color.
func RGB(r, g, b uint8) Color { return Color{Model: ModelRGB, R: r, G: g, B: b, A: 255} }

// CMYK returns an opaque CMYK color.
func CMYK(c, m, y, k float64) Color { return Color{Model: ModelCMYK, C: c, M: m, Y: y, K: k, A: 255} }

var (
	Black     = RGB(0, 0, 0)
	White     = RGB(255, 255, 255)
	Red       = RGB(255, 0, 0)
	LightGray = RGB(211, 211, 211)
	Gray      = RGB(128, 128, 128)
	LightBlue = RGB(173, 216, 230)
	Blue      = RGB(0, 0, 255)
)

var namedColors = map[string]Color{
	"black":     Black,
	"white":     White,
	"red":       Red,
	"lightgray": LightGray,
	"gray":      Gray,
	"lightblue": LightBlue,
	"blue":      Blue,
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, a known color name, or cmyk(c,m,y,k).
func ParseColor(value string) (Color, error) {
	v := strings.TrimSpace(value)
	if c, ok := namedColors[strings.ToLower(v)]; ok {
		return c, nil
	}
	if strings.HasPrefix(strings.ToLower(v), "cmyk(") && strings.HasSuffix(v, ")") {
		parts := strings.Split(v[5:len(v)-1], ",")
		if len(parts) != 4 {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
		var comps [4]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil || f < 0 || f > 1 {
				return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
			}
			comps[i] = f
		}
		return CMYK(comps[0], comps[1], comps[2], comps[3]), nil
	}
	hex := strings.TrimPrefix(v, "#")
	switch len(hex) {
	case 3:
		r, g, b, err := hexComponents(hex[0:1]+hex[0:1], hex[1:2]+hex[1:2], hex[2:3]+hex[2:3])
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		return RGB(r, g, b), nil
	case 6, 8:
		r, g, b, err := hexComponents(hex[0:2], hex[2:4], hex[4:6])
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		c := RGB(r, g, b)
		if len(hex) == 8 {
			a, err := strconv.ParseUint(hex[6:8], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
			}
			c.A = uint8(a)
		}
		return c, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func hexComponents(rs, gs, bs string) (uint8, uint8, uint8, error) {
	var out [3]uint8
	for i, s := range []string{rs, gs, bs} {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, 0, 0, err
		}
		out[i] = uint8(v)
	}
	return out[0], out[1], out[2], nil
}
