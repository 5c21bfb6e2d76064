package layout

import (
	"fmt"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/logging"
)

// barcodePixelsPerPoint 决定条码栅格化的精度。
const barcodePixelsPerPoint = 4

// EncodeBarcode generates the symbol for b, rasterised to its box.
func EncodeBarcode(b *dom.Barcode) (barcode.Barcode, error) {
	var (
		bc  barcode.Barcode
		err error
	)
	switch b.Type {
	case dom.BarcodeQR:
		bc, err = qr.Encode(b.Code, qr.M, qr.Auto)
	default:
		bc, err = code128.Encode(b.Code)
	}
	if err != nil {
		return nil, fmt.Errorf("条码 %q 生成失败: %w", b.Code, err)
	}
	w := int(b.Width * barcodePixelsPerPoint)
	h := int(b.Height * barcodePixelsPerPoint)
	scaled, err := barcode.Scale(bc, w, h)
	if err != nil {
		return nil, fmt.Errorf("条码 %q 无法缩放到 %dx%d: %w", b.Code, w, h, err)
	}
	return scaled, nil
}

func (p *pass) formatBarcode(b *dom.Barcode, path string) (FormatInfo, error) {
	if b.Width <= 0 || b.Height <= 0 {
		return nil, configErr(path, "条码尺寸必须大于 0")
	}
	info := &BarcodeFormatInfo{Code: b.Code, Width: b.Width, Height: b.Height}
	img, err := EncodeBarcode(b)
	if err != nil {
		logging.Logger().Info("条码生成失败，使用占位框", "path", path, "err", err)
		info.Failure = ImageFailureInvalidType
		return info, nil
	}
	info.Image = img
	return info, nil
}
