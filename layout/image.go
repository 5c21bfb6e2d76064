package layout

import (
	"errors"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
	"github.com/ByLCY/quire/logging"
)

// FailureBoxSize is the edge of the placeholder square used when an image
// cannot be sized.
var FailureBoxSize = geom.Cm(2.5)

const defaultResolution = 72.0

// ResolveImage computes the displayed size and pixel crop window of img.
// srcErr is the error the ImageSource returned for img.Source, if any.
// It never fails: problems are reported through the Failure tag.
func ResolveImage(img *dom.Image, src ImageInfo, srcErr error) ImageFormatInfo {
	out := ImageFormatInfo{Source: img.Source}
	if srcErr != nil {
		switch {
		case errors.Is(srcErr, ErrImageNotFound):
			out.Failure = ImageFailureFileNotFound
		case errors.Is(srcErr, ErrInvalidImageType):
			out.Failure = ImageFailureInvalidType
		default:
			out.Failure = ImageFailureNotRead
		}
		logging.Logger().Info("图片无法读取，使用占位框", "source", img.Source, "failure", out.Failure.String(), "err", srcErr)
		out.Width, out.Height = FailureBoxSize, FailureBoxSize
		if img.Width != nil {
			out.Width = *img.Width
		}
		if img.Height != nil {
			out.Height = *img.Height
		}
		return out
	}

	horzRes, vertRes := src.HorizontalResolution, src.VerticalResolution
	if img.Resolution != nil {
		horzRes, vertRes = *img.Resolution, *img.Resolution
	}
	switch {
	case horzRes == 0 && vertRes == 0:
		horzRes, vertRes = defaultResolution, defaultResolution
	case horzRes == 0:
		logging.Logger().Warn("图片水平分辨率为 0，按 72dpi 处理", "source", img.Source, "vertical", vertRes)
		horzRes = defaultResolution
	case vertRes == 0:
		logging.Logger().Warn("图片垂直分辨率为 0，按 72dpi 处理", "source", img.Source, "horizontal", horzRes)
		vertRes = defaultResolution
	}

	xPixels, yPixels := float64(src.PixelWidth), float64(src.PixelHeight)
	inherentWidth := geom.Inch(xPixels / horzRes)
	inherentHeight := geom.Inch(yPixels / vertRes)

	var width, height geom.Pt
	widthSet, heightSet := img.Width != nil, img.Height != nil
	if widthSet {
		width = *img.Width
	}
	if heightSet {
		height = *img.Height
	}

	lock := img.LockAspectRatio == nil || *img.LockAspectRatio
	bothScales := img.ScaleWidth != nil && img.ScaleHeight != nil
	if lock && !bothScales {
		switch {
		case widthSet && !heightSet:
			height = ratio(inherentHeight, inherentWidth) * width
		case heightSet && !widthSet:
			width = ratio(inherentWidth, inherentHeight) * height
		case !widthSet && !heightSet:
			width, height = inherentWidth, inherentHeight
		}
		// 锁定比例时单个缩放因子同时作用于两个方向。
		if img.ScaleHeight != nil {
			width *= geom.Pt(*img.ScaleHeight)
			height *= geom.Pt(*img.ScaleHeight)
		}
		if img.ScaleWidth != nil {
			width *= geom.Pt(*img.ScaleWidth)
			height *= geom.Pt(*img.ScaleWidth)
		}
	} else {
		if !widthSet {
			width = inherentWidth
		}
		if !heightSet {
			height = inherentHeight
		}
		if img.ScaleWidth != nil {
			width *= geom.Pt(*img.ScaleWidth)
		}
		if img.ScaleHeight != nil {
			height *= geom.Pt(*img.ScaleHeight)
		}
	}

	out.Crop = PixelRect{Width: int(xPixels), Height: int(yPixels)}
	if pf := img.PictureFormat; pf != nil {
		out.Crop.X = pixels(horzRes, pf.CropLeft)
		out.Crop.Y = pixels(vertRes, pf.CropTop)
		out.Crop.Width -= pixels(horzRes, pf.CropLeft+pf.CropRight)
		out.Crop.Height -= pixels(vertRes, pf.CropTop+pf.CropBottom)

		xScale := ratio(width, inherentWidth)
		yScale := ratio(height, inherentHeight)
		width -= xScale * (pf.CropLeft + pf.CropRight)
		height -= yScale * (pf.CropTop + pf.CropBottom)
	}

	if !(width > 0 && height > 0) {
		logging.Logger().Info("图片尺寸为空，使用占位框", "source", img.Source)
		out.Failure = ImageFailureEmptySize
		out.Width, out.Height = FailureBoxSize, FailureBoxSize
		return out
	}
	out.Width, out.Height = width, height
	return out
}

// pixels converts a length to whole pixels at res dots per inch, dropping
// any partial pixel. pixelSlack absorbs the float error of the pt/inch round trip.
func pixels(res float64, l geom.Pt) int {
	return int(res*l.Inches() + pixelSlack)
}

const pixelSlack = 1e-9

// ratio is a/b, or 0 when b is zero so that degenerate sources end up as EmptySize.
func ratio(a, b geom.Pt) geom.Pt {
	if b == 0 {
		return 0
	}
	return a / b
}

func (p *pass) formatImage(img *dom.Image) *ImageFormatInfo {
	var info ImageInfo
	var err error
	if p.f.opts.Images == nil {
		err = ErrImageNotFound
	} else {
		info, err = p.f.opts.Images.ImageInfo(img.Source)
	}
	out := ResolveImage(img, info, err)
	return &out
}
