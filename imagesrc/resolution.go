package imagesrc

import (
	"bytes"
	"encoding/binary"
)

const inchesPerMeter = 39.3701

// pngResolution reads the pHYs chunk. Only the metre unit yields a resolution;
// unit 0 records an aspect ratio and is treated as unknown.
func pngResolution(data []byte) (float64, float64) {
	offset := 8 // PNG 签名
	for offset+12 <= len(data) {
		chunkLen := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		chunkType := string(data[offset+4 : offset+8])
		if chunkLen < 0 || offset+12+chunkLen > len(data) {
			break
		}
		switch chunkType {
		case "pHYs":
			if chunkLen < 9 {
				return 0, 0
			}
			chunk := data[offset+8 : offset+8+chunkLen]
			if chunk[8] != 1 {
				return 0, 0
			}
			x := binary.BigEndian.Uint32(chunk[0:4])
			y := binary.BigEndian.Uint32(chunk[4:8])
			return float64(x) / inchesPerMeter, float64(y) / inchesPerMeter
		case "IDAT", "IEND":
			// pHYs 必须位于第一个 IDAT 之前。
			return 0, 0
		}
		offset += 12 + chunkLen
	}
	return 0, 0
}

// jpegResolution reads the density of the JFIF APP0 segment.
func jpegResolution(data []byte) (float64, float64) {
	offset := 2 // SOI
	for offset+4 <= len(data) {
		if data[offset] != 0xFF {
			break
		}
		marker := data[offset+1]
		if marker == 0xD9 || marker == 0xDA { // EOI / SOS
			break
		}
		length := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		if length < 2 || offset+2+length > len(data) {
			break
		}
		if marker == 0xE0 {
			seg := data[offset+4 : offset+2+length]
			if bytes.HasPrefix(seg, []byte("JFIF\x00")) && len(seg) >= 12 {
				x := float64(binary.BigEndian.Uint16(seg[8:10]))
				y := float64(binary.BigEndian.Uint16(seg[10:12]))
				switch seg[7] {
				case 1: // dots per inch
					return x, y
				case 2: // dots per cm
					return x * 2.54, y * 2.54
				}
				return 0, 0
			}
		}
		offset += 2 + length
	}
	return 0, 0
}
