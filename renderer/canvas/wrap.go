package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/quire/geom"
	"github.com/ByLCY/quire/layout"
)

// widthTolerance absorbs the pt/mm round trip of widths measured earlier.
const widthTolerance = 1e-9

// greedyWrapTokens 按 limit（毫米）折行。返回行的宽度已换算为 pt，高度由调用方回填。
func greedyWrapTokens(content string, limit float64, face *canvas.FontFace) []layout.TextLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	} else {
		limit += widthTolerance
	}

	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0
	wrapped := false

	emit := func(force bool) {
		wrapped = !force
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{})
			}
			return
		}
		lines = append(lines, layout.TextLine{
			Content: builder.String(),
			Width:   geom.Mm(currentWidth),
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		// 折行后的行首不保留空白。
		if builder.Len() == 0 && wrapped && strings.TrimSpace(token) == "" {
			return
		}
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			// 刚因宽度折行时，显式换行不再产生空行。
			if wrapped && builder.Len() == 0 {
				wrapped = false
				continue
			}
			emit(true)
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	if builder.Len() > 0 || !wrapped {
		emit(true)
	}
	return lines
}

// tokenizeContent 把文本切成交替的空白与非空白片段，"\n" 单独成为一个片段。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		// CJK 字符之间可以断行，每个字单独成为一个片段。
		if !isSpace && breaksAnywhere(r) {
			flush()
			tokens = append(tokens, string(r))
			lastWasSpace = false
			continue
		}
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func breaksAnywhere(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && face.TextWidth(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = append(current[:0], r)
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
