package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/quire/dom"
)

// unknownField is printed for a forward reference before its value is known.
const unknownField = "?"

// fieldRead is one forward-referencing value consumed while formatting.
type fieldRead struct {
	key   string
	known bool
	value int
}

func numPagesKey() string          { return "num-pages" }
func sectionPagesKey(s int) string { return fmt.Sprintf("section-pages[%d]", s) }
func pageRefKey(name string) string {
	return "page-ref:" + name
}

// lookup returns the value of a forward-referencing key in v.
func (v *FieldValues) lookup(key string) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch {
	case key == numPagesKey():
		return v.NumPages, true
	case strings.HasPrefix(key, "page-ref:"):
		n, ok := v.Bookmarks[strings.TrimPrefix(key, "page-ref:")]
		return n, ok
	case strings.HasPrefix(key, "section-pages["):
		s, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(key, "section-pages["), "]"))
		if err != nil || s < 0 || s >= len(v.SectionPages) {
			return 0, false
		}
		return v.SectionPages[s], true
	}
	return 0, false
}

// fieldText renders f for the current position. The second result reports
// whether the text depends on the page the paragraph lands on.
func (p *pass) fieldText(f *dom.Field) (string, bool) {
	switch f.Type {
	case dom.FieldPage:
		p.pageReads++
		return FormatNumber(p.number, f.Format), true
	case dom.FieldSection:
		return FormatNumber(p.section+1, f.Format), false
	case dom.FieldNumPages:
		return p.forward(numPagesKey(), f.Format), false
	case dom.FieldSectionPages:
		return p.forward(sectionPagesKey(p.section), f.Format), false
	case dom.FieldPageRef:
		return p.forward(pageRefKey(f.Name), f.Format), false
	case dom.FieldInfo:
		return infoValue(p.doc.Info, f.Name), false
	}
	return "", false
}

// forward reads a value only known after placement, using the previous pass.
func (p *pass) forward(key, format string) string {
	v, ok := p.prev.lookup(key)
	p.reads = append(p.reads, fieldRead{key: key, known: ok, value: v})
	if !ok {
		return unknownField
	}
	return FormatNumber(v, format)
}

func infoValue(info dom.Info, name string) string {
	switch strings.ToLower(name) {
	case "title":
		return info.Title
	case "author":
		return info.Author
	case "subject":
		return info.Subject
	case "keywords":
		return info.Keywords
	}
	return ""
}

// FormatNumber renders n as arabic (default), "ROMAN", "roman",
// "ALPHABETIC" or "alphabetic". Values below 1 fall back to arabic.
func FormatNumber(n int, format string) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	switch format {
	case "ROMAN":
		return roman(n)
	case "roman":
		return strings.ToLower(roman(n))
	case "ALPHABETIC":
		return alphabetic(n)
	case "alphabetic":
		return strings.ToLower(alphabetic(n))
	}
	return strconv.Itoa(n)
}

var romanTable = []struct {
	value int
	digit string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.digit)
			n -= r.value
		}
	}
	return b.String()
}

// alphabetic maps 1..26 to A..Z, then repeats the letter: 27 is AA, 28 is BB.
func alphabetic(n int) string {
	letter := string(rune('A' + (n-1)%26))
	return strings.Repeat(letter, (n-1)/26+1)
}
