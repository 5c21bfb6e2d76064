package dom

import "strings"

// This file maps dotted property names to accessors, one static table per
// node type, in place of runtime type inspection.

// ResultKind tags the outcome of a property lookup.
type ResultKind int

const (
	// ResultValue means the property is set; Result.Value holds it.
	ResultValue ResultKind = iota
	// ResultNull means the property exists but is unset on the node.
	ResultNull
	// ResultNotFound means no such property for the node type.
	ResultNotFound
)

// Result is the tagged outcome of GetValue and Resolve.
type Result struct {
	Kind  ResultKind
	Value any
}

func (r Result) IsValue() bool { return r.Kind == ResultValue }

type getter[T any] func(*T) (any, bool)

func opt[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

func set(v any) (any, bool) { return v, true }

var fontProps = map[string]getter[Font]{
	"Name":   func(f *Font) (any, bool) { return opt(f.Name) },
	"Size":   func(f *Font) (any, bool) { return opt(f.Size) },
	"Bold":   func(f *Font) (any, bool) { return opt(f.Bold) },
	"Italic": func(f *Font) (any, bool) { return opt(f.Italic) },
	"Color":  func(f *Font) (any, bool) { return opt(f.Color) },
}

var formatProps = map[string]getter[ParagraphFormat]{
	"Alignment":       func(f *ParagraphFormat) (any, bool) { return opt(f.Alignment) },
	"SpaceBefore":     func(f *ParagraphFormat) (any, bool) { return opt(f.SpaceBefore) },
	"SpaceAfter":      func(f *ParagraphFormat) (any, bool) { return opt(f.SpaceAfter) },
	"LeftIndent":      func(f *ParagraphFormat) (any, bool) { return opt(f.LeftIndent) },
	"RightIndent":     func(f *ParagraphFormat) (any, bool) { return opt(f.RightIndent) },
	"LineSpacing":     func(f *ParagraphFormat) (any, bool) { return opt(f.LineSpacing) },
	"KeepTogether":    func(f *ParagraphFormat) (any, bool) { return opt(f.KeepTogether) },
	"PageBreakBefore": func(f *ParagraphFormat) (any, bool) { return opt(f.PageBreakBefore) },
}

var imageProps = map[string]getter[Image]{
	"Source":                   func(i *Image) (any, bool) { return set(i.Source) },
	"Width":                    func(i *Image) (any, bool) { return opt(i.Width) },
	"Height":                   func(i *Image) (any, bool) { return opt(i.Height) },
	"ScaleWidth":               func(i *Image) (any, bool) { return opt(i.ScaleWidth) },
	"ScaleHeight":              func(i *Image) (any, bool) { return opt(i.ScaleHeight) },
	"LockAspectRatio":          func(i *Image) (any, bool) { return opt(i.LockAspectRatio) },
	"Resolution":               func(i *Image) (any, bool) { return opt(i.Resolution) },
	"PictureFormat.CropLeft":   func(i *Image) (any, bool) { return cropValue(i, func(p *PictureFormat) any { return p.CropLeft }) },
	"PictureFormat.CropRight":  func(i *Image) (any, bool) { return cropValue(i, func(p *PictureFormat) any { return p.CropRight }) },
	"PictureFormat.CropTop":    func(i *Image) (any, bool) { return cropValue(i, func(p *PictureFormat) any { return p.CropTop }) },
	"PictureFormat.CropBottom": func(i *Image) (any, bool) { return cropValue(i, func(p *PictureFormat) any { return p.CropBottom }) },
}

func cropValue(i *Image, pick func(*PictureFormat) any) (any, bool) {
	if i.PictureFormat == nil {
		return nil, false
	}
	return pick(i.PictureFormat), true
}

var tableProps = map[string]getter[Table]{
	"LeftIndent":    func(t *Table) (any, bool) { return set(t.LeftIndent) },
	"TopPadding":    func(t *Table) (any, bool) { return set(t.TopPadding) },
	"BottomPadding": func(t *Table) (any, bool) { return set(t.BottomPadding) },
	"LeftPadding":   func(t *Table) (any, bool) { return opt(t.LeftPadding) },
	"RightPadding":  func(t *Table) (any, bool) { return opt(t.RightPadding) },
	"Shading":       func(t *Table) (any, bool) { return opt(t.Shading) },
}

var rowProps = map[string]getter[Row]{
	"Height":            func(r *Row) (any, bool) { return set(r.Height) },
	"HeightRule":        func(r *Row) (any, bool) { return set(r.HeightRule) },
	"VerticalAlignment": func(r *Row) (any, bool) { return set(r.VerticalAlignment) },
	"HeadingFormat":     func(r *Row) (any, bool) { return set(r.HeadingFormat) },
	"KeepWith":          func(r *Row) (any, bool) { return set(r.KeepWith) },
}

var cellProps = map[string]getter[Cell]{
	"MergeRight":        func(c *Cell) (any, bool) { return set(c.MergeRight) },
	"MergeDown":         func(c *Cell) (any, bool) { return set(c.MergeDown) },
	"VerticalAlignment": func(c *Cell) (any, bool) { return opt(c.VerticalAlignment) },
	"Shading":           func(c *Cell) (any, bool) { return opt(c.Shading) },
}

func lookup[T any](table map[string]getter[T], node *T, path string) Result {
	g, ok := table[path]
	if !ok {
		return Result{Kind: ResultNotFound}
	}
	v, ok := g(node)
	if !ok {
		return Result{Kind: ResultNull}
	}
	return Result{Kind: ResultValue, Value: v}
}

// formatValue reads a "Format."-relative path such as "Font.Size" or "SpaceAfter".
func formatValue(f *ParagraphFormat, path string) Result {
	if rest, ok := strings.CutPrefix(path, "Font."); ok {
		return lookup(fontProps, &f.Font, rest)
	}
	return lookup(formatProps, f, path)
}

// GetValue reads the property at a dotted path from node without consulting styles.
func GetValue(node any, path string) Result {
	switch n := node.(type) {
	case *Paragraph:
		if path == "Style" {
			if n.Style == "" {
				return Result{Kind: ResultNull}
			}
			return Result{Kind: ResultValue, Value: n.Style}
		}
		if rest, ok := strings.CutPrefix(path, "Format."); ok {
			return formatValue(&n.Format, rest)
		}
	case *Style:
		if path == "BaseStyle" {
			return Result{Kind: ResultValue, Value: baseOf(n)}
		}
		if rest, ok := strings.CutPrefix(path, "Format."); ok {
			return formatValue(&n.Format, rest)
		}
	case *Image:
		return lookup(imageProps, n, path)
	case *Table:
		return lookup(tableProps, n, path)
	case *Row:
		return lookup(rowProps, n, path)
	case *Cell:
		return lookup(cellProps, n, path)
	}
	return Result{Kind: ResultNotFound}
}

// Resolve reads a paragraph property, falling back along the style chain of
// the paragraph (Normal when it names none). Unknown styles fall back to Normal.
func Resolve(styles *Styles, p *Paragraph, path string) Result {
	r := GetValue(p, path)
	if r.Kind != ResultNull {
		return r
	}
	rest, ok := strings.CutPrefix(path, "Format.")
	if !ok {
		return r
	}
	name := p.Style
	if name == "" {
		name = StyleNormal
	}
	// Validate guarantees termination; the guard only covers unvalidated sheets.
	for guard := 0; name != "" && guard < 64; guard++ {
		st, ok := styles.Get(name)
		if !ok {
			if name == StyleNormal {
				break
			}
			name = StyleNormal
			continue
		}
		if v := formatValue(&st.Format, rest); v.Kind == ResultValue {
			return v
		}
		name = baseOf(st)
	}
	return Result{Kind: ResultNull}
}
