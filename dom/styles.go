package dom

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ByLCY/quire/geom"
)

// StyleNormal is the root of every inheritance chain.
const StyleNormal = "Normal"

var (
	ErrUnknownStyle = errors.New("style 未定义")
	ErrStyleCycle   = errors.New("style 继承存在循环")
)

// Style is a named ParagraphFormat that inherits unset values from BaseStyle.
type Style struct {
	Name      string
	BaseStyle string
	Format    ParagraphFormat
}

// Styles is the style sheet of a document.
type Styles struct {
	byName map[string]*Style
}

// NewStyles returns a style sheet holding a fully specified Normal style
// plus Header and Footer based on it.
func NewStyles() *Styles {
	s := &Styles{byName: map[string]*Style{}}
	s.Add(&Style{Name: StyleNormal, Format: ParagraphFormat{
		Alignment:       Ptr(AlignLeft),
		SpaceBefore:     Ptr(geom.Pt(0)),
		SpaceAfter:      Ptr(geom.Pt(0)),
		LeftIndent:      Ptr(geom.Pt(0)),
		RightIndent:     Ptr(geom.Pt(0)),
		LineSpacing:     Ptr(1.0),
		KeepTogether:    Ptr(false),
		PageBreakBefore: Ptr(false),
		Font: Font{
			Name:   Ptr("Body"),
			Size:   Ptr(geom.Pt(10)),
			Bold:   Ptr(false),
			Italic: Ptr(false),
			Color:  Ptr(Black),
		},
	}})
	s.Add(&Style{Name: "Header", BaseStyle: StyleNormal})
	s.Add(&Style{Name: "Footer", BaseStyle: StyleNormal})
	return s
}

// Add registers or replaces a style.
func (s *Styles) Add(st *Style) *Style {
	if s.byName == nil {
		s.byName = map[string]*Style{}
	}
	s.byName[st.Name] = st
	return st
}

// Get looks up a style by name.
func (s *Styles) Get(name string) (*Style, bool) {
	if s == nil {
		return nil, false
	}
	st, ok := s.byName[name]
	return st, ok
}

// Names returns the registered style names in sorted order.
func (s *Styles) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// baseOf returns the parent of a style in the chain; Normal has none.
func baseOf(st *Style) string {
	if st.Name == StyleNormal {
		return ""
	}
	if st.BaseStyle == "" {
		return StyleNormal
	}
	return st.BaseStyle
}

// Validate checks that every chain ends at Normal without cycles.
func (s *Styles) Validate() error {
	if _, ok := s.Get(StyleNormal); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStyle, StyleNormal)
	}
	done := map[string]bool{}
	for _, name := range s.Names() {
		visiting := map[string]bool{}
		for cur := name; cur != "" && !done[cur]; {
			if visiting[cur] {
				return fmt.Errorf("%w：%s", ErrStyleCycle, name)
			}
			visiting[cur] = true
			st, ok := s.Get(cur)
			if !ok {
				return fmt.Errorf("%w: %s（被 %s 继承）", ErrUnknownStyle, cur, name)
			}
			cur = baseOf(st)
		}
		for n := range visiting {
			done[n] = true
		}
	}
	return nil
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[T any](v T) *T { return &v }
