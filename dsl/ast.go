package dsl

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Document is the root of a markup file: `doc <name> <version> { ... }`.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"EOL* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' EOL* ( @@ EOL* )* '}' EOL*"`
}

// Section is a top-level `meta`, `resources` or `page` block. Head holds the
// words between the keyword and the body, e.g. `A4 landscape margin 2cm`.
type Section struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Keyword string         `parser:"@( 'meta' | 'resources' | 'page' )"`
	Head    []*Atom        `parser:"@@*"`
	Body    *Block         `parser:"@@"`
}

// Kind names the section.
func (s *Section) Kind() string {
	if s == nil || s.Keyword == "" {
		return "unknown"
	}
	return s.Keyword
}

// Block is a braced list of statements separated by newlines or semicolons.
type Block struct {
	Statements []*Statement `parser:"'{' EOL* ( @@ ( ';' | EOL )* )* '}'"`
}

// Statement is an assignment, a command or a bare string.
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Command    *Command    `parser:"| @@"`
	Text       *Text       `parser:"| @@"`
}

// Assignment is `key: value`.
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':' EOL*"`
	Value *Value         `parser:"@@"`
}

// Command is a name, its arguments up to the end of line and an optional body.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Atom        `parser:"@@*"`
	Block *Block         `parser:"( EOL* @@ )?"`
}

// Text is a string statement, typically paragraph content.
type Text struct {
	Value Quoted `parser:"@String"`
}

// Quoted is a decoded, NFC-normalized string literal.
type Quoted string

// Capture implements participle.Capture.
func (q *Quoted) Capture(values []string) error {
	s, err := unquote(strings.Join(values, ""))
	if err != nil {
		return err
	}
	*q = Quoted(s)
	return nil
}

// Value is the right-hand side of an assignment.
type Value struct {
	List *List `parser:"  @@"`
	Map  *Map  `parser:"| @@"`
	Run  *Run  `parser:"| @@"`
}

// Text joins the atoms of a scalar value; lists and maps yield "".
func (v *Value) Text() string {
	if v == nil || v.Run == nil {
		return ""
	}
	var sb strings.Builder
	for _, a := range v.Run.Atoms {
		sb.WriteString(a.Value)
	}
	return sb.String()
}

// Strings returns the non-empty items of a list, or the scalar as a single item.
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.List == nil {
		if s := v.Text(); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(v.List.Items))
	for _, it := range v.List.Items {
		if s := it.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// List is `[ a, b ]`; items may also be separated by semicolons or newlines.
type List struct {
	Items []*Value `parser:"'[' EOL* ( @@ ( ( ',' | ';' | EOL ) EOL* @@ )* )? EOL* ']'"`
}

// Map is an inline `{ key: value; ... }`.
type Map struct {
	Entries []*Assignment `parser:"'{' EOL* ( @@ EOL* ( ( ';' | EOL ) EOL* @@ EOL* )* )? EOL* '}'"`
}

// Run is a scalar written as one or more atoms, e.g. `12pt` or `Body`.
// Brackets and parentheses nest; a separator only ends the run at depth 0.
type Run struct {
	Atoms []*Atom
}

// Parse implements participle.Parseable.
func (r *Run) Parse(lex *lexer.PeekingLexer) error {
	var parens, brackets int
	for {
		tok := lex.Peek()
		if r.ends(tok, parens, brackets) {
			break
		}
		a, err := atomOf(lex.Next())
		if err != nil {
			return err
		}
		switch a.Raw {
		case "(":
			parens++
		case ")":
			parens = max(parens-1, 0)
		case "[":
			brackets++
		case "]":
			brackets = max(brackets-1, 0)
		}
		r.Atoms = append(r.Atoms, a)
	}
	if len(r.Atoms) == 0 {
		return participle.NextMatch
	}
	return nil
}

func (r *Run) ends(tok *lexer.Token, parens, brackets int) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	if tok.Type == kinds.punct && tok.Value == "]" {
		return brackets == 0
	}
	if parens > 0 || brackets > 0 {
		return false
	}
	return endsLine(tok) || (tok.Type == kinds.punct && tok.Value == ",")
}

// Atom is one lexical token kept for later interpretation. Kind is the
// lexer rule name; Value is decoded for strings and equals Raw otherwise.
type Atom struct {
	Kind  string         `json:"kind"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable: an atom is any token that does not
// end the line.
func (a *Atom) Parse(lex *lexer.PeekingLexer) error {
	if endsLine(lex.Peek()) {
		return participle.NextMatch
	}
	got, err := atomOf(lex.Next())
	if err != nil {
		return err
	}
	*a = *got
	return nil
}
