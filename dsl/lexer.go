package dsl

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/text/unicode/norm"
)

// markupLexer 的规则按顺序匹配：颜色要先于 # 注释，数字带可选的单位后缀。
var markupLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Space", Pattern: `[ \t\r]+`},
	{Name: "EOL", Pattern: `\n+`},
	{Name: "Comment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/|//[^\n]*`},
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
	{Name: "Remark", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?(?:pt|mm|cm|in|%|x)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Punct", Pattern: `[][(),.=+\-*/%<>!?;:]`},
	{Name: "Open", Pattern: `{`},
	{Name: "Close", Pattern: `}`},
})

// tokenKinds 缓存解析时需要区分的记号类型。
type tokenKinds struct {
	names map[lexer.TokenType]string
	eol   lexer.TokenType
	open  lexer.TokenType
	close lexer.TokenType
	punct lexer.TokenType
	str   lexer.TokenType
}

var kinds = newTokenKinds()

func newTokenKinds() tokenKinds {
	symbols := markupLexer.Symbols()
	k := tokenKinds{names: make(map[lexer.TokenType]string, len(symbols))}
	for name, tt := range symbols {
		k.names[tt] = name
	}
	pick := func(name string) lexer.TokenType {
		tt, ok := symbols[name]
		if !ok {
			panic(fmt.Sprintf("dsl: lexer has no %s rule", name))
		}
		return tt
	}
	k.eol, k.open, k.close = pick("EOL"), pick("Open"), pick("Close")
	k.punct, k.str = pick("Punct"), pick("String")
	return k
}

// unquote decodes a Go-style string literal and normalizes it to NFC, so
// that composed and decomposed input lay out identically.
func unquote(raw string) (string, error) {
	s, err := strconv.Unquote(raw)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(s), nil
}

// atomOf converts a lexer token. String atoms carry their decoded text.
func atomOf(tok *lexer.Token) (*Atom, error) {
	a := &Atom{Kind: kinds.names[tok.Type], Value: tok.Value, Raw: tok.Value, Pos: tok.Pos}
	if a.Kind == "" {
		a.Kind = fmt.Sprintf("#%d", tok.Type)
	}
	if tok.Type == kinds.str {
		v, err := unquote(tok.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: 字符串无效: %w", tok.Pos, err)
		}
		a.Value = v
	}
	return a, nil
}

// endsLine reports whether tok closes a run of command arguments.
func endsLine(tok *lexer.Token) bool {
	switch {
	case tok == nil || tok.EOF():
		return true
	case tok.Type == kinds.eol, tok.Type == kinds.open, tok.Type == kinds.close:
		return true
	}
	return tok.Type == kinds.punct && tok.Value == ";"
}
