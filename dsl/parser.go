// Package dsl reads the quire markup and compiles it into a dom.Document.
//
// Parsing only builds the AST in ast.go; Compile turns it into the document tree.
package dsl

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

var markupParser = participle.MustBuild[Document](
	participle.Lexer(markupLexer),
	participle.Elide("Space", "Comment", "Remark"),
)

// Parse parses markup from r. name is used in error positions.
func Parse(name string, r io.Reader) (*Document, error) {
	return markupParser.Parse(name, r)
}

// ParseString parses markup from a string.
func ParseString(input string) (*Document, error) {
	return markupParser.ParseString("", input)
}

// ParseFile parses the markup file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文档失败: %w", err)
	}
	defer f.Close()
	doc, err := Parse(path, f)
	if err != nil {
		return nil, fmt.Errorf("解析文档失败: %w", err)
	}
	return doc, nil
}
