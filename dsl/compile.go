package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// CompileOptions supplies defaults for values the markup leaves out.
type CompileOptions struct {
	// PageSize names the paper used by `page default`; empty means A4.
	PageSize string
	// Margin, when > 0, replaces the 2.5cm default margin on every side.
	Margin geom.Pt
}

// FontResource is a font family declared in the resources section.
// Paths are kept as written; the renderer resolves them.
type FontResource struct {
	Name       string
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// Compiled is the result of Compile.
type Compiled struct {
	Document *dom.Document
	Fonts    map[string]FontResource
}

// Error is a compile error at a source position.
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

func errorf(pos lexer.Position, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

type imageResource struct {
	src        string
	width      *geom.Pt
	height     *geom.Pt
	resolution *float64
}

// compiler 保存在资源段中声明、供正文引用的具名对象。
type compiler struct {
	opts   CompileOptions
	colors map[string]dom.Color
	images map[string]imageResource
	fonts  map[string]FontResource
	doc    *dom.Document
}

// Compile assembles the document tree described by ast.
func Compile(ast *Document, opts CompileOptions) (*Compiled, error) {
	if ast == nil {
		return nil, fmt.Errorf("文档为空")
	}
	c := &compiler{
		opts:   opts,
		colors: map[string]dom.Color{},
		images: map[string]imageResource{},
		fonts:  map[string]FontResource{},
		doc:    dom.NewDocument(),
	}
	c.doc.Info.Title = ast.Name

	// resources 可以出现在 page 之后，先统一收集。
	for _, sec := range ast.Sections {
		if sec.Keyword != "page" && len(sec.Head) > 0 {
			return nil, errorf(sec.Head[0].Pos, "%s 段不接受参数 %s", sec.Keyword, sec.Head[0].Raw)
		}
		if sec.Keyword == "resources" {
			if err := c.resources(sec.Body); err != nil {
				return nil, err
			}
		}
	}
	for _, sec := range ast.Sections {
		switch sec.Keyword {
		case "meta":
			c.meta(sec.Body)
		case "page":
			if err := c.page(sec); err != nil {
				return nil, err
			}
		}
	}
	if err := c.doc.Styles.Validate(); err != nil {
		return nil, fmt.Errorf("样式表无效: %w", err)
	}
	return &Compiled{Document: c.doc, Fonts: c.fonts}, nil
}

// CompileString parses and compiles markup in one step.
func CompileString(input string, opts CompileOptions) (*Compiled, error) {
	ast, err := ParseString(input)
	if err != nil {
		return nil, fmt.Errorf("解析文档失败: %w", err)
	}
	return Compile(ast, opts)
}

func (c *compiler) meta(b *Block) {
	for _, stmt := range b.Statements {
		a := stmt.Assignment
		if a == nil {
			continue
		}
		switch strings.ToLower(a.Key) {
		case "title":
			c.doc.Info.Title = a.Value.Text()
		case "author":
			c.doc.Info.Author = a.Value.Text()
		case "subject":
			c.doc.Info.Subject = a.Value.Text()
		case "keywords":
			c.doc.Info.Keywords = strings.Join(a.Value.Strings(), ", ")
		}
	}
}

func (c *compiler) resources(b *Block) error {
	for _, stmt := range b.Statements {
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		if len(cmd.Args) == 0 {
			return errorf(cmd.Pos, "%s 缺少名称", cmd.Name)
		}
		name := cmd.Args[0].Value
		switch cmd.Name {
		case "color":
			// color Accent = #0F62FE
			value := cmd.Args[len(cmd.Args)-1].Value
			col, err := c.color(value)
			if err != nil || len(cmd.Args) < 2 {
				return errorf(cmd.Pos, "颜色 %s 无效: %q", name, value)
			}
			c.colors[name] = col
		case "font":
			font := FontResource{Name: name}
			for _, a := range assignments(cmd.Block) {
				v := a.Value.Text()
				switch a.Key {
				case "src", "regular":
					font.Regular = v
				case "bold":
					font.Bold = v
				case "italic":
					font.Italic = v
				case "bold-italic":
					font.BoldItalic = v
				default:
					return errorf(a.Pos, "未知的字体属性 %s", a.Key)
				}
			}
			c.fonts[name] = font
		case "image":
			img := imageResource{}
			for _, a := range assignments(cmd.Block) {
				v := a.Value.Text()
				switch a.Key {
				case "src":
					img.src = v
				case "width", "height":
					l, err := geom.ParseLength(v)
					if err != nil {
						return errorf(a.Pos, "%v", err)
					}
					if a.Key == "width" {
						img.width = dom.Ptr(l.Points())
					} else {
						img.height = dom.Ptr(l.Points())
					}
				case "dpi", "resolution":
					f, err := strconv.ParseFloat(v, 64)
					if err != nil {
						return errorf(a.Pos, "分辨率无效: %q", v)
					}
					img.resolution = &f
				default:
					return errorf(a.Pos, "未知的图片属性 %s", a.Key)
				}
			}
			c.images[name] = img
		case "style":
			if err := c.style(cmd, name); err != nil {
				return err
			}
		default:
			return errorf(cmd.Pos, "未知的资源类型 %s", cmd.Name)
		}
	}
	return nil
}

// style 处理 `style Name [extends Base] { key: value }`。重新声明 Normal
// 时只覆盖给出的属性，保证继承链的根始终完整。
func (c *compiler) style(cmd *Command, name string) error {
	st, ok := c.doc.Styles.Get(name)
	if !ok || name != dom.StyleNormal {
		st = &dom.Style{Name: name}
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		st.BaseStyle = cmd.Args[2].Value
	}
	for _, a := range assignments(cmd.Block) {
		if err := c.applyFormat(&st.Format, a.Key, a.Value.Text()); err != nil {
			return errorf(a.Pos, "样式 %s: %v", name, err)
		}
	}
	c.doc.Styles.Add(st)
	return nil
}

func (c *compiler) color(v string) (dom.Color, error) {
	if col, ok := c.colors[v]; ok {
		return col, nil
	}
	return dom.ParseColor(v)
}

// applyFormat sets one paragraph property written as key/value.
func (c *compiler) applyFormat(f *dom.ParagraphFormat, key, value string) error {
	switch key {
	case "font":
		f.Font.Name = &value
	case "color":
		col, err := c.color(value)
		if err != nil {
			return err
		}
		f.Font.Color = &col
	case "bold", "italic", "keep-together", "page-break-before":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s 需要 true/false: %q", key, value)
		}
		switch key {
		case "bold":
			f.Font.Bold = &b
		case "italic":
			f.Font.Italic = &b
		case "keep-together":
			f.KeepTogether = &b
		default:
			f.PageBreakBefore = &b
		}
	case "align":
		a, err := parseAlignment(value)
		if err != nil {
			return err
		}
		f.Alignment = &a
	case "line-spacing":
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("行距无效: %q", value)
		}
		f.LineSpacing = &v
	case "size", "space-before", "space-after", "left-indent", "right-indent":
		l, err := geom.ParseLength(value)
		if err != nil {
			return err
		}
		pt := l.Points()
		switch key {
		case "size":
			if pt <= 0 {
				return fmt.Errorf("字号必须大于 0: %q", value)
			}
			f.Font.Size = &pt
		case "space-before":
			f.SpaceBefore = &pt
		case "space-after":
			f.SpaceAfter = &pt
		case "left-indent":
			f.LeftIndent = &pt
		default:
			f.RightIndent = &pt
		}
	default:
		return fmt.Errorf("未知的段落属性 %s", key)
	}
	return nil
}

func parseAlignment(v string) (dom.Alignment, error) {
	switch strings.ToLower(v) {
	case "left", "start":
		return dom.AlignLeft, nil
	case "center", "middle":
		return dom.AlignCenter, nil
	case "right", "end":
		return dom.AlignRight, nil
	case "justify":
		return dom.AlignJustify, nil
	}
	return 0, fmt.Errorf("未知的对齐方式 %q", v)
}

func parseVAlign(v string) (dom.VerticalAlignment, error) {
	switch strings.ToLower(v) {
	case "top":
		return dom.VAlignTop, nil
	case "center", "middle":
		return dom.VAlignCenter, nil
	case "bottom":
		return dom.VAlignBottom, nil
	}
	return 0, fmt.Errorf("未知的垂直对齐方式 %q", v)
}

func (c *compiler) page(ps *Section) error {
	if len(ps.Head) == 0 {
		return errorf(ps.Pos, "page 缺少纸张尺寸")
	}
	sec := c.doc.AddSection()
	setup := &sec.PageSetup
	size := ps.Head[0].Value
	if strings.EqualFold(size, "default") {
		size = c.opts.PageSize
	}
	if size == "" {
		size = "A4"
	}
	paper, ok := dom.PageSizes[strings.ToUpper(size)]
	if !ok {
		return errorf(ps.Pos, "暂不支持的纸张尺寸：%s", size)
	}
	setup.PageWidth, setup.PageHeight = paper.Width, paper.Height
	if m := c.opts.Margin; m > 0 {
		setup.TopMargin, setup.RightMargin, setup.BottomMargin, setup.LeftMargin = m, m, m, m
	}
	if err := c.pageParams(setup, ps.Head[1:]); err != nil {
		return err
	}

	if ps.Body == nil {
		return nil
	}
	for _, stmt := range ps.Body.Statements {
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		switch cmd.Name {
		case "header", "footer":
			hf := &sec.Headers
			if cmd.Name == "footer" {
				hf = &sec.Footers
			}
			els, err := c.elements(cmd.Block)
			if err != nil {
				return err
			}
			variant := ""
			if len(cmd.Args) > 0 {
				variant = cmd.Args[0].Value
			}
			switch variant {
			case "":
				hf.Primary = els
			case "first":
				hf.FirstPage = els
				setup.DifferentFirstPageHeaderFooter = true
			case "even":
				hf.EvenPage = els
				setup.OddAndEvenPagesHeaderFooter = true
			default:
				return errorf(cmd.Pos, "未知的%s类型 %s", cmd.Name, variant)
			}
		default:
			el, err := c.element(cmd)
			if err != nil {
				return err
			}
			sec.Add(el)
		}
	}
	return nil
}

// pageParams 解析 `page A4 landscape margin 20mm 15mm start 3` 之类的参数。
func (c *compiler) pageParams(ps *dom.PageSetup, params []*Atom) error {
	for i := 0; i < len(params); i++ {
		tok := params[i]
		next := func() (string, error) {
			if i+1 >= len(params) {
				return "", errorf(tok.Pos, "%s 缺少取值", tok.Value)
			}
			i++
			return params[i].Value, nil
		}
		length := func() (geom.Pt, error) {
			v, err := next()
			if err != nil {
				return 0, err
			}
			l, err := geom.ParseLength(v)
			if err != nil {
				return 0, errorf(tok.Pos, "%v", err)
			}
			return l.Points(), nil
		}
		var err error
		switch tok.Value {
		case "portrait":
			if ps.PageWidth > ps.PageHeight {
				ps.PageWidth, ps.PageHeight = ps.PageHeight, ps.PageWidth
			}
		case "landscape":
			if ps.PageWidth < ps.PageHeight {
				ps.PageWidth, ps.PageHeight = ps.PageHeight, ps.PageWidth
			}
		case "margin":
			var vals []geom.Pt
			for i+1 < len(params) && len(vals) < 4 {
				l, perr := geom.ParseLength(params[i+1].Value)
				if perr != nil {
					break
				}
				vals = append(vals, l.Points())
				i++
			}
			// 与 CSS 相同：1 个值四边相同，2 个值为上下/左右，3 个值为上/左右/下，4 个值为上右下左。
			switch len(vals) {
			case 0:
				return errorf(tok.Pos, "margin 缺少取值")
			case 1:
				ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin = vals[0], vals[0], vals[0], vals[0]
			case 2:
				ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin = vals[0], vals[1], vals[0], vals[1]
			case 3:
				ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin = vals[0], vals[1], vals[2], vals[1]
			default:
				ps.TopMargin, ps.RightMargin, ps.BottomMargin, ps.LeftMargin = vals[0], vals[1], vals[2], vals[3]
			}
		case "header-distance":
			ps.HeaderDistance, err = length()
		case "footer-distance":
			ps.FooterDistance, err = length()
		case "start":
			var v string
			if v, err = next(); err == nil {
				ps.StartingNumber, err = strconv.Atoi(v)
				if err != nil || ps.StartingNumber < 1 {
					return errorf(tok.Pos, "起始页码无效: %q", v)
				}
			}
		default:
			return errorf(tok.Pos, "未知的页面参数 %s", tok.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) elements(b *Block) ([]dom.Element, error) {
	if b == nil {
		return nil, nil
	}
	var out []dom.Element
	for _, stmt := range b.Statements {
		if stmt.Command == nil {
			continue
		}
		el, err := c.element(stmt.Command)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (c *compiler) element(cmd *Command) (dom.Element, error) {
	switch cmd.Name {
	case "p", "text":
		return c.paragraph(cmd)
	case "pagebreak":
		return &dom.PageBreak{}, nil
	case "image":
		return c.image(cmd)
	case "barcode":
		return c.barcode(cmd)
	case "table":
		return c.table(cmd)
	case "chart":
		return c.chart(cmd)
	}
	return nil, errorf(cmd.Pos, "未知命令 %s", cmd.Name)
}

func (c *compiler) paragraph(cmd *Command) (*dom.Paragraph, error) {
	p := &dom.Paragraph{}
	style, attrs := parseArgs(cmd.Args, true)
	p.Style = style
	for _, kv := range attrs {
		if err := c.applyFormat(&p.Format, kv.key, kv.value); err != nil {
			return nil, errorf(cmd.Pos, "%v", err)
		}
	}
	if cmd.Block == nil {
		return p, nil
	}
	for _, stmt := range cmd.Block.Statements {
		switch {
		case stmt.Text != nil:
			p.AddText(string(stmt.Text.Value))
		case stmt.Command != nil:
			if err := c.inline(p, stmt.Command); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

var fieldTypes = map[string]dom.FieldType{
	"page":          dom.FieldPage,
	"num-pages":     dom.FieldNumPages,
	"section":       dom.FieldSection,
	"section-pages": dom.FieldSectionPages,
	"page-ref":      dom.FieldPageRef,
	"info":          dom.FieldInfo,
}

func (c *compiler) inline(p *dom.Paragraph, cmd *Command) error {
	switch cmd.Name {
	case "br":
		p.AddLineBreak()
	case "bookmark":
		if len(cmd.Args) != 1 {
			return errorf(cmd.Pos, "bookmark 需要一个名称")
		}
		p.AddBookmark(cmd.Args[0].Value)
	case "field":
		if len(cmd.Args) == 0 {
			return errorf(cmd.Pos, "field 缺少类型")
		}
		ft, ok := fieldTypes[cmd.Args[0].Value]
		if !ok {
			return errorf(cmd.Pos, "未知的域类型 %s", cmd.Args[0].Value)
		}
		f := &dom.Field{Type: ft}
		rest := cmd.Args[1:]
		if ft == dom.FieldPageRef || ft == dom.FieldInfo {
			if len(rest) == 0 {
				return errorf(cmd.Pos, "%s 域需要名称", cmd.Args[0].Value)
			}
			f.Name, rest = rest[0].Value, rest[1:]
		}
		_, attrs := parseArgs(rest, false)
		for _, kv := range attrs {
			if kv.key != "format" {
				return errorf(cmd.Pos, "未知的域属性 %s", kv.key)
			}
			f.Format = kv.value
		}
		p.AddField(f)
	default:
		return errorf(cmd.Pos, "段落中不支持 %s", cmd.Name)
	}
	return nil
}

func (c *compiler) image(cmd *Command) (*dom.Image, error) {
	if len(cmd.Args) == 0 {
		return nil, errorf(cmd.Pos, "image 缺少来源")
	}
	img := &dom.Image{Source: cmd.Args[0].Value}
	if cmd.Args[0].Kind == "Ident" {
		res, ok := c.images[cmd.Args[0].Value]
		if !ok {
			return nil, errorf(cmd.Pos, "图片资源 %s 未定义", cmd.Args[0].Value)
		}
		img.Source, img.Width, img.Height, img.Resolution = res.src, res.width, res.height, res.resolution
	}
	_, attrs := parseArgs(cmd.Args[1:], false)
	for _, kv := range attrs {
		var err error
		switch kv.key {
		case "width", "height", "crop-left", "crop-right", "crop-top", "crop-bottom":
			var l geom.Length
			if l, err = geom.ParseLength(kv.value); err != nil {
				break
			}
			pt := l.Points()
			if strings.HasPrefix(kv.key, "crop-") && img.PictureFormat == nil {
				img.PictureFormat = &dom.PictureFormat{}
			}
			switch kv.key {
			case "width":
				img.Width = &pt
			case "height":
				img.Height = &pt
			case "crop-left":
				img.PictureFormat.CropLeft = pt
			case "crop-right":
				img.PictureFormat.CropRight = pt
			case "crop-top":
				img.PictureFormat.CropTop = pt
			default:
				img.PictureFormat.CropBottom = pt
			}
		case "scale-width", "scale-height", "resolution":
			var f float64
			if f, err = strconv.ParseFloat(strings.TrimSuffix(kv.value, "x"), 64); err != nil {
				break
			}
			switch kv.key {
			case "scale-width":
				img.ScaleWidth = &f
			case "scale-height":
				img.ScaleHeight = &f
			default:
				img.Resolution = &f
			}
		case "lock":
			var b bool
			if b, err = strconv.ParseBool(kv.value); err == nil {
				img.LockAspectRatio = &b
			}
		default:
			err = fmt.Errorf("未知的图片属性 %s", kv.key)
		}
		if err != nil {
			return nil, errorf(cmd.Pos, "image %s: %v", kv.key, err)
		}
	}
	return img, nil
}

func (c *compiler) barcode(cmd *Command) (*dom.Barcode, error) {
	if len(cmd.Args) < 2 {
		return nil, errorf(cmd.Pos, "barcode 需要类型与内容")
	}
	b := &dom.Barcode{Code: cmd.Args[1].Value}
	switch cmd.Args[0].Value {
	case "qr":
		b.Type = dom.BarcodeQR
	case "code128":
		b.Type = dom.BarcodeCode128
	default:
		return nil, errorf(cmd.Pos, "未知的条码类型 %s", cmd.Args[0].Value)
	}
	_, attrs := parseArgs(cmd.Args[2:], false)
	for _, kv := range attrs {
		l, err := geom.ParseLength(kv.value)
		if err != nil {
			return nil, errorf(cmd.Pos, "barcode %s: %v", kv.key, err)
		}
		switch kv.key {
		case "width":
			b.Width = l.Points()
		case "height":
			b.Height = l.Points()
		default:
			return nil, errorf(cmd.Pos, "未知的条码属性 %s", kv.key)
		}
	}
	return b, nil
}

func (c *compiler) chart(cmd *Command) (*dom.Chart, error) {
	ch := &dom.Chart{}
	args := cmd.Args
	if len(args)%2 == 1 {
		switch args[0].Value {
		case "column":
			ch.Type = dom.ChartColumn
		case "bar":
			ch.Type = dom.ChartBar
		case "line":
			ch.Type = dom.ChartLine
		default:
			return nil, errorf(cmd.Pos, "未知的图表类型 %s", args[0].Value)
		}
		args = args[1:]
	}
	_, attrs := parseArgs(args, false)
	for _, kv := range attrs {
		l, err := geom.ParseLength(kv.value)
		if err != nil {
			return nil, errorf(cmd.Pos, "chart %s: %v", kv.key, err)
		}
		switch kv.key {
		case "width":
			ch.Width = l.Points()
		case "height":
			ch.Height = l.Points()
		default:
			return nil, errorf(cmd.Pos, "未知的图表属性 %s", kv.key)
		}
	}
	if cmd.Block == nil {
		return ch, nil
	}
	for _, stmt := range cmd.Block.Statements {
		if a := stmt.Assignment; a != nil {
			if a.Key != "categories" {
				return nil, errorf(a.Pos, "未知的图表属性 %s", a.Key)
			}
			ch.Categories = a.Value.Strings()
			continue
		}
		sub := stmt.Command
		if sub == nil {
			continue
		}
		if sub.Name == "series" {
			s, err := c.series(sub)
			if err != nil {
				return nil, err
			}
			ch.Series = append(ch.Series, s)
			continue
		}
		area, err := c.textArea(sub)
		if err != nil {
			return nil, err
		}
		switch sub.Name {
		case "header":
			ch.HeaderArea = area
		case "footer":
			ch.FooterArea = area
		case "top":
			ch.TopArea = area
		case "bottom":
			ch.BottomArea = area
		case "left":
			ch.LeftArea = area
		case "right":
			ch.RightArea = area
		default:
			return nil, errorf(sub.Pos, "图表中不支持 %s", sub.Name)
		}
	}
	return ch, nil
}

func (c *compiler) textArea(cmd *Command) (*dom.TextArea, error) {
	area := &dom.TextArea{}
	_, attrs := parseArgs(cmd.Args, false)
	for _, kv := range attrs {
		if kv.key != "size" {
			return nil, errorf(cmd.Pos, "未知的文字区属性 %s", kv.key)
		}
		l, err := geom.ParseLength(kv.value)
		if err != nil {
			return nil, errorf(cmd.Pos, "%v", err)
		}
		area.Size = l.Points()
	}
	if cmd.Block == nil {
		return area, nil
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		if stmt.Command.Name != "p" && stmt.Command.Name != "text" {
			return nil, errorf(stmt.Command.Pos, "图表文字区只能包含段落")
		}
		p, err := c.paragraph(stmt.Command)
		if err != nil {
			return nil, err
		}
		area.Paragraphs = append(area.Paragraphs, p)
	}
	return area, nil
}

func (c *compiler) series(cmd *Command) (dom.Series, error) {
	s := dom.Series{}
	args := cmd.Args
	if len(args)%2 == 1 {
		s.Name, args = args[0].Value, args[1:]
	}
	_, attrs := parseArgs(args, false)
	for _, kv := range attrs {
		if kv.key != "color" {
			return s, errorf(cmd.Pos, "未知的数据系列属性 %s", kv.key)
		}
		col, err := c.color(kv.value)
		if err != nil {
			return s, errorf(cmd.Pos, "%v", err)
		}
		s.Color = &col
	}
	for _, a := range assignments(cmd.Block) {
		if a.Key != "values" {
			return s, errorf(a.Pos, "未知的数据系列属性 %s", a.Key)
		}
		for _, v := range a.Value.Strings() {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return s, errorf(a.Pos, "数据无效: %q", v)
			}
			s.Values = append(s.Values, f)
		}
	}
	return s, nil
}

type keyValue struct {
	key, value string
}

// parseArgs splits command arguments into an optional leading style name and
// key/value pairs, in source order. With allowStyle an odd argument count
// makes the first argument the style.
func parseArgs(args []*Atom, allowStyle bool) (string, []keyValue) {
	var style string
	if allowStyle && len(args)%2 == 1 && args[0].Kind == "Ident" {
		style, args = args[0].Value, args[1:]
	}
	out := make([]keyValue, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		out = append(out, keyValue{key: args[i].Value, value: args[i+1].Value})
	}
	return style, out
}

func assignments(b *Block) []*Assignment {
	if b == nil {
		return nil
	}
	var out []*Assignment
	for _, stmt := range b.Statements {
		if stmt.Assignment != nil {
			out = append(out, stmt.Assignment)
		}
	}
	return out
}
