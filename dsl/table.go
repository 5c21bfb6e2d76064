package dsl

import (
	"fmt"
	"strconv"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
)

// table 组装 `table { column ...; row { cell {...} } }`。
//
// 单元格按 HTML 的方式就位：每个 cell 占据当前行中下一个未被合并覆盖的
// 列，`col n` 可以显式指定列号。显式列号落在其他单元格的合并区域内时
// 原样保留，由排版阶段报告重叠。
func (c *compiler) table(cmd *Command) (*dom.Table, error) {
	t := &dom.Table{}
	borderWidth, borderColor := geom.Pt(0), dom.Black
	_, attrs := parseArgs(cmd.Args, false)
	for _, kv := range attrs {
		var err error
		switch kv.key {
		case "indent", "padding", "padding-top", "padding-bottom", "borders":
			var l geom.Length
			if l, err = geom.ParseLength(kv.value); err != nil {
				break
			}
			pt := l.Points()
			switch kv.key {
			case "indent":
				t.LeftIndent = pt
			case "padding":
				t.LeftPadding, t.RightPadding = dom.Ptr(pt), dom.Ptr(pt)
			case "padding-top":
				t.TopPadding = pt
			case "padding-bottom":
				t.BottomPadding = pt
			default:
				borderWidth = pt
			}
		case "border-color":
			borderColor, err = c.color(kv.value)
		case "shading":
			var col dom.Color
			if col, err = c.color(kv.value); err == nil {
				t.Shading = &col
			}
		default:
			err = fmt.Errorf("未知的表格属性 %s", kv.key)
		}
		if err != nil {
			return nil, errorf(cmd.Pos, "table %s: %v", kv.key, err)
		}
	}
	if borderWidth > 0 {
		t.Borders = dom.AllBorders(borderWidth, borderColor)
	}
	if cmd.Block == nil {
		return t, nil
	}

	// 先收集列，行中的单元格数量依赖列数。
	var rows []*Command
	for _, stmt := range cmd.Block.Statements {
		sub := stmt.Command
		if sub == nil {
			continue
		}
		switch sub.Name {
		case "column":
			if len(sub.Args) != 1 {
				return nil, errorf(sub.Pos, "column 需要一个宽度")
			}
			l, err := geom.ParseLength(sub.Args[0].Value)
			if err != nil {
				return nil, errorf(sub.Pos, "列宽无效: %v", err)
			}
			t.AddColumn(l.Points())
		case "row":
			rows = append(rows, sub)
		default:
			return nil, errorf(sub.Pos, "表格中不支持 %s", sub.Name)
		}
	}

	covered := map[[2]int]bool{}
	for r, rowCmd := range rows {
		row := t.AddRow()
		if err := c.rowAttrs(row, rowCmd); err != nil {
			return nil, err
		}
		if rowCmd.Block == nil {
			continue
		}
		col := 0
		for _, stmt := range rowCmd.Block.Statements {
			cellCmd := stmt.Command
			if cellCmd == nil {
				continue
			}
			if cellCmd.Name != "cell" {
				return nil, errorf(cellCmd.Pos, "行中只能包含 cell")
			}
			cell, explicit, err := c.cell(cellCmd)
			if err != nil {
				return nil, err
			}
			if explicit >= 0 {
				col = explicit
			} else {
				for covered[[2]int{r, col}] {
					col++
				}
			}
			if col < len(row.Cells) && row.Cells[col] != nil {
				return nil, errorf(cellCmd.Pos, "第 %d 行第 %d 列重复声明", r, col)
			}
			*row.Cell(col) = *cell
			for dr := 0; dr <= cell.MergeDown; dr++ {
				for dc := 0; dc <= cell.MergeRight; dc++ {
					covered[[2]int{r + dr, col + dc}] = true
				}
			}
			col += cell.MergeRight + 1
		}
	}
	return t, nil
}

func (c *compiler) rowAttrs(row *dom.Row, cmd *Command) error {
	args := cmd.Args
	// heading 是无取值的开关，可以出现在任意位置。
	rest := make([]*Atom, 0, len(args))
	for _, a := range args {
		if a.Value == "heading" {
			row.HeadingFormat = true
			continue
		}
		rest = append(rest, a)
	}
	_, attrs := parseArgs(rest, false)
	for _, kv := range attrs {
		var err error
		switch kv.key {
		case "height":
			var l geom.Length
			if l, err = geom.ParseLength(kv.value); err == nil {
				row.Height = l.Points()
				if row.HeightRule == dom.RowHeightAuto {
					row.HeightRule = dom.RowHeightAtLeast
				}
			}
		case "rule":
			switch kv.value {
			case "auto":
				row.HeightRule = dom.RowHeightAuto
			case "at-least":
				row.HeightRule = dom.RowHeightAtLeast
			case "exactly":
				row.HeightRule = dom.RowHeightExactly
			default:
				err = fmt.Errorf("未知的行高规则 %q", kv.value)
			}
		case "valign":
			row.VerticalAlignment, err = parseVAlign(kv.value)
		case "keep-with":
			row.KeepWith, err = strconv.Atoi(kv.value)
		default:
			err = fmt.Errorf("未知的行属性 %s", kv.key)
		}
		if err != nil {
			return errorf(cmd.Pos, "row %s: %v", kv.key, err)
		}
	}
	return nil
}

// cell returns the cell and its explicit column, or -1 when placed automatically.
func (c *compiler) cell(cmd *Command) (*dom.Cell, int, error) {
	cell := &dom.Cell{}
	explicit := -1
	_, attrs := parseArgs(cmd.Args, false)
	for _, kv := range attrs {
		var err error
		switch kv.key {
		case "merge-right":
			cell.MergeRight, err = strconv.Atoi(kv.value)
		case "merge-down":
			cell.MergeDown, err = strconv.Atoi(kv.value)
		case "col":
			if explicit, err = strconv.Atoi(kv.value); err == nil && explicit < 0 {
				err = fmt.Errorf("列号不能为负")
			}
		case "valign":
			var v dom.VerticalAlignment
			if v, err = parseVAlign(kv.value); err == nil {
				cell.VerticalAlignment = &v
			}
		case "shading":
			var col dom.Color
			if col, err = c.color(kv.value); err == nil {
				cell.Shading = &col
			}
		case "borders":
			var l geom.Length
			if l, err = geom.ParseLength(kv.value); err == nil {
				b := dom.AllBorders(l.Points(), dom.Black)
				cell.Borders = &b
			}
		default:
			err = fmt.Errorf("未知的单元格属性 %s", kv.key)
		}
		if err != nil {
			return nil, 0, errorf(cmd.Pos, "cell %s: %v", kv.key, err)
		}
	}
	if cell.MergeRight < 0 || cell.MergeDown < 0 {
		return nil, 0, errorf(cmd.Pos, "合并数不能为负")
	}
	els, err := c.elements(cmd.Block)
	if err != nil {
		return nil, 0, err
	}
	cell.Elements = els
	return cell, explicit, nil
}
