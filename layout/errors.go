package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration 匹配所有致命的文档配置错误。
	ErrConfiguration = errors.New("文档配置错误")
	// ErrImageNotFound 由 ImageSource 返回，表示图片来源不存在。
	ErrImageNotFound = errors.New("图片不存在")
	// ErrInvalidImageType 由 ImageSource 返回，表示图片格式无法识别。
	ErrInvalidImageType = errors.New("图片格式不受支持")
)

// ConfigurationError 描述一个无法排版的节点，Node 为节点路径，例如
// section[0]/table[1]/row[2]/cell[3]。
type ConfigurationError struct {
	Node   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Node, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func configErr(node, format string, args ...any) error {
	return &ConfigurationError{Node: node, Reason: fmt.Sprintf(format, args...)}
}

// GridPos is a (row, col) table coordinate.
type GridPos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p GridPos) String() string { return fmt.Sprintf("cell[%d,%d]", p.Row, p.Col) }

// OverlappingMergeError reports two merged blocks claiming the same coordinate.
type OverlappingMergeError struct {
	Table string
	// Cell is the origin of the block being placed, Other the origin of the
	// block that already owns the shared coordinate.
	Cell  GridPos
	Other GridPos
	At    GridPos
}

func (e *OverlappingMergeError) Error() string {
	return fmt.Sprintf("%s: 合并单元格 %s 与 %s 在 %s 处重叠", e.Table, e.Cell, e.Other, e.At)
}

func (e *OverlappingMergeError) Is(target error) bool { return target == ErrConfiguration }

// FieldConvergenceWarning is attached to a Result when forward-referencing
// fields still changed in the last allowed pass. The last pass is kept.
type FieldConvergenceWarning struct {
	Passes int
	Fields []string
}

func (w *FieldConvergenceWarning) Error() string {
	return fmt.Sprintf("域值在 %d 轮排版后仍未收敛: %s", w.Passes, strings.Join(w.Fields, ", "))
}
