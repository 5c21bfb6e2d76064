package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/quire/config"
)

func TestRunWritesPDFAndDebugJSON(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "demo.pdf")
	cfg := config.Default()
	cfg.DebugJSON = filepath.Join(dir, "debug", "layout.json")

	if err := run(filepath.Join("examples", "demo.quire"), out, cfg); err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("读取 PDF 失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("输出不是 PDF")
	}

	raw, err := os.ReadFile(cfg.DebugJSON)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var dump struct {
		Pages     []json.RawMessage `json:"pages"`
		Converged bool              `json:"converged"`
	}
	if err := json.Unmarshal(raw, &dump); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if len(dump.Pages) != 2 || !dump.Converged {
		t.Fatalf("示例文档应为 2 页且收敛，得到 %d 页 converged=%v", len(dump.Pages), dump.Converged)
	}
}

func TestRunReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.quire")
	if err := os.WriteFile(in, []byte("doc {"), 0o644); err != nil {
		t.Fatalf("写入输入失败: %v", err)
	}
	if err := run(in, filepath.Join(dir, "x.pdf"), config.Default()); err == nil {
		t.Fatal("语法错误应返回错误")
	}
	if err := run(filepath.Join(dir, "missing.quire"), filepath.Join(dir, "x.pdf"), config.Default()); err == nil {
		t.Fatal("缺失的输入文件应返回错误")
	}
}
