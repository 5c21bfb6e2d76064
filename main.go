package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/quire/config"
	"github.com/ByLCY/quire/dsl"
	"github.com/ByLCY/quire/imagesrc"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/logging"
	canvasrenderer "github.com/ByLCY/quire/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.quire", "DSL 文件路径")
	output := flag.String("out", "output/demo.pdf", "PDF 输出路径")
	configPath := flag.String("config", "", "YAML 配置文件路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径（覆盖配置中的 debug-json）")
	logLevel := flag.String("log-level", "", "日志级别 debug/info/warn/error（覆盖配置）")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}
	if *debug != "" {
		cfg.DebugJSON = *debug
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logging.SetLogger(cfg.Logging.NewLogger(os.Stderr))

	if err := run(*input, *output, cfg); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

// run 串联解析、编译、排版与渲染。
func run(inputPath, outputPath string, cfg *config.Config) error {
	ast, err := dsl.ParseFile(inputPath)
	if err != nil {
		return err
	}
	margin, err := cfg.Page.MarginPoints()
	if err != nil {
		return fmt.Errorf("页边距无效: %w", err)
	}
	compiled, err := dsl.Compile(ast, dsl.CompileOptions{PageSize: cfg.Page.Size, Margin: margin})
	if err != nil {
		return fmt.Errorf("编译文档失败: %w", err)
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(inputPath)
	}
	images := imagesrc.New(baseDir)
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: baseDir,
		Fonts:   fontFiles(cfg, compiled),
		Images:  images,
	})

	result, err := layout.Build(compiled.Document, layout.Options{
		Typesetter: r,
		Images:     images,
		MaxPasses:  cfg.MaxPasses,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	for _, w := range result.Warnings {
		logging.Logger().Warn("排版警告", "warning", w.Error())
	}

	if cfg.DebugJSON != "" {
		if err := writeDebug(result, cfg.DebugJSON); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	logging.Logger().Info("排版完成", "pages", len(result.Pages), "passes", result.Passes, "converged", result.Converged)
	return nil
}

// fontFiles merges fonts declared in the document over those in the config.
func fontFiles(cfg *config.Config, compiled *dsl.Compiled) map[string]canvasrenderer.FontFiles {
	out := map[string]canvasrenderer.FontFiles{}
	for name, f := range cfg.Fonts {
		out[name] = canvasrenderer.FontFiles{Regular: f.Regular, Bold: f.Bold, Italic: f.Italic, BoldItalic: f.BoldItalic}
	}
	for name, f := range compiled.Fonts {
		out[name] = canvasrenderer.FontFiles{Regular: f.Regular, Bold: f.Bold, Italic: f.Italic, BoldItalic: f.BoldItalic}
	}
	return out
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
