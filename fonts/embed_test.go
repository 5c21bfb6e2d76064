package fonts

import (
	"bytes"
	"testing"
)

func TestLoadAcceptsPrefixAndSuffix(t *testing.T) {
	for _, name := range []string{"go-bold", "embed:go-bold", "embed:Go-Bold.ttf"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) 失败: %v", name, err)
		}
		if !bytes.Equal(data, Builtin(true, false)) {
			t.Fatalf("Load(%q) 返回了错误的字体", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:Inter-Regular.ttf"); err == nil {
		t.Fatal("未知字体应返回错误")
	}
}

func TestBuiltinVariantsDiffer(t *testing.T) {
	variants := [][]byte{Builtin(false, false), Builtin(true, false), Builtin(false, true), Builtin(true, true)}
	for i := range variants {
		if len(variants[i]) == 0 {
			t.Fatalf("第 %d 种字形为空", i)
		}
		for j := i + 1; j < len(variants); j++ {
			if bytes.Equal(variants[i], variants[j]) {
				t.Fatalf("字形 %d 与 %d 相同", i, j)
			}
		}
	}
}
