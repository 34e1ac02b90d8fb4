package yaml

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"
)

type report struct {
	Name  string   `yaml:"name"`
	Ticks int      `yaml:"ticks"`
	Tags  []string `yaml:"tags,omitempty"`
}

func TestAtomicWrite_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	if err := AtomicWrite(path, report{Name: "survey", Ticks: 42}); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var got report
	if err := yamlv3.Unmarshal(content, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Name != "survey" || got.Ticks != 42 {
		t.Errorf("got %+v", got)
	}
}

func TestAtomicWrite_KeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	if err := AtomicWrite(path, report{Name: "first"}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := AtomicWrite(path, report{Name: "second"}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	var bak, cur report
	if err := ReadStrict(path+".bak", &bak); err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if err := ReadStrict(path, &cur); err != nil {
		t.Fatalf("read current: %v", err)
	}
	if bak.Name != "first" {
		t.Errorf("backup name: got %q, want %q", bak.Name, "first")
	}
	if cur.Name != "second" {
		t.Errorf("current name: got %q, want %q", cur.Name, "second")
	}
}

func TestAtomicWriteRaw_InvalidYAMLLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")

	if err := AtomicWriteRaw(path, []byte("key: [unclosed")); err == nil {
		t.Fatal("expected validation error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir, found %d entries", len(entries))
	}
}

func TestAtomicWrite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.yaml")
	if err := AtomicWrite(path, report{}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestReadStrict_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.yaml")
	if err := os.WriteFile(path, []byte("name: x\ntick: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var r report
	err := ReadStrict(path, &r)
	if err == nil {
		t.Fatal("expected unknown field error")
	}
	if !strings.Contains(err.Error(), "tick") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestReadStrict_EmptyFileIsZeroValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	r := report{Name: "keep"}
	if err := ReadStrict(path, &r); err != nil {
		t.Fatalf("ReadStrict: %v", err)
	}
	if r.Name != "keep" {
		t.Errorf("empty file should not touch the value, got %q", r.Name)
	}
}

func TestReadStrict_MissingFile(t *testing.T) {
	var r report
	if err := ReadStrict(filepath.Join(t.TempDir(), "nope.yaml"), &r); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
