package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindFileCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()

	testFiles := []string{
		"Hello.trust",
		"UPPER.TRUST",
		"lower.trust",
	}
	for _, filename := range testFiles {
		path := filepath.Join(tmpDir, filename)
		if err := os.WriteFile(path, []byte("print(1);"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "dir.trust"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	tests := []struct {
		name          string
		searchName    string
		shouldFind    bool
		expectedMatch string
	}{
		{"exact match", "Hello.trust", true, "Hello.trust"},
		{"lowercase search", "hello.trust", true, "Hello.trust"},
		{"uppercase search", "LOWER.TRUST", true, "lower.trust"},
		{"mixed case search", "Upper.Trust", true, "UPPER.TRUST"},
		{"not found", "missing.trust", false, ""},
		{"directories are skipped", "dir.trust", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FindFileCaseInsensitive(tmpDir, tt.searchName)
			if !tt.shouldFind {
				if err == nil {
					t.Errorf("Expected error for %q, got %q", tt.searchName, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if filepath.Base(result) != tt.expectedMatch {
				t.Errorf("Expected %q, got %q", tt.expectedMatch, filepath.Base(result))
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	tmpDir := t.TempDir()
	actual := filepath.Join(tmpDir, "Main.trust")
	if err := os.WriteFile(actual, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	got, err := ResolvePath(actual)
	if err != nil || got != actual {
		t.Errorf("ResolvePath(existing) = %q, %v", got, err)
	}

	got, err = ResolvePath(filepath.Join(tmpDir, "main.TRUST"))
	if err != nil || got != actual {
		t.Errorf("ResolvePath(other case) = %q, %v", got, err)
	}

	if _, err := ResolvePath(filepath.Join(tmpDir, "none.trust")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello.trust", "hello"},
		{filepath.Join("dir", "prog.tr"), filepath.Join("dir", "prog")},
		{filepath.Join("a.b", "prog.x.trust"), filepath.Join("a.b", "prog.x")},
		{"noext", "noext.out"},
		{".hidden", ".hidden.out"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScratch(t *testing.T) {
	s, err := NewScratch("trustc-test-*")
	if err != nil {
		t.Fatalf("NewScratch: %v", err)
	}
	dir := s.Dir()

	path, err := s.WriteFile("output.ll", []byte("; ModuleID = 'x'\n"))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("file written outside scratch dir: %s", path)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "; ModuleID = 'x'\n" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("scratch dir still exists after Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
