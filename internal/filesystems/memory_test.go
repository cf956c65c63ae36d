package filesystems_test

import (
	"slices"
	"testing"

	"github.com/railwayapp/includecase/internal/filesystems"
)

func TestMemoryFS_AddFile(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("src/main.c", []byte("int main(void) { return 0; }"))

	result, err := mfs.ReadFile("src/main.c")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(result) != "int main(void) { return 0; }" {
		t.Fatalf("unexpected content %q", result)
	}
}

func TestMemoryFS_ReadFile_NotFound(t *testing.T) {
	mfs := filesystems.NewMemoryFS()

	if _, err := mfs.ReadFile("nonexistent.h"); err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestMemoryFS_WriteFile(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("a.c", []byte("old"))

	if err := mfs.WriteFile("a.c", []byte("new")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, _ := mfs.ReadFile("a.c")
	if string(got) != "new" {
		t.Errorf("expected 'new', got %q", got)
	}

	if err := mfs.WriteFile("missing.c", []byte("x")); err == nil {
		t.Error("expected error writing a file that does not exist")
	}
}

func TestMemoryFS_ReadDir(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("b.h", nil)
	mfs.AddFile("a.c", nil)
	mfs.AddDir("include")
	mfs.AddFile("include/Foo.h", nil)

	var names []string
	for entry, err := range mfs.ReadDir(".") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		names = append(names, entry.Name())
	}

	expected := []string{"a.c", "b.h", "include"}
	if !slices.Equal(names, expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
}

func TestMemoryFS_ReadDir_Missing(t *testing.T) {
	mfs := filesystems.NewMemoryFS()

	for _, err := range mfs.ReadDir("nope") {
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
	}
}

func TestMemoryFS_Walk(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.c", nil)
	mfs.AddFile("lib/util.c", nil)
	mfs.AddFile("lib/include/Util.h", nil)

	var visited []string
	err := mfs.Walk(".", func(path string, info filesystems.FileInfo, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, path)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{".", "lib", "lib/include", "lib/include/Util.h", "lib/util.c", "main.c"}
	if !slices.Equal(visited, expected) {
		t.Fatalf("expected %v, got %v", expected, visited)
	}
}

func TestMemoryFS_Walk_SkipDir(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.c", nil)
	mfs.AddFile("vendor/x.h", nil)

	var visited []string
	err := mfs.Walk(".", func(path string, info filesystems.FileInfo, err error) error {
		if info.IsDir() && path == "vendor" {
			return filesystems.SkipDir
		}
		visited = append(visited, path)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slices.Contains(visited, "vendor/x.h") {
		t.Errorf("expected vendor/ to be skipped, visited %v", visited)
	}
}

func TestMemoryFS_Rel(t *testing.T) {
	mfs := filesystems.NewMemoryFS()

	cases := []struct {
		base, target, want string
	}{
		{".", "a/b.h", "a/b.h"},
		{"a", "a/b.h", "b.h"},
		{"a", "a", "."},
	}
	for _, tc := range cases {
		got, err := mfs.Rel(tc.base, tc.target)
		if err != nil {
			t.Fatalf("Rel(%q, %q) failed: %v", tc.base, tc.target, err)
		}
		if got != tc.want {
			t.Errorf("Rel(%q, %q) = %q, want %q", tc.base, tc.target, got, tc.want)
		}
	}

	if _, err := mfs.Rel("a", "b/c.h"); err == nil {
		t.Error("expected error for target outside base")
	}
}
