package tail

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadFromStartNoFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	content := "line one\nline two\nline three\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var lines []string
	tailer := New(Options{
		FilePath:  path,
		FromStart: true,
		Follow:    false,
		LineFunc: func(line string) error {
			lines = append(lines, line)
			return nil
		},
	})

	if err := tailer.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"line one", "line two", "line three"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %v, want %v", lines, want)
	}
}

func TestMissingFile(t *testing.T) {
	tailer := New(Options{
		FilePath: filepath.Join(t.TempDir(), "absent.log"),
		LineFunc: func(string) error { return nil },
	})
	if err := tailer.Run(context.Background()); err == nil {
		t.Error("Run() on missing file did not fail")
	}
}

func TestLineFuncErrorStopsRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0644); err != nil {
		t.Fatal(err)
	}

	calls := 0
	tailer := New(Options{
		FilePath:  path,
		FromStart: true,
		LineFunc: func(string) error {
			calls++
			return os.ErrClosed
		},
	})

	if err := tailer.Run(context.Background()); err == nil {
		t.Error("Run() did not propagate LineFunc error")
	}
	if calls != 1 {
		t.Errorf("LineFunc called %d times after erroring, want 1", calls)
	}
}
