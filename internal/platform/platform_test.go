package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenDirectory_Empty(t *testing.T) {
	if err := OpenDirectory(context.Background(), "  "); !errors.Is(err, ErrNoDirectory) {
		t.Fatalf("err = %v, want ErrNoDirectory", err)
	}
}

func TestOpenDirectory_CreatesAndRuns(t *testing.T) {
	var gotName string
	var gotArgs []string
	orig := run
	run = func(ctx context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	t.Cleanup(func() { run = orig })
	stubFileManager(t, errors.New("no file manager"))

	dir := filepath.Join(t.TempDir(), "logs")
	if err := OpenDirectory(context.Background(), dir); err != nil {
		t.Fatalf("OpenDirectory: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	if gotName == "" || len(gotArgs) != 1 || gotArgs[0] != dir {
		t.Fatalf("opener = %q %v", gotName, gotArgs)
	}
}

func TestFolderURI(t *testing.T) {
	if got := folderURI("/home/u/my logs"); got != "file:///home/u/my%20logs" {
		t.Fatalf("folderURI = %q", got)
	}
}
