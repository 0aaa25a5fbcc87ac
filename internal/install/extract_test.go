package install

import (
	"archive/tar"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExtractBinary(t *testing.T) {
	dir := t.TempDir()
	archive := writeTarGz(t, dir, "spkdl.tar.gz", []tarEntry{
		{name: "README.md", body: "docs"},
		{name: "spkdl_Linux_x86_64/", typeflag: tar.TypeDir, mode: 0755},
		{name: "spkdl_Linux_x86_64/spkdl", body: "binary content", mode: 0644},
	})

	dest := filepath.Join(dir, "prefix", "bin", "spkdl")
	if err := ExtractBinary(archive, dest, "spkdl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "binary content" {
		t.Errorf("content = %q", content)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dest)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0755 {
			t.Errorf("mode = %v, want 0755", info.Mode().Perm())
		}
	}
	if _, err := os.Stat(dest + ".incomplete"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind")
	}
}

func TestExtractBinaryReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	archive := writeTarGz(t, dir, "a.tar.gz", []tarEntry{{name: "spkdl", body: "new"}})

	dest := filepath.Join(dir, "spkdl")
	if err := os.WriteFile(dest, []byte("old"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := ExtractBinary(archive, dest, "spkdl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, _ := os.ReadFile(dest)
	if string(content) != "new" {
		t.Errorf("content = %q, want new", content)
	}
}

func TestExtractBinaryNotFound(t *testing.T) {
	dir := t.TempDir()
	archive := writeTarGz(t, dir, "a.tar.gz", []tarEntry{
		{name: "other", body: "x"},
		// A directory with the binary's name is not the binary.
		{name: "spkdl/", typeflag: tar.TypeDir, mode: 0755},
	})

	dest := filepath.Join(dir, "bin", "spkdl")
	err := ExtractBinary(archive, dest, "spkdl")
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("error = %v, want ErrBinaryNotFound", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("destination created for missing binary")
	}
}

func TestExtractBinaryRejectsTraversal(t *testing.T) {
	for _, name := range []string{"../spkdl", "/etc/spkdl", "a/../../spkdl"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			archive := writeTarGz(t, dir, "evil.tar.gz", []tarEntry{{name: name, body: "x"}})

			err := ExtractBinary(archive, filepath.Join(dir, "out", "spkdl"), "spkdl")
			if err == nil {
				t.Fatal("expected error for traversal path")
			}
			if errors.Is(err, ErrBinaryNotFound) {
				t.Errorf("traversal reported as not found: %v", err)
			}
		})
	}
}

func TestExtractBinaryNotGzip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "plain")
	if err := os.WriteFile(archive, []byte("not gzip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ExtractBinary(archive, filepath.Join(dir, "spkdl"), "spkdl"); err == nil {
		t.Fatal("expected error for non-gzip input")
	}
}
