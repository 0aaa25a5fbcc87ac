package install

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrBinaryNotFound is returned when an archive has no member with the
// requested name.
var ErrBinaryNotFound = errors.New("binary not found in archive")

// ExtractBinary copies the regular file named binaryName (at any depth) out
// of the tar.gz at archivePath into destPath with mode 0755. The file is
// written next to destPath and renamed into place.
func ExtractBinary(archivePath, destPath, binaryName string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return fmt.Errorf("%w: %s", ErrBinaryNotFound, binaryName)
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		if err := checkMemberPath(header.Name); err != nil {
			return err
		}

		if header.Typeflag != tar.TypeReg || path.Base(header.Name) != binaryName {
			continue
		}

		return writeExecutable(tarReader, destPath)
	}
}

// checkMemberPath rejects absolute member names and names that climb out of
// the archive root.
func checkMemberPath(name string) error {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("illegal file path in archive: %s", name)
	}
	return nil
}

func writeExecutable(r io.Reader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".incomplete"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		out.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	// The umask may have narrowed the mode given to OpenFile.
	if err := os.Chmod(tmpPath, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
