// Package archive extracts SOS archive trees (tar, tar.gz/tgz, zip, nested
// combinations of the above) into a working directory and returns the list
// of regular files discovered, hardened against path-traversal and
// symlink-escape entries.
package archive

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sys/unix"

	"github.com/weaponry/autogrep/internal/log"
)

// nestedSuffixes are the archive extensions recursed into after the initial
// extraction.
var nestedSuffixes = []string{".tar.gz", ".tgz", ".tar", ".zip"}

// Warning is a non-fatal extraction problem: a nested archive that could not
// be extracted. Unsafe entries (absolute or escaping paths) and link entries
// are skipped and only logged; they do not produce a Warning. The caller
// surfaces these as {type:"warning"} events.
type Warning struct {
	Path   string
	Reason string
}

// Result is the outcome of extracting one archive: the root directory
// everything was extracted into, the list of regular files found (paths
// relative to root), and any non-fatal warnings collected along the way.
type Result struct {
	Root     string
	Files    []string
	Warnings []Warning
}

// Extract unpacks archivePath into a fresh temp directory under baseDir
// (os.TempDir() if empty) and recursively extracts any nested archives it
// finds. Fatal errors (bad header, out of disk) are returned as error; a
// nested archive that fails to extract becomes a Warning, and unsafe or link
// entries are skipped with a log line.
func Extract(archivePath, baseDir string) (*Result, error) {
	if err := checkFreeSpace(baseDir, archivePath); err != nil {
		return nil, fmt.Errorf("archive: preflight failed: %w", err)
	}

	root, err := os.MkdirTemp(baseDir, "autogrep-*")
	if err != nil {
		return nil, fmt.Errorf("archive: creating extraction root: %w", err)
	}

	res := &Result{Root: root}
	if err := extractOne(archivePath, root, res); err != nil {
		return nil, err
	}

	if err := extractNestedRecursive(root, res); err != nil {
		return nil, err
	}

	res.Files, err = walkRegularFiles(root)
	if err != nil {
		return nil, fmt.Errorf("archive: walking extracted tree: %w", err)
	}
	return res, nil
}

func extractOne(archivePath, dest string, res *Result) error {
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return extractZip(archivePath, dest)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return extractTarGz(archivePath, dest)
	case strings.HasSuffix(lower, ".tar"):
		return extractTar(archivePath, dest)
	default:
		return fmt.Errorf("archive: unsupported format: %s", archivePath)
	}
}

func extractTarGz(path, dest string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("archive: opening %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("archive: failed to close %s: %s; ignore", path, err)
		}
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("archive: bad gzip header in %s: %w", path, err)
	}
	defer func() { _ = gz.Close() }()

	return extractTarStream(tar.NewReader(gz), dest)
}

func extractTar(path, dest string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("archive: opening %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("archive: failed to close %s: %s; ignore", path, err)
		}
	}()
	return extractTarStream(tar.NewReader(f), dest)
}

func extractTarStream(tr *tar.Reader, dest string) error {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: bad tar header: %w", err)
		}

		if isMacResourceFork(header.Name) {
			continue
		}

		target, ok := safeJoin(dest, header.Name)
		if !ok {
			log.Warnf("archive: rejecting unsafe tar entry %q", header.Name)
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("archive: creating dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeRegularFile(target, tr); err != nil {
				return fmt.Errorf("archive: writing %s: %w", target, err)
			}
		case tar.TypeSymlink, tar.TypeLink:
			log.Warnf("archive: skipping link entry %q", header.Name)
		default:
			// Ignore device/fifo/etc entries, harmless in a log bundle.
		}
	}
}

func extractZip(path, dest string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("archive: bad zip header in %s: %w", path, err)
	}
	defer func() { _ = zr.Close() }()

	for _, zf := range zr.File {
		if isMacResourceFork(zf.Name) {
			continue
		}

		target, ok := safeJoin(dest, zf.Name)
		if !ok {
			log.Warnf("archive: rejecting unsafe zip entry %q", zf.Name)
			continue
		}

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("archive: creating dir %s: %w", target, err)
			}
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("archive: opening zip entry %s: %w", zf.Name, err)
		}
		err = writeRegularFile(target, rc)
		_ = rc.Close()
		if err != nil {
			return fmt.Errorf("archive: writing %s: %w", target, err)
		}
	}
	return nil
}

func writeRegularFile(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, r) // #nosec G110 -- SOS archives are operator-supplied, size bound enforced by caller
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// safeJoin resolves name against root and rejects absolute paths, `..`
// segments that escape root.
func safeJoin(root, name string) (string, bool) {
	if filepath.IsAbs(name) {
		return "", false
	}
	clean := filepath.Clean(filepath.Join(root, name))
	if clean != root && !strings.HasPrefix(clean, root+string(filepath.Separator)) {
		return "", false
	}
	return clean, true
}

func isMacResourceFork(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, "._") || base == ".DS_Store"
}

// extractNestedRecursive finds nested archives within root and recursively
// extracts them into a sibling `<stem>/` directory, then deletes the inner
// archive.
func extractNestedRecursive(root string, res *Result) error {
	for {
		inner, err := findNestedArchive(root)
		if err != nil {
			return err
		}
		if inner == "" {
			return nil
		}

		stem := strings.TrimSuffix(inner, filepath.Ext(inner))
		if strings.HasSuffix(strings.ToLower(inner), ".tar.gz") {
			stem = strings.TrimSuffix(stem, ".tar")
		}
		destDir := stem
		if err := os.MkdirAll(destDir, 0750); err != nil {
			return fmt.Errorf("archive: creating nested extraction dir: %w", err)
		}

		if err := extractOne(inner, destDir, res); err != nil {
			res.Warnings = append(res.Warnings, Warning{Path: inner, Reason: err.Error()})
			log.Warnf("archive: leaving unreadable nested archive in place: %s: %s", inner, err)
			// Rename so the next scan pass doesn't pick the same broken
			// archive back up as "nested" forever.
			if renameErr := os.Rename(inner, inner+".unreadable"); renameErr != nil {
				log.Warnf("archive: failed to mark %s unreadable: %s", inner, renameErr)
				return fmt.Errorf("archive: could not quarantine unreadable nested archive: %w", renameErr)
			}
			continue
		}

		if err := os.Remove(inner); err != nil {
			log.Warnf("archive: failed to remove inner archive %s after extraction: %s; ignore", inner, err)
		}
	}
}

var errFoundNestedArchive = fmt.Errorf("archive: nested archive found")

func findNestedArchive(root string) (string, error) {
	var found string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		lower := strings.ToLower(path)
		for _, suf := range nestedSuffixes {
			if strings.HasSuffix(lower, suf) {
				found = path
				return errFoundNestedArchive
			}
		}
		return nil
	})
	if err != nil && err != errFoundNestedArchive {
		return "", err
	}
	return found, nil
}

func walkRegularFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, rel)
		}
		return nil
	})
	return files, err
}

// checkFreeSpace ensures baseDir's filesystem has at least 3x archivePath's
// size free before extraction starts, using x/sys/unix statfs.
func checkFreeSpace(baseDir, archivePath string) error {
	if baseDir == "" {
		baseDir = os.TempDir()
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(baseDir, &stat); err != nil {
		return fmt.Errorf("statfs %s: %w", baseDir, err)
	}

	available := stat.Bavail * uint64(stat.Bsize)
	needed := uint64(info.Size()) * 3
	if available < needed {
		return fmt.Errorf("insufficient free space in %s: need ~%d bytes, have %d", baseDir, needed, available)
	}
	return nil
}
