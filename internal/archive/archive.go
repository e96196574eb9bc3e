// Package archive implements Zephir's bundle codec: a tar stream wrapped in
// a zstd streaming-compression envelope (spec.md §4.1). Compression is
// grounded on the teacher's internal/cacheitem package; the sanitizer rules
// below follow original_source/src/compress/compress_zstd.rs, the Rust
// implementation this spec was distilled from.
package archive

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/moby/sys/sequential"

	"github.com/zephir-project/zephir/internal/zerrors"
)

// CompressDir walks srcDir and writes its contents as a zstd-compressed tar
// stream to dstFile. The root of srcDir itself is not included as an entry.
//
// level is the zstd compression level handed to zstd.NewWriterLevel.
func CompressDir(srcDir string, dstFile string, level int) error {
	f, err := os.Create(dstFile)
	if err != nil {
		return zerrors.IO("creating bundle file "+dstFile, err)
	}
	defer f.Close()

	zw := zstd.NewWriterLevel(f, level)
	tw := tar.NewWriter(zw)

	walkErr := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			hdr := &tar.Header{
				Name:     rel + "/",
				Typeflag: tar.TypeDir,
				Mode:     int64(info.Mode().Perm()),
			}
			return tw.WriteHeader(hdr)
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		// Only regular files carry a body; a symlink is written as a bare
		// header, which DecompressToDir then rejects.
		if !info.Mode().IsRegular() {
			return nil
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(tw, in)
		return err
	})
	if walkErr != nil {
		return zerrors.IO("walking "+srcDir, walkErr)
	}

	if err := tw.Close(); err != nil {
		return zerrors.IO("closing tar writer", err)
	}
	if err := zw.Close(); err != nil {
		return zerrors.IO("closing zstd writer", err)
	}
	return nil
}

// sanitizeEntryPath applies spec.md §4.1's sanitizer rules to a tar entry
// name, returning the path it resolves to beneath dest.
//
//   - an absolute entry name fails as invalid-input
//   - a ".." path component fails as invalid-input
//   - empty and "." components are skipped; the name is split on "/" only,
//     and no other component (such as a Windows volume name) is rejected
//     here beyond the absolute-path check above
//   - a sanitized path that would not stay beneath dest fails as
//     permission-denied
func sanitizeEntryPath(entryName string, dest string) (string, error) {
	if filepath.IsAbs(entryName) || strings.HasPrefix(entryName, "/") {
		return "", zerrors.Archive("sanitize path", zerrors.ReasonInvalidInput, errAbsolutePath)
	}

	safe := dest
	for _, comp := range strings.Split(entryName, "/") {
		switch comp {
		case "", ".":
			continue
		case "..":
			return "", zerrors.Archive("sanitize path", zerrors.ReasonInvalidInput, errParentComponent)
		default:
			safe = filepath.Join(safe, comp)
		}
	}

	destWithSep := dest
	if !strings.HasSuffix(destWithSep, string(filepath.Separator)) {
		destWithSep += string(filepath.Separator)
	}
	if safe != dest && !strings.HasPrefix(safe, destWithSep) {
		return "", zerrors.Archive("sanitize path", zerrors.ReasonPermissionDenied, errEscapesDest)
	}

	return safe, nil
}

// DecompressToDir reads the zstd-compressed tar stream at srcFile and
// restores it beneath dstDir, applying sanitizeEntryPath to every entry and
// rejecting symlinks outright (spec.md §4.1 — a deliberate divergence from
// the teacher's own cache restore, which defers and restores symlinks).
func DecompressToDir(srcFile string, dstDir string) error {
	if err := os.MkdirAll(dstDir, 0775); err != nil {
		return zerrors.IO("creating destination "+dstDir, err)
	}

	f, err := sequential.OpenFile(srcFile, os.O_RDONLY, 0)
	if err != nil {
		return zerrors.IO("opening bundle file "+srcFile, err)
	}
	defer f.Close()

	zr := zstd.NewReader(f)
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return zerrors.Archive("reading tar entry", zerrors.ReasonOther, err)
		}

		safePath, err := sanitizeEntryPath(hdr.Name, dstDir)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(safePath, os.FileMode(hdr.Mode)|0700); err != nil {
				return zerrors.IO("creating directory "+safePath, err)
			}
			continue
		case tar.TypeSymlink, tar.TypeLink:
			return zerrors.Archive("restoring "+hdr.Name, zerrors.ReasonOther, errSymlinkRejected)
		case tar.TypeReg:
			// fall through to file restore below
		default:
			return zerrors.Archive("restoring "+hdr.Name, zerrors.ReasonOther, errUnsupportedType)
		}

		if parent := filepath.Dir(safePath); parent != "" {
			if err := os.MkdirAll(parent, 0775); err != nil {
				return zerrors.IO("creating parent directory "+parent, err)
			}
		}

		out, err := os.Create(safePath)
		if err != nil {
			return zerrors.IO("creating file "+safePath, err)
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return zerrors.IO("writing file "+safePath, err)
		}
		if err := out.Close(); err != nil {
			return zerrors.IO("closing file "+safePath, err)
		}
		// Mode reapplication happens after close, operating on the path
		// rather than the still-open handle; see DESIGN.md's Open
		// Questions for why this matches the original and is not treated
		// as a defect here.
		if err := os.Chmod(safePath, os.FileMode(hdr.Mode)); err != nil {
			return zerrors.IO("setting mode on "+safePath, err)
		}
	}

	return nil
}
