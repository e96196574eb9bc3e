package unpack

import (
	"io"
	"os"
	"path/filepath"
)

// copyDirRecursive copies the contents of src into dst, matching
// original_source/src/utils/fs/fs_crud.rs's copy_dir_recursive: used to
// materialize a sandbox directory from an already-populated artifact cache
// entry without re-decompressing the bundle.
func copyDirRecursive(src string, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(from string, to string, mode os.FileMode) error {
	if dir := filepath.Dir(to); dir != "" {
		if err := os.MkdirAll(dir, 0775); err != nil {
			return err
		}
	}
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
