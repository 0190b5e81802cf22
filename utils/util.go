package utils

import (
	"io"
	"os"
	"path/filepath"
)

// ReadyDir makes sure the parent directory of filename exists
func ReadyDir(filename string) error {
	return os.MkdirAll(filepath.Dir(filename), os.FileMode(0755))
}

// WriteFile fills a temporary sibling of filename with fn and renames it over filename,
// an existing file is replaced only when fn succeeds.
func WriteFile(filename string, fn func(w io.Writer) error) (err error) {
	if err = ReadyDir(filename); err != nil {
		return
	}
	var tmp *os.File
	tmp, err = os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return
	}
	if err = tmp.Chmod(os.FileMode(0644)); err != nil {
		return
	}
	if err = tmp.Close(); err != nil {
		return
	}
	return os.Rename(tmp.Name(), filename)
}

// Exists returns true if a file exists
func Exists(fpath string) bool {
	_, err := os.Stat(fpath)
	return !os.IsNotExist(err)
}

// IsDir ...
func IsDir(fpath string) bool {
	fi, err := os.Stat(fpath)
	return err == nil && fi.Mode().IsDir()
}

// IsRegular ...
func IsRegular(fpath string) bool {
	fi, err := os.Stat(fpath)
	return err == nil && fi.Mode().IsRegular()
}

// IsEmptyDir reports whether dir exists and has no entries
func IsEmptyDir(dir string) bool {
	f, err := os.Open(dir)
	if err != nil {
		return false
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	return err == io.EOF
}
