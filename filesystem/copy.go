package filesystem

import (
	"io"
	"os"
	"path/filepath"

	billy "gopkg.in/src-d/go-billy.v4"
)

// Copy copies src on the local filesystem to dest, in the destFs filesystem,
// skipping any directory whose name is in the skip set
func Copy(src, dest string, destFs billy.Filesystem, skip map[string]bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return copy(src, dest, info, destFs, skip)
}

func copy(src, dest string, info os.FileInfo, destFs billy.Filesystem, skip map[string]bool) error {
	if info.IsDir() {
		return dcopy(src, dest, info, destFs, skip)
	}
	return fcopy(src, dest, destFs)
}

func fcopy(src, dest string, destFs billy.Filesystem) error {
	f, err := destFs.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := os.Open(src)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = io.Copy(f, s)
	return err
}

func dcopy(src, dest string, info os.FileInfo, destFs billy.Filesystem, skip map[string]bool) error {
	if err := destFs.MkdirAll(dest, info.Mode()); err != nil {
		return err
	}

	infos, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range infos {
		if entry.IsDir() && skip[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if err := copy(
			filepath.Join(src, entry.Name()),
			filepath.Join(dest, entry.Name()),
			info,
			destFs,
			skip,
		); err != nil {
			return err
		}
	}

	return nil
}
