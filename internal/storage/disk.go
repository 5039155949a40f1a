package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskUsageBytes returns the combined size of the database file and its WAL
// and shared-memory companions. Missing files count as zero.
func DiskUsageBytes(dbPath string) (int64, error) {
	if dbPath == "" {
		return 0, nil
	}
	return pathsSize(dbPath, dbPath+"-wal", dbPath+"-shm")
}

// pathsSize sums the sizes of files and, recursively, directories.
func pathsSize(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		err := filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
			return nil
		})
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
