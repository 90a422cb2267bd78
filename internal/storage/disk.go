package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// SQLite keeps uncommitted pages next to the database in WAL mode.
var sqliteCompanions = []string{"", "-wal", "-shm"}

// DiskUsage is the on-disk footprint of the record store and the search index.
type DiskUsage struct {
	StoreBytes int64
	IndexBytes int64
}

// Total returns store and index bytes together.
func (u DiskUsage) Total() int64 {
	return u.StoreBytes + u.IndexBytes
}

// MeasureDiskUsage sizes the SQLite database at dbPath with its journal files and the
// index directory at indexPath. Missing paths count as zero. An empty path means the
// component lives in memory.
func MeasureDiskUsage(dbPath, indexPath string) (DiskUsage, error) {
	var u DiskUsage
	if dbPath != "" {
		for _, suffix := range sqliteCompanions {
			n, err := pathSize(dbPath + suffix)
			if err != nil {
				return DiskUsage{}, err
			}
			u.StoreBytes += n
		}
	}
	if indexPath != "" {
		n, err := pathSize(indexPath)
		if err != nil {
			return DiskUsage{}, err
		}
		u.IndexBytes = n
	}
	return u, nil
}

func pathSize(p string) (int64, error) {
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	var total int64
	err = filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	return total, err
}
