package exporter

import (
	"os"
	"sort"
	"time"

	"cleansheet/internal/config"
)

// ExportInfo describes one file in the exports directory
type ExportInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// ListExports returns the files currently in the exports directory, newest
// first. A missing directory is treated as empty.
func ListExports(paths *config.Paths) ([]ExportInfo, error) {
	entries, err := os.ReadDir(paths.ExportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ExportInfo{}, nil
		}
		return nil, err
	}

	infos := make([]ExportInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, ExportInfo{
			Name:    entry.Name(),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ModTime.After(infos[j].ModTime)
	})
	return infos, nil
}
