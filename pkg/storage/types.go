package storage

import (
	"path"
	"sync"
	"time"

	"github.com/matst80/slask-catalog/pkg/types"
)

type DiskStorage struct {
	Country    string
	RootFolder string

	// serializes writers so the last save wins as a whole file
	mu sync.Mutex
}

func NewDiskStorage(country, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Country:    country,
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) string {
	return path.Join(ds.RootFolder, ds.Country, name)
}

// Snapshot is the flattened product list as last loaded from the remote catalog.
type Snapshot struct {
	SavedAt  time.Time       `json:"savedAt"`
	Products []types.Product `json:"products"`
}
