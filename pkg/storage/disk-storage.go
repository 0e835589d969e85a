package storage

import (
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/matst80/slask-catalog/pkg/types"
)

const snapshotFile = "catalog.json.gz"

var ErrNoSnapshot = errors.New("no catalog snapshot stored")

// SaveCatalog replaces the stored snapshot with products.
func (d *DiskStorage) SaveCatalog(products []types.Product) error {
	snapshot := Snapshot{
		SavedAt:  time.Now(),
		Products: products,
	}
	if err := d.SaveGzippedJson(&snapshot, snapshotFile); err != nil {
		return err
	}
	logging.Log.Infof("Saved catalog snapshot with %d products", len(products))
	return nil
}

// LoadCatalog returns the stored snapshot, ErrNoSnapshot if none was saved.
func (d *DiskStorage) LoadCatalog() (*Snapshot, error) {
	snapshot := &Snapshot{}
	if err := d.LoadGzippedJson(snapshot, snapshotFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	if snapshot.Products == nil {
		snapshot.Products = []types.Product{}
	}
	logging.Log.Infof("Loaded catalog snapshot with %d products from %s", len(snapshot.Products), snapshot.SavedAt.Format(time.RFC3339))
	return snapshot, nil
}

func (d *DiskStorage) StreamContent(w io.Writer, fileName string) (int64, error) {
	osFileName := d.GetFileName(fileName)
	file, err := os.Open(osFileName)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return file.WriteTo(w)
}

// StreamCatalog writes the raw gzipped snapshot to w.
func (d *DiskStorage) StreamCatalog(w io.Writer) (int64, error) {
	return d.StreamContent(w, snapshotFile)
}

// SaveGzippedJson writes data to a unique temporary file next to filename and
// renames it into place, so readers never see a partial file.
func (d *DiskStorage) SaveGzippedJson(data any, filename string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	fileName := d.GetFileName(filename)
	if err := os.MkdirAll(path.Dir(fileName), 0o755); err != nil {
		return err
	}

	file, err := os.CreateTemp(path.Dir(fileName), path.Base(fileName)+".tmp-*")
	if err != nil {
		return err
	}
	tmpFileName := file.Name()
	defer runtime.GC()

	zipWriter := gzip.NewWriter(file)
	if err = jsoncompat.NewEncoder(zipWriter).Encode(data); err != nil {
		_ = zipWriter.Close()
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = zipWriter.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = file.Close(); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = os.Rename(tmpFileName, fileName); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	return nil
}

func (d *DiskStorage) LoadGzippedJson(data any, filename string) error {
	name := d.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	defer runtime.GC()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = jsoncompat.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
