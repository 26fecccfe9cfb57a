package document

import (
	"context"
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Fingerprint returns a content hash used to detect unchanged documents
func Fingerprint(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Load reads a document from any afs supported location (file://, mem://, gs://, ...)
func Load(ctx context.Context, fs afs.Service, URL string) ([]byte, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", URL, err)
	}
	return data, nil
}
