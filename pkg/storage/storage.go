package storage

import (
	"context"
	"io"
)

// UploadFile carries an already-parsed upload: the transport layer is
// responsible for multipart decoding and for filtering zero-byte entries.
type UploadFile struct {
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
}

// StoredFile is the transfer value returned after a successful save. It is
// not persisted anywhere; the media service consumes it to build a record.
type StoredFile struct {
	URL       string
	Filename  string
	MimeType  string
	SizeBytes int64
}

// FileStorage persists uploaded bytes under a folder and resolves public
// locators back to stored objects. Implementations never touch metadata.
type FileStorage interface {
	Save(ctx context.Context, file UploadFile, folder string) (*StoredFile, error)
	Delete(ctx context.Context, url string) error
}
