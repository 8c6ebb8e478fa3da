package ports

import (
	"context"
	"io"
)

// ImageStore abstracts the object-storage provider that holds book cover
// images. The rest of the system only ever consumes the returned URL.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (url string, err error)
}
