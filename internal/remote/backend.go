package remote

import (
	"context"
	"errors"
	"mime"
	"strings"

	"datewheel/internal/catalog"
)

var ErrNotConfigured = errors.New("remote backend not configured")

// Backend is the optional remote table store.
type Backend interface {
	ListVenues(ctx context.Context) ([]catalog.Venue, error)
	ListDistricts(ctx context.Context) ([]string, error)
	ListMemories(ctx context.Context) ([]catalog.Memory, error)

	InsertVenues(ctx context.Context, venues []catalog.Venue) error
	DeleteVenue(ctx context.Context, id string) error

	InsertDistricts(ctx context.Context, names []string) error
	UpsertDistrict(ctx context.Context, name string, sortOrder int) error
	DeleteDistrict(ctx context.Context, name string) error

	InsertMemory(ctx context.Context, m catalog.Memory) error
	DeleteMemory(ctx context.Context, id string) error
}

// PhotoStore uploads memory photos to object storage and returns their URL.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, path, contentType string, data []byte) (string, error)
}

// PhotoPath names the object for a memory photo: <memoryID>.<ext>
func PhotoPath(memoryID, contentType string) string {
	return memoryID + "." + PhotoExt(contentType)
}

// PhotoExt infers a file extension from a MIME type, defaulting to jpg
func PhotoExt(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok || sub == "" {
		return "jpg"
	}
	if i := strings.IndexAny(sub, "+;"); i > 0 {
		sub = sub[:i]
	}
	return sub
}
