package remote

import (
	"bytes"
	"context"
	"fmt"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"
	storage "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"datewheel/internal/catalog"
)

const (
	tableVenues    = "venues"
	tableDistricts = "districts"
	tableMemories  = "memories"

	DefaultBucket = "memories"
)

// Supabase talks to the venues/districts/memories tables over PostgREST and
// stores photos in a public storage bucket.
type Supabase struct {
	client *supabase.Client
	bucket string
}

func NewSupabase(url, key, bucket string) (*Supabase, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Supabase{client: client, bucket: bucket}, nil
}

// ListVenues returns venues oldest first
func (s *Supabase) ListVenues(ctx context.Context) ([]catalog.Venue, error) {
	var rows []venueRow
	err := withContext(ctx, func() error {
		_, err := s.client.From(tableVenues).
			Select("*", "", false).
			Order("created_at", &postgrest.OrderOpts{Ascending: true}).
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}

	venues := make([]catalog.Venue, len(rows))
	for i, r := range rows {
		venues[i] = rowToVenue(r)
	}
	return venues, nil
}

// ListDistricts returns district names in sort order
func (s *Supabase) ListDistricts(ctx context.Context) ([]string, error) {
	var rows []districtRow
	err := withContext(ctx, func() error {
		_, err := s.client.From(tableDistricts).
			Select("name", "", false).
			Order("sort_order", &postgrest.OrderOpts{Ascending: true}).
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

// ListMemories returns memories newest first
func (s *Supabase) ListMemories(ctx context.Context) ([]catalog.Memory, error) {
	var rows []memoryRow
	err := withContext(ctx, func() error {
		_, err := s.client.From(tableMemories).
			Select("*", "", false).
			Order("created_at", &postgrest.OrderOpts{Ascending: false}).
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}

	memories := make([]catalog.Memory, len(rows))
	for i, r := range rows {
		memories[i] = rowToMemory(r)
	}
	return memories, nil
}

func (s *Supabase) InsertVenues(ctx context.Context, venues []catalog.Venue) error {
	if len(venues) == 0 {
		return nil
	}
	return s.exec(ctx, "insert venues", func() *postgrest.FilterBuilder {
		return s.client.From(tableVenues).Insert(venuesToRows(venues, time.Now()), false, "", "minimal", "")
	})
}

func (s *Supabase) DeleteVenue(ctx context.Context, id string) error {
	return s.exec(ctx, "delete venue", func() *postgrest.FilterBuilder {
		return s.client.From(tableVenues).Delete("minimal", "").Eq("id", id)
	})
}

func (s *Supabase) InsertDistricts(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return s.exec(ctx, "insert districts", func() *postgrest.FilterBuilder {
		return s.client.From(tableDistricts).Insert(districtsToRows(names), false, "", "minimal", "")
	})
}

func (s *Supabase) UpsertDistrict(ctx context.Context, name string, sortOrder int) error {
	return s.exec(ctx, "upsert district", func() *postgrest.FilterBuilder {
		return s.client.From(tableDistricts).Upsert(districtRow{Name: name, SortOrder: sortOrder}, "name", "minimal", "")
	})
}

func (s *Supabase) DeleteDistrict(ctx context.Context, name string) error {
	return s.exec(ctx, "delete district", func() *postgrest.FilterBuilder {
		return s.client.From(tableDistricts).Delete("minimal", "").Eq("name", name)
	})
}

func (s *Supabase) InsertMemory(ctx context.Context, m catalog.Memory) error {
	return s.exec(ctx, "insert memory", func() *postgrest.FilterBuilder {
		return s.client.From(tableMemories).Insert(memoryToRow(m), false, "", "minimal", "")
	})
}

func (s *Supabase) DeleteMemory(ctx context.Context, id string) error {
	return s.exec(ctx, "delete memory", func() *postgrest.FilterBuilder {
		return s.client.From(tableMemories).Delete("minimal", "").Eq("id", id)
	})
}

// UploadPhoto stores data in the bucket, overwriting any object at path,
// and returns its public URL.
func (s *Supabase) UploadPhoto(ctx context.Context, path, contentType string, data []byte) (string, error) {
	upsert := true
	err := withContext(ctx, func() error {
		_, err := s.client.Storage.UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("upload photo %s: %w", path, err)
	}
	return s.client.Storage.GetPublicUrl(s.bucket, path).SignedURL, nil
}

func (s *Supabase) exec(ctx context.Context, what string, build func() *postgrest.FilterBuilder) error {
	err := withContext(ctx, func() error {
		_, _, err := build().Execute()
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// withContext runs a blocking client call, giving up when ctx is done.
// The supabase client has no context support, so an abandoned call finishes
// in the background.
func withContext(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
