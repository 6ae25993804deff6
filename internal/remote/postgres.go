package remote

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datewheel/internal/catalog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres is a Backend over a directly reachable Postgres database with the
// same three tables the hosted backend exposes.
type Postgres struct {
	pool *pgxpool.Pool
}

func ConnectPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

// Migrate applies the embedded migrations in name order
func (p *Postgres) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := p.pool.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

func (p *Postgres) ListVenues(ctx context.Context) ([]catalog.Venue, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, district, category, tags, is_custom FROM venues ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []catalog.Venue
	for rows.Next() {
		var r venueRow
		if err := rows.Scan(&r.ID, &r.Name, &r.District, &r.Category, &r.Tags, &r.IsCustom); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, rowToVenue(r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

func (p *Postgres) ListDistricts(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT name FROM districts ORDER BY sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	return names, nil
}

func (p *Postgres) ListMemories(ctx context.Context) ([]catalog.Memory, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, venue_id, venue_name, to_char(date, 'YYYY-MM-DD'), note, image_url
		 FROM memories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	var memories []catalog.Memory
	for rows.Next() {
		var r memoryRow
		if err := rows.Scan(&r.ID, &r.VenueID, &r.VenueName, &r.Date, &r.Note, &r.ImageURL); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memories = append(memories, rowToMemory(r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	return memories, nil
}

func (p *Postgres) InsertVenues(ctx context.Context, venues []catalog.Venue) error {
	if len(venues) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range venuesToRows(venues, time.Now()) {
		batch.Queue(
			`INSERT INTO venues (id, name, district, category, tags, is_custom, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			r.ID, r.Name, r.District, r.Category, r.Tags, r.IsCustom, *r.CreatedAt,
		)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert venues: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteVenue(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	return nil
}

func (p *Postgres) InsertDistricts(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range districtsToRows(names) {
		batch.Queue(`INSERT INTO districts (name, sort_order) VALUES ($1, $2)`, r.Name, r.SortOrder)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert districts: %w", err)
	}
	return nil
}

func (p *Postgres) UpsertDistrict(ctx context.Context, name string, sortOrder int) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO districts (name, sort_order) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET sort_order = EXCLUDED.sort_order`,
		name, sortOrder)
	if err != nil {
		return fmt.Errorf("upsert district: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteDistrict(ctx context.Context, name string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM districts WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete district: %w", err)
	}
	return nil
}

func (p *Postgres) InsertMemory(ctx context.Context, m catalog.Memory) error {
	r := memoryToRow(m)
	_, err := p.pool.Exec(ctx,
		`INSERT INTO memories (id, venue_id, venue_name, date, note, image_url) VALUES ($1, $2, $3, $4::date, $5, $6)`,
		r.ID, r.VenueID, r.VenueName, r.Date, r.Note, r.ImageURL)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteMemory(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM memories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return nil
}
