package catalogue

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinsight/compliance-review/internal/types"
)

// LoadPostgres builds a catalogue from the compliance_references table. The
// connection pool is used only for the duration of the load; the catalogue is
// a point-in-time snapshot and does not observe later table changes.
func LoadPostgres(ctx context.Context, databaseURL string) (*Catalogue, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &UnavailableError{Source: "postgres", Err: fmt.Errorf("failed to connect: %w", err)}
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, &UnavailableError{Source: "postgres", Err: fmt.Errorf("failed to ping database: %w", err)}
	}

	rows, err := pool.Query(ctx,
		`SELECT id, title, content FROM compliance_references ORDER BY id`)
	if err != nil {
		return nil, &UnavailableError{Source: "postgres", Err: fmt.Errorf("failed to query references: %w", err)}
	}
	defer rows.Close()

	var refs []types.ComplianceReference
	for rows.Next() {
		var ref types.ComplianceReference
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.Content); err != nil {
			return nil, &UnavailableError{Source: "postgres", Err: fmt.Errorf("failed to scan reference: %w", err)}
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, &UnavailableError{Source: "postgres", Err: err}
	}

	cat, err := New(refs)
	if err != nil {
		return nil, &UnavailableError{Source: "postgres", Err: err}
	}
	return cat, nil
}
