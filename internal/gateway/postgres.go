package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syllabusmaster/planner/internal/progress"
)

const dbTimeout = 5 * time.Second

// Postgres is a PostgreSQL-backed Gateway. Each student is one row with a
// jsonb document; the merge-write lands as a jsonb concatenation so only
// top-level fields present in the payload are overwritten, exactly the
// shallow-merge policy of the sync contract.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates the gateway and ensures its table exists.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	_, err := pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS student_progress (
			identifier text PRIMARY KEY,
			doc        jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("ensuring student_progress table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (g *Postgres) Load(ctx context.Context, identifier string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var doc []byte
	err := g.pool.QueryRow(ctx,
		`SELECT doc FROM student_progress WHERE identifier = $1`,
		identifier,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load progress: %w", err)
	}
	return doc, true, nil
}

func (g *Postgres) Save(ctx context.Context, identifier string, p *progress.UserProgress) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding progress: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err = g.pool.Exec(ctx,
		`INSERT INTO student_progress (identifier, doc)
		 VALUES ($1, $2)
		 ON CONFLICT (identifier)
		 DO UPDATE SET doc = student_progress.doc || EXCLUDED.doc,
		               updated_at = now()`,
		identifier,
		doc,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
