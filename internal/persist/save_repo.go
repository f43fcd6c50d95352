package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/arenacore/arena/internal/save"
)

// SaveInfo is the summary row of a stored slot.
type SaveInfo struct {
	ID        uuid.UUID
	Name      string
	Score     int
	Lives     int
	Entities  int
	Digest    string
	UpdatedAt time.Time
}

// PGSaveRepo keeps slots in the saves table with the snapshot as JSONB.
type PGSaveRepo struct {
	db *DB
}

func NewPGSaveRepo(db *DB) *PGSaveRepo {
	return &PGSaveRepo{db: db}
}

func (r *PGSaveRepo) names(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT name FROM saves`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGSaveRepo) NextName(ctx context.Context) (string, error) {
	names, err := r.names(ctx)
	if err != nil {
		return "", err
	}
	return firstFree(names), nil
}

func (r *PGSaveRepo) List(ctx context.Context) ([]string, error) {
	names, err := r.names(ctx)
	if err != nil {
		return nil, err
	}
	return filterSlots(names), nil
}

// Write upserts the slot and appends a save_log row in one transaction.
func (r *PGSaveRepo) Write(ctx context.Context, name string, s *save.State) error {
	if err := ValidName(name); err != nil {
		return err
	}
	data, err := save.Marshal(s)
	if err != nil {
		return err
	}
	digest := s.Digest()
	version := s.Version
	if version == 0 {
		version = save.Version
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO saves (id, name, version, score, lives, entities, digest, data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (name) DO UPDATE SET
		     version = EXCLUDED.version, score = EXCLUDED.score, lives = EXCLUDED.lives,
		     entities = EXCLUDED.entities, digest = EXCLUDED.digest, data = EXCLUDED.data,
		     updated_at = NOW()
		 RETURNING id`,
		uuid.New(), name, version, s.Score, s.Lives, len(s.Entities), digest, data,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("save upsert %s: %w", name, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO save_log (save_id, digest) VALUES ($1, $2)`,
		id, digest,
	); err != nil {
		return fmt.Errorf("save log %s: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("save commit %s: %w", name, err)
	}
	r.db.log.Info("save written",
		zap.String("name", name),
		zap.String("id", id.String()),
		zap.String("digest", digest),
	)
	return nil
}

func (r *PGSaveRepo) Read(ctx context.Context, name string) (*save.State, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	var data []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT data FROM saves WHERE name = $1`, name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, name)
		}
		return nil, fmt.Errorf("read save %s: %w", name, err)
	}
	s, err := save.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("read save %s: %w", name, err)
	}
	return s, nil
}

// Info returns the summary of every stored slot, newest first.
func (r *PGSaveRepo) Info(ctx context.Context) ([]SaveInfo, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, score, lives, entities, digest, updated_at
		 FROM saves ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list save info: %w", err)
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		var si SaveInfo
		if err := rows.Scan(&si.ID, &si.Name, &si.Score, &si.Lives, &si.Entities, &si.Digest, &si.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, si)
	}
	return out, rows.Err()
}

// Delete removes a slot.
func (r *PGSaveRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM saves WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete save %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrSaveNotFound, name)
	}
	return nil
}
