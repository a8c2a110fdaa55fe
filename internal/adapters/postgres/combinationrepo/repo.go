package combinationrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/meridian-travel/itinerary-api/internal/adapters/postgres"
	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/combinationrepo"
)

// Repo is a Postgres implementation of combinationrepo.Repository.
// The normalized key is the primary key, so insert-or-conflict races are
// decided by the database.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Insert(ctx context.Context, e domain.CombinationEntry) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO combination_entries (low, high, description, activities, last_edited_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		string(e.Key.Low),
		string(e.Key.High),
		e.Description,
		e.Activities,
		string(e.LastEditedBy),
		e.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "combination_entries_pkey" {
			return combinationrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByKey(ctx context.Context, key domain.CombinationKey) (domain.CombinationEntry, error) {
	if r.pool == nil {
		return domain.CombinationEntry{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT low, high, description, activities, last_edited_by, updated_at
		FROM combination_entries
		WHERE low = $1 AND high = $2
	`, string(key.Low), string(key.High))
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CombinationEntry{}, combinationrepo.ErrNotFound
		}
		return domain.CombinationEntry{}, err
	}
	return e, nil
}

func (r *Repo) Update(ctx context.Context, e domain.CombinationEntry) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE combination_entries
		SET description = $3,
		    activities = $4,
		    last_edited_by = $5,
		    updated_at = $6
		WHERE low = $1 AND high = $2
	`,
		string(e.Key.Low),
		string(e.Key.High),
		e.Description,
		e.Activities,
		string(e.LastEditedBy),
		e.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return combinationrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, key domain.CombinationKey) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM combination_entries
		WHERE low = $1 AND high = $2
	`, string(key.Low), string(key.High))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return combinationrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.CombinationEntry, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT low, high, description, activities, last_edited_by, updated_at
		FROM combination_entries
		ORDER BY low ASC, high ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.CombinationEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(row pgx.Row) (domain.CombinationEntry, error) {
	var e domain.CombinationEntry
	var low, high, editedBy string
	if err := row.Scan(&low, &high, &e.Description, &e.Activities, &editedBy, &e.UpdatedAt); err != nil {
		return domain.CombinationEntry{}, err
	}
	e.Key = domain.CombinationKey{Low: domain.DestinationID(low), High: domain.DestinationID(high)}
	e.LastEditedBy = domain.UserID(editedBy)
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}
