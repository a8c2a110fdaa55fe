package itineraryrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/meridian-travel/itinerary-api/internal/adapters/postgres"
	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/itineraryrepo"
)

// Repo is a Postgres implementation of itineraryrepo.Repository. The whole
// graph (itinerary, days, day destinations, travelers) is written in one
// transaction, and uniqueness of both the ID and the public code is enforced
// by constraints, so concurrent code allocations are decided by the database.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *Repo) Create(ctx context.Context, it domain.Itinerary) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(it.ID))
	if err != nil {
		return fmt.Errorf("invalid itinerary id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO itineraries (
				id,
				unique_code,
				strategy,
				status,
				departure_date,
				duration_days,
				return_date,
				can_edit_after_completion,
				created_by,
				assigned_to,
				is_deleted,
				inclusions,
				exclusions,
				created_at,
				updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		`,
			id,
			it.UniqueCode,
			string(it.Strategy),
			string(it.Status),
			dateOf(it.DepartureDate),
			it.DurationDays,
			dateOf(it.ReturnDate),
			it.CanEditAfterCompletion,
			string(it.CreatedBy),
			userIDPtr(it.AssignedTo),
			it.IsDeleted,
			stringSlice(it.Inclusions),
			stringSlice(it.Exclusions),
			it.CreatedAt.UTC(),
			it.UpdatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				switch pe.ConstraintName {
				case "itineraries_pkey":
					return itineraryrepo.ErrAlreadyExists
				case "itineraries_unique_code_key":
					return itineraryrepo.ErrCodeTaken
				}
			}
			return err
		}
		return insertChildren(ctx, tx, id, it)
	})
}

func (r *Repo) Save(ctx context.Context, it domain.Itinerary) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(it.ID))
	if err != nil {
		return itineraryrepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE itineraries
			SET unique_code = $2,
			    strategy = $3,
			    status = $4,
			    departure_date = $5,
			    duration_days = $6,
			    return_date = $7,
			    can_edit_after_completion = $8,
			    created_by = $9,
			    assigned_to = $10,
			    is_deleted = $11,
			    inclusions = $12,
			    exclusions = $13,
			    updated_at = $14
			WHERE id = $1
		`,
			id,
			it.UniqueCode,
			string(it.Strategy),
			string(it.Status),
			dateOf(it.DepartureDate),
			it.DurationDays,
			dateOf(it.ReturnDate),
			it.CanEditAfterCompletion,
			string(it.CreatedBy),
			userIDPtr(it.AssignedTo),
			it.IsDeleted,
			stringSlice(it.Inclusions),
			stringSlice(it.Exclusions),
			it.UpdatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "itineraries_unique_code_key" {
				return itineraryrepo.ErrCodeTaken
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return itineraryrepo.ErrNotFound
		}

		// Replace the child rows wholesale; the day FK cascade clears the
		// per-day destination associations.
		if _, err := tx.Exec(ctx, `DELETE FROM itinerary_days WHERE itinerary_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM travelers WHERE itinerary_id = $1`, id); err != nil {
			return err
		}
		return insertChildren(ctx, tx, id, it)
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.ItineraryID) (domain.Itinerary, error) {
	if r.pool == nil {
		return domain.Itinerary{}, errors.New("nil postgres pool")
	}
	itinUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Itinerary{}, itineraryrepo.ErrNotFound
	}
	return loadGraph(ctx, r.pool, itinUUID)
}

func (r *Repo) CodeExists(ctx context.Context, code string) (bool, error) {
	if r.pool == nil {
		return false, errors.New("nil postgres pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM itineraries WHERE unique_code = $1)
	`, code).Scan(&exists)
	return exists, err
}

func (r *Repo) List(ctx context.Context) ([]domain.Itinerary, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id
		FROM itineraries
		WHERE NOT is_deleted
		ORDER BY departure_date ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Itinerary, 0, len(ids))
	for _, id := range ids {
		it, err := loadGraph(ctx, r.pool, id)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func loadGraph(ctx context.Context, q querier, id uuid.UUID) (domain.Itinerary, error) {
	row := q.QueryRow(ctx, `
		SELECT
			unique_code,
			strategy,
			status,
			departure_date,
			duration_days,
			return_date,
			can_edit_after_completion,
			created_by,
			assigned_to,
			is_deleted,
			inclusions,
			exclusions,
			created_at,
			updated_at
		FROM itineraries
		WHERE id = $1
	`, id)

	var (
		code       string
		strategy   string
		status     string
		departure  pgtype.Date
		duration   int
		returnDate pgtype.Date
		override   bool
		createdBy  string
		assignedTo *string
		isDeleted  bool
		inclusions []string
		exclusions []string
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(
		&code,
		&strategy,
		&status,
		&departure,
		&duration,
		&returnDate,
		&override,
		&createdBy,
		&assignedTo,
		&isDeleted,
		&inclusions,
		&exclusions,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, itineraryrepo.ErrNotFound
		}
		return domain.Itinerary{}, err
	}

	days, err := loadDays(ctx, q, id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	travelers, err := loadTravelers(ctx, q, id)
	if err != nil {
		return domain.Itinerary{}, err
	}

	it := domain.Itinerary{
		ID:                     domain.ItineraryID(id.String()),
		UniqueCode:             code,
		Strategy:               domain.CreationStrategy(strategy),
		Status:                 domain.ItineraryStatus(status),
		DepartureDate:          dateToTime(departure),
		DurationDays:           duration,
		ReturnDate:             dateToTime(returnDate),
		CanEditAfterCompletion: override,
		CreatedBy:              domain.UserID(createdBy),
		IsDeleted:              isDeleted,
		Inclusions:             emptyToNil(inclusions),
		Exclusions:             emptyToNil(exclusions),
		Days:                   days,
		Travelers:              travelers,
		CreatedAt:              createdAt.UTC(),
		UpdatedAt:              updatedAt.UTC(),
	}
	if assignedTo != nil {
		v := domain.UserID(*assignedTo)
		it.AssignedTo = &v
	}
	return it, nil
}

func loadDays(ctx context.Context, q querier, id uuid.UUID) ([]domain.ItineraryDay, error) {
	rows, err := q.Query(ctx, `
		SELECT day_number, day_date, description_text, description_is_custom,
		       activities_text, activities_is_custom, accommodation_id
		FROM itinerary_days
		WHERE itinerary_id = $1
		ORDER BY day_number ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []domain.ItineraryDay
	for rows.Next() {
		var (
			d       domain.ItineraryDay
			dayDate pgtype.Date
			acc     *string
		)
		if err := rows.Scan(
			&d.DayNumber,
			&dayDate,
			&d.Description.Text,
			&d.Description.IsCustom,
			&d.Activities.Text,
			&d.Activities.IsCustom,
			&acc,
		); err != nil {
			return nil, err
		}
		d.DayDate = dateToTime(dayDate)
		if acc != nil {
			v := domain.AccommodationID(*acc)
			d.AccommodationID = &v
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		dests, err := loadDayDestinations(ctx, q, id, days[i].DayNumber)
		if err != nil {
			return nil, err
		}
		days[i].DestinationIDs = dests
	}
	return days, nil
}

func loadDayDestinations(ctx context.Context, q querier, id uuid.UUID, dayNumber int) ([]domain.DestinationID, error) {
	rows, err := q.Query(ctx, `
		SELECT destination_id
		FROM day_destinations
		WHERE itinerary_id = $1 AND day_number = $2
		ORDER BY position ASC
	`, id, dayNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DestinationID
	for rows.Next() {
		var dest string
		if err := rows.Scan(&dest); err != nil {
			return nil, err
		}
		out = append(out, domain.DestinationID(dest))
	}
	return out, rows.Err()
}

func loadTravelers(ctx context.Context, q querier, id uuid.UUID) ([]domain.Traveler, error) {
	rows, err := q.Query(ctx, `
		SELECT name, email, phone, is_primary
		FROM travelers
		WHERE itinerary_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Traveler
	for rows.Next() {
		var tr domain.Traveler
		if err := rows.Scan(&tr.Name, &tr.Email, &tr.Phone, &tr.IsPrimary); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func insertChildren(ctx context.Context, tx pgx.Tx, id uuid.UUID, it domain.Itinerary) error {
	for _, d := range it.Days {
		_, err := tx.Exec(ctx, `
			INSERT INTO itinerary_days (
				itinerary_id, day_number, day_date,
				description_text, description_is_custom,
				activities_text, activities_is_custom,
				accommodation_id
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			id,
			d.DayNumber,
			dateOf(d.DayDate),
			d.Description.Text,
			d.Description.IsCustom,
			d.Activities.Text,
			d.Activities.IsCustom,
			accommodationIDPtr(d.AccommodationID),
		)
		if err != nil {
			return err
		}
		for pos, dest := range d.DestinationIDs {
			_, err := tx.Exec(ctx, `
				INSERT INTO day_destinations (itinerary_id, day_number, position, destination_id)
				VALUES ($1,$2,$3,$4)
			`, id, d.DayNumber, pos, string(dest))
			if err != nil {
				return err
			}
		}
	}
	for pos, tr := range it.Travelers {
		_, err := tx.Exec(ctx, `
			INSERT INTO travelers (itinerary_id, position, name, email, phone, is_primary)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, id, pos, tr.Name, tr.Email, tr.Phone, tr.IsPrimary)
		if err != nil {
			return err
		}
	}
	return nil
}

// --- helpers ---

func dateOf(t time.Time) pgtype.Date {
	tt := t.UTC()
	return pgtype.Date{
		Time:  time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func dateToTime(d pgtype.Date) time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func userIDPtr(p *domain.UserID) *string {
	if p == nil {
		return nil
	}
	v := string(*p)
	return &v
}

func accommodationIDPtr(p *domain.AccommodationID) *string {
	if p == nil {
		return nil
	}
	v := string(*p)
	return &v
}

func stringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyToNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
