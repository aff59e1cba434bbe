package occupancy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/officespace/internal/db"
)

// Store manages persistence of office assignments.
type Store struct {
	db *db.DB
}

// NewStore creates a new assignment store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

const selectColumns = `SELECT id, office_id, full_name, appointment_type, start_date, end_date, is_temporary
	FROM office_assignments`

// List returns every assignment ordered by office and insertion.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.query(ctx, selectColumns+" ORDER BY office_id, id")
}

// ListByOffice groups every assignment by office ID.
func (s *Store) ListByOffice(ctx context.Context) (map[string][]Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Record)
	for _, r := range records {
		out[r.OfficeID] = append(out[r.OfficeID], r)
	}
	return out, nil
}

// Search returns assignments whose name contains q, ignoring case.
func (s *Store) Search(ctx context.Context, q string) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE full_name LIKE ? ESCAPE '\' ORDER BY office_id, id`, "%"+likeEscaper.Replace(q)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Get returns one assignment.
func (s *Store) Get(ctx context.Context, id int64) (Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("getting occupant %d: %w", id, err)
	}
	return r, nil
}

// Count returns the number of assignments.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM office_assignments").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting occupants: %w", err)
	}
	return n, nil
}

// Add inserts a new assignment using the create rules.
func (s *Store) Add(ctx context.Context, officeID string, in Input) (Record, error) {
	if officeID == "" {
		return Record{}, ErrOfficeID
	}
	f, err := normalizeCreate(in)
	if err != nil {
		return Record{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO office_assignments
		(office_id, full_name, appointment_type, start_date, end_date, is_temporary)
		VALUES (?, ?, ?, ?, ?, ?)`,
		officeID, f.name, null(f.appointmentType), null(f.startDate), null(f.endDate), f.temporary,
	)
	if err != nil {
		return Record{}, fmt.Errorf("inserting occupant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("reading new occupant id: %w", err)
	}
	return s.Get(ctx, id)
}

// Update changes name, dates and the temporary flag using the update rules.
// The appointment type is only changed when one is sent.
func (s *Store) Update(ctx context.Context, id int64, in Input) (Record, error) {
	f, err := normalizeUpdate(in)
	if err != nil {
		return Record{}, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return Record{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE office_assignments
		SET full_name = ?, start_date = ?, end_date = ?, is_temporary = ?,
		    appointment_type = COALESCE(?, appointment_type)
		WHERE id = ?`,
		f.name, null(f.startDate), null(f.endDate), f.temporary, null(f.appointmentType), id,
	)
	if err != nil {
		return Record{}, fmt.Errorf("updating occupant %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes an assignment and returns what was removed.
func (s *Store) Delete(ctx context.Context, id int64) (Record, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM office_assignments WHERE id = ?", id); err != nil {
		return Record{}, fmt.Errorf("deleting occupant %d: %w", id, err)
	}
	return r, nil
}

// InsertBatch writes already-normalized records in one transaction and
// returns how many were inserted.
func (s *Store) InsertBatch(ctx context.Context, records []Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO office_assignments
		(office_id, full_name, appointment_type, start_date, end_date, is_temporary)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing batch insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.OfficeID, r.FullName, null(r.AppointmentType),
			null(r.StartDate), null(r.EndDate), r.Temporary); err != nil {
			return 0, fmt.Errorf("inserting %s/%s: %w", r.OfficeID, r.FullName, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing occupants: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning occupant: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		r                Record
		appt, start, end sql.NullString
	)
	err := sc.Scan(&r.ID, &r.OfficeID, &r.FullName, &appt, &start, &end, &r.Temporary)
	if err != nil {
		return Record{}, err
	}
	r.AppointmentType = appt.String
	r.StartDate = start.String
	r.EndDate = end.String
	return r, nil
}

func null(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
