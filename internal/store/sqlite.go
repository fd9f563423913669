package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	_ "modernc.org/sqlite"
)

// timeLayout is a fixed-width RFC 3339 variant so stored timestamps sort
// lexicographically in submission order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// database/sql pools connections, but sqlite serializes writers at the
	// file level anyway; a single connection keeps transactions from ever
	// contending for the write lock.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			submitted_by TEXT NOT NULL,
			submitted_at TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK(status IN ('pending', 'in-progress', 'completed')),
			priority INTEGER NOT NULL DEFAULT 0,
			sort_position INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	// year and type arrived after the first deployments. Adding them here
	// keeps old databases readable; rows created before the columns existed
	// scan as NULL.
	for _, stmt := range []string{
		`ALTER TABLE requests ADD COLUMN year INTEGER`,
		`ALTER TABLE requests ADD COLUMN type TEXT`,
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Create(input domain.NewRequest) (*domain.Request, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Append-to-end: the new record's position is the current count, so a
	// freshly created request always lands after every existing one within
	// its priority tier.
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM requests`).Scan(&count); err != nil {
		return nil, err
	}

	submittedAt := time.Now().UTC()
	req := &domain.Request{
		Text:         strings.TrimSpace(input.Text),
		SubmittedBy:  strings.TrimSpace(input.SubmittedBy),
		SubmittedAt:  submittedAt,
		Status:       domain.StatusPending,
		Priority:     input.Priority,
		SortPosition: count,
		Year:         input.Year,
		Type:         input.Type,
	}

	if err := tx.QueryRow(`
		INSERT INTO requests (text, submitted_by, submitted_at, status, priority, sort_position, year, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		req.Text,
		req.SubmittedBy,
		submittedAt.Format(timeLayout),
		string(req.Status),
		boolToInt(req.Priority),
		req.SortPosition,
		nullableYear(req.Year),
		nullableType(req.Type),
	).Scan(&req.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *SQLiteStore) List() ([]*domain.Request, error) {
	rows, err := s.db.Query(`
		SELECT
			id,
			text,
			submitted_by,
			submitted_at,
			status,
			priority,
			sort_position,
			year,
			type
		FROM requests
		ORDER BY priority DESC, sort_position ASC, submitted_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []*domain.Request{}
	for rows.Next() {
		var (
			r           domain.Request
			submittedAt string
			status      string
			priority    int
			year        sql.NullInt64
			reqType     sql.NullString
		)
		if err := rows.Scan(
			&r.ID,
			&r.Text,
			&r.SubmittedBy,
			&submittedAt,
			&status,
			&priority,
			&r.SortPosition,
			&year,
			&reqType,
		); err != nil {
			return nil, err
		}
		t, err := time.Parse(timeLayout, submittedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse submitted_at for request %d: %w", r.ID, err)
		}
		r.SubmittedAt = t
		r.Status = domain.Status(status)
		r.Priority = priority != 0
		r.Year = int(year.Int64)
		r.Type = reqType.String
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}

func (s *SQLiteStore) SetStatus(id int64, status domain.Status) error {
	if !status.Valid() {
		return domain.InvalidStatusError{Status: string(status)}
	}

	res, err := s.db.Exec(`
		UPDATE requests
		SET status = ?
		WHERE id = ?`,
		string(status),
		id,
	)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func (s *SQLiteStore) SetSortPosition(id int64, position int) error {
	res, err := s.db.Exec(`
		UPDATE requests
		SET sort_position = ?
		WHERE id = ?`,
		position,
		id,
	)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func (s *SQLiteStore) Reorder(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Position = index in the submitted sequence. An id that was deleted
	// between the client's read and this call updates zero rows, which is
	// exactly the tolerated outcome.
	for i, id := range ids {
		if _, err := tx.Exec(`
			UPDATE requests
			SET sort_position = ?
			WHERE id = ?`,
			i,
			id,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(id int64) error {
	res, err := s.db.Exec(`
		DELETE FROM requests
		WHERE id = ?`,
		id,
	)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func checkFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}

func nullableType(t string) any {
	if t == "" {
		return nil
	}
	return t
}
