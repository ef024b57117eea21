package server

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// SQLiteStore implements Store on a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The libsql driver exposes no typed error for this.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isLockedError reports whether err is SQLite's busy/locked failure,
// raised when a concurrent transaction holds a conflicting lock.
func isLockedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// Users and sessions

func (s *SQLiteStore) CreateUser(ctx context.Context, email, username, passwordHash string, isAdmin bool) (UserResponse, error) {
	u := UserResponse{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		IsAdmin:  isAdmin,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, is_admin)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, email, username, passwordHash, isAdmin)
	if isUniqueViolation(err) {
		return UserResponse{}, ErrDuplicateUser
	}
	if err != nil {
		return UserResponse{}, err
	}
	return u, nil
}

func (s *SQLiteStore) UserCredentials(ctx context.Context, email string) (string, string, error) {
	var id, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM users WHERE email = ?
	`, email).Scan(&id, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, passwordHash, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sessions (user_id)
		VALUES (?)
		RETURNING id
	`, userID).Scan(&token)
	return token, err
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, token)
	return err
}

func (s *SQLiteStore) PrincipalFromToken(ctx context.Context, token string) (principal, error) {
	var p principal
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.username, u.is_admin
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, token).Scan(&p.UserID, &p.Email, &p.Username, &p.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return principal{}, errNoSession
	}
	return p, err
}

// Location registry

func (s *SQLiteStore) ListLocations(ctx context.Context) ([]LocationResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, latitude, longitude,
			created_by, created_at, modified_by, modified_at
		FROM locations
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []LocationResponse{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (s *SQLiteStore) CreateLocation(ctx context.Context, createdBy string, req LocationRequest) (LocationResponse, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, title, description, latitude, longitude, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, req.Title, req.Description, req.Latitude, req.Longitude, createdBy)
	if isUniqueViolation(err) {
		return LocationResponse{}, ErrDuplicateCoordinates
	}
	if err != nil {
		return LocationResponse{}, err
	}
	return s.GetLocation(ctx, id)
}

func (s *SQLiteStore) GetLocation(ctx context.Context, id string) (LocationResponse, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, latitude, longitude,
			created_by, created_at, modified_by, modified_at
		FROM locations WHERE id = ?
	`, id)
	l, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return LocationResponse{}, ErrNotFound
	}
	return l, err
}

func (s *SQLiteStore) UpdateLocation(ctx context.Context, id, modifiedBy string, req LocationRequest) (LocationResponse, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE locations
		SET title = ?, description = ?, latitude = ?, longitude = ?,
			modified_by = ?, modified_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
	`, req.Title, req.Description, req.Latitude, req.Longitude, modifiedBy, id)
	if isUniqueViolation(err) {
		return LocationResponse{}, ErrDuplicateCoordinates
	}
	if err != nil {
		return LocationResponse{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return LocationResponse{}, ErrNotFound
	}
	return s.GetLocation(ctx, id)
}

// DeleteLocation removes the location. Steps referencing it keep existing
// with a nulled-out location (FK ON DELETE SET NULL); deletion never
// cascades into a scenario graph.
func (s *SQLiteStore) DeleteLocation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanLocation works for both *sql.Row and *sql.Rows.
func scanLocation(row interface{ Scan(...any) error }) (LocationResponse, error) {
	var l LocationResponse
	var createdBy, modifiedBy sql.NullString
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Latitude, &l.Longitude,
		&createdBy, &l.CreatedAt, &modifiedBy, &l.ModifiedAt)
	if err != nil {
		return l, err
	}
	if createdBy.Valid {
		l.CreatedBy = &createdBy.String
	}
	if modifiedBy.Valid {
		l.ModifiedBy = &modifiedBy.String
	}
	return l, nil
}
