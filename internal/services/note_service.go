package services

import (
	"database/sql"
	"errors"
	"time"

	"groundwork/internal/constants"
	"groundwork/internal/logger"
)

// Note is the sample CRUD resource. Every note belongs to exactly one user
// and is invisible to everyone else.
type Note struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// NoteService implements owner-scoped note CRUD.
type NoteService struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewNoteService creates the note service.
func NewNoteService(db *sql.DB, log *logger.Logger) *NoteService {
	return &NoteService{db: db, logger: log}
}

func validateNote(title, body string) error {
	if title == "" {
		return ErrNoteTitleMissing
	}
	if len(title) > constants.MaxNoteTitleLength {
		return ErrNoteTitleTooLong
	}
	if len(body) > constants.MaxNoteBodyBytes {
		return ErrNoteBodyTooLarge
	}
	return nil
}

// Create inserts a new note for the user.
func (s *NoteService) Create(userID int64, title, body string) (*Note, error) {
	if err := validateNote(title, body); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	result, err := s.db.Exec(`
		INSERT INTO notes (user_id, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, title, body, now, now)
	if err != nil {
		return nil, WrapInternalError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, WrapInternalError(err)
	}

	return &Note{ID: id, UserID: userID, Title: title, Body: body, CreatedAt: now, UpdatedAt: now}, nil
}

// Get returns one of the user's notes.
func (s *NoteService) Get(userID, noteID int64) (*Note, error) {
	var n Note
	err := s.db.QueryRow(`
		SELECT id, user_id, title, body, created_at, updated_at
		FROM notes WHERE id = ? AND user_id = ?
	`, noteID, userID).Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, WrapInternalError(err)
	}
	return &n, nil
}

// List returns a page of the user's notes, most recently updated first,
// along with the total count for pagination.
func (s *NoteService) List(userID int64, limit, offset int) ([]Note, int64, error) {
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM notes WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, WrapInternalError(err)
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, title, body, created_at, updated_at
		FROM notes WHERE user_id = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, WrapInternalError(err)
	}
	defer rows.Close()

	notes := make([]Note, 0, limit)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, WrapInternalError(err)
		}
		notes = append(notes, n)
	}
	return notes, total, rows.Err()
}

// Update replaces a note's title and body.
func (s *NoteService) Update(userID, noteID int64, title, body string) (*Note, error) {
	if err := validateNote(title, body); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	result, err := s.db.Exec(`
		UPDATE notes SET title = ?, body = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, title, body, now, noteID, userID)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if affected == 0 {
		return nil, ErrNoteNotFound
	}

	return s.Get(userID, noteID)
}

// Delete removes one of the user's notes.
func (s *NoteService) Delete(userID, noteID int64) error {
	result, err := s.db.Exec(`DELETE FROM notes WHERE id = ? AND user_id = ?`, noteID, userID)
	if err != nil {
		return WrapInternalError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WrapInternalError(err)
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
