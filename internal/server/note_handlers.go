package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"groundwork/internal/audit"
	"groundwork/internal/constants"
)

// handleNotes serves the collection: GET lists, POST creates.
func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	identity := s.requireAuth(w, r)
	if identity == nil {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleNoteList(w, r, identity.User.ID)
	case http.MethodPost:
		s.handleNoteCreate(w, r, identity.User.ID, getAuditActor(identity))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleNoteByID serves a single note: GET, PUT, DELETE on /api/notes/{id}.
func (s *Server) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	identity := s.requireAuth(w, r)
	if identity == nil {
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/notes/")
	noteID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || noteID < 1 {
		WriteError(w, http.StatusBadRequest, "Invalid note ID", constants.ErrCodeInvalidRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		note, err := s.app.Services.Notes.Get(identity.User.ID, noteID)
		if err != nil {
			s.handleServiceError(w, err)
			return
		}
		WriteSuccess(w, map[string]interface{}{"note": note})

	case http.MethodPut:
		var req struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON", constants.ErrCodeInvalidRequest)
			return
		}
		note, err := s.app.Services.Notes.Update(identity.User.ID, noteID, req.Title, req.Body)
		if err != nil {
			s.handleServiceError(w, err)
			return
		}
		s.app.AuditLogger.Log(constants.AuditActionNoteUpdated, getClientIP(r), getAuditActor(identity),
			audit.NoteDetails{NoteID: noteID})
		WriteSuccess(w, map[string]interface{}{"note": note})

	case http.MethodDelete:
		if err := s.app.Services.Notes.Delete(identity.User.ID, noteID); err != nil {
			s.handleServiceError(w, err)
			return
		}
		s.app.AuditLogger.Log(constants.AuditActionNoteDeleted, getClientIP(r), getAuditActor(identity),
			audit.NoteDetails{NoteID: noteID})
		WriteSuccess(w, map[string]interface{}{"message": "Note deleted"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/notes?limit=&offset= — Page through the caller's notes
func (s *Server) handleNoteList(w http.ResponseWriter, r *http.Request, userID int64) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	notes, total, err := s.app.Services.Notes.List(userID, limit, offset)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"notes": notes,
		"total": total,
	})
}

// POST /api/notes — Create a note
func (s *Server) handleNoteCreate(w http.ResponseWriter, r *http.Request, userID int64, actor string) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON", constants.ErrCodeInvalidRequest)
		return
	}

	note, err := s.app.Services.Notes.Create(userID, req.Title, req.Body)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.app.AuditLogger.Log(constants.AuditActionNoteCreated, getClientIP(r), actor,
		audit.NoteDetails{NoteID: note.ID})

	WriteJSON(w, http.StatusCreated, map[string]interface{}{"note": note})
}
