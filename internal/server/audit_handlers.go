package server

import (
	"net/http"
	"sort"
	"strconv"

	"groundwork/internal/audit"
	"groundwork/internal/constants"
)

// GET /api/audit?action=&actor=&limit=&before= — Query the audit log.
// Restricted to the bootstrap admin account.
func (s *Server) handleAuditQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity := s.requireAuth(w, r)
	if identity == nil {
		return
	}
	if !identity.User.IsBootstrap {
		WriteError(w, http.StatusForbidden, "Audit log access requires the admin account", constants.ErrCodeAuthForbidden)
		return
	}

	q := r.URL.Query()
	filter := audit.QueryFilter{
		Action: q.Get("action"),
		Actor:  q.Get("actor"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			WriteError(w, http.StatusBadRequest, "Invalid limit", constants.ErrCodeAuditInvalidFilter)
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("before"); v != "" {
		before, err := strconv.ParseInt(v, 10, 64)
		if err != nil || before < 1 {
			WriteError(w, http.StatusBadRequest, "Invalid before timestamp", constants.ErrCodeAuditInvalidFilter)
			return
		}
		filter.Before = before
	}

	if filter.Action != "" && !audit.IsValidAction(filter.Action) {
		WriteError(w, http.StatusBadRequest, "Unknown audit action", constants.ErrCodeAuditInvalidFilter)
		return
	}

	entries, err := s.app.AuditLogger.Query(filter)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// GET /api/audit/actions — List the recordable action types
func (s *Server) handleAuditActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity := s.requireAuth(w, r)
	if identity == nil {
		return
	}
	if !identity.User.IsBootstrap {
		WriteError(w, http.StatusForbidden, "Audit log access requires the admin account", constants.ErrCodeAuthForbidden)
		return
	}

	actions := audit.Actions()
	sort.Strings(actions)
	WriteSuccess(w, map[string]interface{}{"actions": actions})
}
