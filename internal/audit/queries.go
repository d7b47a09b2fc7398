package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"groundwork/internal/constants"
)

// QueryFilter narrows an audit log query.
type QueryFilter struct {
	Action string // exact match, empty = all
	Actor  string // exact match, empty = all
	Limit  int    // capped at AuditMaxQueryLimit
	Before int64  // only entries with timestamp < Before, 0 = no bound
}

// Query returns entries matching the filter, newest first.
func (l *Logger) Query(f QueryFilter) ([]Entry, error) {
	if f.Action != "" && !IsValidAction(f.Action) {
		return nil, fmt.Errorf("invalid audit action: %s", f.Action)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = constants.AuditDefaultQueryLimit
	}
	if limit > constants.AuditMaxQueryLimit {
		limit = constants.AuditMaxQueryLimit
	}

	query := `SELECT id, entry_id, timestamp, action, ip_address, actor, details_json
	          FROM audit_log WHERE 1=1`
	var args []interface{}
	if f.Action != "" {
		query += ` AND action = ?`
		args = append(args, f.Action)
	}
	if f.Actor != "" {
		query += ` AND actor = ?`
		args = append(args, f.Actor)
	}
	if f.Before > 0 {
		query += ` AND timestamp < ?`
		args = append(args, f.Before)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var detailsJSON sql.NullString
		if err := rows.Scan(&e.ID, &e.EntryID, &e.Timestamp, &e.Action, &e.IPAddress, &e.Actor, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if detailsJSON.Valid {
			var details interface{}
			if json.Unmarshal([]byte(detailsJSON.String), &details) == nil {
				e.Details = details
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
