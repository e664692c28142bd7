package models

// Session is an admin-defined check-in window identified by a 6-digit code.
// The registry persists the full list as JSON; fields mirror that file, so
// older files without an "active" field still load (nil means active).
type Session struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Date       string `json:"date"`
	StartTime  string `json:"start"`
	LateBuffer string `json:"duration"`
	Active     *bool  `json:"active,omitempty"`
}

// IsActive reports whether the session accepts check-ins. Records written
// before the field existed default to active.
func (s Session) IsActive() bool {
	return s.Active == nil || *s.Active
}

// BoolPtr is a small helper for the optional Active field.
func BoolPtr(v bool) *bool {
	return &v
}
