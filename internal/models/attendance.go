package models

// CheckinStatus classifies a check-in against the session's late threshold.
type CheckinStatus string

const (
	StatusOnTime CheckinStatus = "On-time"
	StatusLate   CheckinStatus = "Late"
	// StatusUnknown survives only as a legacy value in old log files; new
	// records fall back to On-time when session timing cannot be parsed.
	StatusUnknown CheckinStatus = "Unknown"
)

// AttendanceRecord is one committed check-in. Records are append-only and
// never mutated; Status is frozen at write time. Timestamp carries second
// precision in the event timezone.
type AttendanceRecord struct {
	Timestamp string `json:"timestamp" db:"ts"`
	Session   string `json:"session" db:"session"`
	Name      string `json:"name" db:"name"`
	Type      string `json:"type" db:"type"`
	Status    string `json:"status" db:"status"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`
}

// AttendanceColumns is the column contract shared by the local log file,
// the remote mirror and every export.
var AttendanceColumns = []string{"Timestamp", "Session", "Name", "Type", "Status", "Email", "Phone"}

// Row renders the record in column-contract order.
func (r AttendanceRecord) Row() []string {
	return []string{r.Timestamp, r.Session, r.Name, r.Type, r.Status, r.Email, r.Phone}
}

// RecordFromRow builds a record from a row in column-contract order,
// tolerating short rows from hand-edited files.
func RecordFromRow(row []string) AttendanceRecord {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return AttendanceRecord{
		Timestamp: get(0),
		Session:   get(1),
		Name:      get(2),
		Type:      get(3),
		Status:    get(4),
		Email:     get(5),
		Phone:     get(6),
	}
}
