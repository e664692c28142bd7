package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dfma-ops/checkin-api/internal/models"
)

type sessionFinder interface {
	Find(id int64) (*models.Session, error)
}

type logbookReader interface {
	ReadAll(ctx context.Context) ([]models.AttendanceRecord, error)
}

// ProjectionConfig tunes the live feed for the shared screen.
type ProjectionConfig struct {
	KioskURL        string
	FeedSize        int
	RefreshInterval time.Duration
}

// ProjectionService builds the projection view model: the kiosk URL (the
// QR payload), the session code and a masked live feed. The whole view is
// recomputed on every poll; there is no diffing.
type ProjectionService struct {
	sessions sessionFinder
	logbook  logbookReader
	logger   *zap.Logger
	cfg      ProjectionConfig
}

// NewProjectionService constructs the service.
func NewProjectionService(sessions sessionFinder, logbook logbookReader, logger *zap.Logger, cfg ProjectionConfig) *ProjectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FeedSize <= 0 {
		cfg.FeedSize = 10
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5 * time.Second
	}
	return &ProjectionService{sessions: sessions, logbook: logbook, logger: logger, cfg: cfg}
}

// ProjectionEntry is one masked line of the live feed.
type ProjectionEntry struct {
	Name   string `json:"name"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// ProjectionFeed is the full view model for one poll cycle.
type ProjectionFeed struct {
	SessionName    string            `json:"session_name"`
	Code           string            `json:"code"`
	LateBuffer     string            `json:"late_buffer"`
	KioskURL       string            `json:"kiosk_url"`
	Total          int               `json:"total"`
	Recent         []ProjectionEntry `json:"recent"`
	RefreshSeconds int               `json:"refresh_seconds"`
}

// Feed computes the current view for a session.
func (s *ProjectionService) Feed(ctx context.Context, sessionID int64) (*ProjectionFeed, error) {
	session, err := s.sessions.Find(sessionID)
	if err != nil {
		return nil, err
	}

	records, err := s.logbook.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	matching := make([]models.AttendanceRecord, 0, len(records))
	for _, record := range records {
		if record.Session == session.Name {
			matching = append(matching, record)
		}
	}
	// Timestamps sort lexicographically in chronological order.
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Timestamp > matching[j].Timestamp
	})

	feed := &ProjectionFeed{
		SessionName:    session.Name,
		Code:           session.Code,
		LateBuffer:     session.LateBuffer,
		KioskURL:       s.cfg.KioskURL,
		Total:          len(matching),
		Recent:         make([]ProjectionEntry, 0, s.cfg.FeedSize),
		RefreshSeconds: int(s.cfg.RefreshInterval / time.Second),
	}
	for i, record := range matching {
		if i >= s.cfg.FeedSize {
			break
		}
		feed.Recent = append(feed.Recent, ProjectionEntry{
			Name:   MaskName(record.Name),
			Time:   clockPart(record.Timestamp),
			Status: record.Status,
		})
	}
	return feed, nil
}

// MaskName blanks a name for display on a shared screen. Short names pass
// through; longer ones keep only the last five characters behind a fixed
// masked prefix.
func MaskName(name string) string {
	runes := []rune(name)
	if len(runes) <= 5 {
		return name
	}
	return "******" + string(runes[len(runes)-5:])
}

func clockPart(timestamp string) string {
	if _, clock, ok := strings.Cut(timestamp, " "); ok {
		return clock
	}
	return timestamp
}
