package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

type sessionListerStub struct {
	sessions []models.Session
	err      error
}

func (s *sessionListerStub) ListActive() ([]models.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions, nil
}

type rosterLookupStub struct {
	participants map[string]models.Participant
	err          error
}

func (s *rosterLookupStub) Lookup(ctx context.Context, name string) (*models.Participant, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.participants[name]; ok {
		return &p, nil
	}
	return nil, nil
}

type committerStub struct {
	records  []models.AttendanceRecord
	policies []models.WritePolicy
	err      error
}

func (s *committerStub) Commit(ctx context.Context, record models.AttendanceRecord, policy models.WritePolicy) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	s.policies = append(s.policies, policy)
	return nil
}

type greeterStub struct{}

func (greeterStub) Greet(ctx context.Context, name, sessionName string) string {
	return "Welcome " + name + "!"
}

type checkinMetricsStub struct {
	counts map[string]int
}

func (s *checkinMetricsStub) IncCheckin(status, attendeeType string) {
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[status+"|"+attendeeType]++
}

func fixedClock(ts string) func() time.Time {
	loc := time.FixedZone("UTC+8", 8*3600)
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", ts, loc)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func testSession() models.Session {
	return models.Session{
		ID:         1,
		Name:       "Morning Briefing",
		Code:       "123456",
		Date:       "2025-03-14",
		StartTime:  "09:00",
		LateBuffer: "15m",
		Active:     models.BoolPtr(true),
	}
}

func newTestCheckinService(sessions *sessionListerStub, roster *rosterLookupStub, committer *committerStub) *CheckinService {
	svc := NewCheckinService(sessions, roster, committer, greeterStub{}, &checkinMetricsStub{}, nil, nil, CheckinConfig{})
	svc.now = fixedClock("2025-03-14 09:05:00")
	return svc
}

func TestResolveCodeUnknown(t *testing.T) {
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, &rosterLookupStub{}, &committerStub{})

	_, err := svc.ResolveCode("999999")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCode.Code, appErr.Code)
}

func TestResolveCodeCollisionNewestWins(t *testing.T) {
	older := testSession()
	newer := testSession()
	newer.ID = 2
	newer.Name = "Afternoon Briefing"
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{older, newer}}, &rosterLookupStub{}, &committerStub{})

	session, err := svc.ResolveCode("123456")
	require.NoError(t, err)
	assert.Equal(t, int64(2), session.ID)
	assert.Equal(t, "Afternoon Briefing", session.Name)
}

func TestCheckInRosterVerified(t *testing.T) {
	committer := &committerStub{}
	roster := &rosterLookupStub{participants: map[string]models.Participant{
		"Alice Tan": {Name: "Alice Tan", Category: "VIP", VerificationID: "88881234"},
	}}
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, roster, committer)

	result, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Alice Tan", Proof: "1234"}, models.PolicyMirror)
	require.NoError(t, err)

	require.Len(t, committer.records, 1)
	record := committer.records[0]
	assert.Equal(t, "Alice Tan", record.Name)
	assert.Equal(t, "VIP", record.Type)
	assert.Equal(t, "Morning Briefing", record.Session)
	assert.Equal(t, string(models.StatusOnTime), record.Status)
	assert.Equal(t, "-", record.Email)
	assert.Equal(t, "2025-03-14 09:05:00", record.Timestamp)
	assert.Equal(t, []models.WritePolicy{models.PolicyMirror}, committer.policies)
	assert.Equal(t, "Welcome Alice Tan!", result.Greeting)
}

func TestCheckInVerificationFailed(t *testing.T) {
	roster := &rosterLookupStub{participants: map[string]models.Participant{
		"Alice Tan": {Name: "Alice Tan", VerificationID: "88881234"},
	}}
	committer := &committerStub{}
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, roster, committer)

	_, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Alice Tan", Proof: "0000"}, models.PolicyLocalOnly)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrVerificationFailed.Code, appErr.Code)
	assert.Empty(t, committer.records)
}

func TestCheckInVerificationHandlesNumericCellArtifact(t *testing.T) {
	roster := &rosterLookupStub{participants: map[string]models.Participant{
		"Bob Lee": {Name: "Bob Lee", VerificationID: "90125678.0"},
	}}
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, roster, &committerStub{})

	_, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Bob Lee", Proof: "5678"}, models.PolicyLocalOnly)
	require.NoError(t, err)
}

func TestCheckInUnverifiableRosterRowPasses(t *testing.T) {
	roster := &rosterLookupStub{participants: map[string]models.Participant{
		"Carol Ng": {Name: "Carol Ng", Category: "Speaker", VerificationID: "-"},
	}}
	committer := &committerStub{}
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, roster, committer)

	_, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Carol Ng"}, models.PolicyLocalOnly)
	require.NoError(t, err)
	require.Len(t, committer.records, 1)
	assert.Equal(t, "Speaker", committer.records[0].Type)
}

func TestCheckInWalkInRequiresEmail(t *testing.T) {
	committer := &committerStub{}
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, &rosterLookupStub{}, committer)

	_, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Dana Wu"}, models.PolicyLocalOnly)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Dana Wu", Email: "dana@example.com", Phone: "555-0101"}, models.PolicyLocalOnly)
	require.NoError(t, err)
	require.Len(t, committer.records, 1)
	record := committer.records[0]
	assert.Equal(t, models.WalkInType, record.Type)
	assert.Equal(t, "dana@example.com", record.Email)
	assert.Equal(t, "555-0101", record.Phone)
}

func TestCheckInRosterFailureDegradesToWalkIn(t *testing.T) {
	committer := &committerStub{}
	roster := &rosterLookupStub{err: errors.New("roster source down")}
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, roster, committer)

	_, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Alice Tan", Email: "alice@example.com"}, models.PolicyLocalOnly)
	require.NoError(t, err)
	require.Len(t, committer.records, 1)
	assert.Equal(t, models.WalkInType, committer.records[0].Type)
}

func TestCheckInTimingBoundary(t *testing.T) {
	cases := []struct {
		name  string
		clock string
		want  models.CheckinStatus
	}{
		{"well before threshold", "2025-03-14 09:05:00", models.StatusOnTime},
		{"exactly at threshold", "2025-03-14 09:15:00", models.StatusOnTime},
		{"just past threshold", "2025-03-14 09:15:01", models.StatusLate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			committer := &committerStub{}
			svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, &rosterLookupStub{}, committer)
			svc.now = fixedClock(tc.clock)

			_, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Dana Wu", Email: "dana@example.com"}, models.PolicyLocalOnly)
			require.NoError(t, err)
			require.Len(t, committer.records, 1)
			assert.Equal(t, string(tc.want), committer.records[0].Status)
		})
	}
}

func TestCheckInMalformedBufferFallsBackToOnTime(t *testing.T) {
	session := testSession()
	session.LateBuffer = "soon"
	committer := &committerStub{}
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{session}}, &rosterLookupStub{}, committer)
	svc.now = fixedClock("2025-03-14 23:59:00")

	_, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Dana Wu", Email: "dana@example.com"}, models.PolicyLocalOnly)
	require.NoError(t, err)
	require.Len(t, committer.records, 1)
	assert.Equal(t, string(models.StatusOnTime), committer.records[0].Status)
}

func TestCheckInInvalidPayload(t *testing.T) {
	svc := newTestCheckinService(&sessionListerStub{}, &rosterLookupStub{}, &committerStub{})

	for _, req := range []CheckInRequest{
		{Code: "12345", Name: "Short Code"},
		{Code: "abcdef", Name: "Letters"},
		{Code: "123456"},
		{Code: "123456", Name: "Bad Email", Email: "not-an-email"},
	} {
		_, err := svc.CheckIn(context.Background(), req, models.PolicyLocalOnly)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}
}

func TestCheckInCommitFailureSurfaces(t *testing.T) {
	committer := &committerStub{err: appErrors.Clone(appErrors.ErrPersistence, "disk full")}
	svc := newTestCheckinService(&sessionListerStub{sessions: []models.Session{testSession()}}, &rosterLookupStub{}, committer)

	_, err := svc.CheckIn(context.Background(), CheckInRequest{Code: "123456", Name: "Dana Wu", Email: "dana@example.com"}, models.PolicyLocalOnly)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPersistence.Code, appErr.Code)
}
