package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dfma-ops/checkin-api/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// parseBufferMinutes converts a late-buffer string into minutes. Two forms
// exist in registry files: whole minutes ("30m") and possibly-fractional
// hours ("1hr", "1.5hr").
func parseBufferMinutes(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasSuffix(trimmed, "hr"):
		hours, err := strconv.ParseFloat(strings.TrimSuffix(trimmed, "hr"), 64)
		if err != nil {
			return 0, fmt.Errorf("parse hour buffer %q: %w", raw, err)
		}
		return int(hours * 60), nil
	case strings.HasSuffix(trimmed, "m"):
		minutes, err := strconv.Atoi(strings.TrimSuffix(trimmed, "m"))
		if err != nil {
			return 0, fmt.Errorf("parse minute buffer %q: %w", raw, err)
		}
		return minutes, nil
	default:
		return 0, fmt.Errorf("unrecognised buffer %q", raw)
	}
}

// sessionStart parses the session's naive date + start time in the event
// timezone. Registry files carry either HH:MM or HH:MM:SS.
func sessionStart(session models.Session, loc *time.Location) (time.Time, error) {
	raw := session.Date + " " + session.StartTime
	if start, err := time.ParseInLocation(timestampLayout, raw, loc); err == nil {
		return start, nil
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session start %q: %w", raw, err)
	}
	return start, nil
}

// classifyTiming freezes the status at write time: Late strictly after
// start + buffer, On-time otherwise. Malformed session timing degrades to
// On-time rather than blocking the check-in.
func classifyTiming(session models.Session, now time.Time, loc *time.Location) models.CheckinStatus {
	start, err := sessionStart(session, loc)
	if err != nil {
		return models.StatusOnTime
	}
	bufferMin, err := parseBufferMinutes(session.LateBuffer)
	if err != nil {
		return models.StatusOnTime
	}
	threshold := start.Add(time.Duration(bufferMin) * time.Minute)
	if now.After(threshold) {
		return models.StatusLate
	}
	return models.StatusOnTime
}
