package models

// WritePolicy decides whether a commit mirrors to the remote log. It is
// passed into the attendance engine per call rather than read from ambient
// state, so the engine has no hidden coupling to the admin toggle.
type WritePolicy string

const (
	// PolicyLocalOnly skips the remote mirror entirely ("high-traffic"
	// mode): under load the slow remote call is traded away and local
	// durability carries the event.
	PolicyLocalOnly WritePolicy = "local-only"
	// PolicyMirror additionally appends to the remote mirror, best-effort.
	PolicyMirror WritePolicy = "mirror"
)

// KioskSettings is the small admin-togglable state persisted between runs.
type KioskSettings struct {
	HighTraffic bool `json:"high_traffic"`
}

// Policy translates the toggle into the engine's per-call write policy.
func (s KioskSettings) Policy() WritePolicy {
	if s.HighTraffic {
		return PolicyLocalOnly
	}
	return PolicyMirror
}
