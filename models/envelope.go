package models

// CurrentVersion is the envelope version written by this build.
const CurrentVersion = 1

// Envelope wraps the persisted collection so the stored format can evolve.
//
// Version 0 is the legacy, unversioned format: a bare JSON array of posts.
type Envelope struct {
	Version int        `json:"version"`
	Posts   Collection `json:"posts"`
}

// NewEnvelope wraps c at the current version. A nil collection is stored as an
// empty array, never as null.
func NewEnvelope(c Collection) Envelope {
	if c == nil {
		c = Collection{}
	}
	return Envelope{Version: CurrentVersion, Posts: c}
}
