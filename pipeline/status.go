package pipeline

import "github.com/danisikibeye/diploma_registry/models"

// Status is a diploma's lifecycle position. The storage layer only keeps
// the file reference and the authenticity flag; status is derived from
// them and transitions are enforced here, never by storage.
type Status string

const (
	// StatusDraft: record exists, no stored document yet.
	StatusDraft Status = "draft"
	// StatusIssued: document stored, not yet authenticated.
	StatusIssued Status = "issued"
	// StatusAuthenticated: ministry page present. Terminal.
	StatusAuthenticated Status = "authenticated"
)

func StatusOf(d *models.Diploma) Status {
	switch {
	case d.Authentic:
		return StatusAuthenticated
	case d.FileURL != "":
		return StatusIssued
	default:
		return StatusDraft
	}
}

var transitions = map[Status]Status{
	StatusDraft:  StatusIssued,
	StatusIssued: StatusAuthenticated,
}

// CanTransition reports whether moving from s to next is legal. No
// transition ever moves backward.
func (s Status) CanTransition(next Status) bool {
	return transitions[s] == next
}
