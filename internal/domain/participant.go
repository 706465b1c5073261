package domain

import "time"

// Participant is a member of the roster. Participants are never hard
// deleted; removal flips Active to false so historical assignments can
// keep referencing the name.
type Participant struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// AddParticipantRequest is the request body for adding a participant.
type AddParticipantRequest struct {
	Name string `json:"name"`
}
