// Package events turns Postgres change notifications into typed workflow
// events and routes them to handlers.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind names the change a notification describes.
type Kind string

const (
	KindAccountCreated         Kind = "account_created"
	KindCandidateStatusCreated Kind = "candidate_status_created"
	KindExamUpdated            Kind = "exam_updated"
	KindQuestionsChanged       Kind = "questions_changed"
)

// Event is the decoded notification payload. Only the fields of its Kind
// are set.
type Event struct {
	Kind  Kind   `json:"kind"`
	Email string `json:"email"`

	// account_created
	AccountID uuid.UUID `json:"account_id"`

	// candidate_status_created
	ExamCode  string `json:"exam_code"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// exam_updated
	OldExamDone *bool `json:"old_exam_done"`
	NewExamDone bool  `json:"new_exam_done"`
}

// Decode parses a notification payload.
func Decode(payload string) (Event, error) {
	var evt Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if evt.Kind == "" {
		return Event{}, fmt.Errorf("decode event: missing kind")
	}
	return evt, nil
}
