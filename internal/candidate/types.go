package candidate

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/gokatarajesh/candidate-screening/internal/db/repository"
	"github.com/gokatarajesh/candidate-screening/internal/question"
)

// Status is a candidate's position in the screening workflow. It only
// ever moves forward.
type Status int16

const (
	StatusRegistered       Status = 1
	StatusProfileSubmitted Status = 2
	StatusExamGenerated    Status = 3
	StatusExamDone         Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusRegistered:
		return "registered"
	case StatusProfileSubmitted:
		return "profile_submitted"
	case StatusExamGenerated:
		return "exam_generated"
	case StatusExamDone:
		return "exam_done"
	default:
		return "unknown"
	}
}

const (
	MsgProfileSaved  = "Profile successfully updated"
	MsgExamGenerated = "Exam successfully generated"
)

// SaveProfileRequest is the payload of the saveProfile call.
type SaveProfileRequest struct {
	Email     string `json:"email"`
	ExamCode  string `json:"examCode"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// GenerateExamRequest is the payload of the generateExam call.
type GenerateExamRequest struct {
	Email    string `json:"email"`
	ExamCode string `json:"examCode"`
	Language string `json:"language"`
}

// Exam is the per-candidate exam document.
type Exam struct {
	Questions            []question.ExamQuestion `json:"questions"`
	CurrentQuestionIndex int                     `json:"currentQuestionIndex"`
	ExamStarted          bool                    `json:"examStarted"`
	ExamDone             bool                    `json:"examDone"`
	LanguageTaken        string                  `json:"languageTaken"`
}

func (e Exam) row(email string) (repository.ExamRow, error) {
	doc, err := json.Marshal(e.Questions)
	if err != nil {
		return repository.ExamRow{}, err
	}
	return repository.ExamRow{
		Email:                email,
		Questions:            doc,
		CurrentQuestionIndex: int32(e.CurrentQuestionIndex),
		ExamStarted:          e.ExamStarted,
		ExamDone:             e.ExamDone,
		LanguageTaken:        e.LanguageTaken,
	}, nil
}

// AccountCreated is delivered once (at least) per new login identity.
type AccountCreated struct {
	Email     string
	AccountID uuid.UUID
}

// ExamUpdated describes a change to an exam document. OldExamDone is nil
// when the previous state is unknown.
type ExamUpdated struct {
	Email       string
	OldExamDone *bool
	NewExamDone bool
}

// ExamCompleted reports whether an update is the examDone false -> true flip.
func ExamCompleted(wasDone *bool, isDone bool) bool {
	if !isDone {
		return false
	}
	return wasDone == nil || !*wasDone
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// firstMissing returns the name of the first blank field, or "".
func firstMissing(fields ...[2]string) string {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return f[0]
		}
	}
	return ""
}
