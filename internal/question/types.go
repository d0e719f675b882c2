package question

// Type constants.
const (
	TypeMCQ       = "mcq"
	TypeChallenge = "challenge"
)

// DefaultPerType is how many questions of each type an exam targets.
const DefaultPerType = 5

// Question is a question bank record. Options and CodeSnippet are only set
// for MCQs, AnswerTemplate only for challenges.
type Question struct {
	QuestionText   string   `json:"questionText"`
	Duration       int      `json:"duration"`
	Type           string   `json:"type"`
	Options        []string `json:"options,omitempty"`
	CodeSnippet    string   `json:"codeSnippet,omitempty"`
	AnswerTemplate string   `json:"answerTemplate,omitempty"`
}

// ExamQuestion is a question as it appears inside a generated exam.
type ExamQuestion struct {
	QIndex       int      `json:"qindex"`
	QuestionText string   `json:"questionText"`
	TsStarted    string   `json:"tsStarted"`
	TsAnswered   string   `json:"tsAnswered"`
	Duration     int      `json:"duration"`
	Type         string   `json:"type"`
	Options      []string `json:"options,omitempty"`
	CodeSnippet  string   `json:"codeSnippet,omitempty"`
	Answer       string   `json:"answer"`
}

// Pools is the question bank split by type, each in bank order.
type Pools struct {
	MCQ        []Question `json:"mcq"`
	Challenges []Question `json:"challenges"`
}

// Partition splits questions by type, keeping their relative order.
// It returns the number of records skipped because of an unknown type.
func Partition(questions []Question) (Pools, int) {
	var (
		pools   Pools
		skipped int
	)
	for _, q := range questions {
		switch q.Type {
		case TypeMCQ:
			pools.MCQ = append(pools.MCQ, q)
		case TypeChallenge:
			pools.Challenges = append(pools.Challenges, q)
		default:
			skipped++
		}
	}
	return pools, skipped
}
