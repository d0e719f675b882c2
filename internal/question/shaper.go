package question

// Shape converts a selected question at the given zero-based position into
// its exam record.
func Shape(q Question, position int) ExamQuestion {
	eq := ExamQuestion{
		QIndex:       position + 1,
		QuestionText: q.QuestionText,
		Duration:     q.Duration,
		Type:         q.Type,
	}
	if q.Type == TypeMCQ {
		eq.Options = q.Options
		eq.CodeSnippet = q.CodeSnippet
		return eq
	}
	// challenge answers start from the scaffold the candidate edits
	eq.Type = TypeChallenge
	eq.Answer = q.AnswerTemplate
	return eq
}

// ShapeAll shapes a full selection, numbering questions 1..n.
func ShapeAll(selected []Question) []ExamQuestion {
	out := make([]ExamQuestion, len(selected))
	for i, q := range selected {
		out[i] = Shape(q, i)
	}
	return out
}
