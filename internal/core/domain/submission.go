package domain

// Marks are percentages.
const (
	MinMarks = 0
	MaxMarks = 100
)

// SubmissionMark assigns marks to a single exam submission.
type SubmissionMark struct {
	SubmissionID int64
	Marks        float64
}

// Valid reports whether the marks are inside the accepted range.
func (m SubmissionMark) Valid() bool {
	return m.Marks >= MinMarks && m.Marks <= MaxMarks
}
