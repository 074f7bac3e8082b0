package domain

// DocumentProperties is both the fetched document state and the partial
// update payload sent back to the API.
type DocumentProperties struct {
	Title       string `json:"title"`
	CreatedDate string `json:"created_date"`
}

// DateMatch holds the digit groups captured from a title prefix and the
// full matched span, including trailing separator and whitespace.
type DateMatch struct {
	Year    string
	Month   string
	Day     string
	Prefix  string
	Pattern string
}

func (m DateMatch) CreatedDate() string {
	return m.Year + "-" + m.Month + "-" + m.Day
}

type Outcome string

const (
	OutcomeUpdated Outcome = "updated"
	OutcomeNoMatch Outcome = "no_match"
	OutcomeDryRun  Outcome = "dry_run"
	OutcomeFailed  Outcome = "failed"
)

type NormalizeResult struct {
	DocumentID int
	Outcome    Outcome
	Before     DocumentProperties
	After      DocumentProperties
}

type DocumentNormalized struct {
	DocumentID    int    `json:"document_id"`
	PreviousTitle string `json:"previous_title"`
	Title         string `json:"title"`
	CreatedDate   string `json:"created_date"`
}
