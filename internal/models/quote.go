package models

// Quote is a single motivational quote. Immutable once created.
type Quote struct {
	Text      string `json:"text"`
	Author    string `json:"author"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}
