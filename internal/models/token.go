package models

// CalendarTestResult is the relay's confidence signal from its one
// verification call against the provider.
type CalendarTestResult struct {
	CalendarCount int    `json:"calendarCount"`
	ResponseText  string `json:"responseText,omitempty"`
}

// CalendarTokenBundle holds the tokens returned by a completed OAuth
// flow for one calendar provider. Overwritten on reconnect, removed on
// disconnect.
type CalendarTokenBundle struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	ExpiresAt    int64               `json:"expiresAt"` // epoch milliseconds
	Scope        string              `json:"scope,omitempty"`
	TokenType    string              `json:"tokenType,omitempty"`
	Test         *CalendarTestResult `json:"test,omitempty"`
}
