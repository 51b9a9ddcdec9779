package models

// Severity tells the client how to surface a reported error.
type Severity string

const (
	SeverityAlert   Severity = "alert"
	SeverityConsole Severity = "console"
)

type Notice struct {
	Message  string   `json:"message"` // message key, localized by the client
	Severity Severity `json:"severity"`
}
