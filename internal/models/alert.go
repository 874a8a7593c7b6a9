package models

import "time"

// Severity classifies how dangerous a detected threat is. The set is ordered:
// Low < Medium < High < Critical.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Rank returns the position of the severity in the ordered set. Unknown
// values rank below Low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Valid reports whether the severity is one of the enumerated values.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Status tracks the handling state of an alert. Transitions move toward
// Blocked and never reverse to Active; the server owns the transition except
// for the client-optimistic block case.
type Status string

const (
	StatusActive        Status = "Active"
	StatusInvestigating Status = "Investigating"
	StatusBlocked       Status = "Blocked"
)

// Alert is one detected security event as reported by the server. It is
// immutable once created; updates arrive as whole replacement records keyed
// by ID.
type Alert struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	SourceIP      string    `json:"source_ip"`
	DestinationIP string    `json:"destination_ip"`
	ThreatType    string    `json:"threat_type"`
	Severity      Severity  `json:"severity"`
	Status        Status    `json:"status"`
	Description   string    `json:"description"`
	Port          int       `json:"port"`
	Protocol      string    `json:"protocol"`
}
