package models

// NetworkStats is the rolling counter snapshot pushed by the server alongside
// alerts. All counts are non-negative.
type NetworkStats struct {
	TotalPackets      int64 `json:"total_packets"`
	ThreatsDetected   int64 `json:"threats_detected"`
	BlockedIPs        int64 `json:"blocked_ips"`
	ActiveConnections int64 `json:"active_connections"`
}

// ThreatData aggregates the analytics the server exposes for charting.
type ThreatData struct {
	HourlyStats        []HourlyStat         `json:"hourly_stats"`
	ThreatDistribution []ThreatDistribution `json:"threat_distribution"`
	SeverityBreakdown  SeverityBreakdown    `json:"severity_breakdown"`
}

// HourlyStat is one bucket of the hourly threat histogram.
type HourlyStat struct {
	Time    string `json:"time"`
	Threats int    `json:"threats"`
	Blocked int    `json:"blocked"`
	Allowed int    `json:"allowed"`
}

// ThreatDistribution is one slice of the threat-type breakdown.
type ThreatDistribution struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// SeverityBreakdown counts alerts per severity.
type SeverityBreakdown struct {
	Low      int `json:"Low"`
	Medium   int `json:"Medium"`
	High     int `json:"High"`
	Critical int `json:"Critical"`
}
