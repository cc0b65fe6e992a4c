package interfaces

// LogEntry is a parsed log line surfaced to the UI via /api/logs/recent.
type LogEntry struct {
	Index     int    `json:"index"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}
