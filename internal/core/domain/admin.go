package domain

import "time"

// AdminDashboard aggregates the counters shown on the admin landing view.
type AdminDashboard struct {
	WorkspaceCount  int64 `json:"workspaceCount"`
	ActiveUserCount int64 `json:"activeUserCount"`
}

// LogEntry is one server-side audit log line.
type LogEntry struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	LogLevel  string    `json:"logLevel"`
	Message   string    `json:"message"`
	MemberID  int64     `json:"memberId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// LogFilter narrows a log search; zero values are omitted from the query.
type LogFilter struct {
	Source   string
	LogLevel string
	MemberID int64
}

// RoleDefinition is an entry of the server's role catalogue.
type RoleDefinition struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
