package domain

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Entry is a single transcript line shown in the panel.
type Entry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Status is the panel's one-line progress indicator.
type Status string

const (
	StatusReady   Status = "Ready"
	StatusResolve Status = "Getting video id..."
	StatusNoVideo Status = "No video"
	StatusAsking  Status = "Asking backend..."
	StatusDone    Status = "Done"
	StatusError   Status = "Error"
	StatusOffline Status = "Offline"
)
