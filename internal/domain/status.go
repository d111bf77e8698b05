package domain

import "fmt"

// Status represents the lifecycle state of a task, epic or subtask.
type Status string

const (
	StatusNew        Status = "NEW"         // Created, not started
	StatusInProgress Status = "IN_PROGRESS" // Work under way
	StatusDone       Status = "DONE"        // Finished
)

// AllStatuses returns all valid status values in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusDone}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// IsDone returns true if the status is terminal.
func (s Status) IsDone() bool {
	return s == StatusDone
}

// OrNew returns StatusNew for the empty status, s otherwise.
// Clients that omit a status on creation mean NEW.
func (s Status) OrNew() Status {
	if s == "" {
		return StatusNew
	}
	return s
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// ParseStatus parses a status name. Lowercase input is accepted.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "NEW", "new":
		return StatusNew, nil
	case "IN_PROGRESS", "in_progress":
		return StatusInProgress, nil
	case "DONE", "done":
		return StatusDone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}
