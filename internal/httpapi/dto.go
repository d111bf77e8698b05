package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/kanban/internal/domain"
)

// TimeLayout is the wire format of start and end times. Times are UTC.
const TimeLayout = "02.01.2006T15:04:05"

// itemRequest is the body of POST and PUT requests for all kinds.
// Fields are ordered to minimize memory padding.
type itemRequest struct {
	ID          *int    `json:"id"`
	StartTime   *string `json:"startTime"`
	Duration    *int64  `json:"duration"` // minutes
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	EpicID      int     `json:"epicId"`
}

// schedule parses the optional start time and duration.
func (r *itemRequest) schedule() (*time.Time, *time.Duration, error) {
	var start *time.Time
	if r.StartTime != nil && *r.StartTime != "" {
		t, err := time.ParseInLocation(TimeLayout, *r.StartTime, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: startTime: %w", errBadRequest, err)
		}
		start = &t
	}

	var duration *time.Duration
	if r.Duration != nil {
		if *r.Duration < 0 {
			return nil, nil, fmt.Errorf("%w: duration must not be negative", errBadRequest)
		}
		d := time.Duration(*r.Duration) * time.Minute
		duration = &d
	}
	return start, duration, nil
}

// status parses the status field. An empty status is returned as is.
func (r *itemRequest) status() (domain.Status, error) {
	if r.Status == "" {
		return "", nil
	}
	s, err := domain.ParseStatus(r.Status)
	if err != nil {
		return "", err
	}
	return s, nil
}

// name returns the trimmed name of a PUT body. Blank names are rejected.
func (r *itemRequest) name() (string, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return "", domain.ErrEmptyName
	}
	return name, nil
}

// task converts a PUT body into a full task record with the given id.
func (r *itemRequest) task(id int) (*domain.Task, error) {
	if r.ID != nil && *r.ID != id {
		return nil, fmt.Errorf("%w: body id %d does not match path id %d", errBadRequest, *r.ID, id)
	}
	name, err := r.name()
	if err != nil {
		return nil, err
	}
	start, duration, err := r.schedule()
	if err != nil {
		return nil, err
	}
	status, err := r.status()
	if err != nil {
		return nil, err
	}
	return &domain.Task{
		ID:          id,
		Name:        name,
		Description: r.Description,
		Status:      status,
		Start:       start,
		Duration:    duration,
	}, nil
}

// itemResponse is the JSON form of a task, epic or subtask.
// Fields are ordered to minimize memory padding.
type itemResponse struct {
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Duration    *int64  `json:"duration"` // minutes
	SubTaskIDs  []int   `json:"subTaskIds,omitempty"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	ID          int     `json:"id"`
	EpicID      int     `json:"epicId,omitempty"`
}

// toResponse converts any entity to its JSON form.
func toResponse(e domain.Entity) itemResponse {
	switch v := e.(type) {
	case *domain.Task:
		return taskResponse(v, domain.KindTask)
	case *domain.SubTask:
		resp := taskResponse(&v.Task, domain.KindSubTask)
		resp.EpicID = v.EpicID
		return resp
	case *domain.EpicView:
		minutes := int64(v.Timeline.Duration / time.Minute)
		return itemResponse{
			ID:          v.ID,
			Type:        string(domain.KindEpic),
			Name:        v.Name,
			Description: v.Description,
			Status:      string(v.Status),
			StartTime:   formatTime(v.Timeline.Start),
			EndTime:     formatTime(v.Timeline.End),
			Duration:    &minutes,
			SubTaskIDs:  v.SubTaskIDs,
		}
	default:
		panic(fmt.Sprintf("httpapi: unknown entity type %T", e))
	}
}

func taskResponse(t *domain.Task, kind domain.Kind) itemResponse {
	resp := itemResponse{
		ID:          t.ID,
		Type:        string(kind),
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		StartTime:   formatTime(t.Start),
	}
	if t.Duration != nil {
		minutes := int64(*t.Duration / time.Minute)
		resp.Duration = &minutes
	}
	if end, ok := t.End(); ok {
		resp.EndTime = formatTime(&end)
	}
	return resp
}

func toResponses[E domain.Entity](items []E) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toResponse(e))
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(TimeLayout)
	return &s
}
