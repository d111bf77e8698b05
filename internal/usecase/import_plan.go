package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/kanban/internal/domain"
)

// Plan is the YAML document accepted by ImportPlan.
//
//	tasks:
//	  - name: Write report
//	    start: 2024-03-01T09:00:00Z
//	    duration: 90m
//	epics:
//	  - name: Release
//	    subtasks:
//	      - name: Tag
//	        duration: 15m
type Plan struct {
	Tasks []PlanItem `yaml:"tasks"`
	Epics []PlanEpic `yaml:"epics"`
}

// PlanItem is a task or subtask in a plan.
// Fields are ordered to minimize memory padding.
type PlanItem struct {
	Start       *time.Time `yaml:"start"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Duration    string     `yaml:"duration"` // Go duration syntax, e.g. "1h30m"
}

// PlanEpic is an epic in a plan together with its subtasks.
type PlanEpic struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	SubTasks    []PlanItem `yaml:"subtasks"`
}

// ParsePlan decodes and validates a YAML plan.
func ParsePlan(content string) (*Plan, error) {
	var plan Plan
	dec := yaml.NewDecoder(strings.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyPlan
		}
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if len(plan.Tasks) == 0 && len(plan.Epics) == 0 {
		return nil, domain.ErrEmptyPlan
	}

	for i, t := range plan.Tasks {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("tasks[%d]: %w", i, err)
		}
	}
	for i, e := range plan.Epics {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("epics[%d]: %w", i, domain.ErrEmptyName)
		}
		for j, st := range e.SubTasks {
			if err := st.validate(); err != nil {
				return nil, fmt.Errorf("epics[%d].subtasks[%d]: %w", i, j, err)
			}
		}
	}
	return &plan, nil
}

func (p PlanItem) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.ErrEmptyName
	}
	_, err := p.duration()
	return err
}

func (p PlanItem) duration() (*time.Duration, error) {
	if p.Duration == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(p.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", p.Duration, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("invalid duration %q: negative", p.Duration)
	}
	return &d, nil
}

// ImportPlanInput contains the parameters for importing a plan.
type ImportPlanInput struct {
	Content string // YAML plan
	DryRun  bool   // Parse and validate without creating anything
}

// ImportedItem describes one item created (or that would be created) by ImportPlan.
type ImportedItem struct {
	Name   string
	Kind   domain.Kind
	ID     int
	EpicID int // Owning epic for subtasks
}

// ImportPlanOutput contains the result of importing a plan.
type ImportPlanOutput struct {
	Items []ImportedItem
}

// ImportPlan is the use case for creating tasks, epics and subtasks from a YAML plan.
type ImportPlan struct {
	manager domain.TaskManager
	logger  domain.Logger
}

// NewImportPlan creates a new ImportPlan use case.
func NewImportPlan(manager domain.TaskManager, logger domain.Logger) *ImportPlan {
	return &ImportPlan{manager: manager, logger: orNop(logger)}
}

// Execute creates the plan's items in document order: tasks first, then
// each epic followed by its subtasks. Creation stops at the first error;
// items created before it are kept and reported.
func (uc *ImportPlan) Execute(_ context.Context, in ImportPlanInput) (*ImportPlanOutput, error) {
	plan, err := ParsePlan(in.Content)
	if err != nil {
		return nil, err
	}

	out := &ImportPlanOutput{}
	if in.DryRun {
		for _, t := range plan.Tasks {
			out.Items = append(out.Items, ImportedItem{Kind: domain.KindTask, Name: t.Name})
		}
		for _, e := range plan.Epics {
			out.Items = append(out.Items, ImportedItem{Kind: domain.KindEpic, Name: e.Name})
			for _, st := range e.SubTasks {
				out.Items = append(out.Items, ImportedItem{Kind: domain.KindSubTask, Name: st.Name})
			}
		}
		return out, nil
	}

	for _, t := range plan.Tasks {
		d, _ := t.duration()
		task := &domain.Task{
			ID:          uc.manager.NextID(),
			Name:        strings.TrimSpace(t.Name),
			Description: t.Description,
			Status:      domain.StatusNew,
			Start:       t.Start,
			Duration:    d,
		}
		if err := uc.manager.AddTask(task); err != nil {
			return out, fmt.Errorf("add task %q: %w", t.Name, err)
		}
		out.Items = append(out.Items, ImportedItem{Kind: domain.KindTask, ID: task.ID, Name: task.Name})
	}

	for _, e := range plan.Epics {
		epic := &domain.Epic{
			ID:          uc.manager.NextID(),
			Name:        strings.TrimSpace(e.Name),
			Description: e.Description,
			Status:      domain.StatusNew,
		}
		if err := uc.manager.AddEpic(epic); err != nil {
			return out, fmt.Errorf("add epic %q: %w", e.Name, err)
		}
		out.Items = append(out.Items, ImportedItem{Kind: domain.KindEpic, ID: epic.ID, Name: epic.Name})

		for _, item := range e.SubTasks {
			d, _ := item.duration()
			st := &domain.SubTask{Task: domain.Task{
				ID:          uc.manager.NextID(),
				Name:        strings.TrimSpace(item.Name),
				Description: item.Description,
				Status:      domain.StatusNew,
				Start:       item.Start,
				Duration:    d,
			}}
			if err := uc.manager.AddSubTask(st, epic); err != nil {
				return out, fmt.Errorf("add subtask %q: %w", item.Name, err)
			}
			out.Items = append(out.Items, ImportedItem{Kind: domain.KindSubTask, ID: st.ID, Name: st.Name, EpicID: epic.ID})
		}
	}

	uc.logger.Info(0, "import", fmt.Sprintf("imported %d items", len(out.Items)))
	return out, nil
}
