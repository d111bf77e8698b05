package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/usecase"
)

func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

func decode(r *http.Request) (*itemRequest, error) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return &req, nil
}

// requestID returns the id a create request asks for. Absent means auto.
func (r *itemRequest) requestID() int {
	if r.ID == nil {
		return usecase.AutoID
	}
	return *r.ID
}

// Tasks

func (s *Server) listTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toResponses(s.manager.Tasks()))
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	req, err := decode(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, duration, err := req.schedule()
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := req.status()
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.createTask.Execute(r.Context(), usecase.CreateTaskInput{
		ID:          req.requestID(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Start:       start,
		Duration:    duration,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(out.Task))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.manager.GetTask(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(t))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decode(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := req.task(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.manager.UpdateTask(t); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) removeTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.manager.RemoveTask(id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Epics

func (s *Server) listEpics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toResponses(s.manager.Epics()))
}

func (s *Server) addEpic(w http.ResponseWriter, r *http.Request) {
	req, err := decode(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := req.status()
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.createEpic.Execute(r.Context(), usecase.CreateEpicInput{
		ID:          req.requestID(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(out.Epic))
}

func (s *Server) getEpic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.manager.GetEpic(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(e))
}

// updateEpic replaces name and description; status and schedule in the
// body are ignored since they are derived.
func (s *Server) updateEpic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decode(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID != nil && *req.ID != id {
		writeError(w, r, fmt.Errorf("%w: body id %d does not match path id %d", errBadRequest, *req.ID, id))
		return
	}
	name, err := req.name()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.manager.UpdateEpic(&domain.Epic{ID: id, Name: name, Description: req.Description}); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) removeEpic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.manager.RemoveEpic(id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listEpicSubTasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	subtasks, err := s.manager.EpicSubTasks(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponses(subtasks))
}

// SubTasks

func (s *Server) listSubTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toResponses(s.manager.SubTasks()))
}

func (s *Server) addSubTask(w http.ResponseWriter, r *http.Request) {
	req, err := decode(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, duration, err := req.schedule()
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := req.status()
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.createSubTask.Execute(r.Context(), usecase.CreateSubTaskInput{
		ID:          req.requestID(),
		EpicID:      req.EpicID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Start:       start,
		Duration:    duration,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(out.SubTask))
}

func (s *Server) getSubTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.manager.GetSubTask(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st))
}

// updateSubTask replaces the subtask; epicId in the body is ignored.
func (s *Server) updateSubTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decode(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := req.task(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.manager.UpdateSubTask(&domain.SubTask{Task: *t}); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) removeSubTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.manager.RemoveSubTask(id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Views

func (s *Server) history(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toResponses(s.manager.History()))
}

func (s *Server) prioritized(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toResponses(s.manager.Prioritized()))
}
