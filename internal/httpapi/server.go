// Package httpapi exposes the tracker over HTTP/JSON.
//
// Routes follow the collection/item pattern for each kind:
//
//	/tasks            GET, POST
//	/tasks/{id}       GET, PUT, DELETE
//	/epics            GET, POST
//	/epics/{id}       GET, PUT, DELETE
//	/epics/{id}/subtasks GET
//	/subtasks         GET, POST
//	/subtasks/{id}    GET, PUT, DELETE
//	/history          GET
//	/prioritized      GET
//	/health           GET
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/usecase"
)

// Options configures a Server.
// Fields are ordered to minimize memory padding.
type Options struct {
	Logger *slog.Logger  // Request log (default slog.Default())
	Events domain.Logger // Entity log passed to use cases (optional)
	Addr   string        // host:port to listen on
	CORS   []string      // Allowed origins; empty disables CORS handling
}

// Server serves the HTTP API on top of a TaskManager.
// Fields are ordered to minimize memory padding.
type Server struct {
	manager       domain.TaskManager
	logger        *slog.Logger
	createTask    *usecase.CreateTask
	createEpic    *usecase.CreateEpic
	createSubTask *usecase.CreateSubTask
	server        *http.Server
	addr          string
	cors          []string
}

// New creates a Server.
func New(manager domain.TaskManager, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		manager:       manager,
		logger:        logger,
		createTask:    usecase.NewCreateTask(manager, opts.Events),
		createEpic:    usecase.NewCreateEpic(manager, opts.Events),
		createSubTask: usecase.NewCreateSubTask(manager, opts.Events),
		addr:          opts.Addr,
		cors:          opts.CORS,
	}
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		slogMiddleware(s.logger),
	)
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", s.health)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.addTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getTask)
			r.Put("/", s.updateTask)
			r.Delete("/", s.removeTask)
		})
	})

	r.Route("/epics", func(r chi.Router) {
		r.Get("/", s.listEpics)
		r.Post("/", s.addEpic)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getEpic)
			r.Put("/", s.updateEpic)
			r.Delete("/", s.removeEpic)
			r.Get("/subtasks", s.listEpicSubTasks)
		})
	})

	r.Route("/subtasks", func(r chi.Router) {
		r.Get("/", s.listSubTasks)
		r.Post("/", s.addSubTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSubTask)
			r.Put("/", s.updateSubTask)
			r.Delete("/", s.removeSubTask)
		})
	})

	r.Get("/history", s.history)
	r.Get("/prioritized", s.prioritized)

	if len(s.cors) == 0 {
		return r
	}
	return cors.New(cors.Options{
		AllowedOrigins: s.cors,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

// ListenAndServe serves until Shutdown is called. ctx becomes the base
// context of every request. Calling Shutdown first makes it return
// immediately.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	s.logger.Info("starting server", "addr", s.addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
