package usecase

import (
	"time"

	"github.com/runoshun/kanban/internal/infra/memstore"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestManager() *memstore.Store {
	return memstore.New(nil, nil)
}

func ptr[T any](v T) *T {
	return &v
}
