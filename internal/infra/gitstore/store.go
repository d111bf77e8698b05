// Package gitstore keeps the backup as a YAML blob inside a Git repository.
//
// Data structure:
//
//	refs/<namespace>/
//	  backup            → blob (records YAML)
//	  snapshots/
//	    <timestamp>     → blob (copy of backup at that time)
//
// Only plumbing is used: blobs are written straight to the object
// database and refs point at them, so the working tree and branches
// are never touched.
package gitstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/kanban/internal/domain"
)

// Ensure Store implements the backup ports.
var (
	_ domain.Backup      = (*Store)(nil)
	_ domain.Snapshotter = (*Store)(nil)
)

// documentVersion is bumped when the YAML layout changes.
const documentVersion = 1

// document is the YAML layout of a backup blob.
type document struct {
	Records []domain.Record `yaml:"records"`
	Version int             `yaml:"version"`
}

// Store implements domain.Backup using Git plumbing (refs and blobs).
type Store struct {
	repo      *git.Repository
	namespace string // e.g., "kanban"
	mu        sync.RWMutex
}

// Open opens the repository at path or, failing that, the one containing
// it. If neither exists a bare repository is created at path.
func Open(path, namespace string) (*Store, error) {
	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	}
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(path, true)
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	return &Store{repo: repo, namespace: namespace}
}

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

// backupRef returns the ref name of the current backup.
func (s *Store) backupRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "backup")
}

// snapshotRef returns the ref name of a snapshot.
func (s *Store) snapshotRef(name string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "snapshots/" + name)
}

// Save writes records to a new blob and points the backup ref at it.
func (s *Store) Save(_ context.Context, records []domain.Record) error {
	sorted := slices.Clone(records)
	domain.SortRecords(sorted)

	data, err := yaml.Marshal(document{Version: documentVersion, Records: sorted})
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(s.backupRef(), hash)); err != nil {
		return fmt.Errorf("set backup ref: %w", err)
	}
	return nil
}

// Load reads the records the backup ref points at.
// A missing ref yields no records.
func (s *Store) Load(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(s.backupRef(), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get backup ref: %w", err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("backup version %d is newer than supported version %d", doc.Version, documentVersion)
	}
	for _, r := range doc.Records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Records, nil
}

// Snapshot points a new snapshot ref at the current backup blob.
// Blobs are immutable, so no data is copied.
func (s *Store) Snapshot(_ context.Context, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hash plumbing.Hash
	ref, err := s.repo.Reference(s.backupRef(), true)
	switch {
	case err == nil:
		hash = ref.Hash()
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		data, encErr := yaml.Marshal(document{Version: documentVersion})
		if encErr != nil {
			return "", fmt.Errorf("encode backup: %w", encErr)
		}
		if hash, err = s.writeBlob(data); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("get backup ref: %w", err)
	}

	name := at.UTC().Format("20060102T150405Z")
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(s.snapshotRef(name), hash)); err != nil {
		return "", fmt.Errorf("set snapshot ref: %w", err)
	}
	return name, nil
}

// Snapshots lists snapshot names, oldest first.
func (s *Store) Snapshots(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	defer refs.Close()

	prefix := s.refPrefix() + "snapshots/"
	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if name, ok := strings.CutPrefix(string(ref.Name()), prefix); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate refs: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// writeBlob writes data as a blob object and returns its hash.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}
	return hash, nil
}

// readBlob reads the content of a blob object.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}
