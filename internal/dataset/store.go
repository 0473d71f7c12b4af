package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Document is a typed dataset root. Validate reports a contract violation
// when a required key or field is absent or unusable; it runs on every
// load, never on fallback documents.
type Document interface {
	Validate() error
}

// Store reads and writes one JSON dataset file as a whole. Loads happen
// per call so external edits are picked up; mutations replace the entire
// file. A Store serializes its own writers and keeps in-process reads from
// observing a half-written file, but offers no protection against writers
// in other processes.
type Store[T Document] struct {
	path     string
	fallback func() T

	mu sync.RWMutex
}

// Option configures a Store.
type Option[T Document] func(*Store[T])

// WithFallback makes a missing backing file yield the given document
// instead of a not-found failure. Parse and contract failures still fail;
// the fallback only covers absence.
func WithFallback[T Document](fn func() T) Option[T] {
	return func(s *Store[T]) {
		s.fallback = fn
	}
}

// New creates a Store over the dataset file at path. Nothing is read until
// the first Load or Update.
func New[T Document](path string, options ...Option[T]) *Store[T] {
	s := &Store[T]{path: path}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Load reads, decodes, and validates the dataset.
func (s *Store[T]) Load(ctx context.Context) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load(ctx)
}

// Save replaces the backing file with the serialized document.
func (s *Store[T]) Save(ctx context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, doc)
}

// Update runs one load-modify-persist cycle under the write lock. When fn
// fails the backing file is left untouched. The persisted document is
// returned.
func (s *Store[T]) Update(ctx context.Context, fn func(T) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return zero, err
	}

	updated, err := fn(doc)
	if err != nil {
		return zero, err
	}

	if err := s.save(ctx, updated); err != nil {
		return zero, err
	}
	return updated, nil
}

func (s *Store[T]) load(ctx context.Context) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	bs, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if s.fallback != nil {
				return s.fallback(), nil
			}
			return zero, NewNotFound(s.name(), err)
		}
		return zero, fmt.Errorf("failed to read dataset: %w", err)
	}

	return Decode[T](s.name(), bs)
}

func (s *Store[T]) save(ctx context.Context, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bs, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if err := os.WriteFile(s.path, bs, 0600); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

func (s *Store[T]) name() string {
	return filepath.Base(s.path)
}

// Decode unmarshals and validates one dataset document. A JSON syntax
// failure maps to the malformed-data kind, a field type mismatch to a
// contract violation carrying the offending field.
func Decode[T Document](name string, bs []byte) (T, error) {
	var doc T
	if err := json.Unmarshal(bs, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "dataset"
			}
			return doc, NewContractViolation(field,
				fmt.Sprintf("cannot decode %s into %s", typeErr.Value, typeErr.Type))
		}
		return doc, NewMalformed(name, err)
	}

	if err := doc.Validate(); err != nil {
		return doc, err
	}
	return doc, nil
}

// Marshal renders v in the backing-file format: two-space indentation,
// non-ASCII and HTML characters left unescaped, trailing newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
