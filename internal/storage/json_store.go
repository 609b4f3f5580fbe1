package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/models"
)

// Document is the on-disk shape of locations.json.
type Document struct {
	Locations []models.Location `json:"locations"`
}

// JSONStore keeps the directory in a single locations.json file, rewritten
// on every change.
type JSONStore struct {
	path string

	mu   sync.RWMutex
	locs []models.Location
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locs = []models.Location{}
	return s.save()
}

// Load reads the file and back-fills missing IDs, saving them back so they
// stay stable across runs.
func (s *JSONStore) Load() error {
	doc, err := ReadDocument(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("storage not initialized, run 'locator init' first")
		}
		return err
	}

	locs, filled := BackfillIDs(doc.Locations)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locs = locs
	if filled > 0 {
		logger.Info("assigned missing location IDs", "count", filled, "path", s.path)
		return s.save()
	}
	return nil
}

// Reload re-reads the file, dropping the in-memory copy.
func (s *JSONStore) Reload() error {
	return s.Load()
}

func (s *JSONStore) Close() error {
	return nil
}

// ReadDocument decodes a locations file. A file without a "locations" array
// is rejected.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw struct {
		Locations *[]models.Location `json:"locations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if raw.Locations == nil {
		return Document{}, fmt.Errorf("%s missing \"locations\" array", path)
	}
	return Document{Locations: *raw.Locations}, nil
}

// WriteDocument writes doc with two-space indentation.
func WriteDocument(path string, doc Document) error {
	if doc.Locations == nil {
		doc.Locations = []models.Location{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize locations: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// save must be called with mu held.
func (s *JSONStore) save() error {
	return WriteDocument(s.path, Document{Locations: s.locs})
}

func (s *JSONStore) AddLocation(loc models.Location) (models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locs == nil {
		return models.Location{}, ErrNotLoaded
	}

	loc = Prepare(loc)
	if err := CheckDuplicate(s.locs, loc); err != nil {
		return models.Location{}, err
	}
	s.locs = append(s.locs, loc)
	if err := s.save(); err != nil {
		s.locs = s.locs[:len(s.locs)-1]
		return models.Location{}, err
	}
	return loc, nil
}

func (s *JSONStore) GetLocation(id string) (models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.locs == nil {
		return models.Location{}, ErrNotLoaded
	}

	if i := s.indexOf(id); i >= 0 {
		return s.locs[i], nil
	}
	return models.Location{}, NotFound(id)
}

func (s *JSONStore) GetAllLocations() ([]models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.locs == nil {
		return nil, ErrNotLoaded
	}

	out := make([]models.Location, len(s.locs))
	copy(out, s.locs)
	return out, nil
}

func (s *JSONStore) UpdateLocation(loc models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locs == nil {
		return ErrNotLoaded
	}

	i := s.indexOf(loc.ID)
	if i < 0 {
		return NotFound(loc.ID)
	}
	for j, other := range s.locs {
		if j != i && other.SameAs(loc) {
			return fmt.Errorf("%w: %s (%s)", ErrDuplicate, loc.Name, loc.Address)
		}
	}

	prev := s.locs[i]
	s.locs[i] = loc
	if err := s.save(); err != nil {
		s.locs[i] = prev
		return err
	}
	return nil
}

func (s *JSONStore) DeleteLocation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locs == nil {
		return ErrNotLoaded
	}

	i := s.indexOf(id)
	if i < 0 {
		return NotFound(id)
	}
	prev := s.locs
	s.locs = append(append([]models.Location{}, s.locs[:i]...), s.locs[i+1:]...)
	if err := s.save(); err != nil {
		s.locs = prev
		return err
	}
	return nil
}

func (s *JSONStore) ReplaceAll(locs []models.Location) error {
	filled, _ := BackfillIDs(locs)

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.locs
	s.locs = filled
	if err := s.save(); err != nil {
		s.locs = prev
		return err
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) indexOf(id string) int {
	for i, loc := range s.locs {
		if loc.ID == id {
			return i
		}
	}
	return -1
}
