package storage

import (
	"errors"

	"github.com/feedingfoundation/locator/internal/models"
)

var (
	ErrNotFound  = errors.New("location not found")
	ErrDuplicate = errors.New("location already exists")
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider persists the location directory. Implementations keep locations
// in insertion order and are safe for concurrent use once loaded.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Locations
	//
	// AddLocation assigns an ID when missing and defaults Active to true.
	// It returns ErrDuplicate when a location with the same name and
	// address is already stored.
	AddLocation(models.Location) (models.Location, error)
	GetLocation(id string) (models.Location, error)
	// GetAllLocations includes inactive locations; filtering is the
	// caller's job.
	GetAllLocations() ([]models.Location, error)
	UpdateLocation(models.Location) error
	DeleteLocation(id string) error
	// ReplaceAll swaps the whole directory for locs, e.g. after geocoding.
	ReplaceAll(locs []models.Location) error

	// Utils
	GetConfigPath() string
}

// Reloader is implemented by stores that cache their contents in memory.
// Reload picks up changes made to the backing file by other processes.
type Reloader interface {
	Reload() error
}
