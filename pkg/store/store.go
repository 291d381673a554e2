package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
	"gopkg.in/yaml.v3"
)

// Version denotes the current version of the persisted record
const Version uint8 = 2

var (

	// ErrNotFound denotes that no record has been persisted yet
	ErrNotFound = errors.New("no persisted record found")

	// ErrVersionMismatch denotes a persisted record of a different version
	ErrVersionMismatch = errors.New("persisted record version mismatch")
)

// Record denotes the flat, versioned record of everything the operator can change
type Record struct {
	Version     uint8                   `yaml:"version"`
	Calibration gauge.CalibrationParams `yaml:"calibration"`
	Display     gauge.DisplayConfig     `yaml:"display"`
}

// Default returns the record used if nothing (valid) was persisted
func Default() Record {
	return Record{
		Version:     Version,
		Calibration: gauge.DefaultCalibrationParams(),
		Display:     gauge.DefaultDisplayConfig(),
	}
}

// Store denotes a persistence backend for the record
type Store interface {
	Load() (Record, error)
	Save(rec Record) error
}

// File denotes a record stored as YAML file
type File struct {
	path string
}

// NewFile instantiates a new file based store
func NewFile(path string) *File {
	return &File{
		path: path,
	}
}

// Path returns the location of the record
func (f *File) Path() string {
	return f.path
}

// Load reads the record from disk
func (f *File) Load() (Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("failed to read record: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to parse record: %w", err)
	}
	if rec.Version != Version {
		return Record{}, fmt.Errorf("%w: found %d, expected %d", ErrVersionMismatch, rec.Version, Version)
	}

	return rec, nil
}

// Save writes the record to disk (atomically replacing a previous one)
func (f *File) Save(rec Record) error {
	rec.Version = Version
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace record: %w", err)
	}

	return nil
}

// LoadOrDefault loads the record from the store. If none can be loaded (or its
// contents are invalid) the default record is returned and written back.
func LoadOrDefault(s Store, logger scale.Logger) Record {
	if logger == nil {
		logger = &scale.NullLogger{}
	}

	rec, err := s.Load()
	if err == nil {
		if verr := rec.Display.Validate(); verr != nil {
			err = verr
		}
	}
	if err == nil {
		return rec
	}

	logger.Warnf("could not load persisted record, falling back to defaults: %s", err)
	rec = Default()
	if serr := s.Save(rec); serr != nil {
		logger.Errorf("failed to persist default record: %s", serr)
	}

	return rec
}

// Memory denotes an in-memory store
type Memory struct {
	rec   *Record
	Saves int
}

// NewMemory instantiates a new in-memory store, optionally holding a record
func NewMemory(rec *Record) *Memory {
	return &Memory{
		rec: rec,
	}
}

// Load returns the stored record
func (m *Memory) Load() (Record, error) {
	if m.rec == nil {
		return Record{}, ErrNotFound
	}
	if m.rec.Version != Version {
		return Record{}, ErrVersionMismatch
	}
	return *m.rec, nil
}

// Save stores the record
func (m *Memory) Save(rec Record) error {
	rec.Version = Version
	m.rec = &rec
	m.Saves++
	return nil
}
