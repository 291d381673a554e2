package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	rec := Default()

	assert.Equal(t, Version, rec.Version)
	assert.Equal(t, gauge.DefaultDisplayConfig(), rec.Display)
	assert.Equal(t, gauge.DefaultCalibrationParams(), rec.Calibration)
}

func TestFileNotFound(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := f.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileSaveLoad(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "sub", "record.yaml"))

	rec := Default()
	rec.Calibration = gauge.CalibrationParams{Offset: 84213, Scale: 0.0021}
	rec.Display.Mode = gauge.ModeSegmented
	rec.Display.Brightness = 60
	require.NoError(t, f.Save(rec))

	loaded, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode: segmented")
}

func TestFileVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\ncalibration:\n  offset: 3\n  scale: 1\n"), 0644))

	_, err := NewFile(path).Load()
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: [2"), 0644))

	_, err := NewFile(path).Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLoadOrDefault(t *testing.T) {
	m := NewMemory(nil)
	rec := LoadOrDefault(m, nil)
	assert.Equal(t, Default(), rec)
	assert.Equal(t, 1, m.Saves)

	// Defaults have been written back and are loaded from now on
	rec = LoadOrDefault(m, nil)
	assert.Equal(t, Default(), rec)
	assert.Equal(t, 1, m.Saves)
}

func TestLoadOrDefaultInvalidContents(t *testing.T) {
	bad := Default()
	bad.Display.UnitPerServing = 0
	m := NewMemory(&bad)

	assert.Equal(t, Default(), LoadOrDefault(m, nil))
	assert.Equal(t, 1, m.Saves)
}

func TestLoadOrDefaultVersionMismatch(t *testing.T) {
	old := Default()
	old.Version = 1
	old.Display.Brightness = 99

	assert.Equal(t, Default(), LoadOrDefault(NewMemory(&old), nil))
}
