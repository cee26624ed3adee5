package forecast

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salespulse/internal/forecast/regress"
)

func init() {
	// The snapshot stores the model behind the Regressor interface, so
	// concrete backends must be registered for gob.
	gob.Register(&regress.Forest{})
}

// ModelSnapshot is the opaque (model, encoding) pair handed across the
// persistence boundary. Collaborators store and replay it unchanged; they
// never mutate the encoding.
type ModelSnapshot struct {
	SavedAt  time.Time
	Encoding *ProductEncoding
	Model    regress.Regressor
}

// Snapshot exports the current (model, encoding) pair for persistence.
func (e *Engine) Snapshot() (*ModelSnapshot, error) {
	e.mu.RLock()
	current := e.current
	e.mu.RUnlock()

	if current == nil {
		return nil, ErrNotTrained
	}

	return &ModelSnapshot{
		SavedAt:  e.now(),
		Encoding: current.encoding,
		Model:    current.model,
	}, nil
}

// Restore installs a previously snapshotted pair as the engine's current
// model, replacing whatever was trained before in one swap.
func (e *Engine) Restore(snapshot *ModelSnapshot) error {
	if snapshot == nil || snapshot.Model == nil || snapshot.Encoding == nil {
		return fmt.Errorf("restore: incomplete model snapshot")
	}

	e.mu.Lock()
	e.current = &trainedModel{model: snapshot.Model, encoding: snapshot.Encoding}
	e.mu.Unlock()

	return nil
}

// SaveSnapshot writes a snapshot to disk with gob encoding.
func SaveSnapshot(snapshot *ModelSnapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(snapshot); err != nil {
		return fmt.Errorf("encode model snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads a snapshot previously written by SaveSnapshot.
func LoadSnapshot(path string) (*ModelSnapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer file.Close()

	var snapshot ModelSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode model snapshot: %w", err)
	}

	return &snapshot, nil
}
