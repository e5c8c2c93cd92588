package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/KaramelBytes/cosmochem-cli/internal/utils"
	"github.com/google/uuid"
)

// Manifest records what one analysis run read and wrote.
type Manifest struct {
	RunID     string    `json:"run_id"`
	Timestamp string    `json:"timestamp"`
	Source    string    `json:"source"`
	Records   int       `json:"records"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}

// NewManifest starts a manifest for run id; an empty id gets a fresh UUID.
func NewManifest(runID, stamp, source string, records int) *Manifest {
	if runID == "" {
		runID = uuid.New().String()
	}
	return &Manifest{
		RunID:     runID,
		Timestamp: stamp,
		Source:    source,
		Records:   records,
		CreatedAt: time.Now(),
	}
}

// Save writes the manifest as indented JSON using atomic write.
func (m *Manifest) Save(path string) error {
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
