package compiler

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the project file bfcc looks for in the working directory.
const ManifestName = "bfc.toml"

// Manifest is the optional per-project bfc.toml. Zero values mean "not
// set"; the commands layer flags and environment overrides on top of it.
type Manifest struct {
	Build struct {
		Source       string `toml:"source"`
		Output       string `toml:"output"`
		Optimize     bool   `toml:"optimize"`
		ScratchCells int    `toml:"scratch_cells"`
	} `toml:"build"`

	Run struct {
		TapeSize int `toml:"tape_size"`
		MaxSteps int `toml:"max_steps"`
	} `toml:"run"`
}

// LoadManifest reads path. A missing file is not an error: the zero
// Manifest comes back with found == false.
func LoadManifest(path string) (Manifest, bool, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, false, nil
	}
	if err != nil {
		return m, false, err
	}
	if err := toml.Unmarshal(data, &m); err != nil {
		return m, false, fmt.Errorf("%s: %w", path, err)
	}
	return m, true, nil
}
