// Package assets resolves session level/map assets from a read-only
// directory on disk, handing level files to internal/waveconfig.
package assets

import (
	"fmt"
	"path/filepath"

	"github.com/l1jgo/arcade-server/internal/waveconfig"
)

// Directory is a read-only root under which level_<name>.yaml files live.
type Directory struct {
	root string
}

func NewDirectory(root string) *Directory {
	return &Directory{root: root}
}

// LoadLevel loads the named level's wave/map config, falling back to
// waveconfig.Default when the directory is unset.
func (d *Directory) LoadLevel(name string) (*waveconfig.Config, error) {
	if d.root == "" {
		return waveconfig.Default(), nil
	}
	path := filepath.Join(d.root, fmt.Sprintf("level_%s.yaml", name))
	return waveconfig.Load(path)
}
