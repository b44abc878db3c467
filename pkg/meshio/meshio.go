package meshio

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/chazu/meshdims/pkg/kernel"
)

// ErrUnsupportedFormat is returned for file extensions meshio cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Load reads a mesh, choosing the format from the extension.
func Load(path string) (*kernel.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		m, err := LoadOBJ(path)
		if err != nil {
			return nil, err
		}
		if m.PartName == "" {
			m.PartName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return m, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "read %s", path)
}

// Save writes a mesh, choosing the format from the extension: .obj,
// .gltf (embedded buffers) or .glb.
func Save(path string, m *kernel.Mesh) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return SaveOBJ(path, m)
	case ".gltf":
		return SaveGLTF(path, m, false)
	case ".glb":
		return SaveGLTF(path, m, true)
	}
	return errors.Wrapf(ErrUnsupportedFormat, "write %s", path)
}
