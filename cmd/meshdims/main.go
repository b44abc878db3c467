// Command meshdims resizes the selected vertices of a mesh to exact
// dimensions, from flags, a terminal form or a console script.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/meshdims/pkg/addon"
	"github.com/chazu/meshdims/pkg/config"
	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/kernel"
	"github.com/chazu/meshdims/pkg/menu"
	"github.com/chazu/meshdims/pkg/meshio"
	"github.com/chazu/meshdims/pkg/scene"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger = log.New(io.Discard, "meshdims: ", 0)
)

var rootCmd = &cobra.Command{
	Use:   "meshdims",
	Short: "Set exact dimensions on mesh selections",
	Long: `meshdims scales the selected vertices of a mesh so their bounding box
has the requested size along X, Y and Z. Each axis is scaled independently
about the configured pivot.

Meshes are read from OBJ files. A "# select i j k" comment (0-based vertex
indices) marks the selection; without one every vertex is selected.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetOutput(os.Stderr)
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger.Printf("config: pivot=%s unit=%s precision=%d cells=%d", cfg.Pivot, cfg.Unit, cfg.Precision, cfg.MeshCells)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meshdims/meshdims.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is a scene with the add-on registered, as a host sets it up.
type session struct {
	scene *scene.Scene
	addon *addon.Addon
	ops   *addon.OperatorRegistry
	menus *menu.Registry
}

func newSession() (*session, error) {
	s := &session{
		scene: scene.New(),
		addon: addon.New(),
		ops:   addon.NewOperatorRegistry(),
		menus: menu.NewRegistry(),
	}
	if err := cfg.Apply(s.scene); err != nil {
		return nil, err
	}
	if err := s.addon.Register(s.ops, s.menus); err != nil {
		return nil, err
	}
	logger.Printf("registered %s %s", s.addon.Info.Name, s.addon.Info.Version)
	return s, nil
}

// open loads path as the active object and enters edit mode on it.
func (s *session) open(path string) (*scene.Object, error) {
	m, err := meshio.Load(path)
	if err != nil {
		return nil, err
	}
	obj := scene.NewObject(m.PartName, m)
	if err := s.scene.Add(obj); err != nil {
		return nil, err
	}
	logger.Printf("loaded %s: %d vertices, %d selected", path, m.VertexCount(), m.SelectedCount())
	if err := s.scene.SetMode(dimensions.ModeEdit); err != nil {
		return nil, err
	}
	return obj, nil
}

// save writes the active object after flushing edit mode.
func (s *session) save(path string) error {
	o := s.scene.Active()
	if o == nil {
		return scene.ErrNoActiveObject
	}
	if err := o.SetMode(dimensions.ModeObject); err != nil {
		return err
	}
	if err := meshio.Save(path, o.Mesh); err != nil {
		return err
	}
	logger.Printf("wrote %s", path)
	return nil
}

func (s *session) close() {
	if err := s.addon.Unregister(); err != nil {
		logger.Printf("unregister: %v", err)
	}
}

func printMesh(w io.Writer, name string, m *kernel.Mesh) error {
	fmt.Fprintf(w, "%s: %d vertices, %d triangles, %d selected\n",
		name, m.VertexCount(), m.TriangleCount(), m.SelectedCount())
	box, err := dimensions.CalcBounds(m.SelectedVertices())
	if err != nil {
		return err
	}
	e := box.Extents()
	fmt.Fprintf(w, "  min     %s\n", formatVec(box.MinX, box.MinY, box.MinZ))
	fmt.Fprintf(w, "  max     %s\n", formatVec(box.MaxX, box.MaxY, box.MaxZ))
	fmt.Fprintf(w, "  extents %s\n", formatVec(e.X, e.Y, e.Z))
	return nil
}

func formatVec(x, y, z float64) string {
	f := func(v float64) string {
		s := fmt.Sprintf("%.*f", cfg.Precision, v)
		if cfg.Unit != "" {
			s += " " + cfg.Unit
		}
		return s
	}
	return fmt.Sprintf("X %s  Y %s  Z %s", f(x), f(y), f(z))
}
