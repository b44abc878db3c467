package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/meshdims/pkg/config"
	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/engine"
	"github.com/chazu/meshdims/pkg/kernel/sdfx"
	"github.com/chazu/meshdims/pkg/scene"
	"github.com/chazu/meshdims/pkg/tui"
	"github.com/chazu/meshdims/pkg/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info <mesh>",
	Short: "Show vertex counts and the size of the selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()
		obj, err := s.open(args[0])
		if err != nil {
			return err
		}
		return printMesh(cmd.OutOrStdout(), obj.Name, obj.Working())
	},
}

var (
	setX, setY, setZ float64
	setOut           string
	setPivot         string
)

var setCmd = &cobra.Command{
	Use:   "set <mesh>",
	Short: "Scale the selection to the given dimensions",
	Long: `Scale the selected vertices so their bounding box measures --x, --y and
--z. Axes that are not given keep their current size. An axis whose
selection is flat (zero size) is never scaled.

The mesh is overwritten unless --out is given; the output format follows
the extension (.obj, .gltf or .glb).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()
		if cmd.Flags().Changed("pivot") {
			p, err := scene.ParsePivot(setPivot)
			if err != nil {
				return err
			}
			s.scene.Pivot = p
		}
		if _, err := s.open(args[0]); err != nil {
			return err
		}

		op, err := s.ops.New(dimensions.OperatorID)
		if err != nil {
			return err
		}
		if _, err := s.scene.InvokeOperator(op); err != nil {
			return err
		}
		req := op.Request()
		for _, axis := range []struct {
			name string
			dst  *float64
			v    float64
		}{{"x", &req.X, setX}, {"y", &req.Y, setY}, {"z", &req.Z, setZ}} {
			if cmd.Flags().Changed(axis.name) {
				*axis.dst = axis.v
			}
		}
		if err := req.Validate(); err != nil {
			return err
		}
		if err := op.SetRequest(req); err != nil {
			return err
		}
		f, err := s.scene.ExecuteOperator(op)
		if err != nil {
			return err
		}
		logger.Printf("pivot %s, factors %g %g %g", s.scene.Pivot, f.X, f.Y, f.Z)

		out := setOut
		if out == "" {
			out = args[0]
		}
		if err := s.save(out); err != nil {
			return err
		}
		return printMesh(cmd.OutOrStdout(), out, s.scene.Active().Mesh)
	},
}

var formOut string

var formCmd = &cobra.Command{
	Use:   "form <mesh>",
	Short: "Edit the dimensions in a terminal form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()
		if _, err := s.open(args[0]); err != nil {
			return err
		}
		m, err := tui.New(s.scene, s.ops, s.menus, tui.Options{Unit: cfg.Unit, Precision: cfg.Precision})
		if err != nil {
			return err
		}
		m, err = tui.Run(m)
		if err != nil {
			return err
		}
		if len(s.scene.History()) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no changes")
			return nil
		}
		out := formOut
		if out == "" {
			out = args[0]
		}
		logger.Printf("%d applies", len(m.Applied()))
		return s.save(out)
	},
}

var (
	scriptMesh string
	scriptOut  string
)

var scriptCmd = &cobra.Command{
	Use:   "script <file.lisp>",
	Short: "Run a console script",
	Long: `Run a Lisp console script. Builtins:

  (box x y z) (cylinder h r) (sphere r)   add a primitive, :name sets its name
                                           and :at [x y z] its center
  (activate "name")                        make an object active
  (edit-mode) (object-mode)
  (select-all) (deselect-all)
  (select-box minx miny minz maxx maxy maxz)
  (pivot :median|:bounds|:cursor)
  (dimensions) (dimensions :x)
  (set-dimensions x y z) (set-dimensions :x 2)
  (undo) (redo)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()
		if scriptMesh != "" {
			if _, err := s.open(scriptMesh); err != nil {
				return err
			}
		}

		eng := engine.NewEngine(s.scene, sdfx.NewWithCells(cfg.MeshCells))
		res, evalErrs, err := eng.Evaluate(string(source))
		if err != nil {
			return err
		}
		if len(evalErrs) > 0 {
			for _, e := range evalErrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], e)
			}
			return fmt.Errorf("%s: %d errors", args[0], len(evalErrs))
		}

		w := cmd.OutOrStdout()
		for _, c := range res.Calls {
			fmt.Fprintf(w, "%s on %s: %g x %g x %g\n", c.Operator, c.Object, c.Factors.X, c.Factors.Y, c.Factors.Z)
		}
		if res.Value != "" {
			fmt.Fprintln(w, res.Value)
		}
		if scriptOut != "" {
			return s.save(scriptOut)
		}
		return nil
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the add-on, its menu buttons and the operator form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		w := cmd.OutOrStdout()
		info := s.addon.Info
		fmt.Fprintf(w, "%s %s by %s (%s, requires %s)\n", info.Name, info.Version, info.Author, info.Category, info.Host)
		for _, id := range s.menus.IDs() {
			m := s.menus.Lookup(id)
			fmt.Fprintf(w, "\n%s (%s)\n", m.Label, id)
			for _, e := range m.Entries() {
				fmt.Fprintf(w, "  [%s] %s -> %s\n", e.Icon, e.Label, e.OperatorID)
			}
		}

		op, err := s.ops.New(dimensions.OperatorID)
		if err != nil {
			return err
		}
		layout := ui.NewTextLayout(cfg.Precision, cfg.Unit)
		op.Draw(layout)
		fmt.Fprintf(w, "\n%s\n%s\n", dimensions.OperatorLabel, layout)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	// Replaces the root hook: the file may not exist yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetOutput(os.Stderr)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".meshdims", config.FileName+".yaml")
		}
		if err := config.DefaultConfig().Write(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	setCmd.Flags().Float64Var(&setX, "x", 0, "new size along X")
	setCmd.Flags().Float64Var(&setY, "y", 0, "new size along Y")
	setCmd.Flags().Float64Var(&setZ, "z", 0, "new size along Z")
	setCmd.Flags().StringVarP(&setOut, "out", "o", "", "output file (default overwrites the input)")
	setCmd.Flags().StringVar(&setPivot, "pivot", "", "scale center: median, bounds or cursor (default from config)")

	formCmd.Flags().StringVarP(&formOut, "out", "o", "", "output file (default overwrites the input)")

	scriptCmd.Flags().StringVar(&scriptMesh, "mesh", "", "mesh to load before running the script")
	scriptCmd.Flags().StringVarP(&scriptOut, "out", "o", "", "save the active object here afterwards")
}
