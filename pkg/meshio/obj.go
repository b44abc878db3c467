// Package meshio reads and writes meshes. Wavefront OBJ is read and
// written; glTF is written for hand-off to other tools.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/chazu/meshdims/pkg/kernel"
)

// ErrMalformed wraps every OBJ parse failure.
var ErrMalformed = errors.New("malformed mesh file")

// selectDirective is the comment carrying the vertex selection, 0-based.
const selectDirective = "# select"

// ReadOBJ parses v and f records. Faces with more than three corners are
// fan triangulated. Records other than v, f and o are ignored. Without a
// "# select" comment every vertex is selected.
func ReadOBJ(r io.Reader) (*kernel.Mesh, error) {
	m := &kernel.Mesh{}
	var selection []int
	hasSelect := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, selectDirective) {
			hasSelect = true
			for _, tok := range strings.Fields(line[len(selectDirective):]) {
				i, err := strconv.Atoi(tok)
				if err != nil || i < 0 {
					return nil, errors.Wrapf(ErrMalformed, "line %d: bad selection index %q", lineNo, tok)
				}
				selection = append(selection, i)
			}
			continue
		}
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Wrapf(ErrMalformed, "line %d: vertex needs 3 coordinates", lineNo)
			}
			for _, f := range fields[1:4] {
				c, err := strconv.ParseFloat(f, 32)
				if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
					return nil, errors.Wrapf(ErrMalformed, "line %d: bad coordinate %q", lineNo, f)
				}
				m.Vertices = append(m.Vertices, float32(c))
			}
		case "f":
			if len(fields) < 4 {
				return nil, errors.Wrapf(ErrMalformed, "line %d: face needs 3 vertices", lineNo)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, f := range fields[1:] {
				idx, err := faceIndex(f, m.VertexCount())
				if err != nil {
					return nil, errors.Wrapf(ErrMalformed, "line %d: %v", lineNo, err)
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				m.Indices = append(m.Indices, corners[0], corners[i], corners[i+1])
			}
		case "o":
			if len(fields) > 1 {
				m.PartName = strings.Join(fields[1:], " ")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read obj")
	}

	if !hasSelect {
		m.SelectAll()
		return m, nil
	}
	m.DeselectAll()
	for _, i := range selection {
		if i >= m.VertexCount() {
			return nil, errors.Wrapf(ErrMalformed, "selection index %d out of range", i)
		}
		m.Select(i, true)
	}
	return m, nil
}

// faceIndex resolves a face corner such as "3", "3/1" or "-1//2" to a
// 0-based vertex index.
func faceIndex(tok string, vertexCount int) (uint32, error) {
	if slash := strings.IndexByte(tok, '/'); slash >= 0 {
		tok = tok[:slash]
	}
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q", tok)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += vertexCount
	default:
		return 0, fmt.Errorf("face index 0 is invalid")
	}
	if i < 0 || i >= vertexCount {
		return 0, fmt.Errorf("face index %s out of range", tok)
	}
	return uint32(i), nil
}

// WriteOBJ writes m as OBJ. The selection is written as "# select"
// comments unless every vertex is selected.
func WriteOBJ(w io.Writer, m *kernel.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# meshdims")
	if m.PartName != "" {
		fmt.Fprintf(bw, "o %s\n", m.PartName)
	}
	for i := 0; i < m.VertexCount(); i++ {
		fmt.Fprintf(bw, "v %s %s %s\n",
			formatCoord(m.Vertices[i*3]), formatCoord(m.Vertices[i*3+1]), formatCoord(m.Vertices[i*3+2]))
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		fmt.Fprintf(bw, "f %d %d %d\n", m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1)
	}

	if n := m.SelectedCount(); n != m.VertexCount() {
		var sel []string
		flush := func() {
			fmt.Fprintln(bw, strings.TrimSpace(selectDirective+" "+strings.Join(sel, " ")))
			sel = sel[:0]
		}
		for i := 0; i < m.VertexCount(); i++ {
			if !m.IsSelected(i) {
				continue
			}
			sel = append(sel, strconv.Itoa(i))
			if len(sel) == 16 {
				flush()
			}
		}
		if len(sel) > 0 || n == 0 {
			flush()
		}
	}
	return bw.Flush()
}

func formatCoord(c float32) string {
	return strconv.FormatFloat(float64(c), 'g', -1, 32)
}

// LoadOBJ reads an OBJ file.
func LoadOBJ(path string) (*kernel.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadOBJ(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return m, nil
}

// SaveOBJ writes an OBJ file.
func SaveOBJ(path string, m *kernel.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return errors.Wrapf(err, "save %s", path)
	}
	return f.Close()
}
