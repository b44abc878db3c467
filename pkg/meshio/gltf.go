package meshio

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/chazu/meshdims/pkg/kernel"
)

// Document builds a glTF document holding m as a single node.
func Document(m *kernel.Mesh) *gltf.Document {
	doc := gltf.NewDocument()

	positions := make([][3]float32, m.VertexCount())
	for i := range positions {
		positions[i] = [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
	}
	attributes := make(map[string]uint32)
	attributes[gltf.POSITION] = modeler.WritePosition(doc, positions)

	if len(m.Normals) == len(m.Vertices) && len(m.Normals) > 0 {
		normals := make([][3]float32, m.VertexCount())
		for i := range normals {
			normals[i] = [3]float32{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
		}
		attributes[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
	}

	primitive := &gltf.Primitive{Attributes: attributes}
	if len(m.Indices) > 0 {
		primitive.Indices = gltf.Index(modeler.WriteIndices(doc, m.Indices))
	}

	name := m.PartName
	if name == "" {
		name = "mesh"
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       name,
		Primitives: []*gltf.Primitive{primitive},
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})
	return doc
}

// WriteGLTF encodes m as glTF JSON, or as GLB when binary is set.
func WriteGLTF(w io.Writer, m *kernel.Mesh, binary bool) error {
	if m.IsEmpty() {
		return errors.New("gltf: mesh is empty")
	}
	doc := Document(m)
	if !binary {
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	return encoder.Encode(doc)
}

// SaveGLTF writes m to path.
func SaveGLTF(path string, m *kernel.Mesh, binary bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGLTF(f, m, binary); err != nil {
		f.Close()
		return errors.Wrapf(err, "save %s", path)
	}
	return f.Close()
}
