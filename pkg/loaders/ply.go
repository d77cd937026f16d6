package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrInvalidPLY is wrapped by every error caused by malformed PLY content
var ErrInvalidPLY = errors.New("invalid PLY data")

const (
	// maxListCount bounds the length of a single list property (face vertex
	// indices and the like)
	maxListCount = 1 << 16

	// maxPreallocate caps the slice capacity taken from header counts; larger
	// meshes grow by append as their data is actually read
	maxPreallocate = 1 << 16
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string // Usually "1.0"
	Elements []PLYElement

	// Indices into the vertex element's properties, -1 when absent
	positionIndices [3]int
	normalIndices   [3]int
}

// PLYElement is an element declaration ("element vertex 8") and its properties
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the mesh loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle); polygons are fan-triangulated
	Normals  []core.Vec3 // Per-vertex normals (nx, ny, nz), nil if not present
}

// TriangleCount returns the number of triangles in the mesh
func (d *PLYData) TriangleCount() int {
	return len(d.Faces) / 3
}

// LoadPLY loads a PLY file and returns its vertex and face data
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY reads a PLY stream in ascii or binary format
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		values = &asciiReader{scanner: newWordScanner(reader)}
	case "binary_little_endian":
		values = &binaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format %q: %w", header.Format, ErrInvalidPLY)
	}

	data, err := readBody(values, header)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return data, nil
}

// parsePLYHeader reads the header up to and including end_header, leaving
// the reader positioned at the first byte of element data
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{
		positionIndices: [3]int{-1, -1, -1},
		normalIndices:   [3]int{-1, -1, -1},
	}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number: %w", ErrInvalidPLY)
	}

	var current *PLYElement
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended without end_header: %w", ErrInvalidPLY)
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("header has no format line: %w", ErrInvalidPLY)
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line %q: %w", strings.TrimSpace(line), ErrInvalidPLY)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q: %w", strings.TrimSpace(line), ErrInvalidPLY)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count %q: %w", parts[2], ErrInvalidPLY)
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
		case "property":
			if current == nil {
				return nil, fmt.Errorf("property before any element: %w", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current.Properties = append(current.Properties, prop)
			if current.Name == "vertex" {
				header.indexVertexProperty(prop.Name, len(current.Properties)-1)
			}
		default:
			return nil, fmt.Errorf("unknown header keyword %q: %w", parts[0], ErrInvalidPLY)
		}
	}
}

func (h *PLYHeader) indexVertexProperty(name string, index int) {
	switch name {
	case "x":
		h.positionIndices[0] = index
	case "y":
		h.positionIndices[1] = index
	case "z":
		h.positionIndices[2] = index
	case "nx":
		h.normalIndices[0] = index
	case "ny":
		h.normalIndices[1] = index
	case "nz":
		h.normalIndices[2] = index
	}
}

// HasNormals reports whether the vertex element declares nx, ny and nz
func (h *PLYHeader) HasNormals() bool {
	return h.normalIndices[0] >= 0 && h.normalIndices[1] >= 0 && h.normalIndices[2] >= 0
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition: %w", ErrInvalidPLY)
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition: %w", ErrInvalidPLY)
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
		if getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("unsupported list types %s %s: %w", prop.ListType, prop.DataType, ErrInvalidPLY)
		}
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
		if getTypeSize(prop.Type) == 0 {
			return PLYProperty{}, fmt.Errorf("unsupported data type %s: %w", prop.Type, ErrInvalidPLY)
		}
	}

	return prop, nil
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// readBody reads every element in header order. Vertex and face elements are
// decoded; any other element is read and discarded.
func readBody(values valueReader, header *PLYHeader) (*PLYData, error) {
	data := &PLYData{}
	hasNormals := header.HasNormals()

	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			for _, index := range header.positionIndices {
				if index < 0 {
					return nil, fmt.Errorf("vertex element lacks x, y or z: %w", ErrInvalidPLY)
				}
			}
			capacity := min(element.Count, maxPreallocate)
			data.Vertices = make([]core.Vec3, 0, capacity)
			if hasNormals {
				data.Normals = make([]core.Vec3, 0, capacity)
			}

			row := make([]float64, len(element.Properties))
			for i := 0; i < element.Count; i++ {
				for p, prop := range element.Properties {
					if prop.IsList {
						if err := skipList(values, prop); err != nil {
							return nil, fmt.Errorf("vertex %d: %w", i, err)
						}
						continue
					}
					v, err := values.read(prop.Type)
					if err != nil {
						return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
					}
					row[p] = v
				}
				pi := header.positionIndices
				data.Vertices = append(data.Vertices, core.NewVec3(row[pi[0]], row[pi[1]], row[pi[2]]))
				if hasNormals {
					ni := header.normalIndices
					data.Normals = append(data.Normals, core.NewVec3(row[ni[0]], row[ni[1]], row[ni[2]]))
				}
			}

		case "face":
			data.Faces = make([]int, 0, min(element.Count, maxPreallocate)*3)
			for i := 0; i < element.Count; i++ {
				for _, prop := range element.Properties {
					if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
						if err := skipProperty(values, prop); err != nil {
							return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
						}
						continue
					}
					indices, err := readIndexList(values, prop)
					if err != nil {
						return nil, fmt.Errorf("face %d: %w", i, err)
					}
					if len(indices) < 3 {
						return nil, fmt.Errorf("face %d has %d vertices: %w", i, len(indices), ErrInvalidPLY)
					}
					// Fan triangulation around the first vertex
					for k := 1; k+1 < len(indices); k++ {
						data.Faces = append(data.Faces, indices[0], indices[k], indices[k+1])
					}
				}
			}

		default:
			for i := 0; i < element.Count; i++ {
				for _, prop := range element.Properties {
					if err := skipProperty(values, prop); err != nil {
						return nil, fmt.Errorf("%s %d property %s: %w", element.Name, i, prop.Name, err)
					}
				}
			}
		}
	}

	for _, index := range data.Faces {
		if index < 0 || index >= len(data.Vertices) {
			return nil, fmt.Errorf("face index %d outside %d vertices: %w", index, len(data.Vertices), ErrInvalidPLY)
		}
	}
	return data, nil
}

func readIndexList(values valueReader, prop PLYProperty) ([]int, error) {
	count, err := readListCount(values, prop)
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, min(count, 16))
	for k := 0; k < count; k++ {
		v, err := values.read(prop.DataType)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", k, err)
		}
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("non-integer vertex index %g: %w", v, ErrInvalidPLY)
		}
		indices = append(indices, int(v))
	}
	return indices, nil
}

func readListCount(values valueReader, prop PLYProperty) (int, error) {
	v, err := values.read(prop.ListType)
	if err != nil {
		return 0, fmt.Errorf("list count: %w", err)
	}
	if v < 0 || v != math.Trunc(v) {
		return 0, fmt.Errorf("invalid list count %g: %w", v, ErrInvalidPLY)
	}
	if v > maxListCount {
		return 0, fmt.Errorf("list count %g exceeds %d: %w", v, maxListCount, ErrInvalidPLY)
	}
	return int(v), nil
}

// skipProperty skips a property in the stream
func skipProperty(values valueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipList(values valueReader, prop PLYProperty) error {
	count, err := readListCount(values, prop)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if _, err := values.read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// valueReader decodes one scalar of a PLY data type
type valueReader interface {
	read(dataType string) (float64, error)
}

type binaryReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type %s: %w", dataType, ErrInvalidPLY)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.reader, raw); err != nil {
		return 0, fmt.Errorf("truncated %s: %w", dataType, ErrInvalidPLY)
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "char", "int8":
		return float64(int8(raw[0])), nil
	default: // "uchar", "uint8"
		return float64(raw[0]), nil
	}
}

type asciiReader struct {
	scanner *bufio.Scanner
}

func newWordScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return scanner
}

func (a *asciiReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("unexpected end of data reading %s: %w", dataType, ErrInvalidPLY)
	}
	word := a.scanner.Text()
	v, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", dataType, word, ErrInvalidPLY)
	}
	return v, nil
}
