package loader

import (
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/udhos/gwob"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// objBackend imports Wavefront OBJ files with their MTL material libraries.
// Parsing is done by gwob; every gwob group (object, group or material switch)
// becomes one mesh with its own compact vertex set.
type objBackend struct{}

var _ loaderBackend = &objBackend{}

func (b *objBackend) Load(path string) (*model.ImportedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return b.LoadReader(modelName(path), f, filepath.Dir(path))
}

func (b *objBackend) LoadReader(name string, r io.Reader, baseDir string) (*model.ImportedModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OBJ: %w", err)
	}

	obj, err := parseOBJ(name, data, false)
	if err != nil {
		return nil, err
	}
	if len(obj.Indices) > 0 && !consistentStride(obj) {
		// Faces that mix v//vn with bare v refs leave gwob's interleaved
		// buffer unevenly strided; normals are regenerated instead.
		if obj, err = parseOBJ(name, data, true); err != nil {
			return nil, err
		}
		if !consistentStride(obj) {
			return nil, fmt.Errorf("OBJ %q mixes faces with and without texture coordinates", name)
		}
	}
	if len(obj.Indices) == 0 {
		return nil, fmt.Errorf("OBJ %q has no faces", name)
	}

	im := &model.ImportedModel{Name: name}
	materials, err := loadMaterialLibs(obj.Mtllib, baseDir)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(materials))
	for i, m := range materials {
		index[m.Name] = i
	}
	im.Materials = materials

	for i, g := range obj.Groups {
		if g.IndexCount < 3 {
			continue
		}
		mesh := groupMesh(obj, g)
		meshName := g.Name
		if meshName == "" {
			meshName = fmt.Sprintf("mesh_%d", i)
		}
		mesh.Name = meshName

		matIndex, ok := index[g.Usemtl]
		if !ok {
			matIndex = -1
		}
		bmin, bmax := mesh.Bounds()
		im.Meshes = append(im.Meshes, model.ImportedMesh{
			Name:          meshName,
			Mesh:          mesh,
			MaterialIndex: matIndex,
			BoundingMin:   bmin,
			BoundingMax:   bmax,
		})
	}
	if len(im.Meshes) == 0 {
		return nil, fmt.Errorf("OBJ %q has no faces", name)
	}
	return im, nil
}

// parseOBJ runs gwob and promotes its non-fatal face errors to a failure, so
// a model with a dangling reference is rejected instead of imported with holes.
func parseOBJ(name string, data []byte, ignoreNormals bool) (*gwob.Obj, error) {
	var faceErrs []string
	opts := &gwob.ObjParserOptions{
		IgnoreNormals: ignoreNormals,
		Logger: func(msg string) {
			if strings.Contains(msg, "bad face") {
				faceErrs = append(faceErrs, strings.TrimSpace(msg))
			}
		},
	}
	obj, err := gwob.NewObjFromBuf(name, data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OBJ %q: %w", name, err)
	}
	if len(faceErrs) > 0 {
		if strings.Contains(faceErrs[0], "invalid") {
			return nil, fmt.Errorf("OBJ %q: face reference out of range: %s", name, faceErrs[0])
		}
		return nil, fmt.Errorf("OBJ %q: malformed face: %s", name, faceErrs[0])
	}
	return obj, nil
}

// consistentStride reports whether every unified vertex occupies one full stride.
func consistentStride(obj *gwob.Obj) bool {
	floats := obj.StrideSize / 4
	if floats == 0 || len(obj.Coord)%floats != 0 {
		return false
	}
	return lo.Max(obj.Indices)+1 == len(obj.Coord)/floats
}

// groupMesh copies the vertices a group references into a mesh of its own.
func groupMesh(obj *gwob.Obj, g *gwob.Group) geometry.Mesh {
	mesh := geometry.Mesh{Topology: geometry.TopologyTriangles}
	floats := obj.StrideSize / 4
	remap := make(map[int]uint32)

	for _, src := range obj.Indices[g.IndexBegin : g.IndexBegin+g.IndexCount] {
		dst, ok := remap[src]
		if !ok {
			dst = uint32(len(mesh.Vertices))
			base := src * floats
			off := base + obj.StrideOffsetPosition/4
			vert := geometry.Vertex{
				Position: [3]float32{obj.Coord[off], obj.Coord[off+1], obj.Coord[off+2]},
				Color:    common.White,
			}
			if obj.TextCoordFound {
				t := base + obj.StrideOffsetTexture/4
				vert.TexCoord = [2]float32{obj.Coord[t], obj.Coord[t+1]}
			}
			if obj.NormCoordFound {
				n := base + obj.StrideOffsetNormal/4
				vert.Normal = [3]float32{obj.Coord[n], obj.Coord[n+1], obj.Coord[n+2]}
			}
			mesh.Vertices = append(mesh.Vertices, vert)
			remap[src] = dst
		}
		mesh.Indices = append(mesh.Indices, dst)
	}
	if !obj.NormCoordFound {
		mesh.ComputeNormals()
	}
	return mesh
}

// loadMaterialLibs reads every library named by an mtllib statement. A missing
// library leaves faces without materials rather than failing the import.
// Materials are ordered by name since gwob keys them in a map.
func loadMaterialLibs(mtllib, baseDir string) ([]common.ImportedMaterial, error) {
	var out []common.ImportedMaterial
	for _, lib := range strings.Fields(mtllib) {
		path := filepath.Join(baseDir, lib)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open material library: %w", err)
		}
		mats, err := parseMTL(data, filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("material library %s: %w", filepath.Base(path), err)
		}
		out = append(out, mats...)
	}
	return out, nil
}

// parseMTL converts a gwob material library. Kd, d, Ke and map_Kd map onto the
// imported material directly and roughness is derived from the specular exponent Ns.
//
// Parameters:
//   - data: the library contents
//   - baseDir: the directory texture paths resolve against
//
// Returns:
//   - []common.ImportedMaterial: the materials sorted by name
//   - error: error if the library cannot be read or Ke is malformed
func parseMTL(data []byte, baseDir string) ([]common.ImportedMaterial, error) {
	lib, err := gwob.ReadMaterialLibFromBuf(data, &gwob.ObjParserOptions{})
	if err != nil {
		return nil, err
	}

	names := slices.Sorted(maps.Keys(lib.Lib))
	out := make([]common.ImportedMaterial, 0, len(names))
	for _, name := range names {
		m := lib.Lib[name]
		mat := common.ImportedMaterial{
			Name:      name,
			BaseColor: common.Color{m.Kd[0], m.Kd[1], m.Kd[2], 1},
			Roughness: float32(math.Sqrt(2 / (float64(m.Ns) + 2))),
			Opacity:   m.D,
		}
		// gwob leaves D at zero when the library has no d statement.
		if mat.Opacity == 0 {
			mat.Opacity = 1
		}
		if m.MapKe != "" {
			// gwob keeps the raw Ke statement value.
			ke, err := parseFloats(strings.Fields(m.MapKe), 3)
			if err != nil {
				return nil, fmt.Errorf("material %s: Ke: %w", name, err)
			}
			mat.Emissive = common.Color{ke[0], ke[1], ke[2], 1}
		}
		if fields := strings.Fields(m.MapKd); len(fields) > 0 {
			// Options such as -s or -o precede the file name, which comes last.
			p := filepath.Join(baseDir, fields[len(fields)-1])
			mat.DiffuseTexturePath = p
			mat.DiffuseTexture = &common.ImportedTexture{Name: filepath.Base(p), Path: p}
		}
		out = append(out, mat)
	}
	return out, nil
}

// parseFloats parses the first n fields as float32 values.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", fields[i], err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
