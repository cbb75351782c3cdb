package wavefront

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objloader/internal/logger"
)

// DefaultScale is the factor applied to positions when none is given.
const DefaultScale float32 = 0.05

// LoadOptions configures model loading.
type LoadOptions struct {
	// Scale multiplies every position as it is read. Zero or negative values
	// mean DefaultScale, so a zero LoadOptions is usable as is.
	Scale float32
	// Strict makes any per-line problem abort loading instead of becoming a warning.
	Strict bool
	// Logger receives progress and warning messages. Defaults to logger.Log.
	Logger *zap.Logger
}

// DefaultLoadOptions returns options with DefaultScale.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Scale: DefaultScale}
}

// Load reads the OBJ file at path, scaling positions by scale.
func Load(path string, scale float32) (*Model, error) {
	opts := DefaultLoadOptions()
	opts.Scale = scale
	return LoadWithOptions(path, opts)
}

// LoadWithOptions reads the OBJ file at path. A referenced material library is
// resolved relative to the directory of path.
func LoadWithOptions(path string, opts LoadOptions) (*Model, error) {
	log := opts.logger()
	log.Debug("opening model", zap.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	defer f.Close()

	return parse(f, path, BasePath(path), opts)
}

// Parse reads OBJ data from r. basePath is prepended to material library and
// texture file names and should end with a path separator.
func Parse(r io.Reader, basePath string, opts LoadOptions) (*Model, error) {
	return parse(r, "", basePath, opts)
}

// BasePath returns the directory component of path including its trailing
// separator, or "" when path has none.
func BasePath(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[:i+1]
	}
	return ""
}

func (o LoadOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Log
}

// assembler drives a single scan of an OBJ file.
type assembler struct {
	model *Model
	pool  geometryPool
	opts  LoadOptions
	log   *zap.Logger
	file  string

	current *Mesh     // mesh receiving faces
	pending *Material // usemtl seen before any mesh was open

	warnings error
}

func parse(r io.Reader, file, basePath string, opts LoadOptions) (*Model, error) {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	a := &assembler{
		model: newModel(basePath),
		opts:  opts,
		log:   opts.logger(),
		file:  file,
	}

	n, err := scanLines(r, a.line)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, fmt.Errorf("reading model: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyFile
	}

	a.closeMesh()
	a.model.boundsMin, a.model.boundsMax = BoundingBox(a.pool.positions)
	a.model.warnings = a.warnings

	a.log.Info("model loaded",
		zap.String("path", file),
		zap.Int64("size_kb", n/1024),
		zap.Int("meshes", a.model.MeshCount()),
		zap.Int("materials", a.model.MaterialCount()),
		zap.Int("vertices", a.model.VertexCount()),
		zap.Int("warnings", len(multierr.Errors(a.warnings))))
	return a.model, nil
}

// line records recoverable errors and aborts on anything that would corrupt indices.
func (a *assembler) line(lineNo int, keyword, data string) error {
	err := a.dispatch(keyword, data)
	if err == nil {
		return nil
	}

	perr := &ParseError{File: a.file, Line: lineNo, Keyword: keyword, Err: err}
	if fatal(err) || a.opts.Strict {
		return perr
	}
	a.log.Warn("skipping line", zap.Error(perr))
	a.warnings = multierr.Append(a.warnings, perr)
	return nil
}

func (a *assembler) dispatch(keyword, data string) error {
	switch keyword {
	case "#":
		a.log.Debug("comment", zap.String("text", data))
	case "mtllib":
		return a.loadLibrary(data)
	case "g", "o":
		a.log.Debug("group", zap.String("name", data))
		a.openMesh(data)
	case "v":
		return a.pool.addPosition(data, a.opts.Scale)
	case "vt":
		return a.pool.addUV(data)
	case "vn":
		return a.pool.addNormal(data)
	case "f":
		return a.face(data)
	case "usemtl":
		return a.useMaterial(data)
	}
	return nil
}

// openMesh finishes the current mesh and starts a new one, attaching any pending material.
func (a *assembler) openMesh(name string) {
	a.closeMesh()
	a.current = &Mesh{Name: name, material: a.pending}
	a.pending = nil
}

func (a *assembler) closeMesh() {
	if a.current != nil {
		a.model.meshes = append(a.model.meshes, a.current)
		a.current = nil
	}
}

func (a *assembler) face(data string) error {
	triplets, err := parseFace(data)
	if err != nil {
		return err
	}
	if a.current == nil {
		a.openMesh("")
	}
	return appendFace(a.current, &a.pool, triplets)
}

// useMaterial attaches the named material to the open mesh, or holds it for the
// next one. An unknown name leaves the target without a material.
func (a *assembler) useMaterial(name string) error {
	mat := a.model.MaterialByName(name)
	if a.current != nil {
		a.current.material = mat
	} else {
		a.pending = mat
	}
	if mat == nil {
		return fmt.Errorf("%w: %q", ErrUnresolvedMaterial, name)
	}
	return nil
}

// loadLibrary appends the materials of an MTL file. A missing library is only a warning.
func (a *assembler) loadLibrary(name string) error {
	path := a.model.path + name
	a.log.Debug("loading material library", zap.String("path", path))

	lib, err := LoadMaterialLibrary(path, a.model.path, a.log)
	if err != nil {
		return err
	}
	if a.opts.Strict && lib.Warnings != nil {
		return lib.Warnings
	}
	a.model.materials = append(a.model.materials, lib.Materials...)
	a.warnings = multierr.Append(a.warnings, lib.Warnings)
	return nil
}
