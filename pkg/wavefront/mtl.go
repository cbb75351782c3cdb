package wavefront

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// mtlParser accumulates materials from one MTL library.
type mtlParser struct {
	basePath string
	file     string
	log      *zap.Logger

	current   *Material
	materials []*Material
	warnings  error
}

// MaterialLibrary is the result of parsing one MTL file.
type MaterialLibrary struct {
	Path      string
	Materials []*Material
	// Warnings combines the per-line problems that were skipped.
	Warnings error
}

// ParseMaterialLibrary reads MTL data from r. Texture file names are prefixed
// with basePath. Malformed lines are skipped and reported in Warnings; an error
// is only returned when r cannot be read.
func ParseMaterialLibrary(r io.Reader, basePath string, log *zap.Logger) (*MaterialLibrary, error) {
	p := &mtlParser{basePath: basePath, log: orNop(log)}
	if _, err := scanLines(r, p.line); err != nil {
		return nil, fmt.Errorf("reading material library: %w", err)
	}
	p.flush()
	return &MaterialLibrary{Materials: p.materials, Warnings: p.warnings}, nil
}

// LoadMaterialLibrary opens and parses the MTL file at path.
func LoadMaterialLibrary(path string, basePath string, log *zap.Logger) (*MaterialLibrary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMaterialLibrary, err)
	}
	defer f.Close()

	p := &mtlParser{basePath: basePath, file: path, log: orNop(log)}
	n, err := scanLines(f, p.line)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrMaterialLibrary, path, err)
	}
	p.flush()

	p.log.Debug("material library loaded",
		zap.String("path", path),
		zap.Int64("size_kb", n/1024),
		zap.Int("materials", len(p.materials)))
	return &MaterialLibrary{Path: path, Materials: p.materials, Warnings: p.warnings}, nil
}

func (p *mtlParser) flush() {
	if p.current != nil {
		p.materials = append(p.materials, p.current)
		p.current = nil
	}
}

// line never aborts the scan; problems are recorded as warnings.
func (p *mtlParser) line(lineNo int, keyword, data string) error {
	if err := p.dispatch(keyword, data); err != nil {
		perr := &ParseError{File: p.file, Line: lineNo, Keyword: keyword, Err: err}
		p.log.Warn("skipping material line", zap.Error(perr))
		p.warnings = multierr.Append(p.warnings, perr)
	}
	return nil
}

func (p *mtlParser) dispatch(keyword, data string) error {
	switch keyword {
	case "#":
		p.log.Debug("mtl comment", zap.String("text", data))
		return nil
	case "newmtl":
		p.flush()
		p.current = &Material{Name: data}
		p.log.Debug("new material", zap.String("name", data))
		return nil
	}

	// Everything else modifies the material in progress.
	if p.current == nil {
		return nil
	}
	mat := p.current

	switch keyword {
	case "Ka":
		return setColour(&mat.Ambient, data)
	case "Kd":
		return setColour(&mat.Diffuse, data)
	case "Ks":
		return setColour(&mat.Specular, data)
	case "Ns":
		return setAux(&mat.Specular, data, false)
	case "Ni":
		return setAux(&mat.Ambient, data, false)
	case "d":
		return setAux(&mat.Diffuse, data, false)
	case "Tr":
		return setAux(&mat.Diffuse, data, true)
	case "map_Kd":
		p.setTexture(mat, DiffuseTexture, data)
	case "map_Ks":
		p.setTexture(mat, SpecularTexture, data)
	case "map_bump", "bump":
		p.setTexture(mat, NormalTexture, data)
	}
	// Ke, illum and unknown keywords are ignored.
	return nil
}

// setColour replaces RGB and keeps the auxiliary W channel.
func setColour(dst *mgl32.Vec4, data string) error {
	v, err := parseVector(data)
	if err != nil {
		return err
	}
	dst[0], dst[1], dst[2] = v[0], v[1], v[2]
	return nil
}

// setAux stores a scalar in the W channel, as 1-f when complement is set.
func setAux(dst *mgl32.Vec4, data string, complement bool) error {
	fields := strings.Fields(data)
	if len(fields) == 0 {
		return fmt.Errorf("%w: missing value", ErrMalformedNumber)
	}
	f, err := parseScalar(fields[0])
	if err != nil {
		return err
	}
	if complement {
		f = 1 - f
	}
	dst[3] = f
	return nil
}

// setTexture keeps only the last token of a map statement; options before it are ignored.
func (p *mtlParser) setTexture(mat *Material, slot TextureType, data string) {
	fields := strings.Fields(data)
	if len(fields) == 0 {
		return
	}
	name := fields[len(fields)-1]
	if p.basePath != "" && !filepath.IsAbs(name) {
		name = p.basePath + name
	}
	mat.TexturePaths[slot] = name
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
