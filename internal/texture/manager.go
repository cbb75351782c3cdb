// Package texture resolves material texture file names to opaque handles.
package texture

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Handle identifies a loaded texture. Zero means "no texture".
type Handle = uint32

// Decoder turns a texture file into pixels.
type Decoder interface {
	Decode(path string) (*image.RGBA, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (*image.RGBA, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) (*image.RGBA, error) {
	return f(path)
}

// DecodeFile reads an image from disk. TGA is selected by extension; every
// other format is sniffed by image.Decode.
func DecodeFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = DecodeTGA(f)
	} else {
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Texture is a decoded image shared by every material that references its path.
type Texture struct {
	Handle Handle
	Path   string
	Image  *image.RGBA

	refs int
}

// Manager is a reference-counted texture cache keyed by file path.
type Manager struct {
	decoder Decoder
	log     *zap.Logger

	byPath   map[string]*Texture
	byHandle map[Handle]*Texture
	next     Handle
	mu       sync.RWMutex
}

// NewManager creates a manager using decoder, or DecodeFile when nil.
func NewManager(decoder Decoder, log *zap.Logger) *Manager {
	if decoder == nil {
		decoder = DecoderFunc(DecodeFile)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		decoder:  decoder,
		log:      log,
		byPath:   make(map[string]*Texture),
		byHandle: make(map[Handle]*Texture),
		next:     1,
	}
}

// Load returns the handle for path, decoding it on first use. Each call adds a
// reference that must be dropped with Release.
func (m *Manager) Load(path string) (Handle, error) {
	if path == "" {
		return 0, fmt.Errorf("empty texture path")
	}

	if h, ok := m.addRef(path); ok {
		return h, nil
	}

	// Decode without holding the lock; readers must not wait on file I/O.
	img, err := m.decoder.Decode(path)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another goroutine may have loaded the same path meanwhile.
	if tex, ok := m.byPath[path]; ok {
		tex.refs++
		return tex.Handle, nil
	}

	tex := &Texture{Handle: m.next, Path: path, Image: img, refs: 1}
	m.next++
	m.byPath[path] = tex
	m.byHandle[tex.Handle] = tex

	m.log.Debug("texture loaded",
		zap.String("path", path),
		zap.Uint32("handle", tex.Handle),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return tex.Handle, nil
}

func (m *Manager) addRef(path string) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tex, ok := m.byPath[path]
	if !ok {
		return 0, false
	}
	tex.refs++
	return tex.Handle, true
}

// Get returns the handle already assigned to path, or 0. It does not add a reference.
func (m *Manager) Get(path string) Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if tex, ok := m.byPath[path]; ok {
		return tex.Handle
	}
	return 0
}

// Exists reports whether path is currently loaded.
func (m *Manager) Exists(path string) bool {
	return m.Get(path) != 0
}

// Texture returns the texture for h, or nil.
func (m *Manager) Texture(h Handle) *Texture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byHandle[h]
}

// RefCount returns the number of outstanding references to h.
func (m *Manager) RefCount(h Handle) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if tex, ok := m.byHandle[h]; ok {
		return tex.refs
	}
	return 0
}

// Release drops one reference and evicts the texture when none remain.
func (m *Manager) Release(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tex, ok := m.byHandle[h]
	if !ok {
		return
	}
	tex.refs--
	if tex.refs > 0 {
		return
	}
	delete(m.byHandle, h)
	delete(m.byPath, tex.Path)
	m.log.Debug("texture released", zap.String("path", tex.Path))
}

// Len returns the number of loaded textures.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byPath)
}
