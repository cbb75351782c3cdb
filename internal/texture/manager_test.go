package texture

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/Faultbox/objloader/pkg/wavefront"
)

var errNoSuchTexture = errors.New("no such texture")

// fakeDecoder returns a 1x1 image for any path not listed as missing and
// counts decode calls per path.
type fakeDecoder struct {
	mu      sync.Mutex
	calls   map[string]int
	missing map[string]bool
}

func newFakeDecoder(missing ...string) *fakeDecoder {
	d := &fakeDecoder{calls: make(map[string]int), missing: make(map[string]bool)}
	for _, m := range missing {
		d.missing[m] = true
	}
	return d
}

func (d *fakeDecoder) Decode(path string) (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls[path]++
	if d.missing[path] {
		return nil, errNoSuchTexture
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func TestManagerLoadShares(t *testing.T) {
	dec := newFakeDecoder()
	m := NewManager(dec, nil)

	a, err := m.Load("wood.png")
	require.NoError(t, err)
	b, err := m.Load("wood.png")
	require.NoError(t, err)
	c, err := m.Load("metal.png")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotZero(t, a)
	assert.Equal(t, 1, dec.calls["wood.png"])
	assert.Equal(t, 2, m.RefCount(a))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, a, m.Get("wood.png"))
	assert.True(t, m.Exists("metal.png"))
	assert.Equal(t, "wood.png", m.Texture(a).Path)
}

func TestManagerRelease(t *testing.T) {
	m := NewManager(newFakeDecoder(), nil)
	h, err := m.Load("wood.png")
	require.NoError(t, err)
	_, err = m.Load("wood.png")
	require.NoError(t, err)

	m.Release(h)
	assert.Equal(t, 1, m.RefCount(h))
	assert.True(t, m.Exists("wood.png"))

	m.Release(h)
	assert.Equal(t, 0, m.RefCount(h))
	assert.False(t, m.Exists("wood.png"))
	assert.Nil(t, m.Texture(h))
	assert.Equal(t, 0, m.Len())

	// Unknown handles are ignored.
	m.Release(h)
	m.Release(999)

	// Reloading assigns a fresh handle.
	h2, err := m.Load("wood.png")
	require.NoError(t, err)
	assert.NotEqual(t, h, h2)
}

func TestManagerLoadErrors(t *testing.T) {
	m := NewManager(newFakeDecoder("gone.png"), nil)

	_, err := m.Load("")
	assert.Error(t, err)

	h, err := m.Load("gone.png")
	assert.ErrorIs(t, err, errNoSuchTexture)
	assert.Zero(t, h)
	assert.Equal(t, 0, m.Len())
	assert.Zero(t, m.Get("gone.png"))
}

func TestManagerConcurrentLoad(t *testing.T) {
	dec := newFakeDecoder()
	m := NewManager(dec, nil)

	var wg sync.WaitGroup
	handles := make([]Handle, 16)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := m.Load("shared.png")
			if err == nil {
				handles[i] = h
			}
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		assert.Equal(t, handles[0], h)
	}
	// Racing loaders may decode more than once, but only one texture is kept.
	assert.GreaterOrEqual(t, dec.calls["shared.png"], 1)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, len(handles), m.RefCount(handles[0]))
}

func TestManagerReadersDoNotWaitOnDecode(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	m := NewManager(DecoderFunc(func(path string) (*image.RGBA, error) {
		close(started)
		<-release
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}), nil)

	loaded := make(chan Handle)
	go func() {
		h, _ := m.Load("slow.png")
		loaded <- h
	}()
	<-started

	read := make(chan bool)
	go func() { read <- m.Exists("slow.png") }()
	select {
	case exists := <-read:
		assert.False(t, exists)
	case <-time.After(time.Second):
		t.Fatal("Exists blocked while a texture was decoding")
	}

	close(release)
	h := <-loaded
	assert.NotZero(t, h)
	assert.True(t, m.Exists("slow.png"))
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	src.Set(1, 2, color.NRGBA{R: 200, A: 255})
	f, err := os.Create(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := DecodeFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 3), img.Bounds())
	assert.Equal(t, color.RGBA{R: 200, A: 255}, img.RGBAAt(1, 2))

	tga := append(tgaHeader(tgaTypeUncompressed, 1, 1, 24, 0), 1, 2, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.TGA"), tga, 0644))
	img, err = DecodeFile(filepath.Join(dir, "b.TGA"))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 3, G: 2, B: 1, A: 255}, img.RGBAAt(0, 0))

	_, err = DecodeFile(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not an image"), 0644))
	_, err = DecodeFile(filepath.Join(dir, "junk.png"))
	assert.Error(t, err)
}

func TestDecodeFileExtendedFormats(t *testing.T) {
	dir := t.TempDir()

	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Point{}, draw.Src)
	src.SetRGBA(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetRGBA(0, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	encoders := map[string]func(f *os.File) error{
		"crate.bmp":  func(f *os.File) error { return bmp.Encode(f, src) },
		"crate.tiff": func(f *os.File) error { return tiff.Encode(f, src, nil) },
	}

	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, encode(f))
			require.NoError(t, f.Close())

			img, err := DecodeFile(path)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
			assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, img.RGBAAt(2, 1))
			assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, img.RGBAAt(0, 0))
		})
	}
}

const bindLibrary = `newmtl crate
map_Kd wood.png
map_Ks wood.png
newmtl panel
map_Kd metal.png
map_bump missing.png
newmtl plain
Kd 1 1 1
`

func parseBindModel(t *testing.T) *wavefront.Model {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(bindLibrary), 0644))

	base := dir + string(filepath.Separator)
	model, err := wavefront.Parse(strings.NewReader("mtllib scene.mtl\n"), base, wavefront.LoadOptions{Scale: 1})
	require.NoError(t, err)
	require.Equal(t, 3, model.MaterialCount())
	return model
}

func TestBindModelSkipMissing(t *testing.T) {
	model := parseBindModel(t)
	missing := model.MaterialByName("panel").TexturePaths[wavefront.NormalTexture]
	m := NewManager(newFakeDecoder(missing), nil)

	err := BindModel(model, m, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoSuchTexture)

	crate := model.MaterialByName("crate")
	panel := model.MaterialByName("panel")
	plain := model.MaterialByName("plain")

	wood := crate.TextureHandles[wavefront.DiffuseTexture]
	assert.NotZero(t, wood)
	assert.Equal(t, wood, crate.TextureHandles[wavefront.SpecularTexture])
	assert.Equal(t, 2, m.RefCount(wood))

	assert.NotZero(t, panel.TextureHandles[wavefront.DiffuseTexture])
	assert.Zero(t, panel.TextureHandles[wavefront.NormalTexture])
	assert.Equal(t, [3]uint32{}, plain.TextureHandles)
	assert.Equal(t, 2, m.Len())

	ReleaseModel(model, m)
	assert.Equal(t, 0, m.Len())
	assert.Zero(t, crate.TextureHandles[wavefront.DiffuseTexture])
}

func TestBindModelStopsOnError(t *testing.T) {
	model := parseBindModel(t)
	missing := model.MaterialByName("panel").TexturePaths[wavefront.NormalTexture]
	m := NewManager(newFakeDecoder(missing), nil)

	err := BindModel(model, m, false)
	require.ErrorIs(t, err, errNoSuchTexture)
	assert.Contains(t, err.Error(), `material "panel" normal texture`)
}

func TestBindModelAllPresent(t *testing.T) {
	model := parseBindModel(t)
	m := NewManager(newFakeDecoder(), nil)

	require.NoError(t, BindModel(model, m, false))
	assert.Equal(t, 3, m.Len())
	assert.NotZero(t, model.MaterialByName("panel").TextureHandles[wavefront.NormalTexture])
}
