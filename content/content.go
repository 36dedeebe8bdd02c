// Package content resolves ids to shader programs and textures.
//
// An id is a file name. It is looked up in sources added with AddSource, then in the
// data directory (searched recursively, so names must be unique), then in the shaders
// built into this package.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/bloeys/nrender/logging"
	"github.com/bloeys/nrender/shaders"
	"github.com/bloeys/nrender/textures"
	"github.com/fsnotify/fsnotify"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

//go:embed builtin
var builtinFS embed.FS

// PostprocessVS is the built-in full screen vertex stage postprocess shaders pair with
const PostprocessVS = "postprocess.vs"

var ErrNotFound = errors.New("content not found")

type program struct {
	prog *shaders.Program

	// Resolved file names, used to find programs affected by a changed file
	vsFile string
	fsFile string
}

type Content struct {
	dataDir string
	dev     textures.Device
	mgr     *shaders.Manager

	files    map[string]string
	sources  map[string][]byte
	programs map[string]*program
	order    []string
	textures map[string]*textures.Texture

	watcher   *fsnotify.Watcher
	watchDone chan struct{}
	watchWg   sync.WaitGroup

	// changed holds file names modified since the last PollReloads.
	// Written by the watcher goroutine.
	changedMu sync.Mutex
	changed   map[string]struct{}
}

// New indexes dataDir. An empty dataDir only serves added and built-in sources.
func New(dev textures.Device, mgr *shaders.Manager, dataDir string) (*Content, error) {

	c := &Content{
		dataDir:  dataDir,
		dev:      dev,
		mgr:      mgr,
		files:    map[string]string{},
		sources:  map[string][]byte{},
		programs: map[string]*program{},
		textures: map[string]*textures.Texture{},
		changed:  map[string]struct{}{},
	}

	if dataDir == "" {
		return c, nil
	}

	if err := c.index(); err != nil {
		return nil, err
	}

	logging.InfoLog.Printf("Indexed %d content files in '%s'\n", len(c.files), dataDir)
	return c, nil
}

func (c *Content) index() error {

	return filepath.WalkDir(c.dataDir, func(p string, d fs.DirEntry, err error) error {

		if err != nil {
			return fmt.Errorf("failed to index content directory '%s': %w", c.dataDir, err)
		}

		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if existing, ok := c.files[name]; ok && existing != p {
			logging.WarnLog.Printf("Content file '%s' is shadowed by '%s'\n", p, existing)
			return nil
		}

		c.files[name] = p
		return nil
	})
}

// AddSource registers in-memory content under id. It takes precedence over files with the same name.
func (c *Content) AddSource(id string, src []byte) {
	c.sources[id] = src
}

// Has reports whether id resolves to any content
func (c *Content) Has(id string) bool {
	_, err := c.read(id)
	return err == nil
}

func (c *Content) read(id string) ([]byte, error) {

	if src, ok := c.sources[id]; ok {
		return src, nil
	}

	if p, ok := c.files[id]; ok {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read content '%s': %w", id, err)
		}
		return data, nil
	}

	data, err := builtinFS.ReadFile(path.Join("builtin", id))
	if err == nil {
		return data, nil
	}

	return nil, fmt.Errorf("%w: '%s'", ErrNotFound, id)
}

// resolve returns the id of existing content for id, trying id+ext when id has no extension
func (c *Content) resolve(id, ext string) (string, error) {

	if c.Has(id) {
		return id, nil
	}

	if path.Ext(id) == "" && c.Has(id+ext) {
		return id + ext, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrNotFound, id)
}

// Shader returns the program made of the two stages, creating it on first use.
// Passing the same id twice loads a combined file holding both stages.
// Ids without an extension are also tried with '.vs' and '.fs'.
func (c *Content) Shader(vsID, fsID string) (*shaders.Program, error) {

	key := vsID + "+" + fsID
	if p, ok := c.programs[key]; ok {
		return p.prog, nil
	}

	entry, vertexSrc, fragmentSrc, err := c.loadProgram(vsID, fsID)
	if err != nil {
		return nil, err
	}

	entry.prog = c.mgr.New(key, vertexSrc, fragmentSrc)
	c.programs[key] = entry
	c.order = append(c.order, key)
	return entry.prog, nil
}

func (c *Content) loadProgram(vsID, fsID string) (*program, string, string, error) {

	if vsID == fsID {

		id, err := c.resolve(vsID, ".glsl")
		if err != nil {
			return nil, "", "", err
		}

		combined, err := c.read(id)
		if err != nil {
			return nil, "", "", err
		}

		vertexSrc, fragmentSrc, err := shaders.SplitCombined(combined)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to load combined shader '%s': %w", id, err)
		}

		return &program{vsFile: id, fsFile: id}, vertexSrc, fragmentSrc, nil
	}

	vsFile, err := c.resolve(vsID, ".vs")
	if err != nil {
		return nil, "", "", err
	}

	fsFile, err := c.resolve(fsID, ".fs")
	if err != nil {
		return nil, "", "", err
	}

	vsSrc, err := c.read(vsFile)
	if err != nil {
		return nil, "", "", err
	}

	fsSrc, err := c.read(fsFile)
	if err != nil {
		return nil, "", "", err
	}

	return &program{vsFile: vsFile, fsFile: fsFile}, string(vsSrc), string(fsSrc), nil
}

// Texture decodes a png, jpeg, bmp, tiff or webp image into a texture, once per id
func (c *Content) Texture(id string) (*textures.Texture, error) {
	return c.TextureWithOptions(id, textures.LoadOptions{})
}

// TextureWithOptions is Texture with load options. Options only apply the first time id is loaded.
func (c *Content) TextureWithOptions(id string, opts textures.LoadOptions) (*textures.Texture, error) {

	if t, ok := c.textures[id]; ok {
		return t, nil
	}

	data, err := c.read(id)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture '%s': %w", id, err)
	}

	t := textures.FromImage(c.dev, id, img, opts)
	c.textures[id] = t

	logging.InfoLog.Printf("Loaded %s texture '%s' (%dx%d)\n", format, id, img.Bounds().Dx(), img.Bounds().Dy())
	return t, nil
}

// Reload re-reads the sources of every program that uses the file name and
// returns how many programs were reloaded. Programs are compiled again on next use.
func (c *Content) Reload(name string) (int, error) {

	reloaded := 0
	var errs []error
	for _, key := range c.order {

		p := c.programs[key]
		if p.vsFile != name && p.fsFile != name {
			continue
		}

		vsID, fsID := p.vsFile, p.fsFile
		_, vertexSrc, fragmentSrc, err := c.loadProgram(vsID, fsID)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to reload shader '%s': %w", key, err))
			continue
		}

		p.prog.Reload(vertexSrc, fragmentSrc)
		reloaded++
		logging.InfoLog.Printf("Reloaded shader '%s'\n", key)
	}

	return reloaded, errors.Join(errs...)
}

// Release deletes all programs and textures and stops watching
func (c *Content) Release() {

	if err := c.Close(); err != nil {
		logging.WarnLog.Printf("Failed to stop content watcher. Err: %s\n", err)
	}

	for i := len(c.order) - 1; i >= 0; i-- {
		c.programs[c.order[i]].prog.Release()
	}

	for _, t := range c.textures {
		t.Release()
	}

	clear(c.programs)
	clear(c.textures)
	c.order = nil
}
