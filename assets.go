package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/remeh/sizedwaitgroup"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Asset loader. Sprites are PNG files listed in assets/manifest.json; the
// manifest is schema-validated before anything loads so a malformed entry is
// caught up front rather than as a nil image mid-frame. The cache hands back
// nil until a sprite finishes loading and the renderer falls back to a
// placeholder, never a failed frame.

const assetManifestSchema = `{
	"type": "object",
	"required": ["sprites"],
	"properties": {
		"sprites": {
			"type": "object",
			"additionalProperties": {"type": "string", "pattern": "\\.png$"}
		},
		"sounds": {
			"type": "object",
			"additionalProperties": {"type": "string", "pattern": "\\.wav$"}
		}
	}
}`

type assetManifest struct {
	Sprites map[string]string `json:"sprites"`
	Sounds  map[string]string `json:"sounds"`
}

var (
	spriteMu     sync.RWMutex
	spriteCache  = map[string]*ebiten.Image{}
	assetsLoaded bool
)

// loadManifest reads and validates assets/manifest.json.
func loadManifest(assetDir string) (*assetManifest, error) {
	path := filepath.Join(assetDir, "manifest.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	schema, err := jsonschema.CompileString("manifest.schema.json", assetManifestSchema)
	if err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}

	var m assetManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// loadSprites decodes every manifest sprite with bounded concurrency and
// publishes each into the cache as it completes. Individual failures log and
// leave that key absent; the show goes on with placeholders.
func loadSprites(assetDir string, m *assetManifest) {
	swg := sizedwaitgroup.New(8)
	var totalBytes int64
	var totalMu sync.Mutex

	for name, file := range m.Sprites {
		name, file := name, file
		swg.Add()
		go func() {
			defer swg.Done()
			path := filepath.Join(assetDir, file)
			data, err := os.ReadFile(path)
			if err != nil {
				logError("load sprite %q: %v", name, err)
				return
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				logError("decode sprite %q: %v", name, err)
				return
			}
			eimg := ebiten.NewImageFromImage(img)
			spriteMu.Lock()
			spriteCache[name] = eimg
			spriteMu.Unlock()
			totalMu.Lock()
			totalBytes += int64(len(data))
			totalMu.Unlock()
		}()
	}
	swg.Wait()

	spriteMu.Lock()
	assetsLoaded = true
	n := len(spriteCache)
	spriteMu.Unlock()
	logDebug("loaded %d sprites (%s)", n, humanize.Bytes(uint64(totalBytes)))
}

// spriteByName returns the cached image or nil while it is still loading (or
// failed). Callers must tolerate nil.
func spriteByName(name string) *ebiten.Image {
	spriteMu.RLock()
	img := spriteCache[name]
	spriteMu.RUnlock()
	return img
}

func spritesReady() bool {
	spriteMu.RLock()
	defer spriteMu.RUnlock()
	return assetsLoaded
}
