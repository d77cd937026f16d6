package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
}

type builtinScene struct {
	info  SceneInfo
	build func(random *rand.Rand) (*Scene, error)
}

// builtinScenes are listed in display order
var builtinScenes = []builtinScene{
	{
		info: SceneInfo{Name: "one-weekend", Description: "Random field of small spheres around three large ones"},
		build: func(random *rand.Rand) (*Scene, error) {
			return NewOneWeekendScene(random), nil
		},
	},
	{
		info: SceneInfo{Name: "prism", Description: "Metal triangle prism on a triangle ground plane"},
		build: func(*rand.Rand) (*Scene, error) {
			return NewPrismScene(), nil
		},
	},
	{
		info: SceneInfo{Name: "showcase", Description: "Moving spheres, cylinders and a smooth mesh"},
		build: func(*rand.Rand) (*Scene, error) {
			return NewShowcaseScene()
		},
	},
	{
		info: SceneInfo{Name: "single-sphere", Description: "One white diffuse sphere"},
		build: func(*rand.Rand) (*Scene, error) {
			return NewSingleSphereScene(), nil
		},
	},
}

// ListBuiltinScenes returns the built-in scenes in display order
func ListBuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		infos[i] = b.info
	}
	return infos
}

// NewBuiltinScene creates the named built-in scene. Randomized layouts are drawn
// from a generator seeded with seed.
func NewBuiltinScene(name string, seed int64) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.Name == name {
			return b.build(rand.New(rand.NewSource(seed)))
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(builtinNames(), ", "))
}

// Load creates a scene from a YAML description file when nameOrPath has a
// .yaml or .yml extension, and a built-in scene otherwise
func Load(nameOrPath string, seed int64) (*Scene, error) {
	if IsDescriptionFile(nameOrPath) {
		return LoadDescription(nameOrPath)
	}
	return NewBuiltinScene(nameOrPath, seed)
}

// IsDescriptionFile reports whether path names a YAML scene description
func IsDescriptionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func builtinNames() []string {
	names := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		names[i] = b.info.Name
	}
	return names
}
