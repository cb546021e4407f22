// Package registry provides a global registry for game factories.
// Games register themselves and their modes in init() functions, allowing
// the platform to discover and instantiate games without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/apple-arcade/internal/core"
)

// Game is the core interface that all arcade games must implement.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "apples").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Apple Game").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions and pointer events.
	// Returns the result of this tick including current game state.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// Resizer is implemented by games that can follow a terminal resize
// without restarting the round. Games that don't implement it are Reset.
type Resizer interface {
	Resize(width, height int)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
	// VariantOf is the ID of the game this one is a mode of, such as the
	// untimed board of the apple game. Empty for top-level games.
	VariantOf string
}

// IsVariant reports whether the game is a mode of another game.
func (gi GameInfo) IsVariant() bool {
	return gi.VariantOf != ""
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	register(id, "", f)
}

// RegisterVariant adds a mode of an already registered game. Variants are
// playable by ID but are left out of game pickers, which offer them
// through the base game's mode selection instead.
// Panics if base is unknown or id is taken.
func RegisterVariant(id, base string, f Factory) {
	mu.RLock()
	_, ok := factories[base]
	mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("registry: variant %q of unknown game %q", id, base))
	}
	register(id, base, f)
}

func register(id, base string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	infos[id] = GameInfo{ID: id, Title: f().Title(), VariantOf: base}
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	sortInfos(result)
	return result
}

// Games returns the top-level games, sorted by ID.
func Games() []GameInfo {
	var result []GameInfo
	for _, info := range List() {
		if !info.IsVariant() {
			result = append(result, info)
		}
	}
	return result
}

// Variants returns the modes registered for a game, sorted by ID.
func Variants(base string) []GameInfo {
	var result []GameInfo
	for _, info := range List() {
		if info.VariantOf == base {
			result = append(result, info)
		}
	}
	return result
}

func sortInfos(infos []GameInfo) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
