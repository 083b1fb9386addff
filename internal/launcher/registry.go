package launcher

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed storefronts.toml
var storefrontsTOML []byte

const queryPlaceholder = "{query}"

// Storefront is a shop search page a title can be sent to.
type Storefront struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// OpenerDefinition describes how to invoke a URL opener.
type OpenerDefinition struct {
	Platforms []string `toml:"platforms"`
	// Command overrides the executable; the table key is used otherwise
	Command string   `toml:"command,omitempty"`
	Args    []string `toml:"args,omitempty"`
}

type registryFile struct {
	Storefronts map[string]Storefront       `toml:"storefronts"`
	Openers     map[string]OpenerDefinition `toml:"openers"`
}

// Registry holds the known storefronts and openers.
type Registry struct {
	storefronts map[string]Storefront
	openers     map[string]OpenerDefinition
}

// NewRegistry loads the embedded definitions and merges userPaths over
// them. Missing or unreadable user files are skipped.
func NewRegistry(userPaths ...string) (*Registry, error) {
	var file registryFile
	if err := toml.Unmarshal(storefrontsTOML, &file); err != nil {
		return nil, fmt.Errorf("parsing storefronts.toml: %w", err)
	}

	r := &Registry{
		storefronts: file.Storefronts,
		openers:     file.Openers,
	}
	if r.storefronts == nil {
		r.storefronts = make(map[string]Storefront)
	}
	if r.openers == nil {
		r.openers = make(map[string]OpenerDefinition)
	}

	for _, path := range userPaths {
		r.merge(path)
	}
	return r, nil
}

// DefaultUserPaths lists where user storefront definitions are looked up.
func DefaultUserPaths() []string {
	paths := []string{"./storefronts.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append([]string{filepath.Join(home, ".config", "folio", "storefronts.toml")}, paths...)
	}
	return paths
}

func (r *Registry) merge(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var user registryFile
	if err := toml.Unmarshal(data, &user); err != nil {
		return
	}
	for name, s := range user.Storefronts {
		r.storefronts[name] = s
	}
	for name, o := range user.Openers {
		r.openers[name] = o
	}
}

// Storefronts returns the known storefront keys, sorted.
func (r *Registry) Storefronts() []string {
	names := make([]string, 0, len(r.storefronts))
	for name := range r.storefronts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Storefront(name string) (Storefront, bool) {
	s, ok := r.storefronts[name]
	return s, ok
}

// SearchURL fills the storefront template with the escaped title.
func (r *Registry) SearchURL(storefront, title string) (string, error) {
	s, ok := r.storefronts[storefront]
	if !ok {
		return "", fmt.Errorf("unknown storefront %q", storefront)
	}
	if !strings.Contains(s.URL, queryPlaceholder) {
		return "", fmt.Errorf("storefront %q has no %s placeholder", storefront, queryPlaceholder)
	}
	return strings.ReplaceAll(s.URL, queryPlaceholder, EscapeQuery(title)), nil
}

// EscapeQuery escapes s for use as a query value, with spaces as %20.
func EscapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Command builds the command that opens target with opener. Openers
// without a definition are run as "opener target".
func (r *Registry) Command(opener, target string) (*exec.Cmd, error) {
	def, exists := r.openers[opener]
	if !exists {
		return exec.Command(opener, target), nil
	}

	if !supports(def, runtime.GOOS) {
		return nil, fmt.Errorf("%s not supported on %s", opener, runtime.GOOS)
	}

	command := def.Command
	if command == "" {
		command = opener
	}
	args := append(append([]string{}, def.Args...), target)
	return exec.Command(command, args...), nil
}

// Openers returns the defined openers for goos, sorted by name.
func (r *Registry) Openers(goos string) []string {
	var names []string
	for name, def := range r.openers {
		if supports(def, goos) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func supports(def OpenerDefinition, goos string) bool {
	for _, p := range def.Platforms {
		if p == goos {
			return true
		}
	}
	return false
}
