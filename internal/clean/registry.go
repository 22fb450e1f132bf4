package clean

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/sgx-labs/daybook/internal/fsx"
	"github.com/sgx-labs/daybook/internal/note"
)

// ErrBadRegistry is returned when the registry file cannot be decoded.
var ErrBadRegistry = errors.New("malformed registry file")

// Registry holds the known project and task names. Each entry maps a
// name as seen in the notebook to its canonical form; entries start as
// self-mappings and users edit the file to fold variants together.
// Task names are scoped per canonical project name.
type Registry struct {
	Projects map[string]string            `yaml:"projects"`
	Tasks    map[string]map[string]string `yaml:"tasks"`

	dirty bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Projects: make(map[string]string),
		Tasks:    make(map[string]map[string]string),
	}
}

// LoadRegistry reads the registry file. A missing file yields an empty
// registry; a file that cannot be decoded yields ErrBadRegistry.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(), nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	reg := NewRegistry()
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadRegistry, path, err)
	}
	if reg.Projects == nil {
		reg.Projects = make(map[string]string)
	}
	if reg.Tasks == nil {
		reg.Tasks = make(map[string]map[string]string)
	}
	return reg, nil
}

// Save writes the registry back atomically, keys sorted, but only when
// something changed since load.
func (r *Registry) Save(path string) error {
	if !r.dirty {
		return nil
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := fsx.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}
	r.dirty = false
	return nil
}

// Dirty reports whether the registry picked up names since load.
func (r *Registry) Dirty() bool {
	return r.dirty
}

// ProjectNames returns the canonical project names, sorted.
func (r *Registry) ProjectNames() []string {
	seen := make(map[string]bool, len(r.Projects))
	var names []string
	for _, canon := range r.Projects {
		if !seen[canon] {
			seen[canon] = true
			names = append(names, canon)
		}
	}
	sort.Strings(names)
	return names
}

// HasProject reports whether name resolves to a known project, without
// registering it.
func (r *Registry) HasProject(name string) bool {
	name = strings.TrimSpace(name)
	if _, ok := r.Projects[name]; ok {
		return true
	}
	key := note.FoldName(name)
	for _, canon := range r.Projects {
		if note.FoldName(canon) == key {
			return true
		}
	}
	return false
}

// CanonicalProject resolves a project title to its canonical form.
// An exact entry wins (that is how user-edited renames apply); otherwise
// a case/whitespace-insensitive match against known canonical names is
// corrected to the canonical spelling. A genuinely new name is kept as
// written and appended to the registry for persistence.
func (r *Registry) CanonicalProject(title string) string {
	return canonical(r.Projects, title, func(name string) {
		r.Projects[name] = name
		r.dirty = true
	})
}

// CanonicalTask resolves a task title within the given canonical
// project, with the same rules as CanonicalProject.
func (r *Registry) CanonicalTask(project, title string) string {
	tasks := r.Tasks[project]
	if tasks == nil {
		tasks = make(map[string]string)
		r.Tasks[project] = tasks
	}
	return canonical(tasks, title, func(name string) {
		tasks[name] = name
		r.dirty = true
	})
}

func canonical(entries map[string]string, title string, add func(string)) string {
	name := strings.TrimSpace(title)
	if name == "" {
		return title
	}
	if canon, ok := entries[name]; ok {
		return canon
	}

	key := note.FoldName(name)
	// Sorted scan keeps the result deterministic if two canonical names
	// ever fold to the same key.
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if note.FoldName(entries[k]) == key {
			return entries[k]
		}
	}

	add(name)
	return name
}
