package render

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sgostarter/libbarrace/race"
)

// Renderer draws prepared frames. Each backend lives in its own package and
// registers itself when it is compiled in.
type Renderer interface {
	Name() string
	Render(w io.Writer, res *race.Result) error
}

// Generator builds a renderer. It returns false when the backend cannot run
// in the current process.
type Generator func() (r Renderer, available bool)

type Registry struct {
	lock       sync.Mutex
	generators map[string]Generator
	renderers  map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		renderers:  make(map[string]Renderer),
	}
}

func (reg *Registry) Register(name string, generator Generator) error {
	if name == "" || generator == nil {
		return fmt.Errorf("%w: renderer needs a name and a generator", race.ErrConfiguration)
	}

	reg.lock.Lock()
	defer reg.lock.Unlock()

	if _, ok := reg.generators[name]; ok {
		return fmt.Errorf("%w: renderer %q already registered", race.ErrConfiguration, name)
	}

	reg.generators[name] = generator

	return nil
}

// Get returns the renderer registered under name, building it on first use.
func (reg *Registry) Get(name string) (Renderer, error) {
	reg.lock.Lock()
	defer reg.lock.Unlock()

	if r, ok := reg.renderers[name]; ok {
		return r, nil
	}

	generator, ok := reg.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: no renderer %q", race.ErrConfiguration, name)
	}

	r, available := generator()
	if !available || r == nil {
		return nil, fmt.Errorf("%w: renderer %q is not available", race.ErrConfiguration, name)
	}

	reg.renderers[name] = r

	return r, nil
}

// Names lists registered renderers whose backend is available.
func (reg *Registry) Names() []string {
	reg.lock.Lock()
	defer reg.lock.Unlock()

	names := make([]string, 0, len(reg.generators))

	for name, generator := range reg.generators {
		if _, ok := reg.renderers[name]; !ok {
			if _, available := generator(); !available {
				continue
			}
		}

		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

var defaultRegistry = NewRegistry()

// Register adds a backend to the default registry. Backends call it from
// init and panic on conflict, like database/sql drivers.
func Register(name string, generator Generator) {
	if err := defaultRegistry.Register(name, generator); err != nil {
		panic(err)
	}
}

func Get(name string) (Renderer, error) {
	return defaultRegistry.Get(name)
}

func Names() []string {
	return defaultRegistry.Names()
}
