package adapters

import (
	"errors"
	"fmt"
	"sort"

	"github.com/callscope/callscope/core"
)

var (
	errNoValidEngineAliases = errors.New("no valid engine aliases provided")
	ErrUnsupportedEngine    = errors.New("no adapter registered for provided engine")
)

// registeredAdapters holds implemented adapters - specific adapters register
// themselves in their init functions. The main reason is to be able to compile
// the binary without unsupported os/arch of specific drivers.
var registeredAdapters = make(map[string]core.Adapter)

// register registers a new adapter under one or more engine aliases.
func register(adapter core.Adapter, aliases ...string) error {
	if len(aliases) < 1 {
		return errNoValidEngineAliases
	}

	invalidCount := 0
	for _, alias := range aliases {
		if alias == "" {
			invalidCount++
			continue
		}
		registeredAdapters[alias] = adapter
	}

	if invalidCount == len(aliases) {
		return errNoValidEngineAliases
	}

	return nil
}

// Get returns the adapter registered under the engine alias.
func Get(engine string) (core.Adapter, error) {
	adapter, ok := registeredAdapters[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, engine)
	}

	return adapter, nil
}

// Dial resolves the engine alias and opens a driver on the location. The
// caller owns the returned driver and must close it.
func Dial(engine, location string) (core.Driver, error) {
	adapter, err := Get(engine)
	if err != nil {
		return nil, err
	}

	driver, err := adapter.Connect(location)
	if err != nil {
		return nil, fmt.Errorf("adapter.Connect: %w", err)
	}

	return driver, nil
}

// Engines lists the registered engine aliases in stable order.
func Engines() []string {
	engines := make([]string, 0, len(registeredAdapters))
	for alias := range registeredAdapters {
		engines = append(engines, alias)
	}
	sort.Strings(engines)

	return engines
}
