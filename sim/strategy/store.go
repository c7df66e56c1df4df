package strategy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	_ "embed"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/alloc-bench/alloc-bench/sim"
)

// DefaultConfig is the built-in configuration used when no file is given.
//
//go:embed default_strategies.yaml
var DefaultConfig []byte

// Store holds strategy identifiers per topology section, keyed by the
// family's config key. Identifiers are validated lazily, when instantiated.
type Store struct {
	mu       sync.RWMutex
	sections map[string]map[string]string
}

// Load reads and parses a YAML (or JSON) strategy configuration file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrConfigParse, path, err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// Parse builds a Store from an in-memory document.
func Parse(data []byte) (*Store, error) {
	var sections map[string]map[string]string
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: no sections defined", ErrConfigParse)
	}
	for name, section := range sections {
		if section == nil {
			sections[name] = map[string]string{}
		}
	}
	return &Store{sections: sections}, nil
}

// Sections returns the section names, sorted.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := lo.Keys(s.sections)
	sort.Strings(names)
	return names
}

// UpdateShape replaces or inserts entries of a section, creating the section
// if needed. Values are not validated here.
func (s *Store) UpdateShape(section string, overrides map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.sections[section]
	if !ok {
		entries = map[string]string{}
		s.sections[section] = entries
	}
	for k, v := range overrides {
		entries[k] = v
	}
}

// Identifier returns the configured identifier for a family in a section.
func (s *Store) Identifier(section string, family Family) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.sections[section]
	if !ok {
		return "", false
	}
	id, ok := entries[family.ConfigKey()]
	return id, ok
}

// Instantiate builds a fresh strategy instance for family from the section's
// configured identifier.
func (s *Store) Instantiate(section string, family Family) (any, error) {
	s.mu.RLock()
	entries, sectionOK := s.sections[section]
	id, entryOK := entries[family.ConfigKey()]
	s.mu.RUnlock()

	fail := func(err error) error {
		return &ResolutionError{Section: section, Family: family, Identifier: id, Err: err}
	}
	switch {
	case !sectionOK:
		return nil, fail(errors.New("unknown section"))
	case !entryOK || id == "":
		return nil, fail(fmt.Errorf("no %q entry", family.ConfigKey()))
	}
	v, err := construct(id)
	if err != nil {
		return nil, fail(err)
	}
	if err := checkFamily(family, v); err != nil {
		return nil, fail(err)
	}
	return v, nil
}

// PlacementPolicy instantiates the section's placement policy.
func (s *Store) PlacementPolicy(section string) (sim.PlacementPolicy, error) {
	v, err := s.Instantiate(section, FamilyPlacement)
	if err != nil {
		return nil, err
	}
	return v.(sim.PlacementPolicy), nil
}

// HostScheduler instantiates a fresh host scheduler for the section.
func (s *Store) HostScheduler(section string) (sim.HostScheduler, error) {
	v, err := s.Instantiate(section, FamilyHostScheduler)
	if err != nil {
		return nil, err
	}
	return v.(sim.HostScheduler), nil
}

// VMScheduler instantiates a fresh VM scheduler for the section.
func (s *Store) VMScheduler(section string) (sim.VMScheduler, error) {
	v, err := s.Instantiate(section, FamilyVMScheduler)
	if err != nil {
		return nil, err
	}
	return v.(sim.VMScheduler), nil
}

// Validate instantiates every family of a section once and discards the
// instances, surfacing resolution errors before a batch starts.
func (s *Store) Validate(section string) error {
	for _, f := range Families {
		if _, err := s.Instantiate(section, f); err != nil {
			return err
		}
	}
	return nil
}

func checkFamily(family Family, v any) error {
	var ok bool
	switch family {
	case FamilyPlacement:
		_, ok = v.(sim.PlacementPolicy)
	case FamilyHostScheduler:
		_, ok = v.(sim.HostScheduler)
	case FamilyVMScheduler:
		_, ok = v.(sim.VMScheduler)
	}
	if !ok {
		return fmt.Errorf("%s is not a %s", IdentifierOf(v), family)
	}
	return nil
}
