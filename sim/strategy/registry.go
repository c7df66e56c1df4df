// Package strategy maps short mnemonics to strategy identifiers and builds
// strategy instances from configuration by identifier.
//
// Every strategy known to the harness is listed once in catalog. The forward
// (mnemonic → identifier) and reverse (identifier → mnemonic) lookups and the
// constructor table are all derived from that list at init and never mutated.
package strategy

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/alloc-bench/alloc-bench/sim"
)

// Unknown is returned by ResolveIdentifier for identifiers outside the fixed set.
const Unknown = "UNKNOWN"

// ErrUnknownMnemonic is returned when a mnemonic is not in its family's set.
var ErrUnknownMnemonic = errors.New("unknown mnemonic")

// Family is one of the three pluggable strategy kinds.
type Family int

const (
	FamilyPlacement     Family = iota // assigns VMs to hosts
	FamilyHostScheduler               // shares a host's PEs among VMs
	FamilyVMScheduler                 // shares a VM's PEs among workloads
)

// Families lists every family in a stable order.
var Families = []Family{FamilyPlacement, FamilyHostScheduler, FamilyVMScheduler}

func (f Family) String() string {
	switch f {
	case FamilyPlacement:
		return "placement policy"
	case FamilyHostScheduler:
		return "host scheduler"
	case FamilyVMScheduler:
		return "vm scheduler"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// ConfigKey is the key under which the family's identifier is stored in a
// configuration section.
func (f Family) ConfigKey() string {
	switch f {
	case FamilyPlacement:
		return "vmAllocationPolicy"
	case FamilyHostScheduler:
		return "vmScheduler"
	case FamilyVMScheduler:
		return "cloudletScheduler"
	default:
		return ""
	}
}

// ParseFamily accepts a config key or a family name.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if s == f.ConfigKey() || strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy family %q", s)
}

// Constructor builds a fresh, zero-configured strategy instance.
type Constructor func() any

type entry struct {
	family   Family
	mnemonic string
	build    Constructor
}

var catalog = []entry{
	{FamilyPlacement, "S", func() any { return sim.NewSimpleAllocation() }},
	{FamilyPlacement, "FF", func() any { return sim.NewFirstFitAllocation() }},
	{FamilyPlacement, "BF", func() any { return sim.NewBestFitAllocation() }},
	{FamilyHostScheduler, "TS", func() any { return sim.NewTimeSharedHostScheduler() }},
	{FamilyHostScheduler, "SS", func() any { return sim.NewSpaceSharedHostScheduler() }},
	{FamilyVMScheduler, "TS", func() any { return sim.NewTimeSharedVMScheduler() }},
	{FamilyVMScheduler, "SS", func() any { return sim.NewSpaceSharedVMScheduler() }},
}

var (
	forward      = map[Family]map[string]string{}
	reverse      = map[Family]map[string]string{}
	constructors = map[string]Constructor{}
)

func init() {
	for _, e := range catalog {
		id := IdentifierOf(e.build())
		if forward[e.family] == nil {
			forward[e.family] = map[string]string{}
			reverse[e.family] = map[string]string{}
		}
		if _, dup := forward[e.family][e.mnemonic]; dup {
			panic(fmt.Sprintf("duplicate mnemonic %q for %s", e.mnemonic, e.family))
		}
		if _, dup := reverse[e.family][id]; dup {
			panic(fmt.Sprintf("duplicate identifier %q for %s", id, e.family))
		}
		forward[e.family][e.mnemonic] = id
		reverse[e.family][id] = e.mnemonic
		constructors[id] = e.build
	}
}

// IdentifierOf returns the fully-qualified type name of a strategy instance,
// e.g. "github.com/alloc-bench/alloc-bench/sim.SimpleAllocation".
// Pointer indirections are ignored. Returns "" for nil.
func IdentifierOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// ResolveMnemonic returns the identifier registered for code in family.
func ResolveMnemonic(family Family, code string) (string, error) {
	id, ok := forward[family][code]
	if !ok {
		return "", fmt.Errorf("%w: %q is not a %s (valid: %s)",
			ErrUnknownMnemonic, code, family, strings.Join(Mnemonics(family), ", "))
	}
	return id, nil
}

// ResolveIdentifier returns the mnemonic of identifier in family, or Unknown.
// It never fails: reports may describe strategies the registry does not know.
func ResolveIdentifier(family Family, identifier string) string {
	if code, ok := reverse[family][identifier]; ok {
		return code
	}
	return Unknown
}

// MnemonicOf is ResolveIdentifier applied to a live instance's runtime type.
func MnemonicOf(family Family, v any) string {
	return ResolveIdentifier(family, IdentifierOf(v))
}

// Mnemonics returns the family's valid codes, sorted.
func Mnemonics(family Family) []string {
	codes := lo.Keys(forward[family])
	sort.Strings(codes)
	return codes
}

// construct builds a fresh instance for identifier. A panicking constructor is
// reported as an error.
func construct(identifier string) (v any, err error) {
	build, ok := constructors[identifier]
	if !ok {
		return nil, fmt.Errorf("no strategy type named %q", identifier)
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("constructing %q: %v", identifier, r)
		}
	}()
	v = build()
	if v == nil {
		return nil, fmt.Errorf("constructing %q: constructor returned nil", identifier)
	}
	return v, nil
}
