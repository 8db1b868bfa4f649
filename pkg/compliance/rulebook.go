// Package compliance checks car specifications against the numeric limits of
// a sanctioning body rulebook.
package compliance

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ohler55/ojg/jp"
	"gopkg.in/yaml.v3"
)

type Bound string

const (
	BoundMax Bound = "max"
	BoundMin Bound = "min"
)

const TransformTireWidth = "tire-width"

const (
	SixShooter    = "six-shooter"
	HSRAStandards = "hsra-standards"
)

var ErrUnknownRulebook = errors.New("unknown rulebook")

type Rule struct {
	Name      string  `yaml:"name"`
	Label     string  `yaml:"label"`
	Path      string  `yaml:"path"`
	Bound     Bound   `yaml:"bound"`
	Limit     float64 `yaml:"limit"`
	Unit      string  `yaml:"unit"`
	Transform string  `yaml:"transform"`
	Optional  bool    `yaml:"optional"` // a missing value passes instead of failing
	Violation string  `yaml:"violation"`

	expr jp.Expr
}

type Rulebook struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Rules       []Rule `yaml:"rules"`
}

type rulebookFile struct {
	Rulebooks []*Rulebook `yaml:"rulebooks"`
}

//go:embed rulebooks.yaml
var builtin []byte

// Registry holds the rulebooks known to the application.
type Registry struct {
	books map[string]*Rulebook
}

// NewRegistry returns a registry with the built-in rulebooks.
func NewRegistry() (*Registry, error) {
	r := &Registry{books: map[string]*Rulebook{}}
	if err := r.load(builtin); err != nil {
		return nil, fmt.Errorf("builtin rulebooks: %w", err)
	}
	return r, nil
}

// LoadFile adds the rulebooks of a yaml file. Existing rulebooks with the
// same name are replaced.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.LoadReader(f)
}

func (r *Registry) LoadReader(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	return r.load(data)
}

func (r *Registry) load(data []byte) error {
	var f rulebookFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	for _, b := range f.Rulebooks {
		if err := b.prepare(); err != nil {
			return err
		}
	}
	for _, b := range f.Rulebooks {
		r.books[b.Name] = b
	}
	return nil
}

func (r *Registry) Get(name string) (*Rulebook, error) {
	if b, ok := r.books[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRulebook, name)
}

// Names returns the sorted rulebook names.
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.books))
	for name := range r.books {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

func (b *Rulebook) prepare() error {
	if b.Name == "" {
		return errors.New("rulebook without name")
	}
	for i := range b.Rules {
		rule := &b.Rules[i]
		if rule.Bound != BoundMax && rule.Bound != BoundMin {
			return fmt.Errorf("rulebook %s rule %s: invalid bound %q", b.Name, rule.Name, rule.Bound)
		}
		if rule.Transform != "" && rule.Transform != TransformTireWidth {
			return fmt.Errorf("rulebook %s rule %s: unknown transform %q",
				b.Name, rule.Name, rule.Transform)
		}
		x, err := jp.ParseString(rule.Path)
		if err != nil {
			return fmt.Errorf("rulebook %s rule %s: %w", b.Name, rule.Name, err)
		}
		rule.expr = x
		if rule.Label == "" {
			rule.Label = rule.Name
		}
	}
	return nil
}
