package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/ecsreg/internal/core/ecs"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Catalog maps component kind names used in prefab files to decoders.
type Catalog[E ecs.Identifier[E]] struct {
	decoders map[string]decodeFunc[E]
}

// decodeFunc parses one component mapping and returns a function that
// stores the decoded value on an entity.
type decodeFunc[E ecs.Identifier[E]] func(node *yaml.Node) (func(ecs.Handle[E]), error)

func NewCatalog[E ecs.Identifier[E]]() *Catalog[E] {
	return &Catalog[E]{decoders: make(map[string]decodeFunc[E])}
}

// Component registers T under kind. Registering a kind twice replaces the
// previous decoder.
func Component[T any, E ecs.Identifier[E]](c *Catalog[E], kind string) {
	c.decoders[kind] = func(node *yaml.Node) (func(ecs.Handle[E]), error) {
		var v T
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return func(h ecs.Handle[E]) { ecs.AssignOrReplace(h, v) }, nil
	}
}

func (c *Catalog[E]) Has(kind string) bool {
	_, ok := c.decoders[kind]
	return ok
}

// TransformEntry overrides parts of the identity transform. Omitted
// fields keep their identity values.
type TransformEntry struct {
	Position *[3]float32 `yaml:"position"`
	Rotation *[4]float32 `yaml:"rotation"`
	Scale    *[3]float32 `yaml:"scale"`
}

// PrefabEntry is one entity template as written in YAML.
type PrefabEntry struct {
	Name       string         `yaml:"name"`
	Transform  TransformEntry `yaml:"transform"`
	Components yaml.Node      `yaml:"components"`
}

type prefab[E ecs.Identifier[E]] struct {
	name      string
	transform ecs.Transform
	apply     []func(ecs.Handle[E])
}

// PrefabTable holds decoded prefabs indexed by name.
type PrefabTable[E ecs.Identifier[E]] struct {
	prefabs map[string]*prefab[E]
	order   []string
	log     *zap.Logger
}

// LoadPrefabTable loads a prefab list. Every component kind must be known
// to catalog; values are decoded once here and copied on each Spawn.
func LoadPrefabTable[E ecs.Identifier[E]](path string, catalog *Catalog[E], log *zap.Logger) (*PrefabTable[E], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab list: %w", err)
	}
	t, err := ParsePrefabTable(raw, catalog, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func ParsePrefabTable[E ecs.Identifier[E]](raw []byte, catalog *Catalog[E], log *zap.Logger) (*PrefabTable[E], error) {
	if log == nil {
		log = zap.NewNop()
	}
	var entries []PrefabEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse prefab list: %w", err)
	}
	t := &PrefabTable[E]{
		prefabs: make(map[string]*prefab[E], len(entries)),
		order:   make([]string, 0, len(entries)),
		log:     log,
	}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("prefab #%d has no name", i)
		}
		if _, dup := t.prefabs[e.Name]; dup {
			return nil, fmt.Errorf("prefab %q defined twice", e.Name)
		}
		p, err := buildPrefab(e, catalog)
		if err != nil {
			return nil, fmt.Errorf("prefab %q: %w", e.Name, err)
		}
		t.prefabs[e.Name] = p
		t.order = append(t.order, e.Name)
	}
	log.Debug("prefabs loaded", zap.Int("count", len(t.order)))
	return t, nil
}

func buildPrefab[E ecs.Identifier[E]](e *PrefabEntry, catalog *Catalog[E]) (*prefab[E], error) {
	p := &prefab[E]{name: e.Name, transform: ecs.NewTransform()}
	if v := e.Transform.Position; v != nil {
		p.transform.SetPosition(v[0], v[1], v[2])
	}
	if v := e.Transform.Rotation; v != nil {
		p.transform.Rotation = *v
	}
	if v := e.Transform.Scale; v != nil {
		p.transform.Scale = *v
	}

	node := &e.Components
	if node.Kind == 0 {
		return p, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("components must be a mapping (line %d)", node.Line)
	}
	// Content alternates key, value; file order is kept.
	for i := 0; i+1 < len(node.Content); i += 2 {
		kind := node.Content[i].Value
		dec, ok := catalog.decoders[kind]
		if !ok {
			return nil, fmt.Errorf("unknown component kind %q (line %d)", kind, node.Content[i].Line)
		}
		apply, err := dec(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", kind, err)
		}
		p.apply = append(p.apply, apply)
	}
	return p, nil
}

// Spawn allocates an entity from the named prefab.
func (t *PrefabTable[E]) Spawn(reg *ecs.Registry[E], name string) (ecs.Handle[E], error) {
	p, ok := t.prefabs[name]
	if !ok {
		return reg.Handle(ecs.Tombstone[E]()), fmt.Errorf("unknown prefab %q", name)
	}
	h := reg.Allocate()
	ecs.AssignOrReplace(h, p.transform)
	for _, apply := range p.apply {
		apply(h)
	}
	t.log.Debug("prefab spawned", zap.String("prefab", name), zap.Stringer("entity", h))
	return h, nil
}

// Names returns prefab names in file order.
func (t *PrefabTable[E]) Names() []string {
	return t.order
}

func (t *PrefabTable[E]) Has(name string) bool {
	_, ok := t.prefabs[name]
	return ok
}

// Count returns the total number of prefabs loaded.
func (t *PrefabTable[E]) Count() int {
	return len(t.prefabs)
}
