package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jwalitptl/hospital-admin/pkg/validator"
)

// Kind is the storage type of a field
type Kind int

const (
	KindInt Kind = iota
	KindText
	KindDate
	KindTime
)

// Field describes one column of an entity
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Rule     validator.Rule
}

// Reference is a foreign key from Column to the key of Target
type Reference struct {
	Column string
	Target *Entity
}

// Column is a handle on one of an entity's fields. Only the owning Entity
// hands out valid columns, so a Column can always be interpolated as an
// identifier.
type Column struct {
	entity *Entity
	index  int
}

func (c Column) Valid() bool {
	return c.entity != nil
}

func (c Column) Entity() *Entity {
	return c.entity
}

func (c Column) Field() Field {
	return c.entity.fields[c.index]
}

func (c Column) Name() string {
	if c.entity == nil {
		return ""
	}
	return c.entity.fields[c.index].Name
}

func (c Column) Index() int {
	return c.index
}

func (c Column) String() string {
	return c.Name()
}

// Entity is the fixed row schema behind a panel
type Entity struct {
	Name  string
	Noun  string
	Slug  string
	Table string

	fields     []Field
	references []Reference
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Define builds an entity. The first field is the primary key and must be
// an integer.
func Define(name, noun, slug, table string, fields []Field, refs ...Reference) (*Entity, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("entity %s: invalid table name %q", name, table)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("entity %s: no fields", name)
	}
	if fields[0].Kind != KindInt {
		return nil, fmt.Errorf("entity %s: key %s must be an integer", name, fields[0].Name)
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !identifier.MatchString(f.Name) {
			return nil, fmt.Errorf("entity %s: invalid column name %q", name, f.Name)
		}
		key := strings.ToUpper(f.Name)
		if seen[key] {
			return nil, fmt.Errorf("entity %s: duplicate column %s", name, f.Name)
		}
		seen[key] = true
		if f.Rule == nil {
			return nil, fmt.Errorf("entity %s: column %s has no rule", name, f.Name)
		}
	}

	for _, ref := range refs {
		if !seen[strings.ToUpper(ref.Column)] {
			return nil, fmt.Errorf("entity %s: reference on unknown column %s", name, ref.Column)
		}
		if ref.Target == nil {
			return nil, fmt.Errorf("entity %s: reference %s has no target", name, ref.Column)
		}
	}

	return &Entity{
		Name:       name,
		Noun:       noun,
		Slug:       slug,
		Table:      table,
		fields:     fields,
		references: refs,
	}, nil
}

func MustDefine(name, noun, slug, table string, fields []Field, refs ...Reference) *Entity {
	e, err := Define(name, noun, slug, table, fields, refs...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Entity) Fields() []Field {
	out := make([]Field, len(e.fields))
	copy(out, e.fields)
	return out
}

func (e *Entity) Columns() []Column {
	cols := make([]Column, len(e.fields))
	for i := range e.fields {
		cols[i] = Column{entity: e, index: i}
	}
	return cols
}

func (e *Entity) Key() Column {
	return Column{entity: e, index: 0}
}

// Lookup resolves a user-chosen column name against the entity's closed set.
func (e *Entity) Lookup(name string) (Column, bool) {
	for i, f := range e.fields {
		if strings.EqualFold(f.Name, name) {
			return Column{entity: e, index: i}, true
		}
	}
	return Column{}, false
}

// MustColumn is Lookup for names known at definition time.
func (e *Entity) MustColumn(name string) Column {
	c, ok := e.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("entity %s has no column %s", e.Name, name))
	}
	return c
}

func (e *Entity) Owns(c Column) bool {
	return c.entity == e && c.index >= 0 && c.index < len(e.fields)
}

func (e *Entity) References() []Reference {
	out := make([]Reference, len(e.references))
	copy(out, e.references)
	return out
}

// Article returns "a" or "an" for the entity noun.
func (e *Entity) Article() string {
	if e.Noun != "" && strings.ContainsRune("aeiouAEIOU", rune(e.Noun[0])) {
		return "an"
	}
	return "a"
}
