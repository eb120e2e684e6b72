// Package taxonomy holds the curated tag catalogue: categories, their tags and
// display labels, demo templates and lyric structure templates.
package taxonomy

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Category keys.
const (
	Genres        = "genres"
	Production    = "production"
	Instruments   = "instruments"
	Moods         = "moods"
	Vocals        = "vocals"
	Structure     = "structure"
	Effects       = "effects"
	V5Advanced    = "v5Advanced"
	MixingPresets = "mixingPresets"
	AnimeDrama    = "animeDrama"
	V5Performance = "v5Performance"
)

// Keys lists every category in display order.
var Keys = []string{
	Genres, Production, Instruments, Moods, Vocals, Structure,
	Effects, V5Advanced, MixingPresets, AnimeDrama, V5Performance,
}

// Tag is one selectable tag. Key is what goes into prompts; Label is shown to users.
type Tag struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TagList is an ordered key->label mapping.
type TagList []Tag

// UnmarshalYAML decodes a YAML mapping while keeping document order.
func (l *TagList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tags must be a mapping", node.Line)
	}
	out := make(TagList, 0, len(node.Content)/2)
	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var k, v string
		if err := node.Content[i].Decode(&k); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&v); err != nil {
			return err
		}
		// later duplicate keys overwrite the label but keep the first position
		if idx, ok := seen[k]; ok {
			out[idx].Label = v
			continue
		}
		seen[k] = len(out)
		out = append(out, Tag{Key: k, Label: v})
	}
	*l = out
	return nil
}

// Group is a named subset of a nested category.
type Group struct {
	Name string  `yaml:"name" json:"name"`
	Tags TagList `yaml:"tags" json:"tags"`
}

// Category is either flat (Tags) or nested (Groups).
type Category struct {
	Key    string  `yaml:"key" json:"key"`
	Name   string  `yaml:"name" json:"name"`
	Tags   TagList `yaml:"tags,omitempty" json:"tags,omitempty"`
	Groups []Group `yaml:"groups,omitempty" json:"groups,omitempty"`
}

// Nested reports whether the category is organised in groups.
func (c *Category) Nested() bool { return len(c.Groups) > 0 }

// Each calls fn for every tag of the category, groups first to last.
func (c *Category) Each(fn func(Tag)) {
	for _, t := range c.Tags {
		fn(t)
	}
	for _, g := range c.Groups {
		for _, t := range g.Tags {
			fn(t)
		}
	}
}

// DemoTemplate is a named, complete tag selection.
type DemoTemplate struct {
	Name string              `yaml:"name" json:"name"`
	Tags map[string][]string `yaml:"tags" json:"tags"`
}

// StructureTemplate is a lyric skeleton.
type StructureTemplate struct {
	Name    string `yaml:"name" json:"name"`
	Content string `yaml:"content" json:"content"`
}

// Taxonomy is immutable after Load.
type Taxonomy struct {
	Categories         []Category          `json:"categories"`
	DemoTemplates      []DemoTemplate      `json:"demo_templates"`
	StructureTemplates []StructureTemplate `json:"structure_templates"`
	QuickStructureTags []string            `json:"quick_structure_tags"`

	byKey map[string]int
}

type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

type templatesFile struct {
	StructureTemplates []StructureTemplate `yaml:"structure_templates"`
	DemoTemplates      []DemoTemplate      `yaml:"demo_templates"`
	QuickStructureTags []string            `yaml:"quick_structure_tags"`
}

// Load decodes the embedded catalogue.
func Load() (*Taxonomy, error) {
	var cats categoriesFile
	if err := decodeFile("data/categories.yaml", &cats); err != nil {
		return nil, err
	}
	var tpl templatesFile
	if err := decodeFile("data/templates.yaml", &tpl); err != nil {
		return nil, err
	}
	t := &Taxonomy{
		Categories:         cats.Categories,
		DemoTemplates:      tpl.DemoTemplates,
		StructureTemplates: tpl.StructureTemplates,
		QuickStructureTags: tpl.QuickStructureTags,
		byKey:              make(map[string]int, len(cats.Categories)),
	}
	for i, c := range t.Categories {
		if _, dup := t.byKey[c.Key]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate category %q", c.Key)
		}
		t.byKey[c.Key] = i
	}
	for _, k := range Keys {
		if _, ok := t.byKey[k]; !ok {
			return nil, fmt.Errorf("taxonomy: missing category %q", k)
		}
	}
	return t, nil
}

// MustLoad is Load for program start-up.
func MustLoad() *Taxonomy {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

func decodeFile(name string, out interface{}) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("taxonomy: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("taxonomy: parse %s: %w", name, err)
	}
	return nil
}

// Category returns the category with the given key.
func (t *Taxonomy) Category(key string) (*Category, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return nil, false
	}
	return &t.Categories[i], true
}

// DisplayName returns the user-facing category name, or key when unknown.
func (t *Taxonomy) DisplayName(key string) string {
	if c, ok := t.Category(key); ok {
		return c.Name
	}
	return key
}

// IsCategory reports whether key names a known category.
func (t *Taxonomy) IsCategory(key string) bool {
	_, ok := t.byKey[key]
	return ok
}

// Walk visits every tag of the listed categories in order.
func (t *Taxonomy) Walk(keys []string, fn func(category string, tag Tag)) {
	for _, k := range keys {
		c, ok := t.Category(k)
		if !ok {
			continue
		}
		c.Each(func(tag Tag) { fn(k, tag) })
	}
}

// DemoTemplate looks a demo template up by name.
func (t *Taxonomy) DemoTemplate(name string) (DemoTemplate, bool) {
	for _, d := range t.DemoTemplates {
		if d.Name == name {
			return d, true
		}
	}
	return DemoTemplate{}, false
}

// StructureTemplate looks a structure template up by name.
func (t *Taxonomy) StructureTemplate(name string) (StructureTemplate, bool) {
	for _, s := range t.StructureTemplates {
		if s.Name == name {
			return s, true
		}
	}
	return StructureTemplate{}, false
}
