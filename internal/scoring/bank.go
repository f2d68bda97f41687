package scoring

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Overall is the virtual category spanning every declared category.
const Overall = "overall"

// Direction says how an option score maps to risk for a question.
type Direction string

const (
	Direct  Direction = "direct"
	Reverse Direction = "reverse"
)

type Question struct {
	Prompt    string    `json:"prompt"`
	Direction Direction `json:"direction"`
}

// Category is one declared assessment category and its ordered questions.
type Category struct {
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Options   []string   `json:"options"`
	Questions []Question `json:"questions"`
}

// Bank is an immutable question bank. The overall sequence is built once in
// NewBank; a Bank is safe for concurrent use.
type Bank struct {
	categories []Category
	byName     map[string]int
	overall    []Question
}

// NewBank builds a bank from categories in declaration order.
func NewBank(categories []Category) (*Bank, error) {
	b := &Bank{byName: make(map[string]int, len(categories))}
	for _, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("category without a name")
		}
		if c.Name == Overall {
			return nil, fmt.Errorf("category name %q is reserved", Overall)
		}
		if _, dup := b.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", c.Name)
		}
		qs := make([]Question, len(c.Questions))
		for i, q := range c.Questions {
			if q.Direction == "" {
				q.Direction = Direct
			}
			if q.Direction != Direct && q.Direction != Reverse {
				return nil, fmt.Errorf("category %q question %d: unknown direction %q", c.Name, i, q.Direction)
			}
			qs[i] = q
		}
		c.Questions = qs
		c.Options = append([]string(nil), c.Options...)
		b.byName[c.Name] = len(b.categories)
		b.categories = append(b.categories, c)
		b.overall = append(b.overall, qs...)
	}
	return b, nil
}

// Names returns the declared category names in declaration order.
func (b *Bank) Names() []string {
	names := make([]string, len(b.categories))
	for i, c := range b.categories {
		names[i] = c.Name
	}
	return names
}

// Has reports whether name is a declared category. Overall is not declared.
func (b *Bank) Has(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// Category returns a copy of the named declared category.
func (b *Bank) Category(name string) (Category, bool) {
	i, ok := b.byName[name]
	if !ok {
		return Category{}, false
	}
	c := b.categories[i]
	c.Questions = append([]Question(nil), c.Questions...)
	c.Options = append([]string(nil), c.Options...)
	return c, true
}

// Questions resolves the ordered question sequence for a category or for
// Overall. The returned slice must not be modified.
func (b *Bank) Questions(category string) []Question {
	if category == Overall {
		return b.overall
	}
	i, ok := b.byName[category]
	if !ok {
		return nil
	}
	return b.categories[i].Questions
}

// ── Embedded default bank ───────────────────────────────

//go:embed questionbank.yaml
var defaultBankYAML []byte

type bankFile struct {
	Categories []struct {
		Name      string   `yaml:"name"`
		Title     string   `yaml:"title"`
		Options   []string `yaml:"options"`
		Questions []struct {
			Prompt  string `yaml:"prompt"`
			Reverse bool   `yaml:"reverse"`
		} `yaml:"questions"`
	} `yaml:"categories"`
}

// LoadBank parses a YAML question bank document.
func LoadBank(data []byte) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	cats := make([]Category, 0, len(f.Categories))
	for _, fc := range f.Categories {
		c := Category{Name: fc.Name, Title: fc.Title, Options: fc.Options}
		for _, fq := range fc.Questions {
			dir := Direct
			if fq.Reverse {
				dir = Reverse
			}
			c.Questions = append(c.Questions, Question{Prompt: fq.Prompt, Direction: dir})
		}
		cats = append(cats, c)
	}
	return NewBank(cats)
}

var (
	defaultOnce sync.Once
	defaultBank *Bank
)

// DefaultBank returns the bank compiled into the binary.
func DefaultBank() *Bank {
	defaultOnce.Do(func() {
		b, err := LoadBank(defaultBankYAML)
		if err != nil {
			panic(fmt.Sprintf("scoring: embedded question bank: %v", err))
		}
		defaultBank = b
	})
	return defaultBank
}

// Flatten lays per-category answers out in Overall order. Categories without
// answers contribute unanswered slots. A nil or empty Responses flattens to
// nil so that Overall scores as "no answers".
func (b *Bank) Flatten(r Responses) Answers {
	if len(r) == 0 {
		return nil
	}
	out := make(Answers, 0, len(b.overall))
	for _, c := range b.categories {
		as := r[c.Name]
		for i := range c.Questions {
			out = append(out, as.At(i))
		}
	}
	return out
}
