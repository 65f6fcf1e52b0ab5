package taxonomy

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const rulesEnv = "TAXONOMY_RULES_YAML"

//go:embed rules.yaml
var rulesFS embed.FS

// Kind names the label family a rule set classifies.
type Kind string

const (
	KindTags       Kind = "tags"
	KindCategories Kind = "categories"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindTags:
		return KindTags, true
	case KindCategories:
		return KindCategories, true
	}
	return "", false
}

// BucketRule matches a label by substring keyword or by marker tag.
type BucketRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Marker   string   `yaml:"marker"`
}

type Rules struct {
	Kind     Kind         `yaml:"-"`
	Fallback string       `yaml:"fallback"`
	Buckets  []BucketRule `yaml:"buckets"`
}

type rulesFile struct {
	Tags       Rules `yaml:"tags"`
	Categories Rules `yaml:"categories"`
}

var (
	rulesOnce  sync.Once
	rulesCache map[Kind]Rules
	rulesErr   error
)

// DefaultRules returns the rule set for kind from TAXONOMY_RULES_YAML when set,
// otherwise from the embedded rules.yaml.
func DefaultRules(kind Kind) (Rules, error) {
	rulesOnce.Do(func() {
		rulesCache, rulesErr = loadRules()
	})
	if rulesErr != nil {
		return Rules{}, rulesErr
	}
	r, ok := rulesCache[kind]
	if !ok {
		return Rules{}, fmt.Errorf("taxonomy: no rules for kind %q", kind)
	}
	return r, nil
}

func loadRules() (map[Kind]Rules, error) {
	var (
		data []byte
		err  error
	)
	if path := strings.TrimSpace(os.Getenv(rulesEnv)); path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = rulesFS.ReadFile("rules.yaml")
	}
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

// ParseRules decodes and validates a rules document.
func ParseRules(data []byte) (map[Kind]Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("taxonomy: parse rules: %w", err)
	}
	f.Tags.Kind = KindTags
	f.Categories.Kind = KindCategories
	out := map[Kind]Rules{}
	for _, r := range []Rules{f.Tags, f.Categories} {
		if err := r.validate(); err != nil {
			return nil, err
		}
		out[r.Kind] = r.normalized()
	}
	return out, nil
}

func (r Rules) validate() error {
	if strings.TrimSpace(r.Fallback) == "" {
		return fmt.Errorf("taxonomy: %s rules need a fallback bucket", r.Kind)
	}
	seen := map[string]bool{r.Fallback: true}
	for _, b := range r.Buckets {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return fmt.Errorf("taxonomy: %s bucket without a name", r.Kind)
		}
		if seen[name] {
			return fmt.Errorf("taxonomy: duplicate %s bucket %q", r.Kind, name)
		}
		seen[name] = true
		if len(b.Keywords) == 0 && strings.TrimSpace(b.Marker) == "" {
			return fmt.Errorf("taxonomy: %s bucket %q has no keywords or marker", r.Kind, name)
		}
	}
	return nil
}

func (r Rules) normalized() Rules {
	out := Rules{Kind: r.Kind, Fallback: strings.TrimSpace(r.Fallback)}
	for _, b := range r.Buckets {
		nb := BucketRule{Name: strings.TrimSpace(b.Name), Marker: strings.TrimSpace(b.Marker)}
		for _, k := range b.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				nb.Keywords = append(nb.Keywords, k)
			}
		}
		out.Buckets = append(out.Buckets, nb)
	}
	return out
}

// BucketNames lists buckets in declared order, fallback last.
func (r Rules) BucketNames() []string {
	out := make([]string, 0, len(r.Buckets)+1)
	for _, b := range r.Buckets {
		out = append(out, b.Name)
	}
	return append(out, r.Fallback)
}

func (r Rules) HasBucket(name string) bool {
	if name == r.Fallback {
		return true
	}
	for _, b := range r.Buckets {
		if b.Name == name {
			return true
		}
	}
	return false
}

// Markers returns every bucket marker tag.
func (r Rules) Markers() []string {
	var out []string
	for _, b := range r.Buckets {
		if b.Marker != "" {
			out = append(out, b.Marker)
		}
	}
	return out
}

// MarkerFor returns the marker tag of bucket name, "" for the fallback or an unmarked bucket.
func (r Rules) MarkerFor(name string) string {
	for _, b := range r.Buckets {
		if b.Name == name {
			return b.Marker
		}
	}
	return ""
}
