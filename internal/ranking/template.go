package ranking

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Template is the preferred channel order. The first occurrence of a name
// determines its position.
type Template struct {
	names    []string
	position map[string]int
}

// NewTemplate builds a template from names, ignoring blanks and repeats.
func NewTemplate(names []string) *Template {
	t := &Template{position: make(map[string]int, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := t.position[name]; ok {
			continue
		}
		t.position[name] = len(t.names)
		t.names = append(t.names, name)
	}
	return t
}

// Parse reads one channel name per line. Surrounding whitespace is trimmed
// and blank lines are skipped.
func Parse(r io.Reader) (*Template, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		names = append(names, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return NewTemplate(names), nil
}

// Load reads a template file from disk.
func Load(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Position returns the rank of name in the template.
func (t *Template) Position(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	pos, ok := t.position[name]
	return pos, ok
}

// Names returns the template names in order.
func (t *Template) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of distinct names.
func (t *Template) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Suggest returns the template name closest to name by edit distance, if
// within maxDistance. It helps spot channels that miss the template because
// of a typo or a stray suffix.
func (t *Template) Suggest(name string, maxDistance int) (string, bool) {
	if t == nil {
		return "", false
	}
	best := ""
	bestDistance := maxDistance + 1
	for _, known := range t.names {
		d := levenshtein.ComputeDistance(name, known)
		if d < bestDistance {
			best, bestDistance = known, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
