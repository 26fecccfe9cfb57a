package document

import (
	"fmt"
	"strconv"
	"strings"
)

// PathKey is a canonical bracket-encoded address of a node in the document, e.g. ["marks"][0]
type PathKey string

// Step represents a single property or index step of a structural path
type Step struct {
	Name    string // Property name (when IsIndex is false)
	Index   int    // Array index (when IsIndex is true)
	IsIndex bool   // Whether the step addresses an array element
}

// Property creates a property step
func Property(name string) Step {
	return Step{Name: name}
}

// Index creates an array index step
func Index(index int) Step {
	return Step{Index: index, IsIndex: true}
}

// Path represents an ordered sequence of steps from the document root
type Path []Step

// NewPath builds a path from string and integer steps; other values are rejected
func NewPath(steps ...interface{}) (Path, error) {
	result := make(Path, 0, len(steps))
	for i, step := range steps {
		switch actual := step.(type) {
		case string:
			result = append(result, Property(actual))
		case int:
			result = append(result, Index(actual))
		case int64:
			result = append(result, Index(int(actual)))
		case float64:
			result = append(result, Index(int(actual)))
		default:
			return nil, fmt.Errorf("%w: unsupported step %d type %T", ErrMalformedPath, i, step)
		}
	}
	return result, nil
}

// Key returns the canonical PathKey: string step as ["foo"], integer step as [3].
// Quotes and backslashes inside names are backslash escaped.
func (p Path) Key() PathKey {
	return PathKey(p.encode('"'))
}

// Display returns the single-quoted tooltip form, e.g. ['marks'][0]
func (p Path) Display() string {
	return p.encode('\'')
}

func (p Path) encode(quote byte) string {
	builder := strings.Builder{}
	for _, step := range p {
		builder.WriteByte('[')
		if step.IsIndex {
			builder.WriteString(strconv.Itoa(step.Index))
		} else {
			builder.WriteByte(quote)
			for i := 0; i < len(step.Name); i++ {
				if c := step.Name[i]; c == quote || c == '\\' {
					builder.WriteByte('\\')
				}
				builder.WriteByte(step.Name[i])
			}
			builder.WriteByte(quote)
		}
		builder.WriteByte(']')
	}
	return builder.String()
}

// Equal reports whether two paths have identical steps
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseKey decodes a PathKey back into its steps
func ParseKey(key PathKey) (Path, error) {
	var result Path
	text := string(key)
	for pos := 0; pos < len(text); {
		if text[pos] != '[' {
			return nil, fmt.Errorf("%w: expected '[' at %d in %s", ErrMalformedPath, pos, text)
		}
		pos++
		if pos >= len(text) {
			return nil, fmt.Errorf("%w: unterminated step in %s", ErrMalformedPath, text)
		}
		if quote := text[pos]; quote == '"' || quote == '\'' {
			name, next, err := unquote(text, pos+1, quote)
			if err != nil {
				return nil, err
			}
			pos = next
			if pos >= len(text) || text[pos] != ']' {
				return nil, fmt.Errorf("%w: expected ']' after %q in %s", ErrMalformedPath, name, text)
			}
			result = append(result, Property(name))
			pos++
			continue
		}
		end := strings.IndexByte(text[pos:], ']')
		if end == -1 {
			return nil, fmt.Errorf("%w: unterminated index in %s", ErrMalformedPath, text)
		}
		index, err := strconv.Atoi(text[pos : pos+end])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid index %q in %s", ErrMalformedPath, text[pos:pos+end], text)
		}
		result = append(result, Index(index))
		pos += end + 1
	}
	return result, nil
}

// unquote reads a property name up to the closing quote, resolving backslash escapes
func unquote(text string, pos int, quote byte) (string, int, error) {
	builder := strings.Builder{}
	for ; pos < len(text); pos++ {
		switch c := text[pos]; c {
		case '\\':
			pos++
			if pos >= len(text) {
				return "", 0, fmt.Errorf("%w: dangling escape in %s", ErrMalformedPath, text)
			}
			builder.WriteByte(text[pos])
		case quote:
			return builder.String(), pos + 1, nil
		default:
			builder.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated property in %s", ErrMalformedPath, text)
}

// Prefixes returns the cumulative prefixes of the key, shortest first.
// An undecodable key falls back to its raw bracket segments.
func (k PathKey) Prefixes() []PathKey {
	path, err := ParseKey(k)
	if err != nil {
		return k.segments()
	}
	result := make([]PathKey, 0, len(path))
	for i := range path {
		result = append(result, path[:i+1].Key())
	}
	return result
}

func (k PathKey) segments() []PathKey {
	var result []PathKey
	text := string(k)
	for i := 0; i < len(text); i++ {
		if text[i] != ']' {
			continue
		}
		if i+1 == len(text) || text[i+1] == '[' {
			result = append(result, PathKey(text[:i+1]))
		}
	}
	return result
}

// Contains reports whether other is textually contained in the key
func (k PathKey) Contains(other PathKey) bool {
	return strings.Contains(string(k), string(other))
}

// HasPrefix reports whether other addresses the key itself or one of its ancestors
func (k PathKey) HasPrefix(other PathKey) bool {
	if !strings.HasPrefix(string(k), string(other)) {
		return false
	}
	rest := string(k)[len(other):]
	return rest == "" || rest[0] == '['
}

// Depth returns the number of steps, or -1 for a malformed key
func (k PathKey) Depth() int {
	path, err := ParseKey(k)
	if err != nil {
		return -1
	}
	return len(path)
}
