// Package values implements the value template DSL: a JSON tree whose
// string leaves may be generator expressions (string:X, int:X..Y, uuid,
// ...), parsed once into an immutable tree of typed nodes and then
// generated fresh for every sample.
package values

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Node is one parsed element of a value template: either a literal (which
// generates itself unchanged) or a generator leaf.
type Node interface {
	// Generate produces a fresh value using rng as the source of randomness.
	Generate(rng randSource) interface{}
}

// Template is a parsed, immutable value template. It is built once at
// startup and then used to generate one fresh document per sample.
type Template struct {
	root Node
}

// Field describes one top-level member of an object template, for
// column-oriented adapters that need to derive a schema before the first
// record is written.
type Field struct {
	Name string
	Kind string // "string", "int", "float", "bool", "object", "array", "literal"
}

// Parse parses a JSON template string into an immutable Template. Parse
// errors (invalid JSON, or a leaf that looks like a generator expression
// but is malformed) are returned so the caller can abort before any phase
// runs, per the harness's configuration-error contract.
func Parse(src string) (*Template, error) {
	var raw interface{}
	if err := json.Unmarshal([]byte(src), &raw); err != nil {
		return nil, fmt.Errorf("values: invalid JSON template: %w", err)
	}
	node, err := parseNode(raw)
	if err != nil {
		return nil, err
	}
	return &Template{root: node}, nil
}

// Fields returns the top-level members of the template, sorted
// lexicographically by name (not in declaration order), for adapters that
// derive a column layout from
// the template shape. Returns nil if the template root is not an object.
func (t *Template) Fields() []Field {
	obj, ok := t.root.(*objectNode)
	if !ok {
		return nil
	}
	fields := make([]Field, 0, len(obj.order))
	for _, name := range obj.order {
		fields = append(fields, Field{Name: name, Kind: kindOf(obj.values[name])})
	}
	return fields
}

func kindOf(n Node) string {
	switch n.(type) {
	case *objectNode:
		return "object"
	case *arrayNode:
		return "array"
	case literalNode:
		return "literal"
	case *intNode, *intEnumNode:
		return "int"
	case *floatNode, *floatEnumNode:
		return "float"
	case boolNode:
		return "bool"
	default:
		return "string"
	}
}

// Generate produces one fresh JSON-able value tree from the template, using
// seed to derive the per-generation PRNG stream.
func (t *Template) Generate(seed Seed) interface{} {
	rng := newRand(seed)
	return t.root.Generate(rng)
}

// ---- node types ----

type literalNode struct{ v interface{} }

func (n literalNode) Generate(randSource) interface{} { return n.v }

type objectNode struct {
	order  []string
	values map[string]Node
}

func (n *objectNode) Generate(rng randSource) interface{} {
	out := make(map[string]interface{}, len(n.order))
	for _, k := range n.order {
		out[k] = n.values[k].Generate(rng)
	}
	return out
}

type arrayNode struct{ items []Node }

func (n *arrayNode) Generate(rng randSource) interface{} {
	out := make([]interface{}, len(n.items))
	for i, item := range n.items {
		out[i] = item.Generate(rng)
	}
	return out
}

// ---- parsing ----

func parseNode(raw interface{}) (Node, error) {
	switch v := raw.(type) {
	case map[string]interface{}:
		return parseObjectPreservingOrder(v)
	case []interface{}:
		items := make([]Node, len(v))
		for i, e := range v {
			n, err := parseNode(e)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return &arrayNode{items: items}, nil
	case string:
		return parseLeaf(v)
	default:
		return literalNode{v: v}, nil
	}
}

// parseObjectPreservingOrder builds an objectNode with a stable field order.
func parseObjectPreservingOrder(v map[string]interface{}) (Node, error) {
	// encoding/json's map decoding already discarded key order; recovering
	// it losslessly would require re-parsing from the original bytes. For
	// our purposes (driving column layout for adapters) a stable,
	// lexicographic order is an acceptable and fully deterministic
	// substitute for "declaration order".
	order := make([]string, 0, len(v))
	for k := range v {
		order = append(order, k)
	}
	sortStrings(order)

	values := make(map[string]Node, len(v))
	for _, k := range order {
		n, err := parseNode(v[k])
		if err != nil {
			return nil, err
		}
		values[k] = n
	}
	return &objectNode{order: order, values: values}, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

var (
	stringExactRe = regexp.MustCompile(`^string:(\d+)$`)
	stringRangeRe = regexp.MustCompile(`^string:(\d+)\.\.(\d+)$`)
	textExactRe   = regexp.MustCompile(`^text:(\d+)$`)
	textRangeRe   = regexp.MustCompile(`^text:(\d+)\.\.(\d+)$`)
	intRangeRe    = regexp.MustCompile(`^int:(-?\d+)\.\.(-?\d+)$`)
	floatRangeRe  = regexp.MustCompile(`^float:(-?\d+(?:\.\d+)?)\.\.(-?\d+(?:\.\d+)?)$`)
	stringEnumRe  = regexp.MustCompile(`^string_enum:(.+)$`)
	intEnumRe     = regexp.MustCompile(`^int_enum:(.+)$`)
	floatEnumRe   = regexp.MustCompile(`^float_enum:(.+)$`)
	wordsRe       = regexp.MustCompile(`^words:(\d+);(.+)$`)
)

// generatorPrefixes lists the keywords that mark a string as intending to
// be a generator leaf. A plain literal string never starts with one of
// these followed by ':' or equals one of the bare keywords.
var generatorPrefixes = []string{"string", "text", "int", "float", "bool", "uuid", "datetime", "string_enum", "int_enum", "float_enum", "words"}

func looksLikeGenerator(s string) bool {
	for _, p := range generatorPrefixes {
		if s == p {
			return true
		}
		if strings.HasPrefix(s, p+":") {
			return true
		}
	}
	return false
}

// parseLeaf classifies a string leaf as either a generator expression or a
// plain literal. Strings that look like a generator expression (matching
// one of the recognized keyword prefixes) but fail to match the full
// grammar for that keyword are malformed and fail the parse.
func parseLeaf(s string) (Node, error) {
	switch {
	case s == "int":
		return &intNode{}, nil
	case s == "float":
		return &floatNode{}, nil
	case s == "bool":
		return boolNode{}, nil
	case s == "uuid":
		return uuidNode{}, nil
	case s == "datetime":
		return datetimeNode{}, nil
	case stringExactRe.MatchString(s):
		m := stringExactRe.FindStringSubmatch(s)
		n := atoi(m[1])
		return &stringNode{min: n, max: n}, nil
	case stringRangeRe.MatchString(s):
		m := stringRangeRe.FindStringSubmatch(s)
		return &stringNode{min: atoi(m[1]), max: atoi(m[2])}, nil
	case textExactRe.MatchString(s):
		m := textExactRe.FindStringSubmatch(s)
		n := atoi(m[1])
		return &textNode{min: n, max: n}, nil
	case textRangeRe.MatchString(s):
		m := textRangeRe.FindStringSubmatch(s)
		return &textNode{min: atoi(m[1]), max: atoi(m[2])}, nil
	case intRangeRe.MatchString(s):
		m := intRangeRe.FindStringSubmatch(s)
		lo, hi := atoi(m[1]), atoi(m[2])
		if hi < lo {
			return nil, fmt.Errorf("values: malformed int range %q: max < min", s)
		}
		return &intNode{ranged: true, min: lo, max: hi}, nil
	case floatRangeRe.MatchString(s):
		m := floatRangeRe.FindStringSubmatch(s)
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		if hi < lo {
			return nil, fmt.Errorf("values: malformed float range %q: max < min", s)
		}
		return &floatNode{ranged: true, min: lo, max: hi}, nil
	case stringEnumRe.MatchString(s):
		m := stringEnumRe.FindStringSubmatch(s)
		opts := strings.Split(m[1], ",")
		if len(opts) == 0 {
			return nil, fmt.Errorf("values: empty string_enum %q", s)
		}
		return &stringEnumNode{options: opts}, nil
	case intEnumRe.MatchString(s):
		m := intEnumRe.FindStringSubmatch(s)
		parts := strings.Split(m[1], ",")
		opts := make([]int, len(parts))
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("values: malformed int_enum %q: %w", s, err)
			}
			opts[i] = v
		}
		return &intEnumNode{options: opts}, nil
	case floatEnumRe.MatchString(s):
		m := floatEnumRe.FindStringSubmatch(s)
		parts := strings.Split(m[1], ",")
		opts := make([]float64, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("values: malformed float_enum %q: %w", s, err)
			}
			opts[i] = v
		}
		return &floatEnumNode{options: opts}, nil
	case wordsRe.MatchString(s):
		m := wordsRe.FindStringSubmatch(s)
		count := atoi(m[1])
		vocab := strings.Split(m[2], ",")
		if len(vocab) == 0 {
			return nil, fmt.Errorf("values: empty vocabulary in %q", s)
		}
		return &wordsNode{count: count, vocab: vocab}, nil
	case looksLikeGenerator(s):
		return nil, fmt.Errorf("values: malformed generator leaf %q", s)
	default:
		return literalNode{v: s}, nil
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
