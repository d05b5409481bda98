package hashutil

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// StableString renders v as a canonical JSON string: object keys sorted
// lexicographically at every nesting level, arrays left in declared
// order, numbers/strings/booleans/null per JSON literal form.
//
// v may be any value accepted by encoding/json (structs, maps, slices,
// scalars) or an already-generic value (map[string]interface{}, ...).
// Complexity: O(n) in the serialized size of v.
func StableString(v interface{}) (string, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return "", fmt.Errorf("hashutil: canonicalize: %w", err)
	}
	canon := canonicalize(generic)
	b, err := json.Marshal(canon)
	if err != nil {
		return "", fmt.Errorf("hashutil: marshal canonical form: %w", err)
	}
	return string(b), nil
}

// Hash returns a fixed-radix digest of v's stable string, in the form
// "h<hex>". hash(a) == hash(b) iff StableString(a) == StableString(b).
func Hash(v interface{}) (string, error) {
	s, err := StableString(v)
	if err != nil {
		return "", err
	}
	return HashString(s), nil
}

// HashString digests an already-canonical string directly, skipping
// re-canonicalization. Exposed for callers (cachekey) that build their
// own canonical composite strings out of already-hashed parts.
func HashString(s string) string {
	return fmt.Sprintf("h%x", xxhash.Sum64String(s))
}

// toGeneric converts v into the generic JSON value space
// (map[string]interface{}, []interface{}, float64, string, bool, nil) by
// round-tripping through encoding/json. This gives struct fields their
// JSON tag names and makes every numeric type compare as a JSON number,
// so hashing sees the same literal form regardless of the originating
// Go type.
func toGeneric(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// canonicalize recursively sorts map[string]interface{} keys, producing a
// value whose json.Marshal output is independent of the original key
// order. json.Marshal already sorts map[string]T keys, but orderedMap
// makes the sort explicit and keeps canonicalize self-contained should
// the output encoder ever change.
func canonicalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(orderedMap, 0, len(t))
		for _, k := range keys {
			out = append(out, kv{key: k, value: canonicalize(t[k])})
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = canonicalize(e)
		}
		return out
	default:
		return t
	}
}

// kv is a single canonical-order key/value pair.
type kv struct {
	key   string
	value interface{}
}

// orderedMap marshals as a JSON object preserving the slice's order
// rather than encoding/json's own (already-sorted, but implicit) map
// iteration, making the sort step in canonicalize the single source of
// truth for key order.
type orderedMap []kv

// MarshalJSON implements json.Marshaler.
func (m orderedMap) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, '{')
	for i, e := range m {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		valJSON, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}
