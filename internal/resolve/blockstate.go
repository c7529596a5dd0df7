package resolve

import (
	"encoding/json"
	"math/rand/v2"
	"sort"
	"strings"
)

// sortedPropsKey builds the alphabetically-joined "k=v,k=v" key §4.4
// Stage A matches blockstate variant keys against, ignoring the three
// cosmetic properties BPR already strips from the canonical name.
func sortedPropsKey(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		if k == "waterlogged" || k == "distance" || k == "persistent" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(props[k])
	}
	return b.String()
}

// variantMatches reports whether every "k=v" pair in a variant key is
// present in the block's property set (membership match, §4.4 Stage A).
func variantMatches(variantKey string, props map[string]string) bool {
	if variantKey == "" {
		return true
	}
	for _, pair := range strings.Split(variantKey, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return false
		}
		if props[kv[0]] != kv[1] {
			return false
		}
	}
	return true
}

// selectVariants resolves Stage A for a "variants" blockstate: finds
// the matching variant entry (object or weighted array), picks one
// choice, and returns it plus the chosen index (for memoization).
// bs.Variants is a Go map, so keys are visited in sorted order to keep
// the pick deterministic across runs when more than one key matches
// (§5's determinism guarantee).
func selectVariants(bs *blockstateJSON, props map[string]string, rng *rand.Rand) ([]variantRef, bool) {
	keys := make([]string, 0, len(bs.Variants))
	for key := range bs.Variants {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !variantMatches(key, props) {
			continue
		}
		return decodeVariantChoice(bs.Variants[key], rng), true
	}
	return nil, false
}

// decodeVariantChoice parses either a single variant object or a
// weighted array, returning the one chosen variant as a single-entry
// slice (kept as a slice so callers share code with multipart's
// possibly-multiple matched parts).
func decodeVariantChoice(raw json.RawMessage, rng *rand.Rand) []variantRef {
	var arr []variantRef
	if err := json.Unmarshal(raw, &arr); err == nil && looksLikeArray(raw) {
		return []variantRef{weightedPick(arr, rng)}
	}
	var single variantRef
	if err := json.Unmarshal(raw, &single); err == nil {
		if single.Weight == 0 {
			single.Weight = 1
		}
		return []variantRef{single}
	}
	return nil
}

func looksLikeArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// weightedPick chooses one entry with probability proportional to its
// weight (default 1), per §4.4 Stage A and property P10.
func weightedPick(choices []variantRef, rng *rand.Rand) variantRef {
	if len(choices) == 0 {
		return variantRef{}
	}
	total := 0.0
	for i := range choices {
		if choices[i].Weight <= 0 {
			choices[i].Weight = 1
		}
		total += choices[i].Weight
	}
	r := rng.Float64() * total
	for _, c := range choices {
		if r < c.Weight {
			return c
		}
		r -= c.Weight
	}
	return choices[len(choices)-1]
}

// selectMultipart resolves Stage A for a "multipart" blockstate:
// evaluates each part's "when" clause and collects the chosen model
// from every matched part's (possibly weighted) "apply".
func selectMultipart(bs *blockstateJSON, props map[string]string, rng *rand.Rand) []variantRef {
	var out []variantRef
	for _, part := range bs.Multipart {
		if !evaluateWhen(part.When, props) {
			continue
		}
		out = append(out, decodeVariantChoice(part.Apply, rng)...)
	}
	return out
}

// evaluateWhen evaluates a multipart "when" clause: top-level AND
// (implicit, on object keys) / OR (array of sub-conditions), and leaf
// conditions whose value is a comma-list treated as OR over the
// listed values (§4.4 Stage A).
func evaluateWhen(raw json.RawMessage, props map[string]string) bool {
	if len(raw) == 0 {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}

	if orRaw, ok := obj["OR"]; ok {
		var subs []json.RawMessage
		if err := json.Unmarshal(orRaw, &subs); err != nil {
			return false
		}
		for _, s := range subs {
			if evaluateWhen(s, props) {
				return true
			}
		}
		return false
	}

	if andRaw, ok := obj["AND"]; ok {
		var subs []json.RawMessage
		if err := json.Unmarshal(andRaw, &subs); err != nil {
			return false
		}
		for _, s := range subs {
			if !evaluateWhen(s, props) {
				return false
			}
		}
		return true
	}

	// implicit AND over leaf key/value conditions
	for k, v := range obj {
		var valStr string
		if err := json.Unmarshal(v, &valStr); err != nil {
			return false
		}
		if !leafMatches(props[k], valStr) {
			return false
		}
	}
	return true
}

// leafMatches implements the comma-list-as-OR rule for a single leaf
// condition's value (§4.4 Stage A: "leaf conditions that are
// comma-lists treated as OR over the values").
func leafMatches(actual, condition string) bool {
	for _, want := range strings.Split(condition, ",") {
		if actual == want {
			return true
		}
	}
	return false
}
