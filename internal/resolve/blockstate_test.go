package resolve

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
)

func TestVariantMatchesEmptyKeyAlwaysMatches(t *testing.T) {
	if !variantMatches("", map[string]string{"facing": "north"}) {
		t.Fatal("empty variant key should match any property set")
	}
}

func TestVariantMatchesRequiresEveryPair(t *testing.T) {
	props := map[string]string{"facing": "north", "half": "bottom"}
	if !variantMatches("facing=north,half=bottom", props) {
		t.Error("expected a full match to succeed")
	}
	if variantMatches("facing=south", props) {
		t.Error("expected a mismatched pair to fail")
	}
	if variantMatches("facing=north,waterlogged=true", props) {
		t.Error("expected a pair absent from props to fail")
	}
}

func TestWeightedPickFavorsHeavierWeight(t *testing.T) {
	choices := []variantRef{
		{Model: "a", Weight: 1},
		{Model: "b", Weight: 9},
	}
	rng := rand.New(rand.NewPCG(1, 2))
	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		c := weightedPick(append([]variantRef(nil), choices...), rng)
		counts[c.Model]++
	}
	if counts["b"] <= counts["a"] {
		t.Errorf("expected the weight-9 choice to dominate, got %v", counts)
	}
}

func TestWeightedPickDefaultsZeroWeightToOne(t *testing.T) {
	choices := []variantRef{{Model: "only"}}
	rng := rand.New(rand.NewPCG(1, 2))
	c := weightedPick(choices, rng)
	if c.Model != "only" {
		t.Errorf("Model = %q, want %q", c.Model, "only")
	}
	if c.Weight != 1 {
		t.Errorf("Weight = %v, want 1 (defaulted from 0)", c.Weight)
	}
}

func TestEvaluateWhenImplicitAND(t *testing.T) {
	raw := json.RawMessage(`{"facing":"north","half":"bottom"}`)
	if !evaluateWhen(raw, map[string]string{"facing": "north", "half": "bottom"}) {
		t.Error("expected implicit AND to match when every leaf matches")
	}
	if evaluateWhen(raw, map[string]string{"facing": "north", "half": "top"}) {
		t.Error("expected implicit AND to fail when one leaf mismatches")
	}
}

func TestEvaluateWhenLeafCommaListIsOR(t *testing.T) {
	raw := json.RawMessage(`{"facing":"north,south"}`)
	if !evaluateWhen(raw, map[string]string{"facing": "south"}) {
		t.Error("expected a comma-list leaf to match any listed value")
	}
	if evaluateWhen(raw, map[string]string{"facing": "east"}) {
		t.Error("expected a comma-list leaf to reject an unlisted value")
	}
}

func TestEvaluateWhenOR(t *testing.T) {
	raw := json.RawMessage(`{"OR":[{"facing":"north"},{"facing":"south"}]}`)
	if !evaluateWhen(raw, map[string]string{"facing": "south"}) {
		t.Error("expected OR to match if any sub-condition matches")
	}
	if evaluateWhen(raw, map[string]string{"facing": "east"}) {
		t.Error("expected OR to reject when no sub-condition matches")
	}
}

func TestEvaluateWhenEmptyAlwaysMatches(t *testing.T) {
	if !evaluateWhen(nil, map[string]string{"anything": "goes"}) {
		t.Error("expected an empty when clause to always match")
	}
}

func TestSelectVariantsPicksFirstMatchingKey(t *testing.T) {
	bs := &blockstateJSON{
		Variants: map[string]json.RawMessage{
			"facing=north": json.RawMessage(`{"model":"block/a"}`),
			"facing=south": json.RawMessage(`{"model":"block/b"}`),
		},
	}
	rng := rand.New(rand.NewPCG(1, 2))
	got, found := selectVariants(bs, map[string]string{"facing": "south"}, rng)
	if !found || len(got) != 1 || got[0].Model != "block/b" {
		t.Errorf("selectVariants = %+v, found=%v", got, found)
	}
}

func TestSelectMultipartCollectsEveryMatchedPart(t *testing.T) {
	bs := &blockstateJSON{
		Multipart: []multipartEntry{
			{When: json.RawMessage(`{"north":"true"}`), Apply: json.RawMessage(`{"model":"block/post"}`)},
			{When: json.RawMessage(`{"east":"true"}`), Apply: json.RawMessage(`{"model":"block/side"}`)},
		},
	}
	rng := rand.New(rand.NewPCG(1, 2))
	got := selectMultipart(bs, map[string]string{"north": "true", "east": "false"}, rng)
	if len(got) != 1 || got[0].Model != "block/post" {
		t.Errorf("selectMultipart = %+v, want only the matched part", got)
	}
}
