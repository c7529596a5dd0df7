package region

import (
	"bytes"
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// decodeChunkNBT decodes a decompressed chunk payload into a generic
// map, the "duck-typed JSON"-style boundary the teacher's own
// converter.go applies to block-entity/entity NBT (there with the
// library's default little-endian encoding for Bedrock; here with
// nbt.BigEndian for Java Edition's on-disk/network byte order).
func decodeChunkNBT(raw []byte) (map[string]any, error) {
	var root map[string]any
	dec := nbt.NewDecoderWithEncoding(bytes.NewReader(raw), nbt.BigEndian)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode chunk nbt: %w", err)
	}
	return root, nil
}

// nbtList is a small helper to pull a []any out of the generic NBT map
// shape regardless of whether the decoder produced []any or a typed
// slice for primitive lists.
func nbtList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

func nbtMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func nbtString(v any) string {
	s, _ := v.(string)
	return s
}

func nbtInt32(v any) (int32, bool) {
	switch t := v.(type) {
	case int32:
		return t, true
	case int16:
		return int32(t), true
	case int:
		return int32(t), true
	case int64:
		return int32(t), true
	case byte:
		return int32(t), true
	case int8:
		return int32(t), true
	}
	return 0, false
}

func nbtInt64Array(v any) []int64 {
	a, _ := v.([]int64)
	return a
}

func nbtByteArray(v any) []byte {
	a, _ := v.([]byte)
	return a
}

func nbtStringArray(v any) []string {
	list := nbtList(v)
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
