package media

import (
	"encoding/json"
	"strings"
)

// Normalize canonicalizes an ordered URL list: blank and whitespace-only
// elements are dropped, order is preserved. Idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		out = append(out, u)
	}
	return out
}

// NormalizeOne canonicalizes a single URL value into a list.
func NormalizeOne(u string) []string {
	if strings.TrimSpace(u) == "" {
		return []string{}
	}
	return []string{u}
}

// Value là giá trị "images" trong request body: chấp nhận cả string đơn,
// mảng string, hoặc null. Luôn unmarshal về dạng list đã normalize.
type Value []string

// UnmarshalJSON accepts "url", ["u1","u2"] or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = NormalizeOne(single)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*v = Normalize(list)
	return nil
}

// MarshalJSON always emits a JSON array, never null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(v))
}
