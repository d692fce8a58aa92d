package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// object gives typed, field-by-field access to a decoded JSON object and
// records every problem it meets instead of stopping at the first one.
type object struct {
	prefix string
	raw    map[string]json.RawMessage
	errs   *ValidationErrors
}

func parseObject(data []byte, prefix string, errs *ValidationErrors) (*object, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		field := prefix
		if field == "" {
			field = "body"
		}
		errs.add(field, "expected an object")
		return nil, false
	}
	return &object{prefix: prefix, raw: raw, errs: errs}, true
}

func (o *object) path(name string) string {
	if o.prefix == "" {
		return name
	}
	return o.prefix + "." + name
}

// lookup returns the raw value; a JSON null counts as absent.
func (o *object) lookup(name string) (json.RawMessage, bool) {
	v, ok := o.raw[name]
	if !ok || isNull(v) {
		return nil, false
	}
	return v, true
}

func (o *object) requiredInt(name string) int64 {
	v, ok := o.lookup(name)
	if !ok {
		o.errs.add(o.path(name), "field required")
		return 0
	}
	n, ok := decodeInt(v)
	if !ok {
		o.errs.add(o.path(name), "expected an integer")
	}
	return n
}

func (o *object) nonNegativeInt(name string) int {
	n := o.requiredInt(name)
	if n < 0 {
		o.errs.add(o.path(name), "must be greater than or equal to 0")
	}
	return int(n)
}

func (o *object) requiredString(name string) (string, bool) {
	v, ok := o.lookup(name)
	if !ok {
		o.errs.add(o.path(name), "field required")
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		o.errs.add(o.path(name), "expected a string")
		return "", false
	}
	return s, true
}

func (o *object) optionalString(name string) (*string, bool) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		o.errs.add(o.path(name), "expected a string")
		return nil, false
	}
	return &s, true
}

func (o *object) requiredArray(name string) ([]json.RawMessage, bool) {
	v, ok := o.lookup(name)
	if !ok {
		o.errs.add(o.path(name), "field required")
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		o.errs.add(o.path(name), "expected an array")
		return nil, false
	}
	return items, true
}

func decodeInt(v json.RawMessage) (int64, bool) {
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var x interface{}
	if err := dec.Decode(&x); err != nil {
		return 0, false
	}
	num, ok := x.(json.Number)
	if !ok {
		return 0, false
	}
	if n, err := num.Int64(); err == nil {
		return n, true
	}
	// 3.0 is accepted as 3; 3.5 is not. float64(MaxInt64) rounds up to 2^63,
	// which is already out of range.
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func isNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}

func (o *object) requiredFloat(name string) float64 {
	v, ok := o.lookup(name)
	if !ok {
		o.errs.add(o.path(name), "field required")
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		o.errs.add(o.path(name), "expected a number")
	}
	return f
}

func (o *object) optionalFloat(name string) *float64 {
	v, ok := o.lookup(name)
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		o.errs.add(o.path(name), "expected a number")
		return nil
	}
	return &f
}

func (o *object) optionalInt(name string) *int64 {
	v, ok := o.lookup(name)
	if !ok {
		return nil
	}
	n, ok := decodeInt(v)
	if !ok {
		o.errs.add(o.path(name), "expected an integer")
		return nil
	}
	return &n
}

func (o *object) stringArray(name string, required bool) ([]string, bool) {
	if _, present := o.lookup(name); !present && !required {
		return nil, false
	}
	items, ok := o.requiredArray(name)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil || isNull(item) {
			o.errs.add(fmt.Sprintf("%s[%d]", o.path(name), i), "expected a string")
			continue
		}
		out = append(out, s)
	}
	return out, true
}
