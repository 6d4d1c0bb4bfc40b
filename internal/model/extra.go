package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra holds JSON members a type does not declare, kept so a decoded value
// re-encodes with everything the platform sent.
type Extra map[string]json.RawMessage

var declaredKeys sync.Map // reflect.Type -> map[string]struct{}

// jsonKeys reports the top-level member names struct type t declares through
// its json tags, including those of embedded structs.
func jsonKeys(t reflect.Type) map[string]struct{} {
	if v, ok := declaredKeys.Load(t); ok {
		return v.(map[string]struct{})
	}
	keys := map[string]struct{}{}
	collectKeys(t, keys)
	declaredKeys.Store(t, keys)
	return keys
}

func collectKeys(t reflect.Type, keys map[string]struct{}) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, keys)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys[name] = struct{}{}
	}
}

// undeclared returns the members of the JSON object data that t has no field
// for, or nil when there are none or data is not an object.
func undeclared(data []byte, t reflect.Type) Extra {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil
	}
	keys := jsonKeys(t)
	var out Extra
	for k, v := range members {
		if _, ok := keys[k]; ok {
			continue
		}
		if out == nil {
			out = Extra{}
		}
		out[k] = v
	}
	return out
}

// withExtra adds the members of extra that the encoded object b lacks.
func withExtra(b []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return b, nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(b, &members); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := members[k]; !ok {
			members[k] = v
		}
	}
	return json.Marshal(members)
}
