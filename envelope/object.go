package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Object is a decoded JSON object whose members are kept raw.
type Object map[string]json.RawMessage

// DecodeObject splits a JSON object into its raw members.
//
// Unlike json.Unmarshal into a map, a key that appears twice is an error
// (DuplicateField) instead of last-wins. Keys are matched case-sensitively.
func DecodeObject(data []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, WrapError(KindFormat, "REC-OBJ-001", "invalid JSON object", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, NewError(KindFormat, "REC-OBJ-002", fmt.Sprintf("expected JSON object, got %v", tok))
	}
	obj := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, WrapError(KindFormat, "REC-OBJ-001", "invalid JSON object", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, NewError(KindFormat, "REC-OBJ-001", "invalid JSON object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, WrapError(KindFormat, "REC-OBJ-001", "invalid JSON object", err)
		}
		if _, dup := obj[key]; dup {
			return nil, DuplicateField(key)
		}
		obj[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, WrapError(KindFormat, "REC-OBJ-001", "invalid JSON object", err)
	}
	return obj, nil
}

// Has reports whether name is present with a non-null value.
func (o Object) Has(name string) bool {
	raw, ok := o[name]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Require fails with MissingField for the first name that is absent or null.
func (o Object) Require(names ...string) error {
	for _, n := range names {
		if !o.Has(n) {
			return MissingField(n)
		}
	}
	return nil
}

// Field decodes member name into v, attributing any error to name. JSON type
// mismatches surface as Format errors. An absent or null member leaves v
// untouched.
func (o Object) Field(name string, v any) error {
	if !o.Has(name) {
		return nil
	}
	if err := json.Unmarshal(o[name], v); err != nil {
		var e *Error
		if !errors.As(err, &e) {
			err = WrapError(KindFormat, "REC-TYP-001", "invalid value", err)
		}
		return InField(name, err)
	}
	return nil
}

// FieldList decodes array member name into dst one element at a time, so
// an error names the element it came from ("pofs[2].signature"). An absent
// or null member leaves dst untouched.
func FieldList[E any](o Object, name string, dst *[]E) error {
	if !o.Has(name) {
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(o[name], &raws); err != nil {
		return InField(name, WrapError(KindFormat, "REC-TYP-001", "invalid value", err))
	}
	out := make([]E, len(raws))
	for i, raw := range raws {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			var e *Error
			if !errors.As(err, &e) {
				err = WrapError(KindFormat, "REC-TYP-001", "invalid value", err)
			}
			return InField(fmt.Sprintf("%s[%d]", name, i), err)
		}
	}
	*dst = out
	return nil
}
