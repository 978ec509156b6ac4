package api

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/homepoint/internal/client/httpclient"
	"github.com/tidwall/gjson"
)

// pick returns the raw JSON of the first field that is present and not null,
// or the whole body when none is.
func pick(raw []byte, fields ...string) []byte {
	if !gjson.ValidBytes(raw) {
		return raw
	}
	for _, f := range fields {
		if r := gjson.GetBytes(raw, f); r.Exists() && r.Type != gjson.Null {
			return []byte(r.Raw)
		}
	}
	return raw
}

func decode[T any](raw []byte) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &httpclient.ParseError{Body: raw, Err: err}
	}
	return v, nil
}

// unwrapData implements the "data, else raw body" envelope.
func unwrapData[T any](raw []byte) (T, error) {
	return decode[T](pick(raw, "data"))
}

// unwrapList reads a list stored under field. An absent field yields an
// empty, non-nil slice.
func unwrapList[T any](raw []byte, field string) ([]T, error) {
	r := gjson.GetBytes(raw, field)
	if !r.Exists() || r.Type == gjson.Null {
		return []T{}, nil
	}
	out, err := decode[[]T]([]byte(r.Raw))
	if out == nil && err == nil {
		out = []T{}
	}
	return out, err
}

// unwrapArray accepts a bare array or an array under "data".
func unwrapArray[T any](raw []byte) ([]T, error) {
	out, err := decode[[]T](pick(raw, "data"))
	if out == nil && err == nil {
		out = []T{}
	}
	return out, err
}

// unwrapSingleton reads "data" which may hold an object or an array of
// them. Returns nil when data is absent, null or an empty array.
func unwrapSingleton[T any](raw []byte) (*T, error) {
	r := gjson.GetBytes(raw, "data")
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if r.IsArray() {
		items := r.Array()
		if len(items) == 0 {
			return nil, nil
		}
		r = items[0]
	}
	v, err := decode[T]([]byte(r.Raw))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// unwrapCount implements count ?? value ?? raw number.
func unwrapCount(raw []byte) (int64, error) {
	for _, f := range []string{"count", "value"} {
		if r := gjson.GetBytes(raw, f); r.Exists() && r.Type != gjson.Null {
			return r.Int(), nil
		}
	}
	if r := gjson.ParseBytes(raw); r.Type == gjson.Number {
		return r.Int(), nil
	}
	return 0, &httpclient.ParseError{Body: raw, Err: fmt.Errorf("no count in response")}
}
