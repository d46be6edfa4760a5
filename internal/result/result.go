// ABOUTME: Result envelope returned by every service operation and HTTP endpoint
// ABOUTME: Tagged Ok/Err union with an ordered field map, serialized as a flat JSON object

package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Field is one named auxiliary value carried by a Result.
type Field struct {
	Key   string
	Value any
}

// Result is either Ok{fields} or Err{message, fields}. The zero value is an
// Ok with no fields.
type Result struct {
	failed  bool
	message string
	kind    error
	fields  []Field
}

// OK returns a successful Result with no fields.
func OK() Result {
	return Result{}
}

// Err returns a failed Result of the given kind. kind should be one of the
// Err* sentinels; nil is treated as ErrStorage.
func Err(kind error, message string) Result {
	if kind == nil {
		kind = ErrStorage
	}
	return Result{failed: true, message: message, kind: kind}
}

// Errorf is Err with a formatted message.
func Errorf(kind error, format string, args ...any) Result {
	return Err(kind, fmt.Sprintf(format, args...))
}

// With returns a copy of r with key set to value. Setting an existing key
// replaces its value in place. The reserved keys "ok" and "error" are ignored.
func (r Result) With(key string, value any) Result {
	if key == "ok" || key == "error" {
		return r
	}

	fields := make([]Field, len(r.fields), len(r.fields)+1)
	copy(fields, r.fields)
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			r.fields = fields
			return r
		}
	}
	r.fields = append(fields, Field{Key: key, Value: value})
	return r
}

// Ok reports whether r is a success.
func (r Result) Ok() bool {
	return !r.failed
}

// Message returns the failure message, or "" for an Ok result.
func (r Result) Message() string {
	return r.message
}

// Kind returns the error kind sentinel, or nil for an Ok result.
func (r Result) Kind() error {
	return r.kind
}

// Get returns the value stored under key.
func (r Result) Get(key string) (any, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Fields returns a copy of the ordered field list.
func (r Result) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// String renders r the way it shows up in logs: <Result OK key=value ...>.
func (r Result) String() string {
	var buf bytes.Buffer
	if r.failed {
		buf.WriteString("<Result BAD")
		fmt.Fprintf(&buf, " error=%s", r.message)
	} else {
		buf.WriteString("<Result OK")
	}
	for _, f := range r.fields {
		fmt.Fprintf(&buf, " %s=%v", f.Key, f.Value)
	}
	buf.WriteString(">")
	return buf.String()
}

// MarshalJSON flattens r into {"ok": ..., "error": ..., <fields in order>}.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r.failed {
		buf.WriteString(`"ok":false,"error":`)
		msg, err := json.Marshal(r.message)
		if err != nil {
			return nil, err
		}
		buf.Write(msg)
	} else {
		buf.WriteString(`"ok":true`)
	}

	for _, f := range r.fields {
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", f.Key, err)
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// HTTPStatus maps the Result to a transport status code. With legacy set,
// every Result is reported as 200 and clients must inspect "ok".
func (r Result) HTTPStatus(legacy bool) int {
	if !r.failed || legacy {
		return http.StatusOK
	}
	return StatusForKind(r.kind)
}

// Write serializes r as the JSON response body.
func Write(w http.ResponseWriter, r Result, legacy bool) error {
	body, err := json.Marshal(r)
	if err != nil {
		r = Errorf(ErrStorage, "encoding response: %v", err)
		body, _ = json.Marshal(r)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.HTTPStatus(legacy))
	_, err = w.Write(append(body, '\n'))
	return err
}
