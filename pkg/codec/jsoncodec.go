// Package codec encodes view variables for JSON responses and record
// fields for the SQLite store.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

type jsonStrict struct{}

// JSONStrict rejects unknown fields and trailing content on decode and never
// escapes HTML on encode.
var JSONStrict Codec = jsonStrict{}

func (jsonStrict) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("json trailing content")
	}
	return nil
}

func (jsonStrict) ContentType() string { return "application/json" }

type jsonPretty struct{ jsonStrict }

// JSONPretty decodes like JSONStrict and indents its output.
var JSONPretty Codec = jsonPretty{}

func (jsonPretty) Marshal(v any) ([]byte, error) {
	raw, err := jsonStrict{}.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ByName maps a manifest codec name to a Codec. "" selects JSONStrict.
func ByName(name string) (Codec, bool) {
	switch name {
	case "", "json":
		return JSONStrict, true
	case "json-pretty":
		return JSONPretty, true
	}
	return nil, false
}
