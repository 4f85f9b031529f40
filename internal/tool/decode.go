package tool

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/iliyamo/movie-catalog/internal/service"
)

var unknownFieldRe = regexp.MustCompile(`unknown field "([^"]+)"`)

// decodeParams strictly decodes a JSON parameter object into dst.
// Unknown keys and wrongly typed values are validation errors.  An empty
// body or null is the empty parameter set.
func decodeParams(raw []byte, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if raw[0] != '{' {
		return invalid("", "parameters must be a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err, reflect.TypeOf(dst))
	}
	if dec.More() {
		return invalid("", "unexpected data after parameter object")
	}
	return nil
}

func decodeError(err error, t reflect.Type) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := paramName(t, typeErr.Field)
		want := TypeString
		if typeErr.Type != nil {
			want = jsonType(typeErr.Type.Kind(), typeErr.Type)
		}
		return invalid(field, fmt.Sprintf("%s must be of type %s", nameOr(field, "parameter"), want))
	}
	if m := unknownFieldRe.FindStringSubmatch(err.Error()); m != nil {
		return invalid(m[1], fmt.Sprintf("unknown parameter %q", m[1]))
	}
	return invalid("", "malformed parameters: "+err.Error())
}

// ParamsFromQuery converts query-string values into a JSON parameter
// object using the declared parameter types.  Undeclared keys are kept
// as strings so strict decoding rejects them by name.
func ParamsFromQuery(d Descriptor, q url.Values) ([]byte, error) {
	types := make(map[string]string, len(d.Params))
	for _, p := range d.Params {
		types[p.Name] = p.Type
	}
	out := make(map[string]any, len(q))
	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		v := vals[len(vals)-1]
		switch types[key] {
		case TypeInteger:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, invalid(key, key+" must be of type integer")
			}
			out[key] = n
		case TypeNumber:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, invalid(key, key+" must be of type number")
			}
			out[key] = f
		case TypeBoolean:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, invalid(key, key+" must be of type boolean")
			}
			out[key] = b
		default:
			out[key] = v
		}
	}
	return json.Marshal(out)
}

// paramName maps a decoder field reference, which may be the Go field
// name, onto the JSON parameter name.
func paramName(t reflect.Type, field string) string {
	if field == "" || t == nil {
		return field
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return field
	}
	if f, ok := t.FieldByName(field); ok {
		if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
	}
	return field
}

func invalid(field, msg string) *service.Error {
	return &service.Error{Kind: service.KindValidation, Field: field, Message: msg}
}

func nameOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
