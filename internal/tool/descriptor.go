package tool

import (
	"reflect"
	"strings"
)

// Parameter types reported in descriptors.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Param describes one tool parameter.
type Param struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// Descriptor is the discovery record of a tool.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReadOnly    bool    `json:"read_only"`
	Params      []Param `json:"parameters"`
}

// paramsOf derives the parameter list from a request struct: the JSON
// tag names the parameter and a required or notblank validate rule
// marks it required.
func paramsOf(t reflect.Type) []Param {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	params := make([]Param, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		params = append(params, Param{
			Name:     name,
			Type:     jsonType(f.Type.Kind(), f.Type),
			Required: isRequired(f.Tag.Get("validate")),
		})
	}
	return params
}

func isRequired(rules string) bool {
	for _, r := range strings.Split(rules, ",") {
		switch r {
		case "omitempty":
			return false
		case "required", "notblank":
			return true
		}
	}
	return false
}

func jsonType(k reflect.Kind, t ...reflect.Type) string {
	if k == reflect.Pointer && len(t) > 0 {
		return jsonType(t[0].Elem().Kind(), t[0].Elem())
	}
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Bool:
		return TypeBoolean
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Struct, reflect.Map:
		return TypeObject
	}
	return TypeString
}
