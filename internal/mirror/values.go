package mirror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// value is a Firestore typed value. Exactly one field is set.
type value struct {
	BooleanValue *bool     `json:"booleanValue,omitempty"`
	IntegerValue *string   `json:"integerValue,omitempty"`
	DoubleValue  *float64  `json:"doubleValue,omitempty"`
	StringValue  *string   `json:"stringValue,omitempty"`
	ArrayValue   *arrayVal `json:"arrayValue,omitempty"`
	MapValue     *mapVal   `json:"mapValue,omitempty"`
	Timestamp    *string   `json:"timestampValue,omitempty"`
	null         bool
}

type arrayVal struct {
	Values []value `json:"values,omitempty"`
}

type mapVal struct {
	Fields map[string]value `json:"fields,omitempty"`
}

// document is the REST shape of a Firestore document.
type document struct {
	Name   string           `json:"name,omitempty"`
	Fields map[string]value `json:"fields"`
}

// MarshalJSON writes nullValue as an explicit JSON null, which is what the
// REST API expects.
func (v value) MarshalJSON() ([]byte, error) {
	if v.null {
		return []byte(`{"nullValue":null}`), nil
	}
	type plain value
	return json.Marshal(plain(v))
}

// encodeFields turns any JSON-serializable record into Firestore fields.
func encodeFields(rec any) (map[string]value, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("record is not an object: %w", err)
	}
	fields := make(map[string]value, len(m))
	for k, v := range m {
		fields[k] = encodeValue(v)
	}
	return fields, nil
}

func encodeValue(v any) value {
	switch x := v.(type) {
	case nil:
		return value{null: true}
	case bool:
		return value{BooleanValue: &x}
	case string:
		return value{StringValue: &x}
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				return value{IntegerValue: &s}
			}
		}
		f, _ := x.Float64()
		return value{DoubleValue: &f}
	case []any:
		arr := &arrayVal{}
		for _, e := range x {
			arr.Values = append(arr.Values, encodeValue(e))
		}
		return value{ArrayValue: arr}
	case map[string]any:
		mv := &mapVal{Fields: make(map[string]value, len(x))}
		for k, e := range x {
			mv.Fields[k] = encodeValue(e)
		}
		return value{MapValue: mv}
	default:
		s := fmt.Sprint(x)
		return value{StringValue: &s}
	}
}

func decodeValue(v value) any {
	switch {
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.IntegerValue != nil:
		return json.Number(*v.IntegerValue)
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.StringValue != nil:
		return *v.StringValue
	case v.Timestamp != nil:
		return *v.Timestamp
	case v.ArrayValue != nil:
		out := make([]any, 0, len(v.ArrayValue.Values))
		for _, e := range v.ArrayValue.Values {
			out = append(out, decodeValue(e))
		}
		return out
	case v.MapValue != nil:
		return decodeFields(v.MapValue.Fields)
	default:
		return nil
	}
}

func decodeFields(fields map[string]value) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = decodeValue(v)
	}
	return out
}

// decodeInto converts fields back into a typed record via JSON.
func decodeInto(fields map[string]value, dst any) error {
	raw, err := json.Marshal(decodeFields(fields))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
