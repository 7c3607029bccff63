package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"groqkit/common"

	"github.com/tidwall/gjson"
)

// JSONMap stores query parameters in a JSON text column.
type JSONMap map[string]interface{}

// FromParams copies descriptor parameters into a JSONMap.
func FromParams(p common.Params) JSONMap {
	m := JSONMap{}
	for k, v := range p {
		m[k] = v
	}
	return m
}

// Params converts back to descriptor parameters.
func (jm JSONMap) Params() common.Params {
	p := common.Params{}
	for k, v := range jm {
		p[k] = v
	}
	return p
}

// Scan implements sql.Scanner. Whole numbers come back as int64 so that a
// stored parameter map equals the one that was saved.
func (jm *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*jm = nil
		return nil
	}
	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("failed to unmarshal JSON: unsupported type %T", value)
	}
	if !gjson.Valid(raw) {
		return fmt.Errorf("failed to unmarshal JSON: invalid document")
	}
	m := JSONMap{}
	var err error
	gjson.Parse(raw).ForEach(func(key, val gjson.Result) bool {
		switch val.Type {
		case gjson.String:
			m[key.String()] = val.Str
		case gjson.True, gjson.False:
			m[key.String()] = val.Bool()
		case gjson.Number:
			if val.Num == float64(val.Int()) {
				m[key.String()] = val.Int()
			} else {
				m[key.String()] = val.Num
			}
		default:
			err = fmt.Errorf("failed to unmarshal JSON: %s is not a scalar", key.String())
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	*jm = m
	return nil
}

// Value implements driver.Valuer
func (jm JSONMap) Value() (driver.Value, error) {
	if jm == nil {
		return nil, nil
	}
	v, err := json.Marshal(jm)
	return string(v), err
}
