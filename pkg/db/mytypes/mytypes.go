package mytypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores a value of T in a jsonb column.
type JSON[T any] struct {
	Val T
}

func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{Val: v}
}

func (j *JSON[T]) Scan(value any) error {
	var data []byte
	var zero T
	j.Val = zero
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("value is not []byte but %T", value)
	}
	return json.Unmarshal(data, &j.Val)
}

func (j JSON[T]) Value() (driver.Value, error) {
	return json.Marshal(j.Val)
}
