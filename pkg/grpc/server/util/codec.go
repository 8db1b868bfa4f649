package util

import (
	"encoding/json"
	"fmt"
)

// JSONCodec lets connect handlers exchange plain Go structs. The builtin
// connect codecs only accept protobuf messages.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}
