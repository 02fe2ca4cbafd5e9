// Package rpc exposes the cog over gRPC using JSON encoded messages.
package rpc

import (
	"encoding/json"
)

const CodecName = "json"

// Codec encodes gRPC messages as JSON so the service needs no generated code.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	if frame, ok := v.(*rawFrame); ok {
		return *frame, nil
	}

	return json.Marshal(v)
}

// rawFrame carries a message without decoding it.
type rawFrame []byte

// Unmarshal treats an empty payload as an empty message.
func (Codec) Unmarshal(data []byte, v any) error {
	if frame, ok := v.(*rawFrame); ok {
		*frame = append((*frame)[:0], data...)

		return nil
	}

	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return CodecName
}
