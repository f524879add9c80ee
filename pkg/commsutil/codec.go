package commsutil

import "encoding/json"

// EncodePayload serializes a wire value (envelope, outcome, registration
// request) to JSON bytes.
func EncodePayload(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodePayload deserializes JSON bytes into the given target. Unknown fields
// are tolerated so older peers keep working.
func DecodePayload(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
