package cms

import (
	"encoding/json"
	"fmt"
)

// The store wraps every successful payload in {"data": ...}.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func decodeData(body []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode store envelope: %w", err)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode store data: %w", err)
	}
	return nil
}

// storeError summarizes a non-2xx store response. Error payload shapes
// vary between store versions, so parse failures are swallowed and
// replaced with a generic message.
func storeError(resp *Response) error {
	var payload struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err == nil && len(payload.Errors) > 0 && payload.Errors[0].Message != "" {
		return fmt.Errorf("store returned %d: %s", resp.Status, payload.Errors[0].Message)
	}
	return fmt.Errorf("store returned %d", resp.Status)
}
