package asset

import (
	"context"
	"encoding/json"
	"fmt"
)

// dataRuntime handles the generic-data kinds (json, text, binary).
// The response is parsed according to the type implied by the file
// extension; a transient failure hands any in-flight outgoing messages
// back to the pending batch.
type dataRuntime struct{}

func (dataRuntime) Decode(ctx context.Context, it *Item, data []byte) (interface{}, error) {
	switch it.Kind() {
	case KindJSON:
		var parsed interface{}
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parsing json payload: %w", err)
		}
		return parsed, nil
	case KindText:
		return string(data), nil
	default:
		return data, nil
	}
}

func (dataRuntime) OnReady(it *Item) {}

func (dataRuntime) OnFailure(it *Item) {
	it.requeueInflight()
}

func (dataRuntime) OnRelease(it *Item) {}
