package event

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Envelope is the superset of all event fields, used by the inbound
// dispatcher to classify a payload before deciding what to do with it.
// Unknown families or entities simply decode into unrecognized tag values.
type Envelope struct {
	Family Family    `json:"family"`
	Entity Entity    `json:"entity"`
	Code   string    `json:"code"`
	ID     uuid.UUID `json:"id"`
	Old    string    `json:"old,omitempty"`
	New    string    `json:"new,omitempty"`
}

// Decode parses a raw broadcast payload. It fails only on malformed JSON;
// classification of unexpected tag values is the dispatcher's job.
func Decode(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
