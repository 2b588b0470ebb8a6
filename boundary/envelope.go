package boundary

import (
	"encoding/json"
	"io"
)

// Envelope is the standardized response object returned to the invoker. It
// is always emitted as the single element of a JSON array.
type Envelope struct {
	Success           bool   `json:"success"`
	Name              string `json:"name"`
	ResultType        string `json:"resultType"`
	Result            any    `json:"result"`
	ResultDescription string `json:"resultDescription"`
}

// NewResultEnvelope wraps a successful handler result.
func NewResultEnvelope(result any, description string) Envelope {
	return Envelope{
		Success:           true,
		Name:              "result",
		ResultType:        "object",
		Result:            result,
		ResultDescription: description,
	}
}

// NewErrorEnvelope wraps a failure message.
func NewErrorEnvelope(message, description string) Envelope {
	return Envelope{
		Success:           false,
		Name:              "error",
		ResultType:        "error",
		Result:            message,
		ResultDescription: description,
	}
}

// fallback is emitted when the envelope itself cannot be marshaled, which
// keeps the "exactly one well-formed array" guarantee even for handler
// results that are not JSON-serializable.
const fallback = `[{"success":false,"name":"error","resultType":"error","result":"response serialization failed","resultDescription":"The handler result could not be encoded as JSON"}]` + "\n"

// Write emits the envelope to w as a one-element JSON array. Serialization
// failures degrade to a static well-formed error envelope; Write never
// produces partial or malformed output on a functioning writer.
func Write(w io.Writer, env Envelope) {
	data, err := json.Marshal([]Envelope{env})
	if err != nil {
		_, _ = io.WriteString(w, fallback)
		return
	}
	data = append(data, '\n')
	_, _ = w.Write(data)
}
