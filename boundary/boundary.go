// Package boundary implements the process-edge wire contract of a
// capability plugin: one JSON document in on stdin, one single-element JSON
// array containing the response envelope out on stdout, exit status always
// zero. Internal failures travel in-band inside the envelope, never through
// the exit code.
package boundary

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/capkit/core"
	"github.com/hupe1980/capkit/dispatch"
	"github.com/tidwall/gjson"
)

// Input documents arrive in one of three shapes, all folded into a single
// flat key -> value mapping before dispatch:
//
//	{"action": "x", "payload": {...}}                       flat object
//	{"_type": "Map", "entries": [["action", "x"], ...]}     serialized map
//	[["action", "x"], ["payload", {...}]]                   list of pairs
//
// Individual values may additionally be wrapped as {"value": X} and are
// unwrapped during folding.

// actionKeys are the accepted aliases for the action name, in priority order.
var actionKeys = []string{"action", "operation", "command"}

// payloadKeys are the accepted aliases for the payload object, in priority order.
var payloadKeys = []string{"payload", "data", "params", "parameters"}

// Normalize folds a raw JSON document of any accepted shape into one flat
// key -> value mapping, unwrapping {"value": X} wrappers along the way.
func Normalize(raw []byte) (map[string]any, error) {
	if !gjson.ValidBytes(raw) {
		return nil, core.NewExecutionError("", "invalid JSON document")
	}

	doc := gjson.ParseBytes(raw)
	flat := make(map[string]any)

	switch {
	case doc.IsArray():
		// List of [key, value] pairs.
		for _, pair := range doc.Array() {
			if err := foldPair(flat, pair); err != nil {
				return nil, err
			}
		}
	case doc.IsObject():
		if doc.Get("_type").String() == "Map" {
			entries := doc.Get("entries")
			if !entries.IsArray() {
				return nil, core.NewExecutionError("", "serialized Map is missing its entries array")
			}
			for _, pair := range entries.Array() {
				if err := foldPair(flat, pair); err != nil {
					return nil, err
				}
			}
		} else {
			doc.ForEach(func(key, value gjson.Result) bool {
				flat[key.String()] = Unwrap(value.Value(), nil)
				return true
			})
		}
	default:
		return nil, core.NewExecutionError("", "expected a JSON object or array of pairs")
	}

	return flat, nil
}

// foldPair folds one [key, value] element into the flat mapping.
func foldPair(flat map[string]any, pair gjson.Result) error {
	if !pair.IsArray() {
		return core.NewExecutionError("", "entry is not a [key, value] pair")
	}
	kv := pair.Array()
	if len(kv) != 2 {
		return core.NewExecutionError("", fmt.Sprintf("entry has %d elements, want 2", len(kv)))
	}
	flat[kv[0].String()] = Unwrap(kv[1].Value(), nil)
	return nil
}

// Unwrap unpacks a {"value": X} wrapper, returning X, or fallback when X is
// null. Any other value passes through unchanged.
func Unwrap(v any, fallback any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	inner, ok := m["value"]
	if !ok {
		return v
	}
	if inner == nil {
		return fallback
	}
	return inner
}

// ExtractRequest pulls the action name and payload object out of a flat
// mapping. The action is required (aliases: operation, command); the payload
// defaults to an empty object (aliases: data, params, parameters).
func ExtractRequest(flat map[string]any) (string, map[string]any, error) {
	var action string
	for _, key := range actionKeys {
		if v, ok := flat[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				action = s
				break
			}
		}
	}
	if action == "" {
		return "", nil, &core.Error{Kind: core.KindValidation, Message: "request is missing an action (aliases: operation, command)"}
	}

	payload := map[string]any{}
	for _, key := range payloadKeys {
		v, ok := flat[key]
		if !ok || v == nil {
			// A null payload (including an unwrapped {"value": null}) means
			// the alias is absent, not malformed.
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			return "", nil, &core.Error{Kind: core.KindValidation, Action: action, Message: fmt.Sprintf("payload field %q is not an object", key)}
		}
		payload = m
		break
	}

	return action, payload, nil
}

// Dispatcher is the minimal surface the boundary needs from the runtime.
type Dispatcher interface {
	Dispatch(action string, payload map[string]any) dispatch.Outcome
}

// Run reads one JSON document from r, dispatches it against d and writes
// exactly one envelope array to w. It never fails outward: every error mode
// is folded into a well-formed error envelope so the process can always
// exit zero.
func Run(d Dispatcher, r io.Reader, w io.Writer) {
	raw, err := io.ReadAll(r)
	if err != nil {
		Write(w, NewErrorEnvelope(fmt.Sprintf("failed to read request: %v", err), "Request could not be read from stdin"))
		return
	}

	flat, err := Normalize(raw)
	if err != nil {
		Write(w, NewErrorEnvelope(errMessage(err), "Request document could not be normalized"))
		return
	}

	action, payload, err := ExtractRequest(flat)
	if err != nil {
		Write(w, NewErrorEnvelope(errMessage(err), fmt.Sprintf("Request rejected (%s)", errKind(err))))
		return
	}

	out := d.Dispatch(action, payload)
	if !out.Success {
		desc := fmt.Sprintf("Action %q failed (%s)", action, out.Err.Kind)
		if out.Record != nil {
			desc = fmt.Sprintf("Action %q failed (%s, error_id %s)", action, out.Err.Kind, out.Record.ErrorID)
		}
		Write(w, NewErrorEnvelope(out.Err.Message, desc))
		return
	}

	Write(w, NewResultEnvelope(out.Result, fmt.Sprintf("Action %q completed successfully", action)))
}

// errMessage prefers the bare message of typed errors over their decorated
// Error() rendering.
func errMessage(err error) string {
	var typed *core.Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}

// errKind returns the taxonomy kind of a typed error, defaulting to
// execution for plain errors.
func errKind(err error) core.Kind {
	var typed *core.Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return core.KindExecution
}
