// Package wire implements the Creality WebSocket frame codec.
// Inbound frames are classified into four kinds: the literal "ok"
// acknowledgement, a heartbeat request (ModeCode == "heart_beat"),
// a field/value state update, or junk to discard. Outbound commands
// are {"method","params"} objects encoded compactly.
package wire

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AckText is the literal heartbeat acknowledgement exchanged with the
// printer. It is sent as a bare text frame, never JSON-encoded.
const AckText = "ok"

// heartbeatMode is the ModeCode value that marks an inbound frame as a
// heartbeat request.
const heartbeatMode = "heart_beat"

// Kind classifies one inbound frame.
type Kind int

const (
	// KindMalformed is a frame that is not valid JSON. Expected and
	// non-fatal; the printer emits occasional non-JSON chatter.
	KindMalformed Kind = iota
	// KindAck is the literal "ok" our own heartbeat ack elicits.
	KindAck
	// KindHeartbeat is a printer heartbeat that must be answered with
	// the literal AckText immediately.
	KindHeartbeat
	// KindState is a field/value state update to merge.
	KindState
	// KindUnexpected is valid JSON that is not an object.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindAck:
		return "ack"
	case KindHeartbeat:
		return "heartbeat"
	case KindState:
		return "state"
	case KindUnexpected:
		return "unexpected"
	default:
		return "malformed"
	}
}

// Request is an outbound command frame.
type Request struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

// Get builds a status query request.
func Get(params map[string]any) Request {
	return Request{Method: "get", Params: params}
}

// Set builds a command request.
func Set(params map[string]any) Request {
	return Request{Method: "set", Params: params}
}

// PrinterParaQuery is the periodic GET that keeps the printer streaming
// its parameter block (curPosition, autohome, temperatures).
func PrinterParaQuery() Request {
	return Get(map[string]any{"ReqPrinterPara": 1})
}

// PrintObjectsQuery is the periodic GET for the object/exclusion lists
// of the running job.
func PrintObjectsQuery() Request {
	return Get(map[string]any{"reqPrintObjects": 1})
}

// Encode serialises a Request to its compact wire form.
func Encode(r Request) ([]byte, error) {
	return json.Marshal(r)
}

// Classify inspects one inbound frame and returns its kind plus, for
// KindState, the decoded update with numeric-looking strings coerced.
// The update is nil for every other kind.
func Classify(frame []byte) (Kind, map[string]any) {
	if string(frame) == AckText {
		return KindAck, nil
	}
	var payload any
	if err := json.Unmarshal(frame, &payload); err != nil {
		return KindMalformed, nil
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return KindUnexpected, nil
	}
	if mode, _ := obj["ModeCode"].(string); mode == heartbeatMode {
		return KindHeartbeat, nil
	}
	return KindState, CoerceNumbers(obj)
}

// CoerceNumbers converts numeric string values from the printer to real
// numbers: float64 when the string contains a decimal point, int64
// otherwise. Strings that fail to parse are kept as-is, as are all
// non-string values.
func CoerceNumbers(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		s, isStr := v.(string)
		if !isStr {
			out[k] = v
			continue
		}
		if strings.Contains(s, ".") {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				out[k] = f
				continue
			}
		} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			out[k] = n
			continue
		}
		out[k] = v
	}
	return out
}
