// Package printer interprets Creality-specific fields carried in state
// snapshots: version strings, toolhead position, object lists, and the
// fixed service ports the firmware exposes.
package printer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Fixed ports on K1-class firmware.
const (
	WebsocketPort = 9999
	StreamPort    = 8080
	HTTPPort      = 80
)

// WebsocketURL returns the device control endpoint for host.
func WebsocketURL(host string) string {
	return fmt.Sprintf("ws://%s:%d", host, WebsocketPort)
}

// StreamURL returns the MJPEG camera stream endpoint for host.
func StreamURL(host string) string {
	return fmt.Sprintf("http://%s:%d/?action=stream", host, StreamPort)
}

// ParseModelVersion extracts hardware and software versions from the
// semi-structured modelVersion string, e.g.
// "printer hw ver:ABC;printer sw ver:1.2.3;DWIN hw ver:XYZ;".
// When only the DWIN board reports a version it is prefixed "DWIN".
// Missing segments yield empty strings.
func ParseModelVersion(s string) (hw, sw string) {
	parts := make(map[string]string)
	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		k, v, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		parts[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	hw = parts["printer hw ver"]
	if hw == "" {
		hw = parts["dwin hw ver"]
	}
	sw = parts["printer sw ver"]
	if sw == "" {
		sw = parts["dwin sw ver"]
	}
	if hw != "" && hw == parts["dwin hw ver"] {
		hw = "DWIN " + hw
	}
	if sw != "" && sw == parts["dwin sw ver"] {
		sw = "DWIN " + sw
	}
	return hw, sw
}

var positionRe = regexp.MustCompile(`X:(-?\d+(?:\.\d+)?)\s+Y:(-?\d+(?:\.\d+)?)\s+Z:(-?\d+(?:\.\d+)?)`)

// ParsePosition parses the curPosition field ("X:12.3 Y:4.5 Z:-6") from
// a snapshot. ok is false when the field is absent or unparseable.
func ParsePosition(snap map[string]any) (x, y, z float64, ok bool) {
	raw, _ := snap["curPosition"].(string)
	m := positionRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, 0, false
	}
	x, errX := strconv.ParseFloat(m[1], 64)
	y, errY := strconv.ParseFloat(m[2], 64)
	z, errZ := strconv.ParseFloat(m[3], 64)
	if errX != nil || errY != nil || errZ != nil {
		return 0, 0, 0, false
	}
	return x, y, z, true
}

// SafeFloat extracts a float from any numeric or numeric-string value.
func SafeFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ObjectLists decodes the stringified JSON arrays the firmware reports
// in the "objects" and "excluded_objects" fields. Either return value
// is nil when the corresponding field is absent or malformed.
func ObjectLists(snap map[string]any) (objects, excluded []any) {
	return decodeList(snap["objects"]), decodeList(snap["excluded_objects"])
}

func decodeList(v any) []any {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(strings.TrimSpace(s), "[") {
		return nil
	}
	var out []any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// JobActive reports whether a snapshot looks like a running print job:
// a job identity is present and either progress or elapsed job time is
// non-zero. The hosting application uses this to clear a manually set
// paused flag once the printer resumes on its own.
func JobActive(snap map[string]any) bool {
	if !present(snap["printStartTime"]) && !present(snap["printFileName"]) {
		return false
	}
	if f, ok := SafeFloat(snap["printProgress"]); ok && f > 0 {
		return true
	}
	if f, ok := SafeFloat(snap["dProgress"]); ok && f > 0 {
		return true
	}
	if f, ok := SafeFloat(snap["printJobTime"]); ok && f > 0 {
		return true
	}
	return false
}

func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case float64:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}
