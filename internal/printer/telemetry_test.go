package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelVersion(t *testing.T) {
	hw, sw := ParseModelVersion("printer hw ver:ABC;printer sw ver:1.2.3;DWIN hw ver:XYZ;DWIN sw ver:9.9;")
	assert.Equal(t, "ABC", hw)
	assert.Equal(t, "1.2.3", sw)

	hw, sw = ParseModelVersion("DWIN hw ver:XYZ;DWIN sw ver:9.9;")
	assert.Equal(t, "DWIN XYZ", hw)
	assert.Equal(t, "DWIN 9.9", sw)

	hw, sw = ParseModelVersion("")
	assert.Empty(t, hw)
	assert.Empty(t, sw)

	hw, sw = ParseModelVersion("garbage without separators")
	assert.Empty(t, hw)
	assert.Empty(t, sw)
}

func TestParsePosition(t *testing.T) {
	x, y, z, ok := ParsePosition(map[string]any{"curPosition": "X:12.3 Y:4.5 Z:-6"})
	require.True(t, ok)
	assert.Equal(t, 12.3, x)
	assert.Equal(t, 4.5, y)
	assert.Equal(t, -6.0, z)

	_, _, _, ok = ParsePosition(map[string]any{"curPosition": "invalid"})
	assert.False(t, ok)

	_, _, _, ok = ParsePosition(map[string]any{})
	assert.False(t, ok)

	_, _, _, ok = ParsePosition(map[string]any{"curPosition": 42})
	assert.False(t, ok)
}

func TestSafeFloat(t *testing.T) {
	f, ok := SafeFloat("3.14")
	require.True(t, ok)
	assert.Equal(t, 3.14, f)

	f, ok = SafeFloat(int64(7))
	require.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = SafeFloat(nil)
	assert.False(t, ok)
	_, ok = SafeFloat("abc")
	assert.False(t, ok)
}

func TestObjectLists(t *testing.T) {
	snap := map[string]any{
		"objects":          `[{"name":"cube"},{"name":"cone"}]`,
		"excluded_objects": `["cone"]`,
	}
	objs, excl := ObjectLists(snap)
	require.Len(t, objs, 2)
	assert.Equal(t, []any{"cone"}, excl)

	objs, excl = ObjectLists(map[string]any{"objects": "not a list"})
	assert.Nil(t, objs)
	assert.Nil(t, excl)

	objs, _ = ObjectLists(map[string]any{"objects": "[broken"})
	assert.Nil(t, objs)
}

func TestJobActive(t *testing.T) {
	assert.False(t, JobActive(map[string]any{}))
	assert.False(t, JobActive(map[string]any{"printFileName": "cube.gcode"}))
	assert.True(t, JobActive(map[string]any{"printFileName": "cube.gcode", "printProgress": int64(5)}))
	assert.True(t, JobActive(map[string]any{"printStartTime": int64(1700000000), "printJobTime": 12.0}))
	assert.False(t, JobActive(map[string]any{"printProgress": int64(5)}), "progress without a job identity is not active")
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "ws://10.0.0.5:9999", WebsocketURL("10.0.0.5"))
	assert.Equal(t, "http://10.0.0.5:8080/?action=stream", StreamURL("10.0.0.5"))
}
