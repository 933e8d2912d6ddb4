package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAck(t *testing.T) {
	kind, upd := Classify([]byte("ok"))
	assert.Equal(t, KindAck, kind)
	assert.Nil(t, upd)
}

func TestClassifyHeartbeat(t *testing.T) {
	kind, upd := Classify([]byte(`{"ModeCode":"heart_beat","msg":1}`))
	assert.Equal(t, KindHeartbeat, kind)
	assert.Nil(t, upd, "heartbeats must not produce a state update")
}

func TestClassifyState(t *testing.T) {
	kind, upd := Classify([]byte(`{"nozzleTemp":"23.5","state":"printing","progress":"42"}`))
	require.Equal(t, KindState, kind)
	assert.Equal(t, 23.5, upd["nozzleTemp"])
	assert.Equal(t, "printing", upd["state"])
	assert.Equal(t, int64(42), upd["progress"])
}

func TestClassifyJunk(t *testing.T) {
	kind, upd := Classify([]byte("not json at all"))
	assert.Equal(t, KindMalformed, kind)
	assert.Nil(t, upd)

	kind, upd = Classify([]byte(`[1,2,3]`))
	assert.Equal(t, KindUnexpected, kind)
	assert.Nil(t, upd)

	kind, upd = Classify([]byte(`"ok"`)) // quoted, not the bare literal
	assert.Equal(t, KindUnexpected, kind)
	assert.Nil(t, upd)
}

func TestCoerceNumbers(t *testing.T) {
	in := map[string]any{
		"a":     "1",
		"b":     "2.5",
		"c":     "x",
		"d":     float64(3),
		"neg":   "-7",
		"exp":   "1e5", // no decimal point, not an int: kept
		"empty": "",
		"bool":  true,
	}
	out := CoerceNumbers(in)
	assert.Equal(t, int64(1), out["a"])
	assert.Equal(t, 2.5, out["b"])
	assert.Equal(t, "x", out["c"])
	assert.Equal(t, float64(3), out["d"])
	assert.Equal(t, int64(-7), out["neg"])
	assert.Equal(t, "1e5", out["exp"])
	assert.Equal(t, "", out["empty"])
	assert.Equal(t, true, out["bool"])
}

func TestEncodeCompact(t *testing.T) {
	b, err := Encode(Set(map[string]any{"fan": 1}))
	require.NoError(t, err)
	assert.Equal(t, `{"method":"set","params":{"fan":1}}`, string(b))
	assert.NotContains(t, string(b), " ")
}

func TestPeriodicQueries(t *testing.T) {
	b, err := Encode(PrinterParaQuery())
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"get","params":{"ReqPrinterPara":1}}`, string(b))

	b, err = Encode(PrintObjectsQuery())
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"get","params":{"reqPrintObjects":1}}`, string(b))
}

func TestClassifyRoundTripThroughJSON(t *testing.T) {
	// A coerced value re-encodes as a number, not the original string.
	_, upd := Classify([]byte(`{"temp":"23.50"}`))
	b, err := json.Marshal(upd)
	require.NoError(t, err)
	assert.Equal(t, `{"temp":23.5}`, string(b))
}
