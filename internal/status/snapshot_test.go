// internal/status/snapshot_test.go
package status

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowResultsMarshalOrder(t *testing.T) {
	flows := FlowResults{
		{Name: "login", OK: true},
		{Name: "debit", OK: false},
	}

	data, err := json.Marshal(flows)
	require.NoError(t, err)
	// Execution order must survive encoding: login first, then debit.
	assert.Equal(t, `{"login":true,"debit":false}`, string(data))
}

func TestFlowResultsMarshalEmpty(t *testing.T) {
	data, err := json.Marshal(FlowResults{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestFlowResultsUnmarshalPreservesOrder(t *testing.T) {
	var flows FlowResults
	require.NoError(t, json.Unmarshal([]byte(`{"login":false,"debit":true}`), &flows))

	require.Len(t, flows, 2)
	assert.Equal(t, FlowResult{Name: "login", OK: false}, flows[0])
	assert.Equal(t, FlowResult{Name: "debit", OK: true}, flows[1])
}

func TestFlowResultsUnmarshalRejectsNonObject(t *testing.T) {
	var flows FlowResults
	assert.Error(t, json.Unmarshal([]byte(`["login"]`), &flows))
	assert.Error(t, json.Unmarshal([]byte(`{"login":"yes"}`), &flows))
}

func TestFlowResultsGet(t *testing.T) {
	flows := FlowResults{{Name: "login", OK: true}}

	ok, found := flows.Get("login")
	assert.True(t, found)
	assert.True(t, ok)

	_, found = flows.Get("debit")
	assert.False(t, found)
}

func TestFlowResultsAllOK(t *testing.T) {
	assert.True(t, FlowResults{}.AllOK())
	assert.True(t, FlowResults{{Name: "login", OK: true}, {Name: "debit", OK: true}}.AllOK())
	assert.False(t, FlowResults{{Name: "login", OK: true}, {Name: "debit", OK: false}}.AllOK())
}

func TestSnapshotMarshal(t *testing.T) {
	snap := Snapshot{
		Flows:    FlowResults{{Name: "login", OK: true}, {Name: "debit", OK: false}},
		Success:  false,
		Error:    "DEBIT: Could not find show button for institution; ",
		Duration: 12.34,
		Date:     "2026-08-29 10:00:00",
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	expected := `{"flows":{"login":true,"debit":false},"success":false,` +
		`"error":"DEBIT: Could not find show button for institution; ",` +
		`"duration":12.34,"date":"2026-08-29 10:00:00"}`
	assert.JSONEq(t, expected, string(data))
}

func TestSnapshotRoundTrip(t *testing.T) {
	orig := Snapshot{
		Flows:    FlowResults{{Name: "login", OK: true}, {Name: "debit", OK: true}},
		Success:  true,
		Duration: 4.2,
		Date:     "2026-08-29 10:00:00",
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig, got)
}

func TestEmptySnapshot(t *testing.T) {
	snap := Empty()
	assert.Empty(t, snap.Flows)
	assert.False(t, snap.Success)
	assert.Empty(t, snap.Error)
	assert.Zero(t, snap.Duration)
	assert.Empty(t, snap.Date)

	// The pre-first-cycle snapshot serializes with an empty flows object.
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"flows":{},"success":false,"error":"","duration":0,"date":""}`, string(data))
}
