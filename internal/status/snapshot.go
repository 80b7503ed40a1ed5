// internal/status/snapshot.go
package status

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlowResult records the outcome of a single flow step.
type FlowResult struct {
	Name string
	OK   bool
}

// FlowResults is the ordered list of flow outcomes for one cycle.
// Order is execution order and survives JSON round-trips, which a plain
// map[string]bool would not guarantee.
type FlowResults []FlowResult

// Get returns the outcome for the named flow and whether it exists.
func (r FlowResults) Get(name string) (bool, bool) {
	for _, fr := range r {
		if fr.Name == name {
			return fr.OK, true
		}
	}
	return false, false
}

// AllOK reports whether every flow in the list succeeded.
func (r FlowResults) AllOK() bool {
	for _, fr := range r {
		if !fr.OK {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the results as a JSON object in execution order.
func (r FlowResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fr := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(fr.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if fr.OK {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into ordered results, preserving the
// key order of the document.
func (r *FlowResults) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("flows: expected JSON object, got %v", tok)
	}

	out := FlowResults{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("flows: expected string key, got %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		val, ok := valTok.(bool)
		if !ok {
			return fmt.Errorf("flows: expected boolean value for %q, got %v", key, valTok)
		}
		out = append(out, FlowResult{Name: key, OK: val})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Snapshot is the outcome of one full monitor cycle. It is built completely
// by the engine before being published and never mutated afterwards.
type Snapshot struct {
	Flows    FlowResults `json:"flows"`
	Success  bool        `json:"success"`
	Error    string      `json:"error"`
	Duration float64     `json:"duration"`
	Date     string      `json:"date"`
}

// Empty returns the snapshot served before the first cycle completes.
func Empty() Snapshot {
	return Snapshot{Flows: FlowResults{}}
}
