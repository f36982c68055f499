package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec3 is a 3-component vector used for project positions and Euler
// rotations. It is persisted as JSON array text (e.g. "[0,0,0]").
type Vec3 [3]float64

// ZeroVec3 is the default pose component for projects that have never been
// moved by a user.
var ZeroVec3 = Vec3{0, 0, 0}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Finite reports whether all components are finite numbers. JSON cannot
// represent NaN or infinities, so only finite vectors are encodable.
func (v Vec3) Finite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// EncodeText serializes the vector to its stored text form.
func (v Vec3) EncodeText() (string, error) {
	if !v.Finite() {
		return "", fmt.Errorf("vector has non-finite components: %v", v)
	}
	b, err := json.Marshal([3]float64(v))
	if err != nil {
		return "", fmt.Errorf("failed to encode vector: %w", err)
	}
	return string(b), nil
}

// DecodeVec3 parses a stored transform column. Corrupt values (unparsable
// JSON, wrong arity) decode to the zero vector so a bad row never fails a
// collection read.
func DecodeVec3(raw string) Vec3 {
	var parsed []float64
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return ZeroVec3
	}
	if len(parsed) != 3 {
		return ZeroVec3
	}
	return Vec3{parsed[0], parsed[1], parsed[2]}
}
