package distribution

import (
	"encoding/json"
	"fmt"
)

// envelope is the persisted wire form of a distribution descriptor.
type envelope struct {
	Kind    Kind     `json:"kind"`
	Low     float64  `json:"low,omitempty"`
	High    float64  `json:"high,omitempty"`
	Q       float64  `json:"q,omitempty"`
	LowInt  int64    `json:"low_int,omitempty"`
	HighInt int64    `json:"high_int,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

// MarshalJSON serializes a distribution descriptor for storage.
func MarshalJSON(d Distribution) ([]byte, error) {
	var env envelope
	switch v := d.(type) {
	case Uniform:
		env = envelope{Kind: KindUniform, Low: v.Low, High: v.High}
	case LogUniform:
		env = envelope{Kind: KindLogUniform, Low: v.Low, High: v.High}
	case Discrete:
		env = envelope{Kind: KindDiscrete, Low: v.Low, High: v.High, Q: v.Q}
	case Int:
		env = envelope{Kind: KindInt, LowInt: v.Low, HighInt: v.High}
	case Categorical:
		env = envelope{Kind: KindCategorical, Choices: v.Choices}
	default:
		return nil, fmt.Errorf("unknown distribution type %T", d)
	}
	return json.Marshal(env)
}

// UnmarshalJSON reconstructs a distribution descriptor from its stored form.
func UnmarshalJSON(data []byte) (Distribution, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode distribution: %w", err)
	}
	switch env.Kind {
	case KindUniform:
		return Uniform{Low: env.Low, High: env.High}, nil
	case KindLogUniform:
		return LogUniform{Low: env.Low, High: env.High}, nil
	case KindDiscrete:
		return Discrete{Low: env.Low, High: env.High, Q: env.Q}, nil
	case KindInt:
		return Int{Low: env.LowInt, High: env.HighInt}, nil
	case KindCategorical:
		return Categorical{Choices: env.Choices}, nil
	default:
		return nil, fmt.Errorf("unknown distribution kind: %s", env.Kind)
	}
}

// Equal reports whether two descriptors are the same distribution.
func Equal(a, b Distribution) bool {
	if a == nil || b == nil {
		return a == b
	}
	ja, err := MarshalJSON(a)
	if err != nil {
		return false
	}
	jb, err := MarshalJSON(b)
	if err != nil {
		return false
	}
	return string(ja) == string(jb)
}
