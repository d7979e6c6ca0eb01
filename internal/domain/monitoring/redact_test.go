package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty map",
			input:    map[string]interface{}{},
			expected: map[string]interface{}{},
		},
		{
			name: "non-sensitive fields pass through",
			input: map[string]interface{}{
				"count":     51,
				"threshold": 50,
				"action":    "AUTH_FAILURE",
			},
			expected: map[string]interface{}{
				"count":     51,
				"threshold": 50,
				"action":    "AUTH_FAILURE",
			},
		},
		{
			name: "sensitive string is redacted",
			input: map[string]interface{}{
				"patientName": "Jane Doe",
				"operation":   "READ",
			},
			expected: map[string]interface{}{
				"patientName": "[REDACTED]",
				"operation":   "READ",
			},
		},
		{
			name: "sensitive array collapses to single marker",
			input: map[string]interface{}{
				"parameters": []interface{}{"ssn=123-45-6789", "dob=1980-01-01"},
			},
			expected: map[string]interface{}{
				"parameters": []interface{}{"[REDACTED]"},
			},
		},
		{
			name: "sensitive nested map is recursed not replaced",
			input: map[string]interface{}{
				"metadata": map[string]interface{}{
					"patientSSN": "123-45-6789",
					"requestId":  "req-42",
				},
			},
			expected: map[string]interface{}{
				"metadata": map[string]interface{}{
					"patientSSN": "[REDACTED]",
					"requestId":  "req-42",
				},
			},
		},
		{
			name: "denylisted keys are caught at any depth",
			input: map[string]interface{}{
				"context": map[string]interface{}{
					"diagnosis": "F41.1",
					"clinic":    "north",
				},
			},
			expected: map[string]interface{}{
				"context": map[string]interface{}{
					"diagnosis": "[REDACTED]",
					"clinic":    "north",
				},
			},
		},
		{
			name: "arrays under clean keys are walked element-wise",
			input: map[string]interface{}{
				"attempts": []interface{}{
					map[string]interface{}{"notes": "pt anxious", "ts": "10:00"},
					"plain",
				},
			},
			expected: map[string]interface{}{
				"attempts": []interface{}{
					map[string]interface{}{"notes": "[REDACTED]", "ts": "10:00"},
					"plain",
				},
			},
		},
		{
			name: "matching is exact and case sensitive",
			input: map[string]interface{}{
				"PatientName": "Jane Doe",
				"patientname": "Jane Doe",
			},
			expected: map[string]interface{}{
				"PatientName": "Jane Doe",
				"patientname": "Jane Doe",
			},
		},
		{
			name: "numeric and nil sensitive values are redacted",
			input: map[string]interface{}{
				"patientId": 10045,
				"notes":     nil,
			},
			expected: map[string]interface{}{
				"patientId": "[REDACTED]",
				"notes":     "[REDACTED]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	input := map[string]interface{}{
		"patientName": "Jane Doe",
		"metadata":    map[string]interface{}{"patientSSN": "123-45-6789"},
	}

	_ = Sanitize(input)

	assert.Equal(t, "Jane Doe", input["patientName"])
	assert.Equal(t, "123-45-6789", input["metadata"].(map[string]interface{})["patientSSN"])
}

func TestSanitizeIsIdempotent(t *testing.T) {
	input := map[string]interface{}{
		"patientName": "Jane Doe",
		"parameters":  []interface{}{"a", "b"},
		"metadata": map[string]interface{}{
			"diagnosis": "F41.1",
			"depth": map[string]interface{}{
				"treatment": "CBT",
			},
		},
		"count": 3,
	}

	once := Sanitize(input)
	twice := Sanitize(once)
	assert.Equal(t, once, twice)
}

func TestIsSensitiveField(t *testing.T) {
	assert.True(t, IsSensitiveField("patientSSN"))
	assert.True(t, IsSensitiveField("requestBody"))
	assert.False(t, IsSensitiveField("userId"))
	assert.False(t, IsSensitiveField("PATIENTSSN"))
}
