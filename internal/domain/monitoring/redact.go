package monitoring

// RedactedMarker replaces any value stored under a denylisted field name
// before alert details leave the process boundary.
const RedactedMarker = "[REDACTED]"

// sensitiveFields is the fixed redaction denylist. Values under these keys
// are always replaced or recursively sanitized, never passed through.
var sensitiveFields = map[string]struct{}{
	"patientId":           {},
	"patientName":         {},
	"patientDOB":          {},
	"patientSSN":          {},
	"patientEmail":        {},
	"patientPhone":        {},
	"patientAddress":      {},
	"medicalRecordNumber": {},
	"diagnosis":           {},
	"treatment":           {},
	"prescription":        {},
	"notes":               {},
	"metadata":            {},
	"requestBody":         {},
	"responseBody":        {},
	"query":               {},
	"parameters":          {},
}

// IsSensitiveField reports whether a field name is on the redaction denylist.
func IsSensitiveField(name string) bool {
	_, ok := sensitiveFields[name]
	return ok
}

// Sanitize returns a copy of details with every denylisted field redacted:
// primitives become the marker, arrays become a single-element array holding
// the marker, and nested objects are sanitized recursively rather than
// replaced wholesale. Non-denylisted containers are walked recursively so no
// denylisted key survives at any depth. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return nil
	}
	out := make(map[string]interface{}, len(details))
	for key, value := range details {
		if IsSensitiveField(key) {
			out[key] = redactValue(value)
			continue
		}
		out[key] = sanitizeValue(value)
	}
	return out
}

func redactValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return Sanitize(v)
	case []interface{}:
		return []interface{}{RedactedMarker}
	default:
		return RedactedMarker
	}
}

func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return Sanitize(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return v
	}
}
