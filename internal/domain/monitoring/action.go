package monitoring

import "strings"

// ActionClass is the explicit classification an action carries, replacing
// substring matching on action names.
type ActionClass string

const (
	ClassAuth       ActionClass = "auth"
	ClassPHIAccess  ActionClass = "phi_access"
	ClassValidation ActionClass = "validation"
	ClassGeneral    ActionClass = "general"
)

// Well-known action names kept wire-compatible with the audit trail.
const (
	ActionAuthSuccess       = "AUTH_SUCCESS"
	ActionAuthFailure       = "AUTH_FAILURE"
	ActionValidationFailure = "VALIDATION_FAILURE"
	phiAccessPrefix         = "PHI_ACCESS_"
)

// Action is a typed activity tag. Name is the stable string form recorded
// in session documents; Class drives anomaly counting.
type Action struct {
	Name  string      `json:"name"`
	Class ActionClass `json:"class"`
}

// AuthAction returns the action for an authentication attempt.
func AuthAction(success bool) Action {
	if success {
		return Action{Name: ActionAuthSuccess, Class: ClassAuth}
	}
	return Action{Name: ActionAuthFailure, Class: ClassAuth}
}

// PHIAction returns the action for a PHI access operation, e.g. "READ"
// becomes PHI_ACCESS_READ. Any PHI-access variant counts toward the same
// anomaly rule.
func PHIAction(operation string) Action {
	op := strings.ToUpper(strings.TrimSpace(operation))
	if op == "" {
		op = "UNSPECIFIED"
	}
	return Action{Name: phiAccessPrefix + op, Class: ClassPHIAccess}
}

// ValidationAction returns the action for a failed input validation.
func ValidationAction() Action {
	return Action{Name: ActionValidationFailure, Class: ClassValidation}
}

// GeneralAction returns an unclassified action for ad-hoc activity tags.
func GeneralAction(name string) Action {
	return Action{Name: name, Class: ClassGeneral}
}

// IsAuthFailure reports whether the action is a failed authentication.
func (a Action) IsAuthFailure() bool {
	return a.Class == ClassAuth && a.Name == ActionAuthFailure
}

// IsPHIAccess reports whether the action is any PHI access variant.
func (a Action) IsPHIAccess() bool {
	return a.Class == ClassPHIAccess
}
