package rbac

import "errors"

// DenyReason is the stable machine-readable code attached to a denial.
type DenyReason string

// Denial reasons.
const (
	DenyUnauthenticated DenyReason = "UNAUTHENTICATED"
	DenyForbidden       DenyReason = "FORBIDDEN"
)

var (
	// ErrUnauthenticated indicates a missing or unverifiable credential.
	ErrUnauthenticated = errors.New("rbac: unauthenticated")
	// ErrForbidden indicates a valid credential lacking every required capability.
	ErrForbidden = errors.New("rbac: forbidden")
)

// Decision is the verdict of Authorize.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Err converts a denial into its sentinel error. Allowed decisions return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == DenyUnauthenticated {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

// Allow is the positive verdict.
func Allow() Decision { return Decision{Allowed: true} }

// Deny builds a negative verdict with the given reason.
func Deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// Authorize grants access when the capabilities of cred's role intersect
// required. The role is looked up in the table on every call; the snapshot
// carried by the credential is not consulted.
func Authorize(cred *Credential, required ...Capability) Decision {
	if cred == nil {
		return Deny(DenyUnauthenticated)
	}
	for _, c := range required {
		if HasCapability(cred.Role, c) {
			return Allow()
		}
	}
	return Deny(DenyForbidden)
}
