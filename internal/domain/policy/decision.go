package policy

// Decision is the result of a gate evaluation. Gates never return errors for
// business denials; a deny carries a human-readable reason instead.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns an allowing decision
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with a reason
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Denied reports whether the decision is a denial
func (d Decision) Denied() bool {
	return !d.Allowed
}
