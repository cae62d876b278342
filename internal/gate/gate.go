// ABOUTME: View-guard decision function over session state
// ABOUTME: Loading takes precedence over auth state to avoid the bootstrap redirect race

// Package gate decides what a protected view renders. It is a pure
// function over a session snapshot so the ordering rules stay
// independently testable.
package gate

// State is the session snapshot the decision consumes.
type State struct {
	// Loading is true while the session bootstrap attempt is running.
	Loading bool

	// Authenticated is true when an identity is present.
	Authenticated bool

	// Role is the identity's role, empty when unauthenticated.
	Role string
}

// Verdict is the rendering decision for a protected view.
type Verdict int

const (
	// VerdictLoading renders a pending placeholder. No redirect, no
	// children: the bootstrap outcome is not known yet.
	VerdictLoading Verdict = iota

	// VerdictRedirectLogin navigates to the login view. The attempted
	// location is discarded.
	VerdictRedirectLogin

	// VerdictDenied renders an inline access-denied state naming the
	// required role. Not a redirect.
	VerdictDenied

	// VerdictAllow renders the protected view.
	VerdictAllow
)

func (v Verdict) String() string {
	switch v {
	case VerdictLoading:
		return "loading"
	case VerdictRedirectLogin:
		return "redirect-login"
	case VerdictDenied:
		return "denied"
	case VerdictAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decision is a verdict plus the role that produced a denial.
type Decision struct {
	Verdict      Verdict
	RequiredRole string
}

// Decide evaluates the guard for a view. requiredRole empty means any
// authenticated identity may enter. The order is significant: loading
// first, then authentication, then role.
func Decide(state State, requiredRole string) Decision {
	if state.Loading {
		return Decision{Verdict: VerdictLoading}
	}
	if !state.Authenticated {
		return Decision{Verdict: VerdictRedirectLogin}
	}
	if requiredRole != "" && state.Role != requiredRole {
		return Decision{Verdict: VerdictDenied, RequiredRole: requiredRole}
	}
	return Decision{Verdict: VerdictAllow}
}
