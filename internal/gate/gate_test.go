// ABOUTME: Tests for the view-guard decision ordering
// ABOUTME: Loading > authentication > role, per the protected-route contract

package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		state        State
		requiredRole string
		want         Verdict
	}{
		{
			name:  "loading wins even when unauthenticated",
			state: State{Loading: true},
			want:  VerdictLoading,
		},
		{
			name:         "loading wins even with role mismatch",
			state:        State{Loading: true, Authenticated: true, Role: "USER"},
			requiredRole: "ADMINISTRATOR",
			want:         VerdictLoading,
		},
		{
			name:  "unauthenticated redirects",
			state: State{},
			want:  VerdictRedirectLogin,
		},
		{
			name:         "unauthenticated redirects before role check",
			state:        State{},
			requiredRole: "MANAGER",
			want:         VerdictRedirectLogin,
		},
		{
			name:  "authenticated, no role required",
			state: State{Authenticated: true, Role: "USER"},
			want:  VerdictAllow,
		},
		{
			name:         "authenticated with matching role",
			state:        State{Authenticated: true, Role: "ADMINISTRATOR"},
			requiredRole: "ADMINISTRATOR",
			want:         VerdictAllow,
		},
		{
			name:         "authenticated with wrong role is denied inline",
			state:        State{Authenticated: true, Role: "USER"},
			requiredRole: "ADMINISTRATOR",
			want:         VerdictDenied,
		},
		{
			name:         "role match is case-sensitive",
			state:        State{Authenticated: true, Role: "administrator"},
			requiredRole: "ADMINISTRATOR",
			want:         VerdictDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(tt.state, tt.requiredRole)
			assert.Equal(t, tt.want, decision.Verdict)

			if tt.want == VerdictDenied {
				assert.Equal(t, tt.requiredRole, decision.RequiredRole,
					"denial names the required role")
			}
		})
	}
}

func TestDecide_AllRoleCombinations(t *testing.T) {
	roles := []string{"USER", "MANAGER", "ADMINISTRATOR"}
	required := append([]string{""}, roles...)

	for _, role := range roles {
		for _, req := range required {
			state := State{Authenticated: true, Role: role}
			decision := Decide(state, req)

			if req == "" || req == role {
				assert.Equal(t, VerdictAllow, decision.Verdict,
					"role %s required %s", role, req)
			} else {
				assert.Equal(t, VerdictDenied, decision.Verdict,
					"role %s required %s", role, req)
			}
		}
	}
}
