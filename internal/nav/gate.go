// Package nav derives the set of reachable destinations from session state.
package nav

import (
	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/session"
)

// Destination identifies one navigable screen or action.
type Destination string

const (
	DestSymptomChecker     Destination = "symptom-checker"
	DestSearchInfo         Destination = "search-info"
	DestAdminDiseases      Destination = "admin/diseases"
	DestAdminSymptoms      Destination = "admin/symptoms"
	DestAdminPrecautions   Destination = "admin/precautions"
	DestPreviousDiagnoses  Destination = "previous-diagnoses"
	DestLoginSignup        Destination = "login-signup"
	DestLogout             Destination = "logout"
)

// Destinations maps a session snapshot to the visible destinations. Pure
// function; callers re-run it on every session change. An unrecognized role
// gets no elevated entries, so a logged-in session whose principal never
// resolved is left with the logout action only.
func Destinations(snap session.Snapshot) []Destination {
	var out []Destination

	if !snap.LoggedIn || snap.Principal.Role == models.RoleUser {
		out = append(out, DestSymptomChecker, DestSearchInfo)
	}
	if snap.LoggedIn && snap.Principal.Role == models.RoleAdmin {
		out = append(out, DestAdminDiseases, DestAdminSymptoms, DestAdminPrecautions)
	}
	if snap.LoggedIn && snap.Principal.Role == models.RoleUser {
		out = append(out, DestPreviousDiagnoses)
	}
	if !snap.LoggedIn {
		out = append(out, DestLoginSignup)
	} else {
		out = append(out, DestLogout)
	}
	return out
}

// Allowed reports whether dest is reachable under the given snapshot.
func Allowed(snap session.Snapshot, dest Destination) bool {
	for _, d := range Destinations(snap) {
		if d == dest {
			return true
		}
	}
	return false
}
