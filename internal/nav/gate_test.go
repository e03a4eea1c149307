package nav

import (
	"reflect"
	"testing"

	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/session"
)

func TestDestinationsPerSessionState(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want []Destination
	}{
		{
			name: "not logged in",
			snap: session.Snapshot{Principal: models.Anonymous()},
			want: []Destination{DestSymptomChecker, DestSearchInfo, DestLoginSignup},
		},
		{
			name: "logged in user",
			snap: session.Snapshot{LoggedIn: true, Principal: models.Principal{PatientID: 42, Role: models.RoleUser}},
			want: []Destination{DestSymptomChecker, DestSearchInfo, DestPreviousDiagnoses, DestLogout},
		},
		{
			name: "logged in admin",
			snap: session.Snapshot{LoggedIn: true, Principal: models.Principal{Role: models.RoleAdmin}},
			want: []Destination{DestAdminDiseases, DestAdminSymptoms, DestAdminPrecautions, DestLogout},
		},
		{
			name: "logged in with unresolved role",
			snap: session.Snapshot{LoggedIn: true, Principal: models.Anonymous()},
			want: []Destination{DestLogout},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Destinations(tt.snap)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Destinations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminEntriesRequireAdminRole(t *testing.T) {
	user := session.Snapshot{LoggedIn: true, Principal: models.Principal{PatientID: 42, Role: models.RoleUser}}
	for _, dest := range []Destination{DestAdminDiseases, DestAdminSymptoms, DestAdminPrecautions} {
		if Allowed(user, dest) {
			t.Fatalf("%s must be hidden from non-admin sessions", dest)
		}
	}
	if !Allowed(user, DestPreviousDiagnoses) {
		t.Fatal("previous diagnoses must be visible to a logged-in user")
	}
}
