package models

import "testing"

func TestBandForConfidenceBoundaries(t *testing.T) {
	cases := []struct {
		confidence float64
		want       ConfidenceBand
	}{
		{confidence: 0, want: BandLow},
		{confidence: 49, want: BandLow},
		{confidence: 49.9, want: BandLow},
		{confidence: 50, want: BandMedium},
		{confidence: 74, want: BandMedium},
		{confidence: 74.5, want: BandMedium},
		{confidence: 75, want: BandHigh},
		{confidence: 82, want: BandHigh},
		{confidence: 100, want: BandHigh},
	}

	for _, tc := range cases {
		if got := BandForConfidence(tc.confidence); got != tc.want {
			t.Errorf("BandForConfidence(%v) = %s, want %s", tc.confidence, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		wire string
		want Role
	}{
		{wire: "ROLE_ADMIN", want: RoleAdmin},
		{wire: "ROLE_USER", want: RoleUser},
		{wire: "", want: RoleAnonymous},
		{wire: "ROLE_SUPERUSER", want: RoleAnonymous},
		{wire: "admin", want: RoleAnonymous},
	}

	for _, tc := range cases {
		if got := ParseRole(tc.wire); got != tc.want {
			t.Errorf("ParseRole(%q) = %s, want %s", tc.wire, got, tc.want)
		}
	}
}

func TestAnonymousPrincipalHasNoPatient(t *testing.T) {
	p := Anonymous()
	if p.HasPatient() {
		t.Fatal("anonymous principal should not carry a patient id")
	}
	if p.Role != RoleAnonymous {
		t.Fatalf("unexpected role %s", p.Role)
	}
}
