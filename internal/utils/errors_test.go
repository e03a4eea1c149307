package utils

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := ServerError("repo.ListSymptoms", "service returned 500 Internal Server Error")
	want := "repo.ListSymptoms: service returned 500 Internal Server Error"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := TransportError("repo.RunDiagnosis", inner)
	if !errors.Is(err, inner) {
		t.Fatal("expected wrapped error to survive unwrap")
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(ValidationError("catalog.SaveSymptom", "severity out of range")) {
		t.Fatal("expected validation kind to be detected")
	}
	wrapped := fmt.Errorf("save symptom: %w", ValidationError("catalog.SaveSymptom", "name required"))
	if !IsValidation(wrapped) {
		t.Fatal("expected wrapped validation error to be detected")
	}
	if IsValidation(ServerError("repo.Login", "bad credentials")) {
		t.Fatal("server errors must not count as validation failures")
	}
	if IsValidation(nil) {
		t.Fatal("nil is not a validation failure")
	}
}

func TestParseDiagnosisDate(t *testing.T) {
	cases := []struct {
		value   string
		wantErr bool
	}{
		{value: "2025-11-04T10:30:00Z"},
		{value: "2025-11-04"},
		{value: "", wantErr: true},
		{value: "yesterday", wantErr: true},
	}
	for _, tc := range cases {
		_, err := ParseDiagnosisDate(tc.value)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDiagnosisDate(%q) error = %v, wantErr %v", tc.value, err, tc.wantErr)
		}
	}
}
