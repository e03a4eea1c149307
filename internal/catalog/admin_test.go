package catalog

import (
	"context"
	"testing"

	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/notify"
	"github.com/mediguide/mediguide-client/internal/utils"
)

type adminClientStub struct {
	calls int

	createdName     string
	createdSeverity int
	updatedSymptom  models.Symptom

	createdDisease models.CreateDiseaseRequest
	updatedDisease models.UpdateDiseaseRequest
	updatedID      int64

	createdPrecaution string
	updatedPrecaution models.Precaution
	deletedID         int64
}

func (s *adminClientStub) CreateDisease(ctx context.Context, req models.CreateDiseaseRequest) error {
	s.calls++
	s.createdDisease = req
	return nil
}

func (s *adminClientStub) UpdateDisease(ctx context.Context, diseaseID int64, req models.UpdateDiseaseRequest) error {
	s.calls++
	s.updatedID = diseaseID
	s.updatedDisease = req
	return nil
}

func (s *adminClientStub) DeleteDisease(ctx context.Context, diseaseID int64) error {
	s.calls++
	s.deletedID = diseaseID
	return nil
}

func (s *adminClientStub) CreateSymptom(ctx context.Context, name string, severity int) error {
	s.calls++
	s.createdName = name
	s.createdSeverity = severity
	return nil
}

func (s *adminClientStub) UpdateSymptom(ctx context.Context, symptom models.Symptom) error {
	s.calls++
	s.updatedSymptom = symptom
	return nil
}

func (s *adminClientStub) DeleteSymptom(ctx context.Context, symptomID int64) error {
	s.calls++
	s.deletedID = symptomID
	return nil
}

func (s *adminClientStub) CreatePrecaution(ctx context.Context, text string) error {
	s.calls++
	s.createdPrecaution = text
	return nil
}

func (s *adminClientStub) UpdatePrecaution(ctx context.Context, precaution models.Precaution) error {
	s.calls++
	s.updatedPrecaution = precaution
	return nil
}

func (s *adminClientStub) DeletePrecaution(ctx context.Context, precautionID int64) error {
	s.calls++
	s.deletedID = precautionID
	return nil
}

func TestSaveSymptomSeverityValidation(t *testing.T) {
	tests := []struct {
		severity string
		valid    bool
	}{
		{"1", true},
		{"9", true},
		{"5", true},
		{"0", false},
		{"10", false},
		{"abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("severity "+tt.severity, func(t *testing.T) {
			client := &adminClientStub{}
			center := notify.NewCenter()
			admin := NewAdmin(nil, client, center)

			err := admin.SaveSymptom(context.Background(), 0, "headache", tt.severity)
			if tt.valid {
				if err != nil {
					t.Fatalf("severity %q must be accepted, got %v", tt.severity, err)
				}
				if client.calls != 1 {
					t.Fatal("a valid symptom must reach the network")
				}
				return
			}

			if !utils.IsValidation(err) {
				t.Fatalf("severity %q must be rejected locally, got %v", tt.severity, err)
			}
			if client.calls != 0 {
				t.Fatal("a rejected form must never issue the request")
			}
			drained := center.Drain()
			if len(drained) != 1 || drained[0].Message != "Severity must be a number between 1 and 9" {
				t.Fatalf("unexpected notifications %+v", drained)
			}
		})
	}
}

func TestSaveSymptomRequiresName(t *testing.T) {
	client := &adminClientStub{}
	admin := NewAdmin(nil, client, notify.NewCenter())

	if err := admin.SaveSymptom(context.Background(), 0, "  ", "5"); !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("a rejected form must never issue the request")
	}
}

func TestSaveSymptomRoutesCreateVersusUpdate(t *testing.T) {
	client := &adminClientStub{}
	admin := NewAdmin(nil, client, notify.NewCenter())

	if err := admin.SaveSymptom(context.Background(), 0, "headache", "5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.createdName != "headache" || client.createdSeverity != 5 {
		t.Fatalf("unexpected create call: %q severity %d", client.createdName, client.createdSeverity)
	}

	if err := admin.SaveSymptom(context.Background(), 3, "migraine", "7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.Symptom{SymptomID: 3, Name: "migraine", Severity: 7}
	if client.updatedSymptom != want {
		t.Fatalf("unexpected update payload %+v", client.updatedSymptom)
	}
}

func TestSaveDiseaseShapesDifferByOperation(t *testing.T) {
	client := &adminClientStub{}
	admin := NewAdmin(nil, client, notify.NewCenter())

	err := admin.SaveDisease(context.Background(), 0, "Flu", "Viral infection", []int64{3, 7}, []int64{2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created := client.createdDisease
	if created.Name != "Flu" || len(created.SymptomIDs) != 2 || len(created.PrecautionIDs) != 1 {
		t.Fatalf("create must carry associations, got %+v", created)
	}

	err = admin.SaveDisease(context.Background(), 1, "Influenza", "Updated text", []int64{3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.updatedID != 1 {
		t.Fatalf("unexpected update target %d", client.updatedID)
	}
	if client.updatedDisease.Name != "Influenza" || client.updatedDisease.Description != "Updated text" {
		t.Fatalf("unexpected update payload %+v", client.updatedDisease)
	}
}

func TestSavePrecautionRequiresText(t *testing.T) {
	client := &adminClientStub{}
	admin := NewAdmin(nil, client, notify.NewCenter())

	if err := admin.SavePrecaution(context.Background(), 0, ""); !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("a rejected form must never issue the request")
	}

	if err := admin.SavePrecaution(context.Background(), 0, "Drink fluids"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.createdPrecaution != "Drink fluids" {
		t.Fatalf("unexpected create payload %q", client.createdPrecaution)
	}
}
