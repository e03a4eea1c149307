package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/session"
	"github.com/mediguide/mediguide-client/internal/utils"
)

type historyClientStub struct {
	records []models.SavedDiagnosisRecord
	calls   int
	lastID  int64
}

func (s *historyClientStub) PatientDiagnoses(ctx context.Context, patientID int64) ([]models.SavedDiagnosisRecord, error) {
	s.calls++
	s.lastID = patientID
	return s.records, nil
}

type sessionSourceStub struct {
	snap session.Snapshot
}

func (s *sessionSourceStub) Snapshot() session.Snapshot { return s.snap }

func TestHistoryRequiresPatientSession(t *testing.T) {
	client := &historyClientStub{}
	history := NewHistory(nil, client, &sessionSourceStub{})

	if _, err := history.List(context.Background()); !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("an unauthenticated listing must never reach the network")
	}
}

func TestHistoryScopesToSessionPatient(t *testing.T) {
	client := &historyClientStub{records: []models.SavedDiagnosisRecord{
		{ID: 9, Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Disease: models.Disease{Name: "Flu"}},
	}}
	history := NewHistory(nil, client, &sessionSourceStub{snap: session.Snapshot{
		LoggedIn:  true,
		Principal: models.Principal{PatientID: 42, Role: models.RoleUser},
	}})

	records, err := history.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.lastID != 42 {
		t.Fatalf("listing must use the session patient id, got %d", client.lastID)
	}
	if len(records) != 1 || records[0].Disease.Name != "Flu" {
		t.Fatalf("unexpected records %+v", records)
	}
}
