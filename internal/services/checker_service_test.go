package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/nav"
	"github.com/mediguide/mediguide-client/internal/notify"
	"github.com/mediguide/mediguide-client/internal/session"
	"github.com/mediguide/mediguide-client/internal/utils"
)

type coreStub struct {
	symptoms   []models.Symptom
	candidates []models.DiagnosisCandidate
	runErr     error

	lastRunIDs   []int64
	saveCalls    int
	savedPatient int64
	savedReq     models.SaveDiagnosisRequest

	token     string
	loginErr  error
	principal models.Principal
}

func (c *coreStub) ListDiseases(ctx context.Context) ([]models.Disease, error) { return nil, nil }

func (c *coreStub) DiseaseDetail(ctx context.Context, diseaseID int64) (models.DiseaseDetail, error) {
	return models.DiseaseDetail{}, nil
}

func (c *coreStub) ListSymptoms(ctx context.Context) ([]models.Symptom, error) {
	return c.symptoms, nil
}

func (c *coreStub) ListPrecautions(ctx context.Context) ([]models.Precaution, error) {
	return nil, nil
}

func (c *coreStub) CreateDisease(ctx context.Context, req models.CreateDiseaseRequest) error {
	return nil
}

func (c *coreStub) UpdateDisease(ctx context.Context, diseaseID int64, req models.UpdateDiseaseRequest) error {
	return nil
}

func (c *coreStub) DeleteDisease(ctx context.Context, diseaseID int64) error { return nil }

func (c *coreStub) CreateSymptom(ctx context.Context, name string, severity int) error { return nil }

func (c *coreStub) UpdateSymptom(ctx context.Context, symptom models.Symptom) error { return nil }

func (c *coreStub) DeleteSymptom(ctx context.Context, symptomID int64) error { return nil }

func (c *coreStub) CreatePrecaution(ctx context.Context, text string) error { return nil }

func (c *coreStub) UpdatePrecaution(ctx context.Context, precaution models.Precaution) error {
	return nil
}

func (c *coreStub) DeletePrecaution(ctx context.Context, precautionID int64) error { return nil }

func (c *coreStub) PatientDiagnoses(ctx context.Context, patientID int64) ([]models.SavedDiagnosisRecord, error) {
	return nil, nil
}

func (c *coreStub) RunDiagnosis(ctx context.Context, symptomIDs []int64) ([]models.DiagnosisCandidate, error) {
	c.lastRunIDs = append([]int64(nil), symptomIDs...)
	if c.runErr != nil {
		return nil, c.runErr
	}
	return c.candidates, nil
}

func (c *coreStub) SaveDiagnosis(ctx context.Context, patientID int64, req models.SaveDiagnosisRequest) error {
	c.saveCalls++
	c.savedPatient = patientID
	c.savedReq = req
	return nil
}

func (c *coreStub) Login(ctx context.Context, username, password string) (string, error) {
	if c.loginErr != nil {
		return "", c.loginErr
	}
	return c.token, nil
}

func (c *coreStub) Signup(ctx context.Context, username, email, password string) error { return nil }

func (c *coreStub) UserInfo(ctx context.Context) (models.Principal, error) {
	return c.principal, nil
}

func newService(client *coreStub) (*CheckerService, *notify.Center) {
	manager := session.NewManager(nil)
	manager.Bind(client)
	center := notify.NewCenter()
	return NewCheckerService(nil, client, manager, center), center
}

func checkerStub() *coreStub {
	return &coreStub{
		symptoms: []models.Symptom{
			{SymptomID: 3, Name: "headache", Severity: 4},
			{SymptomID: 7, Name: "fever", Severity: 6},
		},
		candidates: []models.DiagnosisCandidate{
			{DiseaseID: 1, Name: "Flu", Score: 0.8, Confidence: 82},
		},
		token:     "tok-abc",
		principal: models.Principal{PatientID: 42, Role: models.RoleUser},
	}
}

func TestUnauthenticatedDiagnosisOffersNoSave(t *testing.T) {
	client := checkerStub()
	svc, _ := newService(client)
	ctx := context.Background()

	if err := svc.AddSymptom(ctx, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddSymptom(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Selected(); len(got) != 2 || got[0] != "headache" || got[1] != "fever" {
		t.Fatalf("unexpected selection %v", got)
	}

	if err := svc.Diagnose(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.lastRunIDs) != 2 || client.lastRunIDs[0] != 3 || client.lastRunIDs[1] != 7 {
		t.Fatalf("unexpected submitted ids %v", client.lastRunIDs)
	}

	result := svc.Result()
	if len(result) != 1 || result[0].Name != "Flu" {
		t.Fatalf("unexpected result %+v", result)
	}
	if band := models.BandForConfidence(result[0].Confidence); band != models.BandHigh {
		t.Fatalf("confidence 82 must band high, got %s", band)
	}
	if svc.CanSave() {
		t.Fatal("save must be unavailable without a session")
	}
}

func TestAuthenticatedSaveFiresExactPayload(t *testing.T) {
	client := checkerStub()
	svc, center := newService(client)
	ctx := context.Background()

	if err := svc.Login(ctx, "ana", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	center.Drain()

	if err := svc.AddSymptom(ctx, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddSymptom(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Diagnose(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.CanSave() {
		t.Fatal("save must be available for an authenticated patient with a result")
	}

	if err := svc.SaveDiagnosis(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.saveCalls != 1 || client.savedPatient != 42 {
		t.Fatalf("expected one save for patient 42, got %d for %d", client.saveCalls, client.savedPatient)
	}
	want := models.SaveDiagnosisRequest{DiseaseID: 1, Score: 0.8, Confidence: 82}
	if client.savedReq != want {
		t.Fatalf("unexpected save payload %+v", client.savedReq)
	}
	if len(svc.Result()) != 1 {
		t.Fatal("saving must leave the result list unchanged")
	}

	drained := center.Drain()
	if len(drained) != 1 || drained[0].Message != "Diagnosis saved successfully!" {
		t.Fatalf("unexpected notifications %+v", drained)
	}
}

func TestFailedLoginKeepsBaseDestinations(t *testing.T) {
	client := checkerStub()
	client.loginErr = errors.New("bad credentials")
	svc, center := newService(client)

	if err := svc.Login(context.Background(), "ana", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	if svc.Snapshot().LoggedIn {
		t.Fatal("failed login must leave the session unauthenticated")
	}

	want := []nav.Destination{nav.DestSymptomChecker, nav.DestSearchInfo, nav.DestLoginSignup}
	if got := svc.Menu(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Menu() = %v, want %v", got, want)
	}

	drained := center.Drain()
	if len(drained) != 1 || drained[0].Severity != notify.SeverityError {
		t.Fatalf("expected one error notification, got %+v", drained)
	}
}

func TestAddSymptomValidation(t *testing.T) {
	client := checkerStub()
	svc, _ := newService(client)
	ctx := context.Background()

	if err := svc.AddSymptom(ctx, 99); !utils.IsValidation(err) {
		t.Fatalf("unknown id must be rejected, got %v", err)
	}
	if err := svc.AddSymptom(ctx, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddSymptom(ctx, 3); !utils.IsValidation(err) {
		t.Fatalf("duplicate id must be rejected, got %v", err)
	}
	if got := svc.Selected(); len(got) != 1 {
		t.Fatalf("unexpected selection %v", got)
	}
}

func TestLogoutDisablesSave(t *testing.T) {
	client := checkerStub()
	svc, _ := newService(client)
	ctx := context.Background()

	if err := svc.Login(ctx, "ana", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddSymptom(ctx, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Diagnose(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.CanSave() {
		t.Fatal("save must be available before logout")
	}

	svc.Logout()
	if svc.CanSave() {
		t.Fatal("logout must disable the save action immediately")
	}
}
