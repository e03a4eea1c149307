package catalog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/notify"
	"github.com/mediguide/mediguide-client/internal/utils"
)

// AdminClient defines the catalog mutation operations of the remote API.
type AdminClient interface {
	CreateDisease(ctx context.Context, req models.CreateDiseaseRequest) error
	UpdateDisease(ctx context.Context, diseaseID int64, req models.UpdateDiseaseRequest) error
	DeleteDisease(ctx context.Context, diseaseID int64) error
	CreateSymptom(ctx context.Context, name string, severity int) error
	UpdateSymptom(ctx context.Context, symptom models.Symptom) error
	DeleteSymptom(ctx context.Context, symptomID int64) error
	CreatePrecaution(ctx context.Context, text string) error
	UpdatePrecaution(ctx context.Context, precaution models.Precaution) error
	DeletePrecaution(ctx context.Context, precautionID int64) error
}

// Admin maintains the catalog. Form input is validated locally before any
// request goes out; validation failures surface as error notifications.
type Admin struct {
	logger   *slog.Logger
	client   AdminClient
	notifier *notify.Center
}

func NewAdmin(logger *slog.Logger, client AdminClient, notifier *notify.Center) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewCenter()
	}
	return &Admin{logger: logger, client: client, notifier: notifier}
}

// SaveSymptom creates the symptom when symptomID is zero and updates it
// otherwise. Severity arrives as raw form input and must be an integer in
// the domain range.
func (a *Admin) SaveSymptom(ctx context.Context, symptomID int64, name, severity string) error {
	const op = "catalog.SaveSymptom"

	if strings.TrimSpace(name) == "" {
		return a.reject(op, "Name is required")
	}
	value, err := strconv.Atoi(strings.TrimSpace(severity))
	if err != nil || value < models.MinSeverity || value > models.MaxSeverity {
		return a.reject(op, "Severity must be a number between 1 and 9")
	}

	if symptomID == 0 {
		err = a.client.CreateSymptom(ctx, name, value)
	} else {
		err = a.client.UpdateSymptom(ctx, models.Symptom{SymptomID: symptomID, Name: name, Severity: value})
	}
	if err != nil {
		a.logger.Error("save symptom failed", slog.Int64("symptom_id", symptomID), slog.Any("error", err))
		a.notifier.Error("Error saving symptom")
		return err
	}
	a.notifier.Success("Symptom saved successfully!")
	return nil
}

// SaveDisease creates the disease when diseaseID is zero and updates it
// otherwise. Associated symptom and precaution ids are only part of the
// create payload; updates carry name and description alone.
func (a *Admin) SaveDisease(ctx context.Context, diseaseID int64, name, description string, symptomIDs, precautionIDs []int64) error {
	const op = "catalog.SaveDisease"

	if strings.TrimSpace(name) == "" {
		return a.reject(op, "Name is required")
	}

	var err error
	if diseaseID == 0 {
		err = a.client.CreateDisease(ctx, models.CreateDiseaseRequest{
			Name:          name,
			Description:   description,
			SymptomIDs:    symptomIDs,
			PrecautionIDs: precautionIDs,
		})
	} else {
		err = a.client.UpdateDisease(ctx, diseaseID, models.UpdateDiseaseRequest{
			Name:        name,
			Description: description,
		})
	}
	if err != nil {
		a.logger.Error("save disease failed", slog.Int64("disease_id", diseaseID), slog.Any("error", err))
		a.notifier.Error("Error saving disease")
		return err
	}
	a.notifier.Success("Disease saved successfully!")
	return nil
}

// SavePrecaution creates the precaution when precautionID is zero and
// updates it otherwise.
func (a *Admin) SavePrecaution(ctx context.Context, precautionID int64, text string) error {
	const op = "catalog.SavePrecaution"

	if strings.TrimSpace(text) == "" {
		return a.reject(op, "Precaution text is required")
	}

	var err error
	if precautionID == 0 {
		err = a.client.CreatePrecaution(ctx, text)
	} else {
		err = a.client.UpdatePrecaution(ctx, models.Precaution{PrecautionID: precautionID, PrecautionText: text})
	}
	if err != nil {
		a.logger.Error("save precaution failed", slog.Int64("precaution_id", precautionID), slog.Any("error", err))
		a.notifier.Error("Error saving precaution")
		return err
	}
	a.notifier.Success("Precaution saved successfully!")
	return nil
}

// DeleteDisease removes a disease from the catalog.
func (a *Admin) DeleteDisease(ctx context.Context, diseaseID int64) error {
	if err := a.client.DeleteDisease(ctx, diseaseID); err != nil {
		a.logger.Error("delete disease failed", slog.Int64("disease_id", diseaseID), slog.Any("error", err))
		a.notifier.Error("Error deleting disease")
		return err
	}
	a.notifier.Success("Disease deleted successfully!")
	return nil
}

// DeleteSymptom removes a symptom from the catalog.
func (a *Admin) DeleteSymptom(ctx context.Context, symptomID int64) error {
	if err := a.client.DeleteSymptom(ctx, symptomID); err != nil {
		a.logger.Error("delete symptom failed", slog.Int64("symptom_id", symptomID), slog.Any("error", err))
		a.notifier.Error("Error deleting symptom")
		return err
	}
	a.notifier.Success("Symptom deleted successfully!")
	return nil
}

// DeletePrecaution removes a precaution from the catalog.
func (a *Admin) DeletePrecaution(ctx context.Context, precautionID int64) error {
	if err := a.client.DeletePrecaution(ctx, precautionID); err != nil {
		a.logger.Error("delete precaution failed", slog.Int64("precaution_id", precautionID), slog.Any("error", err))
		a.notifier.Error("Error deleting precaution")
		return err
	}
	a.notifier.Success("Precaution deleted successfully!")
	return nil
}

func (a *Admin) reject(op, msg string) error {
	a.notifier.Error(msg)
	return utils.ValidationError(op, msg)
}
