package catalog

import (
	"context"
	"log/slog"

	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/session"
	"github.com/mediguide/mediguide-client/internal/utils"
)

// HistoryClient defines the saved-diagnosis listing operation.
type HistoryClient interface {
	PatientDiagnoses(ctx context.Context, patientID int64) ([]models.SavedDiagnosisRecord, error)
}

// SessionSource yields the session snapshot the listing is scoped to.
type SessionSource interface {
	Snapshot() session.Snapshot
}

// History lists the saved diagnoses of the authenticated patient.
type History struct {
	logger   *slog.Logger
	client   HistoryClient
	sessions SessionSource
}

func NewHistory(logger *slog.Logger, client HistoryClient, sessions SessionSource) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{logger: logger, client: client, sessions: sessions}
}

// List returns the current patient's saved diagnoses, newest ordering as
// delivered by the service. It requires a session with a resolved patient.
func (h *History) List(ctx context.Context) ([]models.SavedDiagnosisRecord, error) {
	const op = "catalog.History"

	snap := h.sessions.Snapshot()
	if !snap.LoggedIn || !snap.Principal.HasPatient() {
		return nil, utils.ValidationError(op, "sign in to view previous diagnoses")
	}

	records, err := h.client.PatientDiagnoses(ctx, snap.Principal.PatientID)
	if err != nil {
		h.logger.Error("list previous diagnoses failed",
			slog.Int64("patient_id", snap.Principal.PatientID), slog.Any("error", err))
		return nil, err
	}
	return records, nil
}
