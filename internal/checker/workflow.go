package checker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mediguide/mediguide-client/internal/metrics"
	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/notify"
	"github.com/mediguide/mediguide-client/internal/session"
	"github.com/mediguide/mediguide-client/internal/utils"
)

// DiagnosisClient defines the remote scoring operations used by the workflow.
type DiagnosisClient interface {
	RunDiagnosis(ctx context.Context, symptomIDs []int64) ([]models.DiagnosisCandidate, error)
	SaveDiagnosis(ctx context.Context, patientID int64, req models.SaveDiagnosisRequest) error
}

// SessionView exposes the live session snapshot used for save gating.
type SessionView interface {
	Snapshot() session.Snapshot
}

// Phase is the workflow state. At most one network request is in flight at a
// time: Submitting and Saving block further triggers.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
	PhaseSaving     Phase = "saving"
	PhaseSaved      Phase = "saved"
	PhaseSaveFailed Phase = "save-failed"
)

// Workflow drives the diagnosis sequence. It submits the staged symptom set
// for scoring and holds the result. An authenticated patient may then
// persist the top candidate.
type Workflow struct {
	mu       sync.Mutex
	logger   *slog.Logger
	client   DiagnosisClient
	sessions SessionView
	notifier *notify.Center

	phase  Phase
	result []models.DiagnosisCandidate
	// seq orders submissions; a response carrying an older sequence than
	// the current one is stale and discarded.
	seq uint64
}

// NewWorkflow constructs an idle workflow.
func NewWorkflow(logger *slog.Logger, client DiagnosisClient, sessions SessionView, notifier *notify.Center) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewCenter()
	}
	return &Workflow{
		logger:   logger,
		client:   client,
		sessions: sessions,
		notifier: notifier,
		phase:    PhaseIdle,
	}
}

// Submit sends the staged symptom set for scoring. It rejects an empty
// selection and refuses to start while another request is outstanding; in
// neither case does a network call go out. A failed submission discards any
// prior result and leaves the workflow ready for a fresh attempt.
func (w *Workflow) Submit(ctx context.Context, selection *Selection) error {
	const op = "checker.Submit"

	w.mu.Lock()
	if w.phase == PhaseSubmitting || w.phase == PhaseSaving {
		w.mu.Unlock()
		return utils.ValidationError(op, "another request is still in flight")
	}
	if selection == nil || selection.Len() == 0 {
		w.mu.Unlock()
		return utils.ValidationError(op, "select at least one symptom first")
	}
	w.seq++
	seq := w.seq
	w.phase = PhaseSubmitting
	ids := selection.IDs()
	w.mu.Unlock()

	start := time.Now()
	candidates, err := w.client.RunDiagnosis(ctx, ids)
	duration := time.Since(start)

	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.seq {
		// The workflow was reset while this request was outstanding.
		w.logger.Debug("discarding stale diagnosis response", slog.Uint64("seq", seq))
		return nil
	}

	if err != nil {
		w.phase = PhaseFailed
		w.result = nil
		metrics.ObserveDiagnosis(duration, metrics.OutcomeError)
		w.logger.Error("diagnosis request failed", slog.Any("error", err))
		w.notifier.Error("Error obtaining diagnosis")
		return err
	}

	w.phase = PhaseSucceeded
	w.result = candidates
	metrics.ObserveDiagnosis(duration, metrics.OutcomeSuccess)
	w.logger.Debug("diagnosis succeeded",
		slog.Int("candidates", len(candidates)),
		slog.Duration("duration", duration))
	return nil
}

// Save persists the top-ranked candidate against the authenticated patient.
// It requires a non-empty result and a resolved patient id; the result list
// is never mutated, whatever the outcome.
func (w *Workflow) Save(ctx context.Context) error {
	const op = "checker.Save"

	w.mu.Lock()
	if w.phase == PhaseSubmitting || w.phase == PhaseSaving {
		w.mu.Unlock()
		return utils.ValidationError(op, "another request is still in flight")
	}
	if len(w.result) == 0 {
		w.mu.Unlock()
		return utils.ValidationError(op, "no diagnosis result to save")
	}
	snap := w.sessions.Snapshot()
	if !snap.LoggedIn || !snap.Principal.HasPatient() {
		w.mu.Unlock()
		return utils.ValidationError(op, "sign in to save a diagnosis")
	}
	top := w.result[0]
	patientID := snap.Principal.PatientID
	w.phase = PhaseSaving
	w.mu.Unlock()

	err := w.client.SaveDiagnosis(ctx, patientID, models.SaveDiagnosisRequest{
		DiseaseID:  top.DiseaseID,
		Score:      top.Score,
		Confidence: top.Confidence,
	})

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.phase = PhaseSaveFailed
		metrics.ObserveSave(metrics.OutcomeError)
		w.logger.Error("save diagnosis failed", slog.Int64("patient_id", patientID), slog.Any("error", err))
		w.notifier.Error("Error saving diagnosis")
		return err
	}

	w.phase = PhaseSaved
	metrics.ObserveSave(metrics.OutcomeSuccess)
	w.logger.Info("diagnosis saved", slog.Int64("patient_id", patientID), slog.Int64("disease_id", top.DiseaseID))
	w.notifier.Success("Diagnosis saved successfully!")
	return nil
}

// CanSave reports whether the save action is currently available: a
// non-empty result, a resolved patient, and no request in flight.
func (w *Workflow) CanSave() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase == PhaseSubmitting || w.phase == PhaseSaving {
		return false
	}
	if len(w.result) == 0 {
		return false
	}
	snap := w.sessions.Snapshot()
	return snap.LoggedIn && snap.Principal.HasPatient()
}

// Phase returns the current workflow state.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Result returns a copy of the current diagnosis result.
func (w *Workflow) Result() []models.DiagnosisCandidate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.DiagnosisCandidate(nil), w.result...)
}

// Reset returns the workflow to idle and invalidates any outstanding
// submission, whose response will be discarded on arrival.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	w.phase = PhaseIdle
	w.result = nil
}
