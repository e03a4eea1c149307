package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/mediguide/mediguide-client/internal/catalog"
	"github.com/mediguide/mediguide-client/internal/checker"
	"github.com/mediguide/mediguide-client/internal/metrics"
	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/nav"
	"github.com/mediguide/mediguide-client/internal/notify"
	"github.com/mediguide/mediguide-client/internal/session"
	"github.com/mediguide/mediguide-client/internal/utils"
)

// CoreClient defines the remote operations the facade orchestrates.
type CoreClient interface {
	catalog.BrowseClient
	catalog.AdminClient
	catalog.HistoryClient
	checker.DiagnosisClient

	Login(ctx context.Context, username, password string) (string, error)
	Signup(ctx context.Context, username, email, password string) error
	UserInfo(ctx context.Context) (models.Principal, error)
}

// CheckerService is the application facade: one object wiring the symptom
// selection, the diagnosis workflow, catalog access and the session together
// for the front end.
type CheckerService struct {
	logger    *slog.Logger
	client    CoreClient
	sessions  *session.Manager
	notifier  *notify.Center
	selection *checker.Selection
	workflow  *checker.Workflow
	browse    *catalog.Browse
	admin     *catalog.Admin
	history   *catalog.History
	latencies *utils.LatencyTracker
}

// NewCheckerService constructs the facade and its sub-components.
func NewCheckerService(logger *slog.Logger, client CoreClient, sessions *session.Manager, notifier *notify.Center) *CheckerService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewCenter()
	}
	return &CheckerService{
		logger:    logger,
		client:    client,
		sessions:  sessions,
		notifier:  notifier,
		selection: checker.NewSelection(),
		workflow:  checker.NewWorkflow(logger, client, sessions, notifier),
		browse:    catalog.NewBrowse(logger, client),
		admin:     catalog.NewAdmin(logger, client, notifier),
		history:   catalog.NewHistory(logger, client, sessions),
		latencies: utils.NewLatencyTracker(1024),
	}
}

// AddSymptom stages the symptom with the given id for diagnosis. The id is
// resolved against the catalog so the selection carries the display name.
func (s *CheckerService) AddSymptom(ctx context.Context, symptomID int64) error {
	const op = "services.AddSymptom"

	symptoms, err := s.browse.Symptoms(ctx)
	if err != nil {
		return err
	}
	for _, sym := range symptoms {
		if sym.SymptomID == symptomID {
			s.selection.SetPick(sym)
			if !s.selection.AddPick() {
				return utils.ValidationError(op, "symptom already selected")
			}
			return nil
		}
	}
	return utils.ValidationError(op, "unknown symptom id")
}

// RemoveSymptom drops a staged symptom. It reports false when the id was not
// staged.
func (s *CheckerService) RemoveSymptom(symptomID int64) bool {
	return s.selection.Remove(symptomID)
}

// Selected returns the staged symptom names in selection order.
func (s *CheckerService) Selected() []string {
	return s.selection.Names()
}

// ClearSelection empties the working set and resets the workflow, discarding
// any in-flight submission's eventual response.
func (s *CheckerService) ClearSelection() {
	s.selection.Clear()
	s.workflow.Reset()
}

// Diagnose submits the staged selection for scoring.
func (s *CheckerService) Diagnose(ctx context.Context) error {
	start := time.Now()
	err := s.workflow.Submit(ctx, s.selection)
	duration := time.Since(start)
	if err != nil {
		return err
	}

	s.latencies.Observe(duration)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("diagnosis latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}
	return nil
}

// Result returns the current diagnosis result.
func (s *CheckerService) Result() []models.DiagnosisCandidate {
	return s.workflow.Result()
}

// CanSave reports whether the save action is currently available.
func (s *CheckerService) CanSave() bool {
	return s.workflow.CanSave()
}

// SaveDiagnosis persists the top candidate for the authenticated patient.
func (s *CheckerService) SaveDiagnosis(ctx context.Context) error {
	return s.workflow.Save(ctx)
}

// Login authenticates the session and resolves the principal.
func (s *CheckerService) Login(ctx context.Context, username, password string) error {
	if err := s.sessions.Login(ctx, username, password); err != nil {
		metrics.ObserveLogin(metrics.OutcomeError)
		s.notifier.Error("Error logging in")
		return err
	}
	metrics.ObserveLogin(metrics.OutcomeSuccess)
	s.notifier.Success("Login successful!")
	return nil
}

// Signup registers a new account. The user still logs in separately.
func (s *CheckerService) Signup(ctx context.Context, username, email, password string) error {
	if err := s.client.Signup(ctx, username, email, password); err != nil {
		s.logger.Error("signup failed", slog.Any("error", err))
		s.notifier.Error("Error signing up")
		return err
	}
	s.notifier.Success("Signup successful!")
	return nil
}

// Logout discards the session. Save availability flips off with it.
func (s *CheckerService) Logout() {
	s.sessions.Logout()
}

// Snapshot returns the current session view.
func (s *CheckerService) Snapshot() session.Snapshot {
	return s.sessions.Snapshot()
}

// Menu returns the destinations reachable under the current session.
func (s *CheckerService) Menu() []nav.Destination {
	return nav.Destinations(s.sessions.Snapshot())
}

// Browse exposes catalog reads.
func (s *CheckerService) Browse() *catalog.Browse { return s.browse }

// Admin exposes catalog maintenance.
func (s *CheckerService) Admin() *catalog.Admin { return s.admin }

// History exposes the patient's saved diagnoses.
func (s *CheckerService) History() *catalog.History { return s.history }

// LatencyP95 returns the current p95 diagnosis latency.
func (s *CheckerService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
