package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/nav"
	"github.com/mediguide/mediguide-client/internal/notify"
	"github.com/mediguide/mediguide-client/internal/services"
	"github.com/mediguide/mediguide-client/internal/utils"
)

const disclaimer = "Results are informational only and do not replace professional medical advice."

// shell is the interactive front end. It reads one command per line and
// dispatches into the service facade, printing any pending notifications
// after each action.
type shell struct {
	logger   *slog.Logger
	service  *services.CheckerService
	notifier *notify.Center
	in       io.Reader
	out      io.Writer
}

func newShell(logger *slog.Logger, service *services.CheckerService, notifier *notify.Center, in io.Reader, out io.Writer) *shell {
	return &shell{logger: logger, service: service, notifier: notifier, in: in, out: out}
}

func (s *shell) run(ctx context.Context) {
	s.printf("mediguide symptom checker. Type 'help' for commands.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Fprint(s.out, "> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if strings.TrimSpace(line) == "quit" {
				return
			}
			s.dispatch(ctx, line)
			s.flushNotifications()
		}
	}
}

func (s *shell) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "help":
		s.printHelp()
	case "menu":
		for _, dest := range s.service.Menu() {
			s.printf("  %s", dest)
		}
	case "symptoms":
		s.listSymptoms(ctx)
	case "add":
		s.addSymptom(ctx, fields[1:])
	case "remove":
		s.removeSymptom(fields[1:])
	case "selected":
		names := s.service.Selected()
		if len(names) == 0 {
			s.printf("no symptoms selected")
			return
		}
		for i, name := range names {
			s.printf("  %d. %s", i+1, name)
		}
	case "clear":
		s.service.ClearSelection()
		s.printf("selection cleared")
	case "diagnose":
		s.diagnose(ctx)
	case "save":
		if err := s.service.SaveDiagnosis(ctx); err != nil {
			s.printf("save failed: %v", err)
		}
	case "diseases":
		s.listDiseases(ctx)
	case "disease":
		s.diseaseDetail(ctx, fields[1:])
	case "precautions":
		s.listPrecautions(ctx)
	case "login":
		if len(fields) != 3 {
			s.printf("usage: login <username> <password>")
			return
		}
		_ = s.service.Login(ctx, fields[1], fields[2])
	case "signup":
		if len(fields) != 4 {
			s.printf("usage: signup <username> <email> <password>")
			return
		}
		_ = s.service.Signup(ctx, fields[1], fields[2], fields[3])
	case "logout":
		s.service.Logout()
		s.printf("logged out")
	case "whoami":
		snap := s.service.Snapshot()
		if !snap.LoggedIn {
			s.printf("not logged in")
			return
		}
		s.printf("role=%s patientId=%d", snap.Principal.Role, snap.Principal.PatientID)
	case "history":
		s.history(ctx)
	case "admin":
		s.admin(ctx, fields[1:])
	default:
		s.printf("unknown command %q, type 'help'", fields[0])
	}
}

func (s *shell) printHelp() {
	s.printf(`commands:
  symptoms                 list available symptoms
  add <id>                 stage a symptom for diagnosis
  remove <id>              unstage a symptom
  selected                 show the staged symptoms
  clear                    empty the staged set
  diagnose                 submit the staged symptoms for scoring
  save                     store the top result (requires login)
  diseases                 list diseases
  disease <id>             show a disease with symptoms and precautions
  precautions              list precautions
  login <user> <pass>      sign in
  signup <user> <email> <pass>
  logout / whoami
  history                  list your saved diagnoses
  menu                     show reachable destinations
  admin ...                catalog maintenance (admin role)
  quit`)
}

func (s *shell) listSymptoms(ctx context.Context) {
	symptoms, err := s.service.Browse().Symptoms(ctx)
	if err != nil {
		s.printf("could not list symptoms: %v", err)
		return
	}
	for _, sym := range symptoms {
		s.printf("  %d. %s (severity %d)", sym.SymptomID, sym.Name, sym.Severity)
	}
}

func (s *shell) addSymptom(ctx context.Context, args []string) {
	id, ok := s.parseID(args, "usage: add <symptom id>")
	if !ok {
		return
	}
	if err := s.service.AddSymptom(ctx, id); err != nil {
		s.printf("%v", err)
		return
	}
	s.printf("added symptom %d", id)
}

func (s *shell) removeSymptom(args []string) {
	id, ok := s.parseID(args, "usage: remove <symptom id>")
	if !ok {
		return
	}
	if !s.service.RemoveSymptom(id) {
		s.printf("symptom %d is not selected", id)
		return
	}
	s.printf("removed symptom %d", id)
}

func (s *shell) diagnose(ctx context.Context) {
	if err := s.service.Diagnose(ctx); err != nil {
		s.printf("diagnosis failed: %v", err)
		return
	}
	result := s.service.Result()
	if len(result) == 0 {
		s.printf("no candidate diseases matched your symptoms")
		return
	}
	for i, c := range result {
		s.printf("  %d. %s (confidence %.0f%%, %s)", i+1, c.Name, c.Confidence, bandLabel(c.Confidence))
		if c.Description != "" {
			s.printf("     %s", c.Description)
		}
	}
	s.printf(disclaimer)
	if s.service.CanSave() {
		s.printf("type 'save' to store this diagnosis")
	} else {
		s.printf("(log in to save your diagnosis)")
	}
}

func (s *shell) listDiseases(ctx context.Context) {
	diseases, err := s.service.Browse().Diseases(ctx)
	if err != nil {
		s.printf("could not list diseases: %v", err)
		return
	}
	for _, d := range diseases {
		s.printf("  %d. %s", d.DiseaseID, d.Name)
	}
}

func (s *shell) diseaseDetail(ctx context.Context, args []string) {
	id, ok := s.parseID(args, "usage: disease <id>")
	if !ok {
		return
	}
	detail, err := s.service.Browse().Disease(ctx, id)
	if err != nil {
		s.printf("could not load disease %d: %v", id, err)
		return
	}
	s.printf("%s", detail.Name)
	if detail.Description != "" {
		s.printf("  %s", detail.Description)
	}
	if len(detail.Symptoms) > 0 {
		s.printf("  symptoms:")
		for _, sym := range detail.Symptoms {
			s.printf("    - %s (severity %d)", sym.Name, sym.Severity)
		}
	}
	if len(detail.Precautions) > 0 {
		s.printf("  precautions:")
		for _, p := range detail.Precautions {
			s.printf("    - %s", p.PrecautionText)
		}
	}
}

func (s *shell) listPrecautions(ctx context.Context) {
	precautions, err := s.service.Browse().Precautions(ctx)
	if err != nil {
		s.printf("could not list precautions: %v", err)
		return
	}
	for _, p := range precautions {
		s.printf("  %d. %s", p.PrecautionID, p.PrecautionText)
	}
}

func (s *shell) history(ctx context.Context) {
	records, err := s.service.History().List(ctx)
	if err != nil {
		s.printf("%v", err)
		return
	}
	if len(records) == 0 {
		s.printf("no saved diagnoses")
		return
	}
	for _, rec := range records {
		s.printf("  %s  %s", formatRecordDate(rec), rec.Disease.Name)
	}
}

// admin dispatches catalog maintenance. The gate is advisory; the server
// enforces the role on every call.
func (s *shell) admin(ctx context.Context, args []string) {
	if !nav.Allowed(s.service.Snapshot(), nav.DestAdminDiseases) {
		s.printf("admin commands require an admin session")
		return
	}
	if len(args) < 2 {
		s.printAdminHelp()
		return
	}

	switch args[0] + " " + args[1] {
	case "symptom add":
		// admin symptom add <severity> <name...>
		if len(args) < 4 {
			s.printf("usage: admin symptom add <severity> <name>")
			return
		}
		_ = s.service.Admin().SaveSymptom(ctx, 0, strings.Join(args[3:], " "), args[2])
	case "symptom update":
		// admin symptom update <id> <severity> <name...>
		if len(args) < 5 {
			s.printf("usage: admin symptom update <id> <severity> <name>")
			return
		}
		id, ok := s.parseID(args[2:3], "usage: admin symptom update <id> <severity> <name>")
		if !ok {
			return
		}
		_ = s.service.Admin().SaveSymptom(ctx, id, strings.Join(args[4:], " "), args[3])
	case "symptom delete":
		if id, ok := s.parseID(args[2:], "usage: admin symptom delete <id>"); ok {
			_ = s.service.Admin().DeleteSymptom(ctx, id)
		}
	case "disease add":
		// admin disease add <name>;<description>;<symptomIds>;<precautionIds>
		s.saveDisease(ctx, 0, strings.Join(args[2:], " "))
	case "disease update":
		if len(args) < 3 {
			s.printf("usage: admin disease update <id> <name>;<description>")
			return
		}
		id, ok := s.parseID(args[2:3], "usage: admin disease update <id> <name>;<description>")
		if !ok {
			return
		}
		s.saveDisease(ctx, id, strings.Join(args[3:], " "))
	case "disease delete":
		if id, ok := s.parseID(args[2:], "usage: admin disease delete <id>"); ok {
			_ = s.service.Admin().DeleteDisease(ctx, id)
		}
	case "precaution add":
		_ = s.service.Admin().SavePrecaution(ctx, 0, strings.Join(args[2:], " "))
	case "precaution update":
		if len(args) < 4 {
			s.printf("usage: admin precaution update <id> <text>")
			return
		}
		id, ok := s.parseID(args[2:3], "usage: admin precaution update <id> <text>")
		if !ok {
			return
		}
		_ = s.service.Admin().SavePrecaution(ctx, id, strings.Join(args[3:], " "))
	case "precaution delete":
		if id, ok := s.parseID(args[2:], "usage: admin precaution delete <id>"); ok {
			_ = s.service.Admin().DeletePrecaution(ctx, id)
		}
	default:
		s.printAdminHelp()
	}
}

func (s *shell) printAdminHelp() {
	s.printf(`admin commands:
  admin symptom add <severity> <name>
  admin symptom update <id> <severity> <name>
  admin symptom delete <id>
  admin disease add <name>;<description>;<symptomIds>;<precautionIds>
  admin disease update <id> <name>;<description>
  admin disease delete <id>
  admin precaution add <text>
  admin precaution update <id> <text>
  admin precaution delete <id>`)
}

// saveDisease parses the semicolon-separated disease form. Associated ids
// are comma-separated and only honored on create.
func (s *shell) saveDisease(ctx context.Context, diseaseID int64, form string) {
	parts := strings.Split(form, ";")
	name := strings.TrimSpace(parts[0])
	var description string
	if len(parts) > 1 {
		description = strings.TrimSpace(parts[1])
	}
	var symptomIDs, precautionIDs []int64
	if len(parts) > 2 {
		symptomIDs = parseIDList(parts[2])
	}
	if len(parts) > 3 {
		precautionIDs = parseIDList(parts[3])
	}
	_ = s.service.Admin().SaveDisease(ctx, diseaseID, name, description, symptomIDs, precautionIDs)
}

func (s *shell) parseID(args []string, usage string) (int64, bool) {
	if len(args) < 1 {
		s.printf("%s", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		s.printf("%s", usage)
		return 0, false
	}
	return id, true
}

func parseIDList(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *shell) flushNotifications() {
	for _, n := range s.notifier.Drain() {
		prefix := "ok"
		if n.Severity == notify.SeverityError {
			prefix = "error"
		}
		s.printf("[%s] %s", prefix, n.Message)
	}
}

func bandLabel(confidence float64) string {
	return string(models.BandForConfidence(confidence))
}

func formatRecordDate(rec models.SavedDiagnosisRecord) string {
	return utils.FormatDiagnosisDate(rec.Date)
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}
