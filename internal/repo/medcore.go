package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mediguide/mediguide-client/internal/cache"
	"github.com/mediguide/mediguide-client/internal/models"
	"github.com/mediguide/mediguide-client/internal/utils"
)

// TokenSource supplies the most recently stored bearer token. An empty
// string means no session is held and the request goes out without the
// Authorization header; the server is responsible for rejecting it.
type TokenSource interface {
	Token() string
}

// Cache keys for catalog lists shared across screens.
const (
	cacheKeyDiseases = "catalog:diseases"
	cacheKeySymptoms = "catalog:symptoms"
)

// MedCoreClient wraps the remote disease/symptom/precaution/diagnosis APIs.
type MedCoreClient struct {
	baseURL          string
	httpClient       *http.Client
	tokens           TokenSource
	cache            cache.Provider
	catalogTTL       time.Duration
	attachAuthOnSave bool
}

// NewMedCoreClient constructs a client targeting the configured service.
func NewMedCoreClient(baseURL string, timeout time.Duration, tokens TokenSource, cacheProvider cache.Provider, catalogTTL time.Duration, attachAuthOnSave bool) *MedCoreClient {
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &MedCoreClient{
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpClient:       &http.Client{Timeout: timeout},
		tokens:           tokens,
		cache:            cacheProvider,
		catalogTTL:       catalogTTL,
		attachAuthOnSave: attachAuthOnSave,
	}
}

// ListDiseases returns the disease catalog, served from cache when fresh.
func (c *MedCoreClient) ListDiseases(ctx context.Context) ([]models.Disease, error) {
	if data, err := c.cache.Get(ctx, cacheKeyDiseases); err == nil {
		var diseases []models.Disease
		if err := json.Unmarshal(data, &diseases); err == nil {
			return diseases, nil
		}
	}

	var diseases []models.Disease
	if err := c.doJSON(ctx, "repo.ListDiseases", http.MethodGet, "/diseases", nil, nil, &diseases, false); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(diseases); err == nil {
		_ = c.cache.Set(ctx, cacheKeyDiseases, data, c.catalogTTL)
	}
	return diseases, nil
}

// DiseaseDetail returns the extended view of one disease.
func (c *MedCoreClient) DiseaseDetail(ctx context.Context, diseaseID int64) (models.DiseaseDetail, error) {
	var detail models.DiseaseDetail
	endpoint := fmt.Sprintf("/diseases/%d/extended", diseaseID)
	if err := c.doJSON(ctx, "repo.DiseaseDetail", http.MethodGet, endpoint, nil, nil, &detail, false); err != nil {
		return models.DiseaseDetail{}, err
	}
	return detail, nil
}

// ListSymptoms returns the symptom catalog, served from cache when fresh.
func (c *MedCoreClient) ListSymptoms(ctx context.Context) ([]models.Symptom, error) {
	if data, err := c.cache.Get(ctx, cacheKeySymptoms); err == nil {
		var symptoms []models.Symptom
		if err := json.Unmarshal(data, &symptoms); err == nil {
			return symptoms, nil
		}
	}

	var symptoms []models.Symptom
	if err := c.doJSON(ctx, "repo.ListSymptoms", http.MethodGet, "/symptoms", nil, nil, &symptoms, false); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(symptoms); err == nil {
		_ = c.cache.Set(ctx, cacheKeySymptoms, data, c.catalogTTL)
	}
	return symptoms, nil
}

// ListPrecautions returns the precaution catalog. Requires a session.
func (c *MedCoreClient) ListPrecautions(ctx context.Context) ([]models.Precaution, error) {
	var precautions []models.Precaution
	if err := c.doJSON(ctx, "repo.ListPrecautions", http.MethodGet, "/precautions", nil, nil, &precautions, true); err != nil {
		return nil, err
	}
	return precautions, nil
}

// CreateDisease registers a new disease with its symptom and precaution links.
func (c *MedCoreClient) CreateDisease(ctx context.Context, req models.CreateDiseaseRequest) error {
	defer c.invalidate(ctx, cacheKeyDiseases)
	return c.doJSON(ctx, "repo.CreateDisease", http.MethodPost, "/diseases", nil, req, nil, true)
}

// UpdateDisease updates the mutable fields of an existing disease.
func (c *MedCoreClient) UpdateDisease(ctx context.Context, diseaseID int64, req models.UpdateDiseaseRequest) error {
	defer c.invalidate(ctx, cacheKeyDiseases)
	endpoint := "/diseases/" + strconv.FormatInt(diseaseID, 10)
	return c.doJSON(ctx, "repo.UpdateDisease", http.MethodPut, endpoint, nil, req, nil, true)
}

// DeleteDisease removes a disease.
func (c *MedCoreClient) DeleteDisease(ctx context.Context, diseaseID int64) error {
	defer c.invalidate(ctx, cacheKeyDiseases)
	endpoint := "/diseases/" + strconv.FormatInt(diseaseID, 10)
	return c.doJSON(ctx, "repo.DeleteDisease", http.MethodDelete, endpoint, nil, nil, nil, true)
}

// CreateSymptom registers a new symptom.
func (c *MedCoreClient) CreateSymptom(ctx context.Context, name string, severity int) error {
	defer c.invalidate(ctx, cacheKeySymptoms)
	payload := map[string]any{"name": name, "severity": severity}
	return c.doJSON(ctx, "repo.CreateSymptom", http.MethodPost, "/symptoms", nil, payload, nil, true)
}

// UpdateSymptom updates an existing symptom.
func (c *MedCoreClient) UpdateSymptom(ctx context.Context, symptom models.Symptom) error {
	defer c.invalidate(ctx, cacheKeySymptoms)
	endpoint := "/symptoms/" + strconv.FormatInt(symptom.SymptomID, 10)
	return c.doJSON(ctx, "repo.UpdateSymptom", http.MethodPut, endpoint, nil, symptom, nil, true)
}

// DeleteSymptom removes a symptom.
func (c *MedCoreClient) DeleteSymptom(ctx context.Context, symptomID int64) error {
	defer c.invalidate(ctx, cacheKeySymptoms)
	endpoint := "/symptoms/" + strconv.FormatInt(symptomID, 10)
	return c.doJSON(ctx, "repo.DeleteSymptom", http.MethodDelete, endpoint, nil, nil, nil, true)
}

// CreatePrecaution registers a new precaution.
func (c *MedCoreClient) CreatePrecaution(ctx context.Context, text string) error {
	payload := map[string]any{"precautionText": text}
	return c.doJSON(ctx, "repo.CreatePrecaution", http.MethodPost, "/precautions", nil, payload, nil, true)
}

// UpdatePrecaution updates an existing precaution.
func (c *MedCoreClient) UpdatePrecaution(ctx context.Context, precaution models.Precaution) error {
	endpoint := "/precautions/" + strconv.FormatInt(precaution.PrecautionID, 10)
	return c.doJSON(ctx, "repo.UpdatePrecaution", http.MethodPut, endpoint, nil, precaution, nil, true)
}

// DeletePrecaution removes a precaution.
func (c *MedCoreClient) DeletePrecaution(ctx context.Context, precautionID int64) error {
	endpoint := "/precautions/" + strconv.FormatInt(precautionID, 10)
	return c.doJSON(ctx, "repo.DeletePrecaution", http.MethodDelete, endpoint, nil, nil, nil, true)
}

// Login exchanges credentials for a bearer token. The service responds with
// the raw token string in the body.
func (c *MedCoreClient) Login(ctx context.Context, username, password string) (string, error) {
	const op = "repo.Login"
	payload := map[string]string{"username": username, "password": password}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolvePath("/auth/login"), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", utils.TransportError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", utils.TransportError(op, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", utils.ServerError(op, serverMessage(resp.Status, data))
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", utils.ServerError(op, "service returned an empty token")
	}
	return token, nil
}

// Signup registers a new account. The caller logs in separately afterwards.
func (c *MedCoreClient) Signup(ctx context.Context, username, email, password string) error {
	payload := map[string]string{"username": username, "email": email, "password": password}
	return c.doJSON(ctx, "repo.Signup", http.MethodPost, "/auth/signup", nil, payload, nil, false)
}

// UserInfo resolves the principal behind the current token.
func (c *MedCoreClient) UserInfo(ctx context.Context) (models.Principal, error) {
	var wire struct {
		PatientID int64  `json:"patientId"`
		Role      string `json:"role"`
	}
	if err := c.doJSON(ctx, "repo.UserInfo", http.MethodGet, "/auth/userinfo", nil, nil, &wire, true); err != nil {
		return models.Anonymous(), err
	}
	return models.Principal{PatientID: wire.PatientID, Role: models.ParseRole(wire.Role)}, nil
}

// PatientDiagnoses returns the saved diagnosis history for a patient.
func (c *MedCoreClient) PatientDiagnoses(ctx context.Context, patientID int64) ([]models.SavedDiagnosisRecord, error) {
	var wire []struct {
		ID      int64  `json:"id"`
		Date    string `json:"date"`
		Disease struct {
			DiseaseID int64  `json:"diseaseId"`
			Name      string `json:"name"`
		} `json:"disease"`
	}
	endpoint := fmt.Sprintf("/patients/%d/diagnoses", patientID)
	if err := c.doJSON(ctx, "repo.PatientDiagnoses", http.MethodGet, endpoint, nil, nil, &wire, true); err != nil {
		return nil, err
	}

	records := make([]models.SavedDiagnosisRecord, 0, len(wire))
	for _, row := range wire {
		// Records with a missing or malformed date still render, as
		// "Unknown date".
		date, _ := utils.ParseDiagnosisDate(row.Date)
		records = append(records, models.SavedDiagnosisRecord{
			ID:   row.ID,
			Date: date,
			Disease: models.Disease{
				DiseaseID: row.Disease.DiseaseID,
				Name:      row.Disease.Name,
			},
		})
	}
	return records, nil
}

// RunDiagnosis submits the ordered symptom set for scoring. The service may
// respond with a single candidate object or a list; both are normalized to a
// list so downstream consumers see one shape.
func (c *MedCoreClient) RunDiagnosis(ctx context.Context, symptomIDs []int64) ([]models.DiagnosisCandidate, error) {
	payload := map[string]any{"symptomIds": symptomIDs}
	var raw json.RawMessage
	if err := c.doJSON(ctx, "repo.RunDiagnosis", http.MethodPost, "/diagnoses", nil, payload, &raw, false); err != nil {
		return nil, err
	}
	return normalizeCandidates(raw)
}

// SaveDiagnosis persists a candidate against the patient identified by the
// query parameter. The bearer header is only attached when configured; the
// deployed endpoint trusts the patientId parameter alone.
func (c *MedCoreClient) SaveDiagnosis(ctx context.Context, patientID int64, req models.SaveDiagnosisRequest) error {
	query := url.Values{"patientId": []string{strconv.FormatInt(patientID, 10)}}
	return c.doJSON(ctx, "repo.SaveDiagnosis", http.MethodPost, "/diagnoses/save", query, req, nil, c.attachAuthOnSave)
}

func normalizeCandidates(raw json.RawMessage) ([]models.DiagnosisCandidate, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.DiagnosisCandidate{}, nil
	}

	if trimmed[0] == '[' {
		var candidates []models.DiagnosisCandidate
		if err := json.Unmarshal(trimmed, &candidates); err != nil {
			return nil, fmt.Errorf("decode candidate list: %w", err)
		}
		if candidates == nil {
			candidates = []models.DiagnosisCandidate{}
		}
		return candidates, nil
	}

	var single models.DiagnosisCandidate
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("decode candidate: %w", err)
	}
	return []models.DiagnosisCandidate{single}, nil
}

func (c *MedCoreClient) invalidate(ctx context.Context, key string) {
	_ = c.cache.Del(ctx, key)
}

func (c *MedCoreClient) resolvePath(p string) string {
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *MedCoreClient) doJSON(ctx context.Context, op, method, endpoint string, query url.Values, payload any, out any, authed bool) error {
	if c.baseURL == "" {
		return fmt.Errorf("service base URL not configured")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolvePath(endpoint), body)
	if err != nil {
		return err
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return utils.TransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return utils.ServerError(op, serverMessage(resp.Status, snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func serverMessage(status string, body []byte) string {
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return "service returned " + status
	}
	return fmt.Sprintf("service returned %s: %s", status, detail)
}
