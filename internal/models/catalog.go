package models

// Severity bounds accepted for a symptom. Values outside this range are
// rejected locally before any request is issued.
const (
	MinSeverity = 1
	MaxSeverity = 9
)

// Disease is a catalog entry as returned by the list endpoint.
type Disease struct {
	DiseaseID int64  `json:"diseaseId"`
	Name      string `json:"name"`
}

// DiseaseDetail is the extended view of a disease including its linked
// symptoms and precautions.
type DiseaseDetail struct {
	DiseaseID   int64        `json:"diseaseId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Symptoms    []Symptom    `json:"symptoms"`
	Precautions []Precaution `json:"precautions"`
}

// Symptom is a catalog symptom. Severity is domain-constrained to 1-9.
type Symptom struct {
	SymptomID int64  `json:"symptomId"`
	Name      string `json:"name"`
	Severity  int    `json:"severity"`
}

// Precaution is a reusable care recommendation attachable to diseases.
type Precaution struct {
	PrecautionID   int64  `json:"precautionId"`
	PrecautionText string `json:"precautionText"`
}

// CreateDiseaseRequest is the payload for creating a disease, linking it to
// existing symptoms and precautions by identifier.
type CreateDiseaseRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	SymptomIDs    []int64 `json:"symptomIds"`
	PrecautionIDs []int64 `json:"precautionIds"`
}

// UpdateDiseaseRequest carries the mutable disease fields. Symptom and
// precaution links are not editable through the update endpoint.
type UpdateDiseaseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
