package models

import "time"

// DiagnosisCandidate is a disease returned by the remote scoring service for
// a submitted symptom set. Candidates are immutable once received and keep
// the service's own ranking; the client never re-sorts.
type DiagnosisCandidate struct {
	DiseaseID   int64   `json:"diseaseId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Confidence  float64 `json:"confidence"`
}

// SaveDiagnosisRequest is the payload persisted against a patient. Only the
// top-ranked candidate of a result may be saved.
type SaveDiagnosisRequest struct {
	DiseaseID  int64   `json:"diseaseId"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// SavedDiagnosisRecord is one row of a patient's diagnosis history.
type SavedDiagnosisRecord struct {
	ID      int64
	Date    time.Time
	Disease Disease
}

// ConfidenceBand is the qualitative rendering of a confidence percentage.
type ConfidenceBand string

const (
	BandLow    ConfidenceBand = "low"
	BandMedium ConfidenceBand = "medium"
	BandHigh   ConfidenceBand = "high"
)

// BandForConfidence maps a confidence percentage to its qualitative band:
// below 50 is low, 50 to 74 is medium, 75 and above is high.
func BandForConfidence(confidence float64) ConfidenceBand {
	switch {
	case confidence < 50:
		return BandLow
	case confidence < 75:
		return BandMedium
	default:
		return BandHigh
	}
}
