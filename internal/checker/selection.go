package checker

import "github.com/mediguide/mediguide-client/internal/models"

// Selection is the ordered working set of symptoms staged for diagnosis.
// Insertion order is selection order; identifier and name lists stay
// index-aligned. Duplicate identifiers are rejected. Purely in-memory.
type Selection struct {
	pick  *models.Symptom
	ids   []int64
	names []string
}

// NewSelection returns an empty working set.
func NewSelection() *Selection {
	return &Selection{}
}

// SetPick stages a transient candidate, replacing any previous pick.
func (s *Selection) SetPick(symptom models.Symptom) {
	s.pick = &symptom
}

// Pick returns the transient candidate, if any.
func (s *Selection) Pick() (models.Symptom, bool) {
	if s.pick == nil {
		return models.Symptom{}, false
	}
	return *s.pick, true
}

// AddPick appends the transient candidate to the working set. It reports
// false when no pick is staged or the symptom is already present.
func (s *Selection) AddPick() bool {
	if s.pick == nil {
		return false
	}
	return s.Add(*s.pick)
}

// Add appends a symptom to the working set. Symptoms without an identifier
// and duplicates are rejected. Any transient pick is cleared so a repeated
// add requires a fresh one.
func (s *Selection) Add(symptom models.Symptom) bool {
	s.pick = nil
	if symptom.SymptomID == 0 || s.contains(symptom.SymptomID) {
		return false
	}
	s.ids = append(s.ids, symptom.SymptomID)
	s.names = append(s.names, symptom.Name)
	return true
}

// Remove deletes the first entry matching symptomID. It reports false when
// the identifier is not staged.
func (s *Selection) Remove(symptomID int64) bool {
	for i, id := range s.ids {
		if id == symptomID {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			s.names = append(s.names[:i], s.names[i+1:]...)
			return true
		}
	}
	return false
}

// IDs returns the ordered symptom identifiers for the request payload.
func (s *Selection) IDs() []int64 {
	return append([]int64(nil), s.ids...)
}

// Names returns the ordered display names, index-aligned with IDs.
func (s *Selection) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of staged symptoms.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear empties the working set and the transient pick.
func (s *Selection) Clear() {
	s.pick = nil
	s.ids = nil
	s.names = nil
}

func (s *Selection) contains(symptomID int64) bool {
	for _, id := range s.ids {
		if id == symptomID {
			return true
		}
	}
	return false
}
