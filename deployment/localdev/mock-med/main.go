package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// Canned med-core API for local development. Serves the catalog, a fixed
// diagnosis and a single demo account (user/secret, patient 42).

const demoToken = "demo-token-42"

type disease struct {
	DiseaseID int64  `json:"diseaseId"`
	Name      string `json:"name"`
}

type symptom struct {
	SymptomID int64  `json:"symptomId"`
	Name      string `json:"name"`
	Severity  int    `json:"severity"`
}

type precaution struct {
	PrecautionID   int64  `json:"precautionId"`
	PrecautionText string `json:"precautionText"`
}

var (
	symptoms = []symptom{
		{SymptomID: 3, Name: "headache", Severity: 4},
		{SymptomID: 7, Name: "fever", Severity: 6},
		{SymptomID: 11, Name: "cough", Severity: 3},
	}
	diseases = []disease{
		{DiseaseID: 1, Name: "Flu"},
		{DiseaseID: 2, Name: "Common Cold"},
	}
	precautions = []precaution{
		{PrecautionID: 2, PrecautionText: "Drink plenty of fluids"},
		{PrecautionID: 5, PrecautionText: "Rest and avoid exertion"},
	}
)

func main() {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diseases", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, diseases)
		case http.MethodPost:
			if !requireBearer(w, r) {
				return
			}
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/diseases/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/extended") {
			writeJSON(w, map[string]any{
				"diseaseId":   1,
				"name":        "Flu",
				"description": "A contagious respiratory illness caused by influenza viruses.",
				"symptoms":    symptoms[:2],
				"precautions": precautions,
			})
			return
		}
		if !requireBearer(w, r) {
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/symptoms", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, symptoms)
		case http.MethodPost:
			if !requireBearer(w, r) {
				return
			}
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/symptoms/", mutationHandler)

	mux.HandleFunc("/precautions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if !requireBearer(w, r) {
				return
			}
			writeJSON(w, precautions)
		case http.MethodPost:
			if !requireBearer(w, r) {
				return
			}
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/precautions/", mutationHandler)

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username != "user" || creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		// The login response body is the bare token string.
		_, _ = w.Write([]byte(demoToken))
	})

	mux.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("/auth/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if !requireBearer(w, r) {
			return
		}
		writeJSON(w, map[string]any{"patientId": 42, "role": "ROLE_USER"})
	})

	mux.HandleFunc("/patients/42/diagnoses", func(w http.ResponseWriter, r *http.Request) {
		if !requireBearer(w, r) {
			return
		}
		writeJSON(w, []map[string]any{
			{"id": 9, "date": "2026-08-20", "disease": map[string]any{"name": "Flu"}},
			{"id": 8, "disease": map[string]any{"name": "Common Cold"}},
		})
	})

	mux.HandleFunc("/diagnoses", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		// Single object on purpose; the client normalizes it to a list.
		writeJSON(w, map[string]any{
			"diseaseId":   1,
			"name":        "Flu",
			"description": "A contagious respiratory illness caused by influenza viruses.",
			"score":       0.8,
			"confidence":  82,
		})
	})

	mux.HandleFunc("/diagnoses/save", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Query().Get("patientId") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	logger := log.New(log.Writer(), "med-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":8080",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :8080")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func mutationHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut, http.MethodDelete, http.MethodPost:
		if !requireBearer(w, r) {
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func requireBearer(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if auth != "Bearer "+demoToken {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
