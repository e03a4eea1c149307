package repo

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mediguide/mediguide-client/internal/cache"
)

type stubCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string][]byte)}
}

func (s *stubCache) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.store[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return append([]byte(nil), value...), nil
}

func (s *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[key] = append([]byte(nil), value...)
	return nil
}

func (s *stubCache) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, key)
	return nil
}

func (s *stubCache) Close() error { return nil }

func TestListSymptomsCachesResults(t *testing.T) {
	hits := 0
	cacheStub := newStubCache()
	client := NewMedCoreClient("http://med.example.com", time.Second, nil, cacheStub, time.Minute, false)
	client.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		hits++
		if req.URL.Path != "/symptoms" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(t, http.StatusOK, []map[string]any{
			{"symptomId": 3, "name": "headache", "severity": 4},
		}), nil
	})

	ctx := context.Background()
	symptoms, err := client.ListSymptoms(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected one upstream request, got %d", hits)
	}
	if len(symptoms) != 1 || symptoms[0].Name != "headache" {
		t.Fatalf("unexpected response: %+v", symptoms)
	}

	cached, err := client.ListSymptoms(ctx)
	if err != nil {
		t.Fatalf("unexpected cached error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("cache miss triggered network call; hits=%d", hits)
	}
	if len(cached) != 1 || cached[0].SymptomID != 3 {
		t.Fatalf("unexpected cached payload: %+v", cached)
	}
}

func TestCreateSymptomInvalidatesCache(t *testing.T) {
	hits := 0
	cacheStub := newStubCache()
	client := NewMedCoreClient("http://med.example.com", time.Second, staticTokens("tok"), cacheStub, time.Minute, false)
	client.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/symptoms":
			if req.Method == http.MethodGet {
				hits++
				return jsonResponse(t, http.StatusOK, []map[string]any{
					{"symptomId": 3, "name": "headache", "severity": 4},
				}), nil
			}
			return jsonResponse(t, http.StatusOK, map[string]any{}), nil
		default:
			t.Fatalf("unexpected path: %s", req.URL.Path)
			return nil, nil
		}
	})

	ctx := context.Background()
	if _, err := client.ListSymptoms(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.CreateSymptom(ctx, "fever", 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.ListSymptoms(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 2 {
		t.Fatalf("expected cache invalidation to force a refetch, hits=%d", hits)
	}
}
