package pattern

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

func newTestFetchClient() *fetch.Client {
	return fetch.NewClient(fetch.WithRequestsPerSecond(0))
}

// TestVerifierVerify tests the mapping from probe outcomes to terminal
// states.
func TestVerifierVerify(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/exists.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/gone.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/soft404.jpg", func(w http.ResponseWriter, r *http.Request) {
		// Themed 404: status 200 but HTML body.
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/flaky.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/wrongtype.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.WriteHeader(http.StatusOK)
	})

	candidates := []model.PatternCandidate{
		{CandidateURL: server.URL + "/exists.jpg"},
		{CandidateURL: server.URL + "/gone.jpg"},
		{CandidateURL: server.URL + "/soft404.jpg"},
		{CandidateURL: server.URL + "/flaky.jpg"},
		{CandidateURL: server.URL + "/wrongtype.jpg"},
	}

	v := NewVerifier(newTestFetchClient())
	if err := v.Verify(context.Background(), candidates); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	want := []model.VerifyState{
		model.VerifyExists,
		model.VerifyNotExists,
		model.VerifyError,
		model.VerifyError,
		model.VerifyError,
	}
	for i, state := range want {
		if candidates[i].Verified != state {
			t.Errorf("candidate %d (%s) state = %v, want %v",
				i, candidates[i].CandidateURL, candidates[i].Verified, state)
		}
	}
}

// TestVerifierSkipsTerminal tests that already-verified candidates are
// not re-probed.
func TestVerifierSkipsTerminal(t *testing.T) {
	t.Parallel()

	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
	}))
	defer server.Close()

	candidates := []model.PatternCandidate{
		{CandidateURL: server.URL + "/a.jpg", Verified: model.VerifyNotExists},
		{CandidateURL: server.URL + "/b.jpg"},
	}

	v := NewVerifier(newTestFetchClient())
	if err := v.Verify(context.Background(), candidates); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if got := probes.Load(); got != 1 {
		t.Errorf("probes = %d, want 1", got)
	}
	if candidates[0].Verified != model.VerifyNotExists {
		t.Error("terminal state must not change")
	}
	if candidates[1].Verified != model.VerifyExists {
		t.Errorf("candidate state = %v, want exists", candidates[1].Verified)
	}
}

// TestVerifierUnreachableHost tests that transport failures become
// VerifyError, not a Verify error.
func TestVerifierUnreachableHost(t *testing.T) {
	t.Parallel()

	candidates := []model.PatternCandidate{
		{CandidateURL: "http://127.0.0.1:1/nothing.jpg"},
	}

	v := NewVerifier(newTestFetchClient())
	if err := v.Verify(context.Background(), candidates); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if candidates[0].Verified != model.VerifyError {
		t.Errorf("state = %v, want verify error", candidates[0].Verified)
	}
}

// TestVerifierBoundedConcurrency tests that in-flight probes never exceed
// the configured limit.
func TestVerifierBoundedConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 2

	var mu sync.Mutex
	inFlight, peak := 0, 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()

		w.Header().Set("Content-Type", "image/jpeg")
	}))
	defer server.Close()

	candidates := make([]model.PatternCandidate, 10)
	for i := range candidates {
		candidates[i] = model.PatternCandidate{
			CandidateURL: server.URL + "/img.jpg",
		}
	}

	v := NewVerifier(newTestFetchClient(), WithProbeConcurrency(limit))
	if err := v.Verify(context.Background(), candidates); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > limit {
		t.Errorf("peak in-flight probes = %d, want at most %d", peak, limit)
	}
}
