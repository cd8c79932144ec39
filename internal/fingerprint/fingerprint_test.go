package fingerprint

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetchClient(opts ...fetch.Option) *fetch.Client {
	base := []fetch.Option{fetch.WithRequestsPerSecond(0)}
	return fetch.NewClient(append(base, opts...)...)
}

// TestCollectAndClassify tests evidence accumulation and the derived
// classification per document shape.
func TestCollectAndClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		url          string
		snippet      string
		wantEvidence []model.Evidence
		wantClass    model.Classification
	}{
		{
			name:    "wpcom generator with image namespace",
			url:     "https://example.com/sitemap.xml",
			snippet: `<!-- generator="wordpress.com" --><urlset><url><image:image><image:loc>a.jpg</image:loc></image:image></url></urlset>`,
			wantEvidence: []model.Evidence{
				model.EvidenceSitemapDocument,
				model.EvidenceWPComGenerator,
				model.EvidenceImageNamespace,
			},
			wantClass: model.ClassJetpackLike,
		},
		{
			name:      "jetpack generator",
			url:       "https://example.com/sitemap.xml",
			snippet:   `<!--generator='jetpack-13.1'--><sitemapindex><sitemap><loc>https://example.com/image-sitemap-1.xml</loc></sitemap></sitemapindex>`,
			wantClass: model.ClassJetpackLike,
			wantEvidence: []model.Evidence{
				model.EvidenceJetpackGenerator,
				model.EvidenceImageSitemapPath,
			},
		},
		{
			name:      "jetpack buffer signature",
			url:       "https://example.com/sitemap.xml",
			snippet:   `<!-- Jetpack_Sitemap_Buffer --><urlset></urlset>`,
			wantClass: model.ClassJetpackLike,
			wantEvidence: []model.Evidence{
				model.EvidenceJetpackSignature,
			},
		},
		{
			name:      "image sitemap route in URL",
			url:       "https://example.com/image-sitemap-2.xml",
			snippet:   `<urlset></urlset>`,
			wantClass: model.ClassJetpackLike,
			wantEvidence: []model.Evidence{
				model.EvidenceImageSitemapPath,
			},
		},
		{
			name:      "namespaces without platform marker",
			url:       "https://example.com/sitemap.xml",
			snippet:   `<urlset xmlns:image="http://www.google.com/schemas/sitemap-image/1.1"><url><image:image><image:loc>a.jpg</image:loc></image:image></url></urlset>`,
			wantClass: model.ClassLikelyLeaking,
			wantEvidence: []model.Evidence{
				model.EvidenceImageNamespace,
			},
		},
		{
			name:      "video namespace without marker",
			url:       "https://example.com/sitemap.xml",
			snippet:   `<urlset><url><video:video><video:content_loc>a.mp4</video:content_loc></video:video></url></urlset>`,
			wantClass: model.ClassLikelyLeaking,
			wantEvidence: []model.Evidence{
				model.EvidenceVideoNamespace,
			},
		},
		{
			name:      "plain sitemap",
			url:       "https://example.com/sitemap.xml",
			snippet:   `<urlset><url><loc>https://example.com/post/</loc></url></urlset>`,
			wantClass: model.ClassSelfHosted,
			wantEvidence: []model.Evidence{
				model.EvidenceSitemapDocument,
			},
		},
		{
			name:      "core wp-sitemap route",
			url:       "https://example.com/wp-sitemap.xml",
			snippet:   `<sitemapindex></sitemapindex>`,
			wantClass: model.ClassSelfHosted,
			wantEvidence: []model.Evidence{
				model.EvidenceCoreSitemapPath,
			},
		},
		{
			name:      "not a sitemap at all",
			url:       "https://example.com/sitemap.xml",
			snippet:   `<html><body>404</body></html>`,
			wantClass: model.ClassSelfHosted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target := model.ScanTarget{RootURL: tt.url}
			Collect(&target, tt.url, []byte(tt.snippet))

			for _, ev := range tt.wantEvidence {
				if !target.HasEvidence(ev) {
					t.Errorf("missing evidence %v (have %v)", ev, target.Evidence)
				}
			}
			if got := Classify(&target); got != tt.wantClass {
				t.Errorf("Classify() = %v, want %v", got, tt.wantClass)
			}
		})
	}
}

// TestCollectIsMonotonic tests that re-collecting never retracts or
// duplicates evidence.
func TestCollectIsMonotonic(t *testing.T) {
	t.Parallel()

	target := model.ScanTarget{RootURL: "https://example.com"}
	snippet := []byte(`<!-- Jetpack Sitemap --><urlset></urlset>`)

	Collect(&target, "https://example.com/sitemap.xml", snippet)
	before := len(target.Evidence)

	Collect(&target, "https://example.com/sitemap.xml", snippet)
	if len(target.Evidence) != before {
		t.Errorf("evidence count changed on re-collect: %d -> %d", before, len(target.Evidence))
	}
}

// TestScannerScan tests the bulk sweep end to end, including input-order
// results and per-target failure isolation.
func TestScannerScan(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/jetpack/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<!--generator='jetpack'--><urlset></urlset>`)
	})
	mux.HandleFunc("/plain/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<urlset></urlset>`)
	})
	mux.HandleFunc("/dead/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	})

	targets := []string{
		server.URL + "/jetpack",
		server.URL + "/dead",
		server.URL + "/plain",
	}

	scanner := NewScanner(newTestFetchClient(), WithLogger(quietLogger()))
	results, err := scanner.Scan(context.Background(), targets)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	// Input order is preserved.
	for i, target := range targets {
		if results[i].RootURL != target {
			t.Errorf("result[%d].RootURL = %q, want %q", i, results[i].RootURL, target)
		}
	}

	if results[0].Classification != model.ClassJetpackLike {
		t.Errorf("jetpack target = %v, want jetpack_like", results[0].Classification)
	}
	if results[1].Classification != model.ClassUnreachable {
		t.Errorf("dead target = %v, want unreachable", results[1].Classification)
	}
	if results[1].FailureReason == "" {
		t.Error("unreachable target must carry a failure reason")
	}
	if results[2].Classification != model.ClassSelfHosted {
		t.Errorf("plain target = %v, want self_hosted", results[2].Classification)
	}
}

// TestScannerIsolation tests that one slow target does not serialize the
// batch: total wall time tracks the slowest target, not the sum.
func TestScannerIsolation(t *testing.T) {
	t.Parallel()

	const slowDelay = 300 * time.Millisecond

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/slow/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(slowDelay)
		io.WriteString(w, `<urlset></urlset>`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<urlset></urlset>`)
	})

	targets := []string{server.URL + "/slow"}
	for i := 0; i < 8; i++ {
		targets = append(targets, server.URL+"/fast")
	}

	scanner := NewScanner(newTestFetchClient(), WithConcurrency(9), WithLogger(quietLogger()))

	start := time.Now()
	results, err := scanner.Scan(context.Background(), targets)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(results) != 9 {
		t.Fatalf("results = %d, want 9", len(results))
	}
	// All targets ran concurrently, so the batch takes about one slow
	// request, not nine sequential ones.
	if elapsed > 3*slowDelay {
		t.Errorf("batch took %v, want about %v", elapsed, slowDelay)
	}
}

// TestScannerBoundedConcurrency tests the worker pool limit with
// instrumented handlers.
func TestScannerBoundedConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 3

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

		io.WriteString(w, `<urlset></urlset>`)
	}))
	defer server.Close()

	targets := make([]string, 12)
	for i := range targets {
		targets[i] = server.URL
	}

	scanner := NewScanner(newTestFetchClient(), WithConcurrency(limit), WithLogger(quietLogger()))
	if _, err := scanner.Scan(context.Background(), targets); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > limit {
		t.Errorf("peak in-flight fetches = %d, want at most %d", peak, limit)
	}
}

// TestScannerTimeoutBecomesUnreachable tests the per-request timeout path.
func TestScannerTimeoutBecomesUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestFetchClient(fetch.WithTimeout(50 * time.Millisecond))
	scanner := NewScanner(client, WithLogger(quietLogger()))

	results, err := scanner.Scan(context.Background(), []string{server.URL})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if results[0].Classification != model.ClassUnreachable {
		t.Errorf("classification = %v, want unreachable", results[0].Classification)
	}
}
