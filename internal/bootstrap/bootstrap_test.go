package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kirillkom/paperless-date-normalizer/internal/config"
	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
)

type fakePaperless struct {
	mu          sync.Mutex
	title       string
	getStatus   int
	patchStatus int
	patches     []domain.DocumentProperties
}

func (f *fakePaperless) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.URL.Path != "/api/documents/5/" {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			if f.getStatus != 0 {
				http.Error(w, `{"detail":"Invalid token."}`, f.getStatus)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 5, "title": f.title, "created_date": "2024-06-01"})
		case http.MethodPatch:
			var props domain.DocumentProperties
			if err := json.NewDecoder(r.Body).Decode(&props); err != nil {
				t.Errorf("decode patch: %v", err)
			}
			f.patches = append(f.patches, props)
			if f.patchStatus != 0 {
				http.Error(w, "server error", f.patchStatus)
				return
			}
			f.title = props.Title
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 5, "title": props.Title, "created_date": props.CreatedDate})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func newApp(t *testing.T, fake *fakePaperless) *App {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	app, err := New(config.Config{
		DocumentID: 5,
		APIToken:   "token",
		APIURL:     server.URL + "/api/",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func TestRunStripsISOPrefix(t *testing.T) {
	fake := &fakePaperless{title: "2023-01-05 - Invoice"}
	app := newApp(t, fake)

	result, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Outcome != domain.OutcomeUpdated {
		t.Fatalf("expected updated, got %s", result.Outcome)
	}
	want := domain.DocumentProperties{Title: "Invoice", CreatedDate: "2023-01-05"}
	if len(fake.patches) != 1 || fake.patches[0] != want {
		t.Fatalf("unexpected patches %+v", fake.patches)
	}
}

func TestRunStripsEuropeanPrefix(t *testing.T) {
	fake := &fakePaperless{title: "05.01.2023 Invoice"}
	app := newApp(t, fake)

	if _, err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := domain.DocumentProperties{Title: "Invoice", CreatedDate: "2023-01-05"}
	if len(fake.patches) != 1 || fake.patches[0] != want {
		t.Fatalf("unexpected patches %+v", fake.patches)
	}
}

func TestRunWithoutDateIsNoop(t *testing.T) {
	fake := &fakePaperless{title: "Invoice from January"}
	app := newApp(t, fake)

	result, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Outcome != domain.OutcomeNoMatch || len(fake.patches) != 0 {
		t.Fatalf("expected no-op, got %s with %d patches", result.Outcome, len(fake.patches))
	}
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	fake := &fakePaperless{title: "2023-01-05 Invoice"}
	app := newApp(t, fake)

	if _, err := app.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	result, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if result.Outcome != domain.OutcomeNoMatch || len(fake.patches) != 1 {
		t.Fatalf("expected second run to be a no-op, got %s with %d patches", result.Outcome, len(fake.patches))
	}
}

func TestRunUnauthorizedAbortsBeforePatch(t *testing.T) {
	fake := &fakePaperless{title: "2023-01-05 Invoice", getStatus: http.StatusUnauthorized}
	app := newApp(t, fake)

	_, err := app.Run(context.Background())
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if len(fake.patches) != 0 {
		t.Fatalf("expected no patch, got %d", len(fake.patches))
	}
}

func TestRunPatchServerErrorAborts(t *testing.T) {
	fake := &fakePaperless{title: "2023-01-05 Invoice", patchStatus: http.StatusInternalServerError}
	app := newApp(t, fake)

	_, err := app.Run(context.Background())
	if !domain.IsKind(err, domain.ErrUnexpectedResponse) {
		t.Fatalf("expected unexpected response error, got %v", err)
	}
	if len(fake.patches) != 1 {
		t.Fatalf("expected exactly one patch attempt, got %d", len(fake.patches))
	}
}

func TestRunPushesMetrics(t *testing.T) {
	var pushed bool
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushed = true
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	fake := &fakePaperless{title: "Invoice"}
	app := newApp(t, fake)
	app.Config.PushgatewayURL = gateway.URL

	if _, err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !pushed {
		t.Fatalf("expected metrics push")
	}
}
