package headhunter

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

const vacancyJSON = `{
	"id": "93353083",
	"name": "Senior Go Developer",
	"employer": {"id": "1", "name": "Acme"},
	"alternate_url": "https://hh.ru/vacancy/93353083",
	"description": "<p>We build services in <strong>Go</strong>.</p><ul><li>PostgreSQL</li><li>Kafka</li></ul>",
	"key_skills": [{"name": "Golang"}, {"name": " "}, {"name": "Docker"}]
}`

func newTestServer(t *testing.T, gzipped bool) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.Header.Get("HH-User-Agent") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch r.URL.Path {
		case "/vacancies/93353083":
			w.Header().Set("Content-Type", "application/json")
			if !gzipped {
				_, _ = w.Write([]byte(vacancyJSON))
				return
			}
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, _ = zw.Write([]byte(vacancyJSON))
			_ = zw.Close()
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[{"type":"not_found"}]}`))
		}
	}))
}

func TestGetVacancy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, gzipped := range []bool{false, true} {
		srv := newTestServer(t, gzipped)
		defer srv.Close()

		client := New(zaptest.NewLogger(t), "token", WithBaseURL(srv.URL))

		vacancy, err := client.GetVacancy(ctx, "93353083")
		if err != nil {
			t.Fatalf("gzip=%v: unexpected error: %v", gzipped, err)
		}
		if vacancy.Name != "Senior Go Developer" || vacancy.Employer.Name != "Acme" {
			t.Fatalf("gzip=%v: unexpected vacancy: %+v", gzipped, vacancy)
		}
		if names := vacancy.KeySkillNames(); len(names) != 2 || names[0] != "Golang" || names[1] != "Docker" {
			t.Fatalf("gzip=%v: unexpected key skills: %v", gzipped, names)
		}
	}
}

func TestGetVacancyErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := newTestServer(t, false)
	defer srv.Close()

	client := New(zaptest.NewLogger(t), "token", WithBaseURL(srv.URL))

	if _, err := client.GetVacancy(ctx, "1"); !errors.Is(err, ErrVacancyNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, err := client.GetVacancy(ctx, " "); err == nil {
		t.Fatalf("expected error for empty id")
	}

	anonymous := New(nil, "", WithBaseURL(srv.URL))
	_, err := anonymous.GetVacancy(ctx, "93353083")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusForbidden {
		t.Fatalf("expected forbidden status error, got %v", err)
	}
}

func TestVacancyPosting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := newTestServer(t, false)
	defer srv.Close()

	client := New(zaptest.NewLogger(t), "token", WithBaseURL(srv.URL))

	vacancy, err := client.GetVacancy(ctx, "93353083")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := vacancy.Posting()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := "We build services in Go.\n\nPostgreSQL\n\nKafka\n\nKey skills: Golang, Docker"
	if p.Title != "Senior Go Developer" || p.Description != expect {
		t.Fatalf("unexpected posting: %q / %q", p.Title, p.Description)
	}
}

func TestGetVacancyRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(vacancyJSON))
	}))
	defer srv.Close()

	client := New(zaptest.NewLogger(t), "", WithBaseURL(srv.URL), WithRetries(2, time.Millisecond))
	vacancy, err := client.GetVacancy(context.Background(), "93353083")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vacancy.ID != "93353083" || calls.Load() != 3 {
		t.Fatalf("unexpected result after %d calls: %+v", calls.Load(), vacancy)
	}

	calls.Store(0)
	noRetry := New(nil, "", WithBaseURL(srv.URL), WithRetries(0, time.Millisecond))
	_, err = noRetry.GetVacancy(context.Background(), "93353083")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected throttled status error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestGetVacancyCancelledDuringRetry(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := New(nil, "", WithBaseURL(srv.URL), WithRetries(5, time.Second))
	if _, err := client.GetVacancy(ctx, "1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
