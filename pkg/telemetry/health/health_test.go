package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestNew_DefaultTimeout(t *testing.T) {
	if c := New(0); c.timeout != DefaultCheckTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultCheckTimeout)
	}
	if c := New(time.Second); c.timeout != time.Second {
		t.Errorf("timeout = %v, want 1s", c.timeout)
	}
}

func TestChecker_RegisterUnregister(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("watcher", func(context.Context) error { return nil })
	c.RegisterCheck("history", func(context.Context) error { return nil })

	if got, want := c.Names(), []string{"history", "watcher"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	c.UnregisterCheck("watcher")
	if got := c.Names(); !reflect.DeepEqual(got, []string{"history"}) {
		t.Errorf("Names() after unregister = %v", got)
	}
}

func TestChecker_Readiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
		failed []string
	}{
		{
			name: "no checks",
			want: StatusReady,
		},
		{
			name: "all pass",
			checks: map[string]CheckFunc{
				"history": func(context.Context) error { return nil },
				"watcher": func(context.Context) error { return nil },
			},
			want: StatusReady,
		},
		{
			name: "one fails",
			checks: map[string]CheckFunc{
				"history": func(context.Context) error { return errors.New("database is locked") },
				"watcher": func(context.Context) error { return nil },
			},
			want:   StatusDegraded,
			failed: []string{"history"},
		},
		{
			name: "timeout",
			checks: map[string]CheckFunc{
				"slow": func(ctx context.Context) error {
					<-ctx.Done()
					time.Sleep(50 * time.Millisecond)
					return nil
				},
			},
			want:   StatusDegraded,
			failed: []string{"slow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(20 * time.Millisecond)
			for name, check := range tt.checks {
				c.RegisterCheck(name, check)
			}

			status := c.Readiness(context.Background())
			if status.Status != tt.want {
				t.Errorf("Status = %q, want %q", status.Status, tt.want)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(status.Checks), len(tt.checks))
			}
			for _, name := range tt.failed {
				if r := status.Checks[name]; r.Status != StatusUnhealthy || r.Message == "" {
					t.Errorf("check %q = %+v, want unhealthy with message", name, r)
				}
			}
		})
	}
}

func TestHandlers(t *testing.T) {
	c := New(time.Second)
	healthy := true
	c.RegisterCheck("watcher", func(context.Context) error {
		if !healthy {
			return errors.New("not running")
		}
		return nil
	})

	mux := http.NewServeMux()
	c.Mount(mux, "1.2.3", "abc", "2026-01-01")

	get := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	if rec := get(http.MethodGet, LivenessPath); rec.Code != http.StatusOK {
		t.Errorf("liveness code = %d", rec.Code)
	}

	rec := get(http.MethodGet, ReadinessPath)
	if rec.Code != http.StatusOK {
		t.Errorf("readiness code = %d, want 200", rec.Code)
	}

	healthy = false
	rec = get(http.MethodGet, ReadinessPath)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness code = %d, want 503", rec.Code)
	}
	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode readiness: %v", err)
	}
	if status.Checks["watcher"].Message != "not running" {
		t.Errorf("watcher check = %+v", status.Checks["watcher"])
	}

	rec = get(http.MethodGet, VersionPath)
	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc" || info.GoVersion == "" {
		t.Errorf("version = %+v", info)
	}

	if rec := get(http.MethodPost, LivenessPath); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST code = %d, want 405", rec.Code)
	}
	if rec := get(http.MethodHead, LivenessPath); rec.Body.Len() != 0 {
		t.Errorf("HEAD wrote a body: %q", rec.Body.String())
	}
}
