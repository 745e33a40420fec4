package health

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/msto63/vera/foundation/vera"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestNewChecker(t *testing.T) {
	checker := NewChecker("parser", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "ok"}
	})

	if checker.Name() != "parser" {
		t.Errorf("Name() = %v, want parser", checker.Name())
	}
	if result := checker.Check(context.Background()); result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
}

func TestCheckFunc_Name(t *testing.T) {
	fn := CheckFunc(func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})
	if fn.Name() != "unknown" {
		t.Errorf("Name() = %v, want unknown", fn.Name())
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		expected Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("vera", "0.3.0")
			for i, s := range tt.statuses {
				status := s
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := registry.Check(context.Background())
			if report.Status != tt.expected {
				t.Errorf("Status = %v, want %v", report.Status, tt.expected)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("Checks count = %v, want %v", len(report.Checks), len(tt.statuses))
			}
		})
	}
}

func TestRegistry_ReportIsSortedAndNamed(t *testing.T) {
	registry := NewRegistry("vera", "0.3.0")
	registry.RegisterFunc("history", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})
	registry.RegisterFunc("cache", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})
	registry.RegisterFunc("parser", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})

	report := registry.Check(context.Background())
	want := []string{"cache", "history", "parser"}
	for i, name := range want {
		if report.Checks[i].Name != name {
			t.Errorf("Checks[%d].Name = %v, want %v", i, report.Checks[i].Name, name)
		}
		if report.Checks[i].Timestamp.IsZero() {
			t.Errorf("Checks[%d] has no timestamp", i)
		}
	}
	if report.Service != "vera" || report.Version != "0.3.0" {
		t.Errorf("Unexpected report header %s", report.String())
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("vera", "0.3.0")
	registry.Register(AlwaysHealthy("temp"))
	registry.Unregister("temp")

	if report := registry.Check(context.Background()); len(report.Checks) != 0 {
		t.Errorf("Checks count = %v, want 0", len(report.Checks))
	}
}

func TestRegistry_ChecksRunConcurrently(t *testing.T) {
	registry := NewRegistry("vera", "0.3.0")

	var counter int32
	for i := 0; i < 5; i++ {
		registry.RegisterFunc("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			atomic.AddInt32(&counter, 1)
			time.Sleep(20 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		})
	}

	start := time.Now()
	registry.CheckWithTimeout(time.Second)
	if d := time.Since(start); d > 90*time.Millisecond {
		t.Errorf("Duration = %v, expected concurrent execution", d)
	}
	if atomic.LoadInt32(&counter) != 5 {
		t.Errorf("Counter = %v, want 5", counter)
	}
}

func TestPingCheck(t *testing.T) {
	ok := PingCheck("history", func(ctx context.Context) error { return nil })
	if r := ok.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", r.Status)
	}

	failing := PingCheck("history", func(ctx context.Context) error { return errors.New("database is locked") })
	r := failing.Check(context.Background())
	if r.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", r.Status)
	}
	if r.Message != "database is locked" {
		t.Errorf("Message = %v, want the ping error", r.Message)
	}
}

func TestParserCheck(t *testing.T) {
	engine := vera.NewEngine(vera.Options{})
	canary := "main { x = 1; y = x + 2; }"

	tests := []struct {
		name     string
		source   string
		want     int
		expected Status
	}{
		{"canary parses", canary, 2, StatusHealthy},
		{"count mismatch", canary, 3, StatusDegraded},
		{"broken canary", "main { x = ; }", 1, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParserCheck("parser", engine, tt.source, tt.want).Check(context.Background())
			if r.Status != tt.expected {
				t.Errorf("Status = %v, want %v (%s)", r.Status, tt.expected, r.Message)
			}
		})
	}
}

func TestServingStatus(t *testing.T) {
	tests := []struct {
		in   Status
		want healthpb.HealthCheckResponse_ServingStatus
	}{
		{StatusHealthy, healthpb.HealthCheckResponse_SERVING},
		{StatusDegraded, healthpb.HealthCheckResponse_SERVING},
		{StatusUnhealthy, healthpb.HealthCheckResponse_NOT_SERVING},
		{StatusUnknown, healthpb.HealthCheckResponse_UNKNOWN},
	}
	for _, tt := range tests {
		if got := ServingStatus(tt.in); got != tt.want {
			t.Errorf("ServingStatus(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGRPCReporter(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()

	var healthy atomic.Bool
	healthy.Store(true)
	registry := NewRegistry("vera", "0.3.0")
	registry.RegisterFunc("toggle", func(ctx context.Context) CheckResult {
		if healthy.Load() {
			return CheckResult{Status: StatusHealthy}
		}
		return CheckResult{Status: StatusUnhealthy}
	})

	reporter := NewGRPCReporter(srv, registry, "vera.v1.ParserService")
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		t.Helper()
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			t.Fatalf("Check(%q) error = %v", service, err)
		}
		return resp.GetStatus()
	}

	reporter.Refresh(ctx)
	if got := check("vera.v1.ParserService"); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Expected SERVING, got %v", got)
	}

	healthy.Store(false)
	report := reporter.Refresh(ctx)
	if report.Status != StatusUnhealthy {
		t.Errorf("Expected unhealthy report, got %v", report.Status)
	}
	if got := check(""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("Expected NOT_SERVING, got %v", got)
	}
}
