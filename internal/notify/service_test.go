package notify

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"jobradar/internal/config"
	"jobradar/pkg/models"
)

type fakeChannel struct {
	name       string
	configured bool
	calls      atomic.Int32
	failUntil  int32
	permanent  bool
}

func (f *fakeChannel) Name() string       { return f.name }
func (f *fakeChannel) IsConfigured() bool { return f.configured }

func (f *fakeChannel) Send(ctx context.Context, jobs []models.JobRecord) error {
	if f.calls.Add(1) <= f.failUntil {
		return &SendError{Channel: f.name, Permanent: f.permanent, Err: fmt.Errorf("send failed")}
	}
	return nil
}

func notifyTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	cfg.Notifications.MaxAttempts = 3
	cfg.Notifications.RetryBaseDelay = time.Millisecond
	return cfg
}

func sampleJobs(n int) []models.JobRecord {
	jobs := make([]models.JobRecord, n)
	for i := range jobs {
		jobs[i] = models.JobRecord{
			CompanyName: "Example Corp",
			Title:       fmt.Sprintf("Engineer %d", i),
			URL:         fmt.Sprintf("https://example.com/jobs/%d", i),
		}
	}
	return jobs
}

func TestSendAllIsolatesChannelFailures(t *testing.T) {
	broken := &fakeChannel{name: "slack", configured: true, failUntil: 100, permanent: true}
	working := &fakeChannel{name: "discord", configured: true}

	svc := NewService(notifyTestConfig(t), broken, working)
	results := svc.SendAll(context.Background(), sampleJobs(2))

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["slack"].Success {
		t.Error("broken channel reported success")
	}
	if results["slack"].Error == "" {
		t.Error("broken channel result missing error detail")
	}
	if !results["discord"].Success {
		t.Errorf("working channel failed: %s", results["discord"].Error)
	}
}

func TestSendAllRetriesTransientFailures(t *testing.T) {
	flaky := &fakeChannel{name: "slack", configured: true, failUntil: 2}

	svc := NewService(notifyTestConfig(t), flaky)
	results := svc.SendAll(context.Background(), sampleJobs(1))

	if !results["slack"].Success {
		t.Fatalf("transient failure not recovered: %s", results["slack"].Error)
	}
	if got := flaky.calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestSendAllDoesNotRetryPermanentFailures(t *testing.T) {
	dead := &fakeChannel{name: "email", configured: true, failUntil: 100, permanent: true}

	svc := NewService(notifyTestConfig(t), dead)
	results := svc.SendAll(context.Background(), sampleJobs(1))

	if results["email"].Success {
		t.Error("permanent failure reported success")
	}
	if got := dead.calls.Load(); got != 1 {
		t.Errorf("permanent failure must not be retried, got %d attempts", got)
	}
}

func TestSendAllSkipsUnconfiguredChannels(t *testing.T) {
	off := &fakeChannel{name: "email", configured: false}
	on := &fakeChannel{name: "slack", configured: true}

	svc := NewService(notifyTestConfig(t), off, on)
	results := svc.SendAll(context.Background(), sampleJobs(1))

	if _, ok := results["email"]; ok {
		t.Error("unconfigured channel was invoked")
	}
	if off.calls.Load() != 0 {
		t.Error("unconfigured channel received a send")
	}
	if !results["slack"].Success {
		t.Error("configured channel did not deliver")
	}
}

func TestSendAllWithNoJobsSendsNothing(t *testing.T) {
	ch := &fakeChannel{name: "slack", configured: true}

	svc := NewService(notifyTestConfig(t), ch)
	results := svc.SendAll(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("expected no results for empty digest, got %v", results)
	}
	if ch.calls.Load() != 0 {
		t.Error("channel received a send for an empty digest")
	}
}

func TestSendTestUnknownChannel(t *testing.T) {
	svc := NewService(notifyTestConfig(t), &fakeChannel{name: "slack", configured: true})
	result := svc.SendTest(context.Background(), "pager")

	if result.Success {
		t.Error("unknown channel reported success")
	}
}

func TestConfiguredChannels(t *testing.T) {
	svc := NewService(notifyTestConfig(t),
		&fakeChannel{name: "email", configured: false},
		&fakeChannel{name: "slack", configured: true},
		&fakeChannel{name: "discord", configured: true},
	)

	got := svc.ConfiguredChannels()
	if len(got) != 2 || got[0] != "slack" || got[1] != "discord" {
		t.Errorf("ConfiguredChannels() = %v", got)
	}
}
