package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/kidtutor/orchestrator/internal/adapter/feeapi"
	"github.com/kidtutor/orchestrator/internal/domain"
	"github.com/kidtutor/orchestrator/policy"
)

type captureBroadcaster struct {
	events []interface{}
}

func (b *captureBroadcaster) BroadcastJSON(v interface{}) error {
	b.events = append(b.events, v)
	return nil
}

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry(nil)

	out := r.Dispatch(context.Background(), domain.ToolInvocation{
		CallID: "call_1",
		Name:   "launch_rocket",
	})
	if out.CallID != "call_1" {
		t.Fatalf("unexpected call ID: %s", out.CallID)
	}
	if out.Output != OutputNotRecognized {
		t.Fatalf("unexpected output: %q", out.Output)
	}
}

func TestDispatchHandlerFailure(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Register("flaky", func(ctx context.Context, args domain.ToolArgs) (string, error) {
		return "", errors.New("connection refused")
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out := r.Dispatch(context.Background(), domain.ToolInvocation{CallID: "call_1", Name: "flaky"})
	if out.Output != "Tool flaky is currently unavailable." {
		t.Fatalf("unexpected output: %q", out.Output)
	}
}

func TestDispatchPolicyBlock(t *testing.T) {
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	r := NewRegistry(engine)
	called := false
	if err := r.Register(domain.ToolGetCourseFee, func(ctx context.Context, args domain.ToolArgs) (string, error) {
		called = true
		return "fees", nil
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out := r.Dispatch(context.Background(), domain.ToolInvocation{
		CallID:    "call_1",
		Name:      domain.ToolGetCourseFee,
		Arguments: json.RawMessage(`{"courseId":"internal-staff-training"}`),
	})
	if out.Output != OutputBlocked {
		t.Fatalf("unexpected output: %q", out.Output)
	}
	if called {
		t.Fatal("handler must not run for a blocked call")
	}
}

func TestDispatchMalformedArguments(t *testing.T) {
	r := NewRegistry(nil)
	var got domain.ToolArgs
	if err := r.Register(domain.ToolGetCourseFee, func(ctx context.Context, args domain.ToolArgs) (string, error) {
		got = args
		return "ok", nil
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out := r.Dispatch(context.Background(), domain.ToolInvocation{
		CallID:    "call_1",
		Name:      domain.ToolGetCourseFee,
		Arguments: json.RawMessage(`not json`),
	})
	if out.Output != "ok" {
		t.Fatalf("malformed arguments must not abort dispatch, got %q", out.Output)
	}
	args, ok := got.(domain.CourseFeeArgs)
	if !ok || args.CourseID != "" {
		t.Fatalf("expected zero-valued CourseFeeArgs, got %+v", got)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry(nil)
	h := func(ctx context.Context, args domain.ToolArgs) (string, error) { return "", nil }
	if err := r.Register("x", h); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register("x", h); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestCourseFeeHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"feesByCategory": "Math: $100"}`))
	}))
	defer server.Close()

	h := CourseFee(feeapi.NewClient(server.URL, 5*time.Second))
	out, err := h(context.Background(), domain.CourseFeeArgs{CourseID: "math-101"})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if out != "Math: $100" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCourseFeeHandlerNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"feesByCategory": null}`))
	}))
	defer server.Close()

	h := CourseFee(feeapi.NewClient(server.URL, 5*time.Second))
	out, err := h(context.Background(), domain.CourseFeeArgs{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if out != "No fee data" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestShowTimeHandler(t *testing.T) {
	b := &captureBroadcaster{}
	h := ShowTime(b)

	out, err := h(context.Background(), domain.ShowTimeArgs{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`).MatchString(out) {
		t.Fatalf("expected HH:MM:SS output, got %q", out)
	}

	if len(b.events) != 1 {
		t.Fatalf("expected 1 broadcast event, got %d", len(b.events))
	}
	event, ok := b.events[0].(domain.ShowTimeEvent)
	if !ok {
		t.Fatalf("unexpected event type: %T", b.events[0])
	}
	if event.Type != domain.EventTypeShowTime || event.Time != out {
		t.Fatalf("unexpected event: %+v", event)
	}
}
