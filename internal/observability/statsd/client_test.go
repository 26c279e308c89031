package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "clubdesk"}
	tests := map[string]string{
		" auth/transition ": "clubdesk.auth_transition",
		"foo..bar":          "clubdesk.foo.bar",
		"..":                "",
		"":                  "",
	}
	for input, want := range tests {
		if got := c.metricName(input); got != want {
			t.Fatalf("metricName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " app ": " clubdesk "}
	local := map[string]string{"result": " ok ", "": "ignored", "env": "stage"}

	got := formatTags(global, local)
	want := "|#app:clubdesk,env:stage,result:ok"
	if got != want {
		t.Fatalf("formatTags mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := formatTags(nil, nil); got != "" {
		t.Fatalf("formatTags(nil, nil) = %q, want empty string", got)
	}
}

func TestClientWritesCounterDatagram(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("udp listener unavailable: %v", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{Enabled: true, Address: pc.LocalAddr().String(), Prefix: "clubdesk"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	client.Count("auth.transition", 1, map[string]string{"role": "admin"})

	buf := make([]byte, 512)
	if deadlineErr := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); deadlineErr != nil {
		t.Fatalf("set deadline: %v", deadlineErr)
	}
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read datagram: %v", err)
	}
	if got, want := string(buf[:n]), "clubdesk.auth.transition:1|c|#role:admin"; got != want {
		t.Fatalf("datagram = %q, want %q", got, want)
	}
}

func TestDisabledClientDropsMetrics(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	client.Count("ignored", 1, nil)
	client.Timing("ignored", time.Second, nil)
	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	var nilClient *Client
	nilClient.Count("ignored", 1, nil)
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecorderNamed(t *testing.T) {
	t.Parallel()

	var r Recorder
	r.Count("a", 2, map[string]string{"k": "v"})
	r.Timing("b", 1500*time.Microsecond, nil)
	r.Count("a", 1, nil)

	if got := len(r.Named("a")); got != 2 {
		t.Fatalf("Named(a) len = %d, want 2", got)
	}
	if got := r.Named("b")[0].Value; got != 1.5 {
		t.Fatalf("timing value = %v, want 1.5", got)
	}
}
