package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/metrics"
	"github.com/vango-dev/vbind/pkg/vdom"
	"github.com/vango-dev/vbind/pkg/view"
)

const testTemplate = `<!DOCTYPE html><html><body><div id="app"><input v-model="msg"><button @click="inc()">+</button><p>{{msg}} {{count}}</p></div></body></html>`

func testMount(ctx context.Context) (*Page, error) {
	tree, err := vdom.ParseString(testTemplate)
	if err != nil {
		return nil, err
	}
	vm, err := vbind.NewContext(ctx, vbind.Options{
		El:       "#app",
		Document: vdom.NewDocument(tree),
		Data:     map[string]any{"msg": "hi", "count": 0},
		Methods: map[string]vbind.Method{
			"inc": func(vm *vbind.VM, _ string, _ view.Event) error {
				n, err := vm.Get("count")
				if err != nil {
					return err
				}
				return vm.Set("count", n.(int)+1)
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return &Page{VM: vm, Tree: tree, Selector: "#app"}, nil
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := New(Config{
		Mount:    testMount,
		Metrics:  metrics.New(metrics.WithRegistry(reg)),
		Gatherer: reg,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, reg
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + WebSocketPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return msg
}

func writeMessage(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
}

func TestPage(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	html := string(body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{
		`<p>hi 0</p>`,
		`value="hi"`,
		`data-hid="h1"`,
		`data-on-input="true"`,
		`data-on-click="true"`,
		WebSocketPath,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Error("full documents should keep a doctype")
	}
	if i, j := strings.LastIndex(html, "</script>"), strings.LastIndex(html, "</body>"); i < 0 || i > j {
		t.Error("client script should be injected before </body>")
	}
}

func TestLiveSession(t *testing.T) {
	s, ts, _ := newTestServer(t)
	conn := dial(t, ts)

	first := readMessage(t, conn)
	if first.Type != MessageRender || !strings.Contains(first.HTML, "<p>hi 0</p>") {
		t.Fatalf("first message = %+v", first)
	}
	if !strings.HasPrefix(first.HTML, `<div id="app">`) {
		t.Errorf("render should cover the root element only: %q", first.HTML)
	}

	// h1 is the input, h2 the button.
	writeMessage(t, conn, ClientMessage{Type: MessageEvent, HID: "h1", Event: "input", Value: "yo"})
	if msg := readMessage(t, conn); !strings.Contains(msg.HTML, "<p>yo 0</p>") {
		t.Errorf("after input = %+v", msg)
	}

	writeMessage(t, conn, ClientMessage{Type: MessageEvent, HID: "h2", Event: "click"})
	if msg := readMessage(t, conn); !strings.Contains(msg.HTML, "<p>yo 1</p>") {
		t.Errorf("after click = %+v", msg)
	}

	writeMessage(t, conn, ClientMessage{Type: MessageSet, Path: "count", Value: 41})
	if msg := readMessage(t, conn); !strings.Contains(msg.HTML, "<p>yo 41</p>") {
		t.Errorf("after set = %+v", msg)
	}

	if s.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", s.SessionCount())
	}
}

func TestSessionErrorsKeepSessionOpen(t *testing.T) {
	_, ts, _ := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn)

	tests := []ClientMessage{
		{Type: MessageSet, Path: "nope", Value: 1},
		{Type: MessageEvent, HID: "h99", Event: "click"},
		{Type: "bogus"},
	}
	for _, msg := range tests {
		writeMessage(t, conn, msg)
		if got := readMessage(t, conn); got.Type != MessageError || got.Error == "" {
			t.Errorf("%+v answered with %+v, want an error", msg, got)
		}
	}

	writeMessage(t, conn, ClientMessage{Type: MessageSet, Path: "msg", Value: "ok"})
	if msg := readMessage(t, conn); msg.Type != MessageRender || !strings.Contains(msg.HTML, "<p>ok 0</p>") {
		t.Errorf("session should still work: %+v", msg)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	_, ts, _ := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)
	readMessage(t, a)
	readMessage(t, b)

	writeMessage(t, a, ClientMessage{Type: MessageSet, Path: "msg", Value: "A"})
	readMessage(t, a)

	writeMessage(t, b, ClientMessage{Type: MessageSet, Path: "count", Value: 2})
	if msg := readMessage(t, b); !strings.Contains(msg.HTML, "<p>hi 2</p>") {
		t.Errorf("session b saw session a's write: %q", msg.HTML)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts, _ := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn)
	writeMessage(t, conn, ClientMessage{Type: MessageSet, Path: "msg", Value: "x"})
	readMessage(t, conn)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{"vbind_active_sessions", `vbind_session_messages_total{code="ok",type="set"} 1`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestHealthz(t *testing.T) {
	_, ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		origin, host string
		want         bool
	}{
		{"", "example.com", true},
		{"http://example.com", "example.com", true},
		{"http://evil.com", "example.com", false},
		{"::bad", "example.com", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.Host = tt.host
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := SameOriginCheck(r); got != tt.want {
			t.Errorf("SameOriginCheck(%q, %q) = %v, want %v", tt.origin, tt.host, got, tt.want)
		}
	}
}

func TestClientScriptEscapesSelector(t *testing.T) {
	script, err := clientScript(`</script><b>`)
	if err != nil {
		t.Fatalf("clientScript: %v", err)
	}
	if strings.Count(script, "</script>") != 1 {
		t.Error("selector closed the script tag")
	}
}
