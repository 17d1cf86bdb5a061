package builtin

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/view"
	"github.com/vango-dev/vbind/pkg/vtest"
)

func TestCounterButtons(t *testing.T) {
	h := vtest.Mount(t, `<button id="up" @click="inc(count)">+</button><button id="down" @click="dec(count)">-</button><span>{{count}}</span>`, vbind.Options{
		Data:    map[string]any{"count": 0},
		Methods: Methods(nil),
	})

	h.Click("#up")
	h.Click("#up")
	h.Click("#down")
	h.ExpectText("span", "1")
}

func TestIncKeepsFloat(t *testing.T) {
	h := vtest.Mount(t, `<b @click="inc(n)">{{n}}</b>`, vbind.Options{
		Data:    map[string]any{"n": 1.5},
		Methods: Methods(nil),
	})

	h.Click("b")
	if got := h.Get("n"); got != 2.5 {
		t.Errorf("n = %v, want 2.5", got)
	}
}

func TestIncRejectsString(t *testing.T) {
	h := vtest.Mount(t, `<b @click="inc(s)">x</b>`, vbind.Options{
		Data:    map[string]any{"s": "a"},
		Methods: Methods(nil),
	})

	if err := h.Fire("b", "click", ""); err == nil {
		t.Error("inc on a string should fail")
	}
}

func TestToggleSetClear(t *testing.T) {
	h := vtest.Mount(t, `<i @click="toggle(done)">t</i><select @change="set(form.choice)"></select><u @click="clear(form.choice)">c</u><p>{{done}} {{form.choice}}</p>`, vbind.Options{
		Data: map[string]any{
			"done": false,
			"form": map[string]any{"choice": ""},
		},
		Methods: Methods(nil),
	})

	h.Click("i")
	if err := h.Fire("select", "change", "b"); err != nil {
		t.Fatalf("change: %v", err)
	}
	h.ExpectText("p", "true b")

	h.Click("u")
	h.Click("i")
	h.ExpectText("p", "false ")
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	vm, err := vbind.New(vbind.Options{Methods: Methods(logger)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := vm.Call("log", "hello", view.Event{Type: "click"}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !strings.Contains(buf.String(), "text=hello") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestComputedTemplates(t *testing.T) {
	h := vtest.Mount(t, `<p>{{greeting}}</p>`, vbind.Options{
		Data:     map[string]any{"user": map[string]any{"name": "Ann"}},
		Computed: Computed(map[string]string{"greeting": "Hello {{ user.name }}!"}),
	})

	h.ExpectText("p", "Hello Ann!")
	h.Set("user.name", "Bo")
	h.ExpectText("p", "Hello Bo!")
}

func TestComputedTemplatesFilteredMode(t *testing.T) {
	h := vtest.Mount(t, `<p>{{greeting}}</p>`, vbind.Options{
		Data:     map[string]any{"user": map[string]any{"name": "Ann"}},
		Computed: Computed(map[string]string{"greeting": "Hello {{ user.name }}!"}),
		Mode:     reactive.ModeFiltered,
	})

	h.Set("user.name", "Bo")
	h.ExpectText("p", "Hello Bo!")
}

func TestAddUnsigned(t *testing.T) {
	tests := []struct {
		name  string
		in    uint64
		delta int64
		want  uint64
	}{
		{"above max int64", 1 << 63, 1, 1<<63 + 1},
		{"up to max", math.MaxUint64 - 1, 1, math.MaxUint64},
		{"down from max", math.MaxUint64, -1, math.MaxUint64 - 1},
		{"down to zero", 1, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := add(tt.in, tt.delta)
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			if got != tt.want {
				t.Errorf("add(%d, %d) = %v, want %d", tt.in, tt.delta, got, tt.want)
			}
		})
	}

	if _, err := add(uint8(0), -1); err == nil {
		t.Error("add(uint8(0), -1) should fail")
	}
}

func TestNames(t *testing.T) {
	want := []string{"clear", "dec", "inc", "log", "set", "toggle"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}
