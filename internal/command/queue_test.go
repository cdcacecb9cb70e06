package command

import (
	"testing"

	"github.com/vovakirdan/quad/internal/core"
)

func drain(q *Queue) []Command {
	var out []Command
	for {
		c, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

func TestQueueLIFO(t *testing.T) {
	q := NewQueue(LIFO, 0)
	q.Push(Move(Up))
	q.Push(Move(Left))
	q.Push(Move(Down))

	got := drain(q)
	expected := []Command{Move(Down), Move(Left), Move(Up)}
	if len(got) != len(expected) {
		t.Fatalf("drained %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("pop %d = %v, expected %v", i, got[i], expected[i])
		}
	}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(FIFO, 0)
	q.Push(Move(Up))
	q.Push(Move(Left))
	q.Push(Move(Down))

	got := drain(q)
	expected := []Command{Move(Up), Move(Left), Move(Down)}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("pop %d = %v, expected %v", i, got[i], expected[i])
		}
	}
}

func TestQueueEmptyPop(t *testing.T) {
	q := NewQueue(LIFO, 0)
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on an empty queue should report false")
	}
}

func TestQueueLimitDropsOldest(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		expected []Command
	}{
		{"lifo", LIFO, []Command{Move(Right), Move(Down)}},
		{"fifo", FIFO, []Command{Move(Down), Move(Right)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := NewQueue(tc.policy, 2)
			if q.Push(Move(Up)) {
				t.Error("first push should not drop")
			}
			q.Push(Move(Down))
			if !q.Push(Move(Right)) {
				t.Error("push into a full queue should drop")
			}

			if q.Dropped() != 1 {
				t.Errorf("Dropped() = %d, expected 1", q.Dropped())
			}
			got := drain(q)
			if len(got) != 2 || got[0] != tc.expected[0] || got[1] != tc.expected[1] {
				t.Errorf("drained %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in       string
		expected Policy
		wantErr  bool
	}{
		{"", LIFO, false},
		{"lifo", LIFO, false},
		{"fifo", FIFO, false},
		{"stack", LIFO, true},
	}

	for _, tc := range tests {
		got, err := ParsePolicy(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.expected {
			t.Errorf("ParsePolicy(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestTranslate(t *testing.T) {
	release := func(k core.Key) core.Event { return core.Event{Key: k, State: core.KeyReleased} }
	press := func(k core.Key) core.Event { return core.Event{Key: k, State: core.KeyPressed} }

	tests := []struct {
		name   string
		ev     core.Event
		want   Command
		wantOK bool
	}{
		{"escape quits", release(core.KeyEscape), Quit(), true},
		{"up", release(core.KeyUp), Move(Up), true},
		{"down", release(core.KeyDown), Move(Down), true},
		{"left", release(core.KeyLeft), Move(Left), true},
		{"right", release(core.KeyRight), Move(Right), true},
		{"press is ignored", press(core.KeyUp), Command{}, false},
		{"escape press is ignored", press(core.KeyEscape), Command{}, false},
		{"letter key", core.Event{Key: core.KeyRune, Rune: 'a', State: core.KeyReleased}, Command{}, false},
		{"unknown key", release(core.KeyUnknown), Command{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Translate(tc.ev)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("Translate(%+v) = %v, %v; expected %v, %v", tc.ev, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		dir      Direction
		expected core.Point
	}{
		{Up, core.Point{Y: -32}},
		{Down, core.Point{Y: 32}},
		{Left, core.Point{X: -32}},
		{Right, core.Point{X: 32}},
	}

	for _, tc := range tests {
		if got := tc.dir.Delta(32); got != tc.expected {
			t.Errorf("%v.Delta(32) = %+v, expected %+v", tc.dir, got, tc.expected)
		}
	}
}

func TestCommandString(t *testing.T) {
	if Quit().String() != "Quit" {
		t.Errorf("Quit().String() = %q", Quit().String())
	}
	if Move(Left).String() != "Move(Left)" {
		t.Errorf("Move(Left).String() = %q", Move(Left).String())
	}
	if (Command{}).String() != "Invalid" {
		t.Errorf("zero Command String() = %q", Command{}.String())
	}
}
