package main

import (
	"bytes"
	"strings"
	"testing"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestOSC52Sequence(t *testing.T) {
	const encoded = "aGVsbG8="

	seq := osc52Sequence("hello", envOf(map[string]string{"TERM": "xterm-256color"}))
	if seq != "\x1b]52;c;"+encoded+"\x07" {
		t.Fatalf("unexpected OSC52 sequence for xterm: %q", seq)
	}

	seq = osc52Sequence("hello", envOf(map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"}))
	if want := "\x1bPtmux;\x1b\x1b]52;c;" + encoded + "\x07\x1b\\"; seq != want {
		t.Fatalf("unexpected OSC52 sequence for tmux: %q", seq)
	}

	seq = osc52Sequence("hello", envOf(map[string]string{"TERM": "screen-256color"}))
	if want := "\x1bP\x1b]52;c;" + encoded + "\x07\x1b\\"; seq != want {
		t.Fatalf("unexpected OSC52 sequence for screen: %q", seq)
	}
}

func TestOSC52ClipboardWrites(t *testing.T) {
	var buf bytes.Buffer
	c := &osc52Clipboard{out: &buf, getenv: envOf(nil)}
	if err := c.Copy("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b]52;c;") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
