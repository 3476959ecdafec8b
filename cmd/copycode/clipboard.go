package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

// copier places text on a clipboard.
type copier interface {
	Copy(text string) error
}

// systemClipboard uses the platform clipboard utilities.
type systemClipboard struct{}

func (systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility found (install xclip, xsel, or wl-clipboard)")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}

// osc52Clipboard asks the terminal to set the clipboard, which also works over SSH.
type osc52Clipboard struct {
	out    io.Writer
	getenv func(string) string
}

func newOSC52Clipboard(out *os.File) (*osc52Clipboard, error) {
	if !term.IsTerminal(int(out.Fd())) {
		return nil, errors.New("--ssh-copy requires stdout to be a terminal")
	}
	return &osc52Clipboard{out: out, getenv: os.Getenv}, nil
}

func (c *osc52Clipboard) Copy(text string) error {
	if _, err := io.WriteString(c.out, osc52Sequence(text, c.getenv)); err != nil {
		return fmt.Errorf("failed to write OSC 52 sequence: %w", err)
	}
	return nil
}

// osc52Sequence wraps the escape in a DCS passthrough under tmux and screen.
func osc52Sequence(text string, getenv func(string) string) string {
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\x07"
	switch {
	case getenv("TMUX") != "":
		return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
	case strings.HasPrefix(getenv("TERM"), "screen"):
		return "\x1bP" + seq + "\x1b\\"
	default:
		return seq
	}
}
