package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, "warn")

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info message to be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, "level=warning") {
		t.Errorf("expected warning line, got %q", out)
	}
}

func TestNewWithLevel_Unknown(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, "loud")
	l.Debugf("debug")
	l.Infof("info")

	if strings.Contains(buf.String(), "debug") {
		t.Errorf("expected unknown level to fall back to info")
	}
	if !strings.Contains(buf.String(), "msg=info") {
		t.Errorf("expected info line, got %q", buf.String())
	}
}
