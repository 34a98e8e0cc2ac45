package worker

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgress_Line(t *testing.T) {
	p := NewProgress(10, "gradients", false)
	p.Update(5, 10, 0)

	line := p.Line()
	if !strings.Contains(line, "5/10 gradients") {
		t.Errorf("Expected count in line, got %q", line)
	}
	if !strings.Contains(line, "gradients/sec") {
		t.Errorf("Expected rate in line, got %q", line)
	}
	if strings.Contains(line, "failed") {
		t.Errorf("Did not expect failures in line, got %q", line)
	}
}

func TestProgress_Failures(t *testing.T) {
	p := NewProgress(4, "gradients", false)
	p.Update(2, 4, 1)

	if line := p.Line(); !strings.Contains(line, "(1 failed)") {
		t.Errorf("Expected failure count, got %q", line)
	}
}

func TestProgress_ETA(t *testing.T) {
	p := NewProgress(10, "gradients", false)
	p.start = time.Now().Add(-time.Second)
	p.Update(2, 10, 0)

	if line := p.Line(); !strings.Contains(line, "ETA:") {
		t.Errorf("Expected ETA, got %q", line)
	}
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(2, "gradients", true)
	p.SetOutput(&buf)

	p.Update(1, 2, 0)
	p.Update(2, 2, 0)
	p.Done()

	out := buf.String()
	if !strings.Contains(out, "2/2 gradients") {
		t.Errorf("Expected final count, got %q", out)
	}
	if !strings.Contains(out, "done in") {
		t.Errorf("Expected completion marker, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("Expected trailing newline")
	}
}

func TestProgress_Disabled(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(1, "", false)
	p.SetOutput(&buf)
	p.Update(1, 1, 0)
	p.Done()

	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
	if s := p.Summary(); !strings.Contains(s, "Baked 1/1 items (0 failed)") {
		t.Errorf("Unexpected summary %q", s)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
