package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0B"},
		{999, "999B"},
		{1024, "1.0KiB"},
		{1536, "1.5KiB"},
		{1024 * 1024, "1.0MiB"},
		{52_428_800, "50.0MiB"},
		{1024 * 1024 * 1024, "1.0GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.n))
	}
}

func TestProgressLine(t *testing.T) {
	t.Run("known size", func(t *testing.T) {
		line := ProgressLine(512, 1024)
		assert.Equal(t, "["+strings.Repeat("#", 14)+strings.Repeat(".", 14)+"]  50% 512B/1.0KiB", line)
	})

	t.Run("complete", func(t *testing.T) {
		line := ProgressLine(2048, 2048)
		assert.Equal(t, "["+strings.Repeat("#", BarWidth)+"] 100% 2.0KiB/2.0KiB", line)
	})

	t.Run("overshoot is clamped", func(t *testing.T) {
		line := ProgressLine(4096, 2048)
		assert.Contains(t, line, "100%")
		assert.Contains(t, line, strings.Repeat("#", BarWidth))
	})

	t.Run("unknown size", func(t *testing.T) {
		assert.Equal(t, "Downloading... 1.5KiB", ProgressLine(1536, -1))
	})
}

func TestProgress_DrawAndDone(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	p.Draw(10, -1)
	p.Done(20, -1)

	assert.Equal(t, "\rDownloading... 10B\rDownloading... 20B\n", buf.String())
}

func TestProgressFactory_NonTerminalIsSilent(t *testing.T) {
	var buf bytes.Buffer
	p := ProgressFactory(&buf)()

	p.Draw(1, 2)
	p.Done(2, 2)

	assert.Empty(t, buf.String())
}
