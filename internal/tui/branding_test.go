package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/folio/internal/config"
)

func TestShowBanner(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	ShowBanner("1.0.0-test")

	w.Close()
	os.Stdout = old
	out := <-outC

	if !strings.Contains(out, "Terminal Book Explorer") {
		t.Errorf("Expected banner to contain 'Terminal Book Explorer', got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "◆") {
		t.Errorf("Expected banner to contain separator symbols, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestGetCompactBanner(t *testing.T) {
	message := "Test message"
	result := GetCompactBanner(message)

	if !strings.Contains(result, message) {
		t.Errorf("Expected compact banner to contain '%s', got: %s", message, result)
	}
	if !strings.Contains(result, "▄████") {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestGetWelcomeMessage(t *testing.T) {
	result := GetWelcomeMessage("ctrl+f")
	if !strings.Contains(result, "Press ctrl+f to search by title") {
		t.Errorf("Expected welcome message to contain correct instructions, got: %s", result)
	}
}

func TestLogoConstants(t *testing.T) {
	assert.Len(t, LogoLines, 5)
	assert.Len(t, BannerColors, 5)
	assert.Equal(t, "folio", AppName)
}

func TestApplyTheme(t *testing.T) {
	saved := []lipgloss.Color{PrimaryColor, ErrorColor, MutedColor}
	t.Cleanup(func() {
		PrimaryColor, ErrorColor, MutedColor = saved[0], saved[1], saved[2]
		buildStyles()
	})

	ApplyTheme(config.UIColors{Primary: "#112233", Error: "#FF0000"})
	assert.Equal(t, lipgloss.Color("#112233"), PrimaryColor)
	assert.Equal(t, lipgloss.Color("#FF0000"), ErrorColor)
	assert.Equal(t, saved[2], MutedColor, "empty entries keep the built-in color")
	assert.Equal(t, lipgloss.TerminalColor(lipgloss.Color("#112233")), LogoStyle.GetForeground())
}
