// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greeterui

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/grxxt/grxxt/lib/config"
	"github.com/grxxt/grxxt/lib/lastlogin"
	"github.com/grxxt/grxxt/lib/power"
)

// authRecorder is an injectable authenticator that records its calls
// and returns a canned result.
type authRecorder struct {
	calls    int
	username string
	password string
	session  string
	result   error
}

func (r *authRecorder) authenticate(username, password, sessionCommand string) error {
	r.calls++
	r.username = username
	r.password = password
	r.session = sessionCommand
	return r.result
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testModel(recorder *authRecorder) Model {
	logger := testLogger()
	// All power actions disabled: the model must not spawn processes
	// from tests.
	powerControl := power.NewController(config.PowerConfig{}, logger)
	return NewModel(config.Default(), recorder.authenticate, powerControl, nil, logger)
}

func keyRunes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

var keyEnter = tea.KeyMsg{Type: tea.KeyEnter}

func update(t *testing.T, model Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next, cmd
}

func TestSubmitEmptyUsernameNeverAuthenticates(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{}
	model := testModel(recorder)

	model, cmd := update(t, model, keyEnter)
	if cmd != nil {
		t.Error("empty-username submit should produce no command")
	}
	if recorder.calls != 0 {
		t.Errorf("authenticate called %d times, want 0", recorder.calls)
	}
	if model.errorText != "Username required" {
		t.Errorf("errorText = %q", model.errorText)
	}
}

func TestEnterOnUsernameAdvancesFocus(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{}
	model := testModel(recorder)

	model, _ = update(t, model, keyRunes("alice"))
	model, _ = update(t, model, keyEnter)

	if model.focus != focusPassword {
		t.Errorf("focus = %v, want password", model.focus)
	}
	if recorder.calls != 0 {
		t.Errorf("authenticate called %d times, want 0", recorder.calls)
	}
}

func TestSubmitEmptyPasswordNeverAuthenticates(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{}
	model := testModel(recorder)

	model, _ = update(t, model, keyRunes("alice"))
	model, _ = update(t, model, keyEnter)
	model, cmd := update(t, model, keyEnter)

	if cmd != nil {
		t.Error("empty-password submit should produce no command")
	}
	if recorder.calls != 0 {
		t.Errorf("authenticate called %d times, want 0", recorder.calls)
	}
	if model.errorText != "Password required" {
		t.Errorf("errorText = %q", model.errorText)
	}
}

func TestSubmitRunsAuthenticationCommand(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{result: errors.New("Authentication failed")}
	model := testModel(recorder)

	model, _ = update(t, model, keyRunes("alice"))
	model, _ = update(t, model, keyEnter)
	model, _ = update(t, model, keyRunes("hunter2"))
	model, cmd := update(t, model, keyEnter)

	if !model.authenticating {
		t.Fatal("model should be authenticating after a valid submit")
	}
	if cmd == nil {
		t.Fatal("valid submit must produce the authentication command")
	}

	// Run the command as the bubbletea runtime would.
	msg := cmd()
	if recorder.calls != 1 {
		t.Fatalf("authenticate called %d times, want 1", recorder.calls)
	}
	if recorder.username != "alice" || recorder.password != "hunter2" {
		t.Errorf("credentials = %q/%q", recorder.username, recorder.password)
	}
	if recorder.session != config.Default().Session.Command {
		t.Errorf("session command = %q", recorder.session)
	}

	// Deliver the failure result: password cleared, focus back on
	// the password field, reason displayed.
	model, _ = update(t, model, msg)
	if model.authenticating {
		t.Error("authenticating should clear on result")
	}
	if model.password.Value() != "" {
		t.Errorf("password should be cleared, got %q", model.password.Value())
	}
	if model.focus != focusPassword {
		t.Errorf("focus = %v, want password", model.focus)
	}
	if model.errorText != "Authentication failed" {
		t.Errorf("errorText = %q", model.errorText)
	}
	if model.Authenticated() {
		t.Error("failed attempt must not mark the model authenticated")
	}
}

func TestSuccessQuitsProgram(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{}
	model := testModel(recorder)

	model, _ = update(t, model, keyRunes("alice"))
	model, _ = update(t, model, keyEnter)
	model, _ = update(t, model, keyRunes("hunter2"))
	model, cmd := update(t, model, keyEnter)

	model, quitCmd := update(t, model, cmd())
	if quitCmd == nil {
		t.Fatal("success must schedule quit")
	}
	if _, ok := quitCmd().(tea.QuitMsg); !ok {
		t.Error("success command should be tea.Quit")
	}
	if !model.Authenticated() {
		t.Error("model should report authenticated")
	}
}

func TestSubmitWhileAuthenticatingIgnored(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{}
	model := testModel(recorder)

	model, _ = update(t, model, keyRunes("alice"))
	model, _ = update(t, model, keyEnter)
	model, _ = update(t, model, keyRunes("hunter2"))
	model, _ = update(t, model, keyEnter)

	_, cmd := update(t, model, keyEnter)
	if cmd != nil {
		t.Error("submit during an in-flight attempt must be ignored")
	}
}

func TestErrorClearedOnNextKeystroke(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{}
	model := testModel(recorder)

	model, _ = update(t, model, keyEnter)
	if model.errorText == "" {
		t.Fatal("expected validation error")
	}
	model, _ = update(t, model, keyRunes("a"))
	if model.errorText != "" {
		t.Errorf("errorText should clear on keystroke, got %q", model.errorText)
	}
}

func TestPrefillFromLastLoginCache(t *testing.T) {
	t.Parallel()
	cache := lastlogin.New(t.TempDir())
	if err := cache.Save("alice"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	logger := testLogger()
	powerControl := power.NewController(config.PowerConfig{}, logger)
	model := NewModel(config.Default(), (&authRecorder{}).authenticate, powerControl, cache, logger)

	if model.username.Value() != "alice" {
		t.Errorf("username prefill = %q", model.username.Value())
	}
	if model.focus != focusPassword {
		t.Errorf("focus = %v, want password when prefilled", model.focus)
	}
}

func TestViewShowsFormAndHints(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{}
	model := testModel(recorder)
	model, _ = update(t, model, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := ansi.Strip(model.View())
	for _, want := range []string{"USERNAME", "PASSWORD", "[F1]", "poweroff", "[F3]", "suspend"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewShowsAuthenticatingAndError(t *testing.T) {
	t.Parallel()
	recorder := &authRecorder{result: errors.New("Connection failed: daemon gone")}
	model := testModel(recorder)
	model, _ = update(t, model, tea.WindowSizeMsg{Width: 80, Height: 24})

	model, _ = update(t, model, keyRunes("alice"))
	model, _ = update(t, model, keyEnter)
	model, _ = update(t, model, keyRunes("pw"))
	model, cmd := update(t, model, keyEnter)

	if !strings.Contains(ansi.Strip(model.View()), "Authenticating…") {
		t.Error("in-flight view should show the authenticating notice")
	}

	model, _ = update(t, model, cmd())
	if !strings.Contains(ansi.Strip(model.View()), "Connection failed") {
		t.Error("failure view should show the error message")
	}
}
