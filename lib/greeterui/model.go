// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greeterui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grxxt/grxxt/lib/config"
	"github.com/grxxt/grxxt/lib/lastlogin"
	"github.com/grxxt/grxxt/lib/power"
	"github.com/grxxt/grxxt/lib/tui"
)

// AuthenticateFunc runs one blocking authentication attempt and
// returns nil on success. Production wires greetd.Authenticate (via
// a closure carrying Options); tests inject a recorder.
type AuthenticateFunc func(username, password, sessionCommand string) error

// focusField identifies which input has keyboard focus.
type focusField int

const (
	focusUsername focusField = iota
	focusPassword
)

// authResultMsg delivers the outcome of the authentication tea.Cmd.
type authResultMsg struct {
	err error
}

// clockTickMsg fires at the next minute boundary to refresh the
// header clock.
type clockTickMsg time.Time

// Model is the greeter's bubbletea model.
type Model struct {
	theme tui.Theme
	keys  keyMap

	username textinput.Model
	password textinput.Model
	focus    focusField

	// errorText is shown under the form until the next keystroke.
	errorText string

	// authenticating is set between submitting credentials and the
	// authResultMsg. All input except quit is ignored while set.
	authenticating bool

	// authenticated is set when the daemon accepted the session
	// start; the process should exit and let the daemon take over.
	authenticated bool

	sessionCommand string
	authenticate   AuthenticateFunc
	powerControl   *power.Controller
	lastUser       *lastlogin.Cache
	logger         *slog.Logger

	width    int
	height   int
	now      time.Time
	hostname string
	kernel   string
}

// NewModel builds the login screen from configuration. authenticate
// performs the blocking exchange; lastUser may be nil to disable the
// username prefill.
func NewModel(cfg *config.Config, authenticate AuthenticateFunc, powerControl *power.Controller, lastUser *lastlogin.Cache, logger *slog.Logger) Model {
	theme := tui.FromConfig(cfg.Theme)

	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = ""
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.CharLimit = 256
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	model := Model{
		theme:          theme,
		keys:           defaultKeyMap(),
		username:       username,
		password:       password,
		focus:          focusUsername,
		sessionCommand: cfg.Session.Command,
		authenticate:   authenticate,
		powerControl:   powerControl,
		lastUser:       lastUser,
		logger:         logger,
		now:            time.Now(),
	}
	model.hostname, model.kernel = readSystemInfo()

	if lastUser != nil {
		if cached := lastUser.Load(); cached != "" {
			model.username.SetValue(cached)
			model.setFocus(focusPassword)
		}
	}
	return model
}

// Authenticated reports whether the daemon accepted a session start.
// The caller's control loop uses this to pick the exit path; the
// model itself never terminates the process.
func (m Model) Authenticated() bool {
	return m.authenticated
}

// Init schedules the cursor blink and the first clock tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, clockTick(m.now))
}

// clockTick fires at the next minute boundary. The header clock has
// minute resolution, so ticking faster is wasted wakeups on a
// machine idling at a login prompt.
func clockTick(now time.Time) tea.Cmd {
	next := now.Truncate(time.Minute).Add(time.Minute)
	return tea.Tick(time.Until(next), func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clockTickMsg:
		m.now = time.Time(msg)
		return m, clockTick(m.now)

	case authResultMsg:
		return m.handleAuthResult(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocusedField(msg)
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.authenticated = true
		m.authenticating = false
		if m.lastUser != nil {
			if err := m.lastUser.Save(m.username.Value()); err != nil {
				m.logger.Warn("saving last-login cache", "error", err)
			}
		}
		return m, tea.Quit
	}

	// Failure: show the reason, clear the password, put focus back
	// on the password field for another try.
	m.authenticating = false
	m.errorText = msg.err.Error()
	m.password.Reset()
	m.setFocus(focusPassword)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The attempt in flight owns the screen; a stray Enter must not
	// start a second one.
	if m.authenticating {
		return m, nil
	}

	// Any keystroke dismisses a displayed error.
	m.errorText = ""

	switch {
	case key.Matches(msg, m.keys.Poweroff):
		m.powerControl.Poweroff()
		return m, nil
	case key.Matches(msg, m.keys.Reboot):
		m.powerControl.Reboot()
		return m, nil
	case key.Matches(msg, m.keys.Suspend):
		m.powerControl.Suspend()
		return m, nil
	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		m.toggleFocus()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	return m.updateFocusedField(msg)
}

// submit validates the form. Authentication starts only from the
// password field with both fields non-empty; no connection is ever
// attempted for an empty username or password.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.focus == focusUsername {
		if m.username.Value() == "" {
			m.errorText = "Username required"
			return m, nil
		}
		m.setFocus(focusPassword)
		return m, nil
	}

	if m.username.Value() == "" {
		m.errorText = "Username required"
		m.setFocus(focusUsername)
		return m, nil
	}
	if m.password.Value() == "" {
		m.errorText = "Password required"
		return m, nil
	}

	m.authenticating = true
	return m, m.authCmd()
}

// authCmd runs the blocking authentication exchange off the update
// loop. The closure captures the credentials by value; the model that
// scheduled it may be long replaced by the time the result arrives.
func (m Model) authCmd() tea.Cmd {
	authenticate := m.authenticate
	username := m.username.Value()
	password := m.password.Value()
	sessionCommand := m.sessionCommand
	return func() tea.Msg {
		return authResultMsg{err: authenticate(username, password, sessionCommand)}
	}
}

func (m *Model) setFocus(field focusField) {
	m.focus = field
	if field == focusUsername {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.password.Focus()
		m.username.Blur()
	}
}

func (m *Model) toggleFocus() {
	if m.focus == focusUsername {
		m.setFocus(focusPassword)
	} else {
		m.setFocus(focusUsername)
	}
}

func (m Model) updateFocusedField(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusUsername {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}
