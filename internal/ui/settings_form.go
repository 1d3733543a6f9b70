package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/purse/internal/settings"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldToggle
)

type formField struct {
	name  string
	label string
	kind  fieldKind
	input textinput.Model
	on    bool
}

// formAction is what the model should do after a key press in the form.
type formAction int

const (
	actionNone formAction = iota
	actionSave
	actionClose
	actionOpenLogs
	actionRestart
	actionLater
)

// settingsForm edits a copy of the settings record. It is created empty and
// filled once the shell answers GetSettings.
type settingsForm struct {
	gen     uint64
	loaded  bool
	current settings.View
	fields  []formField
	focus   int

	pending       bool
	err           string
	notice        string
	restartPrompt bool
}

func newSettingsForm(gen uint64) *settingsForm {
	return &settingsForm{gen: gen}
}

func textField(name, label, value, placeholder string) formField {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = 32
	in.SetValue(value)
	return formField{name: name, label: label, kind: fieldText, input: in}
}

func toggleField(name, label string, on bool) formField {
	return formField{name: name, label: label, kind: fieldToggle, on: on}
}

// load fills the form from v.
func (f *settingsForm) load(v settings.View) {
	f.loaded = true
	f.current = v
	f.fields = []formField{
		textField(settings.FieldRepresentativeName, "Representative", v.RepresentativeName, "name shown on the card"),
		textField(settings.FieldUserID, "User ID", v.UserID, ""),
		textField(settings.FieldAPIURL, "API URL", v.APIURL, settings.DefaultAPIURL),
		textField(settings.FieldAPIRefreshInterval, "Refresh (minutes)", v.APIRefreshInterval.String(), "0 disables"),
		textField(settings.FieldEnvironment, "Environment", v.Environment, "production"),
		toggleField(settings.FieldEnableLogs, "Write logs", v.EnableLogs),
		toggleField(settings.FieldDevMode, "Developer mode", v.DevMode),
		toggleField(settings.FieldConnected, "Connected", v.Connected),
	}
	f.focus = 0
	f.focusCurrent()
}

func (f *settingsForm) focusCurrent() {
	for i := range f.fields {
		if f.fields[i].kind != fieldText {
			continue
		}
		if i == f.focus {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
}

// partial collects every editable field.
func (f *settingsForm) partial() settings.Partial {
	var p settings.Partial
	for _, fld := range f.fields {
		text := strings.TrimSpace(fld.input.Value())
		on := fld.on
		switch fld.name {
		case settings.FieldRepresentativeName:
			p.RepresentativeName = &text
		case settings.FieldUserID:
			p.UserID = &text
		case settings.FieldAPIURL:
			p.APIURL = &text
		case settings.FieldAPIRefreshInterval:
			m := settings.ParseMinutes(text)
			p.APIRefreshInterval = &m
		case settings.FieldEnvironment:
			p.Environment = &text
		case settings.FieldEnableLogs:
			p.EnableLogs = &on
		case settings.FieldDevMode:
			p.DevMode = &on
		case settings.FieldConnected:
			p.Connected = &on
		}
	}
	return p
}

// Update handles a key press.
func (f *settingsForm) Update(msg tea.KeyMsg, keys keyMap) (tea.Cmd, formAction) {
	if f.restartPrompt {
		switch {
		case key.Matches(msg, keys.Confirm):
			f.restartPrompt = false
			return nil, actionRestart
		case key.Matches(msg, keys.Deny):
			f.restartPrompt = false
			return nil, actionLater
		}
		return nil, actionNone
	}

	switch {
	case key.Matches(msg, keys.Escape):
		return nil, actionClose
	case key.Matches(msg, keys.OpenLogs):
		return nil, actionOpenLogs
	}
	if !f.loaded {
		return nil, actionNone
	}

	switch {
	case key.Matches(msg, keys.Save):
		if f.pending {
			return nil, actionNone
		}
		return nil, actionSave
	case key.Matches(msg, keys.Next):
		f.focus = (f.focus + 1) % len(f.fields)
		f.focusCurrent()
		return nil, actionNone
	case key.Matches(msg, keys.Prev):
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
		f.focusCurrent()
		return nil, actionNone
	}

	fld := &f.fields[f.focus]
	if fld.kind == fieldToggle {
		if key.Matches(msg, keys.Toggle) {
			fld.on = !fld.on
		}
		return nil, actionNone
	}
	var cmd tea.Cmd
	fld.input, cmd = fld.input.Update(msg)
	return cmd, actionNone
}

// saved records the outcome of a save.
func (f *settingsForm) saved(c settings.Change, err error) {
	f.pending = false
	if err != nil {
		f.err = err.Error()
		f.notice = ""
		return
	}
	f.err = ""
	f.current.Settings = c.After
	if len(c.Fields) == 0 {
		f.notice = "Nothing changed"
	} else {
		f.notice = "Saved " + strings.Join(c.Fields, ", ")
	}
	f.restartPrompt = c.RestartRequired()
}

// View renders the form.
func (f *settingsForm) View(theme Theme) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Settings"))
	if f.current.Version != "" {
		b.WriteString(styles.FaintText.Render("  v" + f.current.Version))
	}
	b.WriteString("\n\n")

	if !f.loaded {
		b.WriteString(styles.MutedText.Render("Loading settings..."))
		return styles.Modal.Width(ModalWidth).Render(b.String())
	}

	for i, fld := range f.fields {
		label := styles.MutedText.Width(20).Render(fld.label)
		if i == f.focus {
			label = styles.FocusedLabel.Width(20).Render(fld.label)
		}
		b.WriteString(label)
		switch fld.kind {
		case fieldToggle:
			mark := "[ ]"
			if fld.on {
				mark = "[x]"
			}
			b.WriteString(styles.Input.Render(mark))
		default:
			b.WriteString(fld.input.View())
		}
		b.WriteString("\n")
	}

	if f.current.LogsDir != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Logs: " + f.current.LogsDir))
	}
	if f.current.DevMode {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("File: " + f.current.SettingsPath))
	}
	b.WriteString("\n\n")

	switch {
	case f.restartPrompt:
		b.WriteString(styles.WarningText.Render("Restart to apply the new environment? (y/n)"))
	case f.pending:
		b.WriteString(styles.MutedText.Render("Saving..."))
	case f.err != "":
		b.WriteString(styles.DangerText.Render(f.err))
	case f.notice != "":
		b.WriteString(styles.SuccessText.Render(f.notice))
	default:
		b.WriteString(styles.FaintText.Render("ctrl+s save  ctrl+l logs  esc close"))
	}

	return styles.Modal.Width(ModalWidth).Render(b.String())
}
