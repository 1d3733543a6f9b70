package gui

import (
	"context"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/window"
)

const commandTimeout = 5 * time.Second

type settingsWindow struct {
	d *Driver
	w fyne.Window

	name      *widget.Entry
	userID    *widget.Entry
	apiURL    *widget.Entry
	interval  *widget.Entry
	env       *widget.Entry
	logs      *widget.Check
	devMode   *widget.Check
	connected *widget.Check

	info     *widget.Label
	status   *widget.Label
	save     *widget.Button
	openLogs *widget.Button
}

func (d *Driver) newSettings(spec window.Spec) window.Surface {
	sw := &settingsWindow{d: d, w: d.newWindow("purse settings", spec)}
	sw.build()
	sw.w.SetCloseIntercept(func() { d.cmds.CloseWindow(window.RoleSettings) })
	if !spec.Hidden {
		sw.w.Show()
	}
	go sw.load()
	return &surface{w: sw.w}
}

func (sw *settingsWindow) build() {
	sw.name = widget.NewEntry()
	sw.name.SetPlaceHolder("name shown on the card")
	sw.userID = widget.NewEntry()
	sw.apiURL = widget.NewEntry()
	sw.apiURL.SetPlaceHolder(settings.DefaultAPIURL)
	sw.interval = widget.NewEntry()
	sw.interval.SetPlaceHolder("0 disables")
	sw.env = widget.NewEntry()
	sw.env.SetPlaceHolder("production")
	sw.logs = widget.NewCheck("Write logs", nil)
	sw.devMode = widget.NewCheck("Developer mode", nil)
	sw.connected = widget.NewCheck("Connected", nil)

	form := widget.NewForm(
		widget.NewFormItem("Representative", sw.name),
		widget.NewFormItem("User ID", sw.userID),
		widget.NewFormItem("API URL", sw.apiURL),
		widget.NewFormItem("Refresh (minutes)", sw.interval),
		widget.NewFormItem("Environment", sw.env),
	)

	sw.info = widget.NewLabel("")
	sw.info.Wrapping = fyne.TextWrapWord
	sw.status = widget.NewLabel("Loading settings...")
	sw.save = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), sw.onSave)
	sw.save.Importance = widget.HighImportance
	sw.save.Disable()
	sw.openLogs = widget.NewButtonWithIcon("Open logs folder", theme.FolderOpenIcon(), sw.onOpenLogs)

	sw.w.SetContent(container.NewBorder(nil,
		container.NewVBox(sw.status, container.NewHBox(sw.openLogs, widget.NewLabel(""), sw.save)),
		nil, nil,
		container.NewVScroll(container.NewVBox(form, sw.logs, sw.devMode, sw.connected, widget.NewSeparator(), sw.info)),
	))
}

func (sw *settingsWindow) load() {
	ctx, cancel := context.WithTimeout(sw.d.ctx, commandTimeout)
	defer cancel()
	v, err := sw.d.cmds.GetSettings(ctx)
	fyne.Do(func() {
		if err != nil {
			sw.status.SetText(err.Error())
			return
		}
		sw.fill(v)
		sw.status.SetText("")
		sw.save.Enable()
	})
}

func (sw *settingsWindow) fill(v settings.View) {
	sw.name.SetText(v.RepresentativeName)
	sw.userID.SetText(v.UserID)
	sw.apiURL.SetText(v.APIURL)
	sw.interval.SetText(v.APIRefreshInterval.String())
	sw.env.SetText(v.Environment)
	sw.logs.SetChecked(v.EnableLogs)
	sw.devMode.SetChecked(v.DevMode)
	sw.connected.SetChecked(v.Connected)

	lines := []string{"Version " + v.Version}
	if v.LogsDir != "" {
		lines = append(lines, "Logs: "+v.LogsDir)
	}
	if v.DevMode {
		lines = append(lines, "File: "+v.SettingsPath)
	}
	sw.info.SetText(strings.Join(lines, "\n"))
}

func (sw *settingsWindow) partial() settings.Partial {
	name := strings.TrimSpace(sw.name.Text)
	user := strings.TrimSpace(sw.userID.Text)
	url := strings.TrimSpace(sw.apiURL.Text)
	env := strings.TrimSpace(sw.env.Text)
	interval := settings.ParseMinutes(sw.interval.Text)
	logs, dev, connected := sw.logs.Checked, sw.devMode.Checked, sw.connected.Checked
	return settings.Partial{
		RepresentativeName: &name,
		UserID:             &user,
		APIURL:             &url,
		Environment:        &env,
		APIRefreshInterval: &interval,
		EnableLogs:         &logs,
		DevMode:            &dev,
		Connected:          &connected,
	}
}

// onSave runs on the main goroutine; the save itself does not.
func (sw *settingsWindow) onSave() {
	p := sw.partial()
	sw.save.Disable()
	sw.status.SetText("Saving...")
	go func() {
		ctx, cancel := context.WithTimeout(sw.d.ctx, commandTimeout)
		defer cancel()
		change, err := sw.d.cmds.SaveSettings(ctx, p)
		fyne.Do(func() { sw.saved(change, err) })
	}()
}

func (sw *settingsWindow) saved(c settings.Change, err error) {
	sw.save.Enable()
	if err != nil {
		sw.status.SetText("")
		dialog.ShowError(err, sw.w)
		return
	}
	if len(c.Fields) == 0 {
		sw.status.SetText("Nothing changed")
	} else {
		sw.status.SetText("Saved " + strings.Join(c.Fields, ", "))
	}
	if c.RestartRequired() {
		dialog.ShowConfirm("Restart required",
			"The new environment applies after a restart. Restart now?",
			func(ok bool) {
				if ok {
					go sw.restart()
				}
			}, sw.w)
	}
}

func (sw *settingsWindow) restart() {
	ctx, cancel := context.WithTimeout(sw.d.ctx, commandTimeout)
	defer cancel()
	if err := sw.d.cmds.RestartApp(ctx); err != nil {
		fyne.Do(func() { dialog.ShowError(err, sw.w) })
	}
}

func (sw *settingsWindow) onOpenLogs() {
	go func() {
		ctx, cancel := context.WithTimeout(sw.d.ctx, commandTimeout)
		defer cancel()
		if err := sw.d.cmds.OpenLogsDirectory(ctx); err != nil {
			fyne.Do(func() { dialog.ShowError(err, sw.w) })
		}
	}()
}
