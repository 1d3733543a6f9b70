package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/five82/purse/internal/render"
	"github.com/five82/purse/internal/window"
)

type mainWindow struct {
	d *Driver
	w fyne.Window

	identity *widget.Label
	userID   *widget.Label
	amount   *canvas.Text
	asOf     *widget.Label
	errText  *widget.Label
	recovery *widget.Label

	card     *fyne.Container
	errPanel *fyne.Container
	recPanel *fyne.Container
	loading  *fyne.Container

	refresh  *widget.Button
	minimize *widget.Button
	close    *widget.Button
	reload   *widget.Button

	diag   *diagnosticsPanel
	loaded bool
}

func (d *Driver) newMain(spec window.Spec) window.Surface {
	mw := &mainWindow{d: d, w: d.newWindow("purse", spec)}
	mw.build()
	mw.diag = newDiagnosticsPanel(d.logsDir)
	mw.w.SetContent(container.NewBorder(mw.toolbar(), mw.diag.object, nil, nil,
		container.NewStack(mw.loading, mw.card, mw.errPanel, mw.recPanel)))
	mw.w.SetCloseIntercept(func() { d.cmds.CloseWindow(window.RoleMain) })
	mw.diag.set(spec.Diagnostics)
	mw.update(d.currentView())

	d.mu.Lock()
	d.main = mw
	d.mu.Unlock()

	if !spec.Hidden {
		mw.w.Show()
	}
	return &surface{
		w:       mw.w,
		onClose: mw.closed,
		diag:    mw.diag.set,
	}
}

func (mw *mainWindow) build() {
	mw.identity = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	mw.userID = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})
	mw.amount = canvas.NewText("", theme.Color(theme.ColorNameSuccess))
	mw.amount.TextSize = 32
	mw.amount.TextStyle = fyne.TextStyle{Bold: true}
	mw.amount.Alignment = fyne.TextAlignCenter
	mw.asOf = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	mw.card = container.NewVBox(layout.NewSpacer(), mw.identity, mw.userID, mw.amount, mw.asOf, layout.NewSpacer())

	mw.errText = widget.NewLabel("")
	mw.errText.Wrapping = fyne.TextWrapWord
	mw.errPanel = container.NewVBox(
		widget.NewLabelWithStyle("Error", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		mw.errText,
	)

	mw.recovery = widget.NewLabel("")
	mw.recovery.Wrapping = fyne.TextWrapWord
	mw.reload = widget.NewButtonWithIcon("Reload", theme.ViewRefreshIcon(), func() {
		if mw.d.reload != nil {
			go mw.d.reload()
		}
	})
	mw.recPanel = container.NewVBox(
		widget.NewLabelWithStyle("Something went wrong.", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		mw.recovery,
		container.NewHBox(layout.NewSpacer(), mw.reload),
	)

	mw.loading = container.NewCenter(container.NewVBox(
		widget.NewProgressBarInfinite(),
		widget.NewLabelWithStyle("Loading...", fyne.TextAlignCenter, fyne.TextStyle{}),
	))
}

func (mw *mainWindow) toolbar() fyne.CanvasObject {
	cmds := mw.d.cmds
	mw.refresh = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), cmds.Refresh)
	mw.minimize = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() { cmds.MinimizeWindow(window.RoleMain) })
	mw.close = widget.NewButtonWithIcon("", theme.CancelIcon(), func() { cmds.CloseWindow(window.RoleMain) })
	settings := widget.NewButtonWithIcon("", theme.SettingsIcon(), cmds.OpenSettings)
	return container.NewHBox(mw.refresh, layout.NewSpacer(), settings, mw.minimize, mw.close)
}

// update shows the panel for v. It runs on the main goroutine.
func (mw *mainWindow) update(v render.View) {
	for _, panel := range []*fyne.Container{mw.loading, mw.card, mw.errPanel, mw.recPanel} {
		panel.Hide()
	}

	switch v.Kind {
	case render.KindCard:
		mw.identity.SetText(v.Card.Identity)
		mw.userID.SetText(v.Card.UserID)
		mw.amount.Text = v.Card.Amount + " " + v.Card.Currency
		mw.amount.Refresh()
		asOf := ""
		if v.Card.AsOf != "" {
			asOf = "as of " + v.Card.AsOf
		}
		mw.asOf.SetText(asOf)
		mw.card.Show()
	case render.KindError:
		mw.errText.SetText(v.Message)
		mw.errPanel.Show()
	case render.KindRecovery:
		mw.recovery.SetText(v.Message)
		mw.recPanel.Show()
	default:
		mw.loading.Show()
	}

	if !mw.loaded && v.Kind != render.KindLoading {
		mw.loaded = true
		mw.d.cmds.ContentLoaded(window.RoleMain)
	}
}

func (mw *mainWindow) closed() {
	mw.diag.set(false)
	mw.d.mu.Lock()
	if mw.d.main == mw {
		mw.d.main = nil
	}
	mw.d.mu.Unlock()
}
