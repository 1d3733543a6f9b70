package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/five82/purse/internal/window"
)

func (d *Driver) newSplash(spec window.Spec) window.Surface {
	var w fyne.Window
	if drv, ok := d.app.Driver().(desktop.Driver); ok {
		w = drv.CreateSplashWindow()
	} else {
		w = d.app.NewWindow("purse")
	}
	w.Resize(fyne.NewSize(float32(spec.Size.Width), float32(spec.Size.Height)))

	title := canvas.NewText("purse", theme.Color(theme.ColorNamePrimary))
	title.TextSize = 42
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	items := []fyne.CanvasObject{title, widget.NewProgressBarInfinite()}
	if d.version != "" {
		items = append(items, widget.NewLabelWithStyle(d.version, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
	}
	w.SetContent(container.NewCenter(container.NewVBox(items...)))
	w.CenterOnScreen()
	if !spec.Hidden {
		w.Show()
	}
	return &surface{w: w}
}
