package gui

import (
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/five82/purse/internal/logtail"
)

const (
	diagnosticsLines   = 100
	diagnosticsRefresh = time.Second
)

// diagnosticsPanel tails today's log under the card while developer mode is on.
type diagnosticsPanel struct {
	object  fyne.CanvasObject
	text    *widget.Label
	scroll  *container.Scroll
	logsDir func() string
	stop    chan struct{}
}

func newDiagnosticsPanel(logsDir func() string) *diagnosticsPanel {
	p := &diagnosticsPanel{logsDir: logsDir}
	p.text = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	p.scroll = container.NewVScroll(p.text)
	p.scroll.SetMinSize(fyne.NewSize(0, 120))
	p.object = container.NewBorder(widget.NewSeparator(), nil, nil, nil, p.scroll)
	p.object.Hide()
	return p
}

// set turns the panel on or off. It runs on the main goroutine.
func (p *diagnosticsPanel) set(on bool) {
	if on == (p.stop != nil) {
		return
	}
	if !on {
		close(p.stop)
		p.stop = nil
		p.object.Hide()
		return
	}
	p.stop = make(chan struct{})
	p.object.Show()
	go p.run(p.stop)
}

func (p *diagnosticsPanel) run(stop <-chan struct{}) {
	ticker := time.NewTicker(diagnosticsRefresh)
	defer ticker.Stop()
	for {
		text := p.read()
		fyne.Do(func() {
			p.text.SetText(text)
			p.scroll.ScrollToBottom()
		})
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func (p *diagnosticsPanel) read() string {
	lines, err := logtail.Recent(p.logsDir(), time.Now(), diagnosticsLines)
	if err != nil {
		return "log unavailable: " + err.Error()
	}
	if len(lines) == 0 {
		return "no log records today"
	}
	return strings.Join(lines, "\n")
}
