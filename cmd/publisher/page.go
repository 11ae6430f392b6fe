package main

import (
	"fmt"
	"io"
	"sync"
)

// terminalPage renders the floating control as a line of text. Pressing
// Enter clicks it.
type terminalPage struct {
	out io.Writer

	mu      sync.Mutex
	url     string
	control string
	label   string
	onClick func()
}

func newTerminalPage(out io.Writer) *terminalPage {
	return &terminalPage{out: out}
}

func (p *terminalPage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// navigate switches to url and drops the control, as a page load would.
// It reports whether the URL changed.
func (p *terminalPage) navigate(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if url == p.url {
		return false
	}
	p.url = url
	p.control = ""
	p.onClick = nil
	fmt.Fprintf(p.out, "page: %s\n", url)
	return true
}

func (p *terminalPage) HasControl(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.control == id
}

func (p *terminalPage) InsertControl(id, label string, onActivate func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.control = id
	p.label = label
	p.onClick = onActivate
	fmt.Fprintf(p.out, "[%s] press Enter to save this video\n", label)
}

func (p *terminalPage) SetControlLabel(id, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.control != id {
		return
	}
	p.label = label
	fmt.Fprintf(p.out, "[%s]\n", label)
}

func (p *terminalPage) Notify(message string) {
	fmt.Fprintf(p.out, "! %s\n", message)
}

// click activates the control if one is present.
func (p *terminalPage) click() {
	p.mu.Lock()
	fn := p.onClick
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}
