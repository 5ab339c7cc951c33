// Package dialog implements the console's modal dialogs as awaitable values.
//
// A caller opens a Request and blocks in Open until the user settles it.
// Only one dialog is visible at a time; requests opened while another is
// showing wait in FIFO order and appear one after another. Renderers read
// Current and call Accept or Cancel with the id they were showing, so a
// late keypress aimed at an already settled dialog never settles the next.
package dialog

import (
	"context"
	"strings"
	"sync"

	"github.com/studiowebux/adminctl/internal/notifier"
)

// Kind selects the dialog shape
type Kind int

const (
	KindNotice Kind = iota
	KindConfirm
	KindPrompt
)

func (k Kind) String() string {
	switch k {
	case KindConfirm:
		return "confirm"
	case KindPrompt:
		return "prompt"
	default:
		return "notice"
	}
}

// Tone affects the icon and accent color only
type Tone int

const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneError
)

// Icon returns the glyph shown next to the title
func (t Tone) Icon() string {
	switch t {
	case ToneSuccess:
		return "✅"
	case ToneError:
		return "❌"
	default:
		return "ℹ️"
	}
}

// Request describes one dialog. Body is trusted styled text: callers
// sanitize server-sourced strings before embedding them.
type Request struct {
	Kind             Kind
	Tone             Tone
	Title            string
	Body             string
	InputDefault     string
	InputPlaceholder string
}

// Result is the settled value. The zero Result means cancelled or dismissed.
type Result struct {
	Accepted bool
	Text     string // trimmed input, prompts only
}

// Active is the visible dialog as seen by a renderer
type Active struct {
	ID      uint64
	Request Request
}

type pending struct {
	id   uint64
	req  Request
	done chan Result
}

// Controller serializes dialogs and hands results back to their openers
type Controller struct {
	mu     sync.Mutex
	queue  []*pending // queue[0] is visible
	nextID uint64
	notify *notifier.Notifier
}

// New creates a Controller that pings n on every visible change
func New(n *notifier.Notifier) *Controller {
	return &Controller{notify: n}
}

// Open shows req (after any dialogs already queued) and waits for the user.
// If ctx ends first the request is withdrawn and the cancelled result is
// returned with ctx.Err().
func (c *Controller) Open(ctx context.Context, req Request) (Result, error) {
	c.mu.Lock()
	c.nextID++
	p := &pending{id: c.nextID, req: req, done: make(chan Result, 1)}
	c.queue = append(c.queue, p)
	c.mu.Unlock()
	c.notify.Broadcast()

	select {
	case res := <-p.done:
		return res, nil
	case <-ctx.Done():
		c.withdraw(p)
		select {
		case res := <-p.done:
			return res, nil
		default:
		}
		return Result{}, ctx.Err()
	}
}

// Current returns the visible dialog, if any
func (c *Controller) Current() (Active, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return Active{}, false
	}
	head := c.queue[0]
	return Active{ID: head.id, Request: head.req}, true
}

// Waiting returns how many dialogs are queued behind the visible one
func (c *Controller) Waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return 0
	}
	return len(c.queue) - 1
}

// Accept settles dialog id. Prompts resolve to the trimmed input (possibly
// empty), confirms and notices to Accepted. Returns false when id is not
// the visible dialog.
func (c *Controller) Accept(id uint64, input string) bool {
	p := c.take(id)
	if p == nil {
		return false
	}
	res := Result{Accepted: true}
	if p.req.Kind == KindPrompt {
		res.Text = strings.TrimSpace(input)
	}
	p.done <- res
	c.notify.Broadcast()
	return true
}

// Cancel settles dialog id with the cancelled result, whatever its kind
func (c *Controller) Cancel(id uint64) bool {
	p := c.take(id)
	if p == nil {
		return false
	}
	p.done <- Result{}
	c.notify.Broadcast()
	return true
}

// CancelAll settles every queued dialog as cancelled (shutdown)
func (c *Controller) CancelAll() {
	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	c.mu.Unlock()

	for _, p := range queue {
		p.done <- Result{}
	}
	if len(queue) > 0 {
		c.notify.Broadcast()
	}
}

// take pops the visible dialog when it matches id
func (c *Controller) take(id uint64) *pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 || c.queue[0].id != id {
		return nil
	}
	p := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	return p
}

func (c *Controller) withdraw(p *pending) {
	c.mu.Lock()
	removed := false
	for i, q := range c.queue {
		if q == p {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()
	if removed {
		c.notify.Broadcast()
	}
}

// Notify shows an acknowledgement-only notice
func (c *Controller) Notify(ctx context.Context, tone Tone, title, body string) error {
	if title == "" {
		title = defaultTitle(tone)
	}
	_, err := c.Open(ctx, Request{Kind: KindNotice, Tone: tone, Title: title, Body: body})
	return err
}

// Confirm asks a yes/no question; cancellation counts as no
func (c *Controller) Confirm(ctx context.Context, body string) (bool, error) {
	res, err := c.Open(ctx, Request{Kind: KindConfirm, Title: "Confirm", Body: body})
	return res.Accepted, err
}

// Prompt asks for one line of text. ok is false when the user cancelled.
func (c *Controller) Prompt(ctx context.Context, body, defaultValue string) (text string, ok bool, err error) {
	res, err := c.Open(ctx, Request{Kind: KindPrompt, Title: "Input", Body: body, InputDefault: defaultValue})
	return res.Text, res.Accepted, err
}

func defaultTitle(t Tone) string {
	switch t {
	case ToneSuccess:
		return "Success"
	case ToneError:
		return "Error"
	default:
		return "Notice"
	}
}
