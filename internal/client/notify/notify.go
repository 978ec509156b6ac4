// Package notify is the user-facing message surface. Screens report the
// outcome of every action here instead of printing directly.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/homepoint/internal/client/httpclient"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console writes one line per message.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) Success(msg string) { c.line("✔", msg) }
func (c *Console) Error(msg string)   { c.line("✖", msg) }

func (c *Console) line(mark, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", mark, msg)
}

// Failure reports err with the message the server sent, if any.
func Failure(n Notifier, prefix string, err error) {
	msg := httpclient.UserMessage(err)
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	n.Error(msg)
}

// Message is one recorded notification.
type Message struct {
	OK   bool
	Text string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Success(msg string) { r.add(Message{OK: true, Text: msg}) }
func (r *Recorder) Error(msg string)   { r.add(Message{Text: msg}) }

func (r *Recorder) add(m Message) {
	r.mu.Lock()
	r.messages = append(r.messages, m)
	r.mu.Unlock()
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
