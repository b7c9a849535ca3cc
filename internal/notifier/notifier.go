// Package notifier delivers reminders to the user.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Sink shows and clears reminders. IDs are stable across polls, so showing
// an id twice replaces the earlier notification.
type Sink interface {
	Show(ctx context.Context, id, title, message string) error
	Clear(ctx context.Context, id string) error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF8C00"))
	idStyle    = lipgloss.NewStyle().Faint(true)
)

// ConsoleSink writes reminders as styled lines.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) Show(_ context.Context, id, title, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "%s  %s %s\n", titleStyle.Render(title), message, idStyle.Render("["+id+"]"))
	return err
}

func (c *ConsoleSink) Clear(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, idStyle.Render("cleared "+id))
	return err
}

// MultiSink fans out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Show(ctx context.Context, id, title, message string) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Show(ctx, id, title, message))
	}
	return errors.Join(errs...)
}

func (m MultiSink) Clear(ctx context.Context, id string) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Clear(ctx, id))
	}
	return errors.Join(errs...)
}
