package solution

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/tutor"
)

// Step is a stage of the solution dialog.
type Step string

const (
	StepChat   Step = "chat"
	StepAgree  Step = "agree"
	StepExport Step = "export"

	InitialPrompt = "Produce the solution for this assignment. Follow the instructions exactly. " +
		"Give only the required output (e.g. the full list or answer), no introductions, no tips, " +
		"no extra explanations. Go straight to the point."
	ErrorReply = "Sorry, something went wrong. Please try again."
)

var (
	ErrClosed            = errors.New("dialog is closed")
	ErrBusy              = errors.New("a request is already in flight")
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrEmptyMessage      = errors.New("message is empty")
)

// Backend is what the dialog talks to: the AI chat & summarize endpoints.
type Backend interface {
	Chat(ctx context.Context, messages []tutor.Message, assignmentContext string) (string, error)
	Summarize(ctx context.Context, messages []tutor.Message) (string, error)
}

// ExportFields are the identity lines printed on the document.
type ExportFields struct {
	Name      string
	Index     string
	Reference string
}

// Snapshot is a copy of the dialog state.
type Snapshot struct {
	Open       bool
	Step       Step
	Transcript []tutor.Message
	Summary    string
	// SummaryErr is set when the last summarize attempt failed. The dialog stays in chat.
	SummaryErr error
	Busy       bool
	Export     ExportFields
}

// Dialog drives the chat -> agree -> export workflow for one assignment.
// At most one backend call is outstanding at any time.
type Dialog struct {
	backend Backend
	asg     assignment.Assignment

	mu         sync.Mutex
	open       bool
	busy       bool
	opening    int // bumped on every open & close; stale replies are dropped
	step       Step
	transcript []tutor.Message
	summary    *string
	summaryErr error
	export     ExportFields
}

func NewDialog(backend Backend, asg assignment.Assignment) *Dialog {
	return &Dialog{backend: backend, asg: asg, step: StepChat}
}

// Open resets the dialog & issues the seeded solution request. Opening an open dialog does nothing.
func (d *Dialog) Open(ctx context.Context, profile ExportFields) error {
	d.mu.Lock()
	if d.open {
		d.mu.Unlock()
		return nil
	}
	d.open = true
	d.opening++
	d.busy = false
	d.step = StepChat
	d.transcript = nil
	d.summary = nil
	d.summaryErr = nil
	d.export = profile
	d.mu.Unlock()

	return d.Send(ctx, InitialPrompt)
}

// Close ends the current opening. A reply still in flight is discarded when it arrives.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.opening++
	d.busy = false
}

// Send appends a user turn and waits for the reply. Failed turns get ErrorReply as the answer.
func (d *Dialog) Send(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyMessage
	}

	d.mu.Lock()
	if err := d.acquire(StepChat); err != nil {
		d.mu.Unlock()
		return err
	}
	d.transcript = append(d.transcript, tutor.Message{Role: tutor.RoleUser, Content: content})
	msgs := append([]tutor.Message(nil), d.transcript...)
	opening := d.opening
	d.mu.Unlock()

	reply, err := d.backend.Chat(ctx, msgs, d.asg.Context())
	if err != nil {
		reply = ErrorReply
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.opening != opening {
		return ErrClosed
	}
	d.busy = false
	d.transcript = append(d.transcript, tutor.Message{Role: tutor.RoleAssistant, Content: reply})
	return nil
}

// Summarize moves to the agree step with a fresh summary. With an empty transcript it does nothing.
// A failed summary leaves the dialog in chat with SummaryErr set.
func (d *Dialog) Summarize(ctx context.Context) error {
	d.mu.Lock()
	if len(d.transcript) == 0 && d.open && d.step == StepChat {
		d.mu.Unlock()
		return nil
	}
	if err := d.acquire(StepChat); err != nil {
		d.mu.Unlock()
		return err
	}
	msgs := append([]tutor.Message(nil), d.transcript...)
	opening := d.opening
	d.mu.Unlock()

	summary, err := d.backend.Summarize(ctx, msgs)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.opening != opening {
		return ErrClosed
	}
	d.busy = false
	if err != nil {
		d.summary = nil
		d.summaryErr = err
		return nil
	}
	d.summary = &summary
	d.summaryErr = nil
	d.step = StepAgree
	return nil
}

// Agree confirms the summary. It is the only way into the export step.
func (d *Dialog) Agree() error { return d.transition(StepAgree, StepExport, nil) }

// BackToChat discards the summary and keeps the transcript.
func (d *Dialog) BackToChat() error {
	return d.transition(StepAgree, StepChat, func() { d.summary = nil })
}

// BackToSummary leaves export for agree, keeping everything.
func (d *Dialog) BackToSummary() error { return d.transition(StepExport, StepAgree, nil) }

func (d *Dialog) SetExport(fields ExportFields) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrClosed
	}
	if d.step != StepExport {
		return ErrInvalidTransition
	}
	d.export = fields
	return nil
}

// Document returns the exportable document. Only available in the export step.
func (d *Dialog) Document() (Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return Document{}, ErrClosed
	}
	if d.step != StepExport || d.summary == nil {
		return Document{}, ErrInvalidTransition
	}
	return Document{
		Title:      d.asg.Title,
		CourseCode: d.asg.CourseCode,
		CourseName: d.asg.CourseName,
		Name:       strings.TrimSpace(d.export.Name),
		Index:      strings.TrimSpace(d.export.Index),
		Reference:  strings.TrimSpace(d.export.Reference),
		Summary:    *d.summary,
	}, nil
}

func (d *Dialog) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Snapshot{
		Open:       d.open,
		Step:       d.step,
		Transcript: append([]tutor.Message(nil), d.transcript...),
		SummaryErr: d.summaryErr,
		Busy:       d.busy,
		Export:     d.export,
	}
	if d.summary != nil {
		s.Summary = *d.summary
	}
	return s
}

// acquire marks the dialog busy for a call made from step. Callers hold mu.
func (d *Dialog) acquire(step Step) error {
	if !d.open {
		return ErrClosed
	}
	if d.busy {
		return ErrBusy
	}
	if d.step != step {
		return ErrInvalidTransition
	}
	d.busy = true
	return nil
}

// transition moves from -> to, running then (if any) under the lock.
func (d *Dialog) transition(from, to Step, then func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrClosed
	}
	if d.busy {
		return ErrBusy
	}
	if d.step != from {
		return ErrInvalidTransition
	}
	d.step = to
	if then != nil {
		then()
	}
	return nil
}
