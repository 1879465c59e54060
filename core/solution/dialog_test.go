package solution

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/tutor"
)

type fakeBackend struct {
	mu        sync.Mutex
	chatErr   error
	sumErr    error
	summary   string
	chats     [][]tutor.Message
	contexts  []string
	summaries int

	// block, when set, holds the next Chat or Summarize call until it is closed.
	block   chan struct{}
	blocked bool
}

// wait takes block, if any, and waits on it. Only one call is held per block.
func (b *fakeBackend) wait() {
	b.mu.Lock()
	block := b.block
	b.block = nil
	if block != nil {
		b.blocked = true
	}
	b.mu.Unlock()
	if block != nil {
		<-block
	}
}

func (b *fakeBackend) setBlock(block chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.block = block
	b.blocked = false
}

func (b *fakeBackend) isBlocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blocked
}

func (b *fakeBackend) Chat(_ context.Context, messages []tutor.Message, assignmentContext string) (string, error) {
	b.wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats = append(b.chats, messages)
	b.contexts = append(b.contexts, assignmentContext)
	if b.chatErr != nil {
		return "", b.chatErr
	}
	return "reply " + messages[len(messages)-1].Content, nil
}

func (b *fakeBackend) Summarize(context.Context, []tutor.Message) (string, error) {
	b.wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.summaries++
	return b.summary, b.sumErr
}

func testAssignment() assignment.Assignment {
	return assignment.Assignment{Title: "Lab 3: Stacks", CourseCode: "CSM 281", CourseName: "Data Structures"}
}

func TestDialog_Open(t *testing.T) {
	b := &fakeBackend{}
	d := NewDialog(b, testAssignment())
	ctx := context.Background()

	assert.NoError(t, d.Open(ctx, ExportFields{Name: "Ama"}))
	snap := d.Snapshot()
	assert.Equal(t, StepChat, snap.Step)
	assert.Equal(t, "Ama", snap.Export.Name)
	if assert.Len(t, b.chats, 1, "exactly one automatic request") {
		assert.Equal(t, []tutor.Message{{Role: tutor.RoleUser, Content: InitialPrompt}}, b.chats[0])
		assert.Contains(t, b.contexts[0], "Assignment: Lab 3: Stacks")
	}
	assert.Len(t, snap.Transcript, 2)

	// re-opening an open dialog does nothing
	assert.NoError(t, d.Open(ctx, ExportFields{}))
	assert.Len(t, b.chats, 1)

	// close -> open resets
	assert.NoError(t, d.Send(ctx, "more"))
	d.Close()
	assert.NoError(t, d.Open(ctx, ExportFields{}))
	snap = d.Snapshot()
	assert.Len(t, snap.Transcript, 2)
	assert.Equal(t, InitialPrompt, snap.Transcript[0].Content)
}

func TestDialog_TurnError(t *testing.T) {
	b := &fakeBackend{chatErr: errors.New("boom")}
	d := NewDialog(b, testAssignment())

	assert.NoError(t, d.Open(context.Background(), ExportFields{}))
	snap := d.Snapshot()
	if assert.Len(t, snap.Transcript, 2) {
		assert.Equal(t, tutor.Message{Role: tutor.RoleAssistant, Content: ErrorReply}, snap.Transcript[1])
	}
	assert.False(t, snap.Busy)
}

func TestDialog_SummarizeEmptyTranscript(t *testing.T) {
	b := &fakeBackend{}
	d := &Dialog{backend: b, asg: testAssignment(), step: StepChat, open: true}

	assert.NoError(t, d.Summarize(context.Background()))
	assert.Equal(t, 0, b.summaries)
	assert.Equal(t, StepChat, d.Snapshot().Step)
}

func TestDialog_Workflow(t *testing.T) {
	b := &fakeBackend{summary: "# Answer"}
	d := NewDialog(b, testAssignment())
	ctx := context.Background()
	assert.NoError(t, d.Open(ctx, ExportFields{Name: "Ama", Index: "PS/123"}))

	// export is reachable only through agree
	assert.Equal(t, ErrInvalidTransition, d.Agree())
	_, err := d.Document()
	assert.Equal(t, ErrInvalidTransition, err)

	assert.NoError(t, d.Summarize(ctx))
	snap := d.Snapshot()
	assert.Equal(t, StepAgree, snap.Step)
	assert.Equal(t, "# Answer", snap.Summary)
	assert.Equal(t, ErrInvalidTransition, d.Send(ctx, "hi"), "no chat turns while agreeing")

	// agree -> chat discards the summary, keeps the transcript
	assert.NoError(t, d.BackToChat())
	snap = d.Snapshot()
	assert.Equal(t, StepChat, snap.Step)
	assert.Empty(t, snap.Summary)
	assert.Len(t, snap.Transcript, 2)

	assert.NoError(t, d.Summarize(ctx))
	assert.NoError(t, d.Agree())
	assert.Equal(t, StepExport, d.Snapshot().Step)

	assert.NoError(t, d.SetExport(ExportFields{Name: "Ama K.", Reference: " R1 "}))
	doc, err := d.Document()
	assert.NoError(t, err)
	assert.Equal(t, Document{
		Title:      "Lab 3: Stacks",
		CourseCode: "CSM 281",
		CourseName: "Data Structures",
		Name:       "Ama K.",
		Reference:  "R1",
		Summary:    "# Answer",
	}, doc)

	// export -> agree keeps everything
	assert.NoError(t, d.BackToSummary())
	snap = d.Snapshot()
	assert.Equal(t, StepAgree, snap.Step)
	assert.Equal(t, "# Answer", snap.Summary)
	assert.Equal(t, "Ama K.", snap.Export.Name)
}

func TestDialog_SummarizeFailure(t *testing.T) {
	b := &fakeBackend{sumErr: errors.New("upstream down")}
	d := NewDialog(b, testAssignment())
	ctx := context.Background()
	assert.NoError(t, d.Open(ctx, ExportFields{}))

	assert.NoError(t, d.Summarize(ctx))
	snap := d.Snapshot()
	assert.Equal(t, StepChat, snap.Step)
	assert.Error(t, snap.SummaryErr)
	assert.Empty(t, snap.Summary)
	assert.Equal(t, ErrInvalidTransition, d.Agree())

	// a later success clears the failure
	b.sumErr = nil
	b.summary = "ok"
	assert.NoError(t, d.Summarize(ctx))
	snap = d.Snapshot()
	assert.Equal(t, StepAgree, snap.Step)
	assert.NoError(t, snap.SummaryErr)
}

func TestDialog_Busy(t *testing.T) {
	b := &fakeBackend{}
	d := NewDialog(b, testAssignment())
	ctx := context.Background()
	assert.NoError(t, d.Open(ctx, ExportFields{}))

	block := make(chan struct{})
	b.setBlock(block)
	done := make(chan error)
	go func() { done <- d.Send(ctx, "slow") }()

	// wait for the in-flight turn to mark the dialog busy
	for !d.Snapshot().Busy {
		runtime.Gosched()
	}
	assert.Equal(t, ErrBusy, d.Send(ctx, "fast"))
	assert.Equal(t, ErrBusy, d.Summarize(ctx))

	close(block)
	assert.NoError(t, <-done)
	assert.False(t, d.Snapshot().Busy)
}

func TestDialog_ReopenDropsStaleReply(t *testing.T) {
	b := &fakeBackend{}
	d := NewDialog(b, testAssignment())
	ctx := context.Background()

	block := make(chan struct{})
	b.setBlock(block)
	done := make(chan error)
	go func() { done <- d.Open(ctx, ExportFields{}) }()
	for !b.isBlocked() {
		runtime.Gosched()
	}

	d.Close()
	assert.NoError(t, d.Open(ctx, ExportFields{}), "reopening issues its own request")

	close(block)
	assert.Equal(t, ErrClosed, <-done)

	snap := d.Snapshot()
	assert.False(t, snap.Busy)
	assert.Equal(t, StepChat, snap.Step)
	assert.Equal(t, []tutor.Message{
		{Role: tutor.RoleUser, Content: InitialPrompt},
		{Role: tutor.RoleAssistant, Content: "reply " + InitialPrompt},
	}, snap.Transcript)
	assert.Len(t, b.chats, 2)
}

func TestDialog_ReopenDropsStaleSummary(t *testing.T) {
	b := &fakeBackend{summary: "stale summary"}
	d := NewDialog(b, testAssignment())
	ctx := context.Background()
	assert.NoError(t, d.Open(ctx, ExportFields{}))

	block := make(chan struct{})
	b.setBlock(block)
	done := make(chan error)
	go func() { done <- d.Summarize(ctx) }()
	for !b.isBlocked() {
		runtime.Gosched()
	}

	d.Close()
	assert.NoError(t, d.Open(ctx, ExportFields{}))

	close(block)
	assert.Equal(t, ErrClosed, <-done)

	snap := d.Snapshot()
	assert.Equal(t, StepChat, snap.Step)
	assert.Empty(t, snap.Summary)
	assert.Len(t, snap.Transcript, 2)
}

func TestDialog_CloseDropsReply(t *testing.T) {
	b := &fakeBackend{}
	d := NewDialog(b, testAssignment())
	ctx := context.Background()
	assert.NoError(t, d.Open(ctx, ExportFields{}))

	block := make(chan struct{})
	b.setBlock(block)
	done := make(chan error)
	go func() { done <- d.Send(ctx, "late") }()
	for !b.isBlocked() {
		runtime.Gosched()
	}
	d.Close()
	close(block)
	assert.Equal(t, ErrClosed, <-done)

	snap := d.Snapshot()
	assert.False(t, snap.Open)
	assert.False(t, snap.Busy)
	assert.Len(t, snap.Transcript, 3, "the late reply is not appended")
}

func TestDialog_Closed(t *testing.T) {
	d := NewDialog(&fakeBackend{}, testAssignment())
	assert.Equal(t, ErrClosed, d.Send(context.Background(), "hi"))
	assert.Equal(t, ErrEmptyMessage, d.Send(context.Background(), "  "))
}

func TestRender(t *testing.T) {
	html, err := Render(Document{
		Title:      "Lab <3>",
		CourseCode: "CSM 281",
		CourseName: "Data Structures",
		Index:      "PS/123",
		Summary:    "## Part A\n\n- one\n- two",
	})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	assert.Contains(t, html, "<title>Lab &lt;3&gt; - Solution Summary</title>")
	assert.Contains(t, html, "<h1>Lab &lt;3&gt;</h1>")
	assert.Contains(t, html, "<p><em>CSM 281 · Data Structures</em></p>")
	assert.Contains(t, html, "<p><strong>Index:</strong> PS/123</p>")
	assert.NotContains(t, html, "Name:")
	assert.NotContains(t, html, "Reference:")
	assert.Contains(t, html, "<hr/>")
	assert.Contains(t, html, "<h2>Part A</h2>")
	assert.Contains(t, html, "<li>one</li>")
	assert.True(t, strings.Index(html, "<hr/>") < strings.Index(html, "<h2>Part A</h2>"))
}

func TestRender_NoRawHTML(t *testing.T) {
	html, err := Render(Document{Title: "T", Summary: "hi <script>alert(1)</script>"})
	assert.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Lab_3__Stacks_solution.html", Filename("Lab 3: Stacks"))
	assert.Equal(t, "CSM281_solution.html", Filename("CSM281"))
}
