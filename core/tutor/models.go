package tutor

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

var (
	errMessagesRequired = errors.New("messages array required")
	errTextRequired     = errors.New("text required")
)

type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages          []Message `json:"messages" validate:"dive"`
	AssignmentContext string    `json:"assignmentContext"`
}

func (cr *ChatRequest) Validate(validate *validator.Validate) error {
	if len(cr.Messages) == 0 {
		return core.NewValidationError(errMessagesRequired)
	}
	cr.AssignmentContext = core.CleanString(cr.AssignmentContext)
	return validate.Struct(cr)
}

type SummarizeRequest struct {
	Messages []Message `json:"messages" validate:"dive"`
}

func (sr *SummarizeRequest) Validate(validate *validator.Validate) error {
	if len(sr.Messages) == 0 {
		return core.NewValidationError(errMessagesRequired)
	}
	return validate.Struct(sr)
}

type CurateRequest struct {
	Text string `json:"text"`
}

func (cr *CurateRequest) Validate() error {
	cr.Text = core.CleanString(cr.Text)
	if cr.Text == "" {
		return core.NewValidationError(errTextRequired)
	}
	return nil
}

const (
	EditDeleted = "deleted"
	EditEdited  = "edited"
)

type Edit struct {
	Type string  `json:"type"`
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

type Curation struct {
	CuratedText string `json:"curatedText"`
	Edits       []Edit `json:"edits"`
}

// Transcript renders messages as the "Student: ... / Tutor: ..." block fed to the summarizer.
func Transcript(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		speaker := "Tutor"
		if m.Role == RoleUser {
			speaker = "Student"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return strings.Join(lines, "\n\n")
}
