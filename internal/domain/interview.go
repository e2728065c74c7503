package domain

import (
	"time"

	"github.com/google/uuid"
)

// InterviewStatus is the lifecycle state of an interview session.
type InterviewStatus string

const (
	InterviewStatusActive    InterviewStatus = "active"
	InterviewStatusCompleted InterviewStatus = "completed"
)

// MessageRole identifies the author of an interview message.
type MessageRole string

const (
	RoleAssistant MessageRole = "assistant"
	RoleUser      MessageRole = "user"
)

// Interview is one dialogue session bound to a theme. At most one active
// interview exists per theme at a time; callers check for an existing active
// session before starting a new one.
type Interview struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	ThemeID      string          `json:"themeId"`
	TargetLength int             `json:"targetLength"`
	Status       InterviewStatus `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewInterview creates an active interview with the given word-count goal.
func NewInterview(userID, themeID string, targetLength int) *Interview {
	now := time.Now()
	return &Interview{
		ID:           uuid.New().String(),
		UserID:       userID,
		ThemeID:      themeID,
		TargetLength: targetLength,
		Status:       InterviewStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsActive reports whether the interview still accepts messages.
func (i *Interview) IsActive() bool {
	return i.Status == InterviewStatusActive
}

// InterviewMessage is one ordered, append-only dialogue turn. The sequence
// begins with an assistant turn and is ordered by creation time, never
// reordered.
type InterviewMessage struct {
	ID          string      `json:"id"`
	InterviewID string      `json:"interviewId"`
	Role        MessageRole `json:"role"`
	Content     string      `json:"content"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// NewInterviewMessage creates a message for an interview.
func NewInterviewMessage(interviewID string, role MessageRole, content string) *InterviewMessage {
	return &InterviewMessage{
		ID:          uuid.New().String(),
		InterviewID: interviewID,
		Role:        role,
		Content:     content,
		CreatedAt:   time.Now(),
	}
}
