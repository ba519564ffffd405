package models

import "time"

// GenerationStatus — состояние генерации PDF на бэкенде.
type GenerationStatus string

const (
	StatusGenerating    GenerationStatus = "generating"
	StatusCompleted     GenerationStatus = "completed"
	StatusFailed        GenerationStatus = "failed"
	StatusPendingReview GenerationStatus = "pending_review"
)

// Label — подпись статуса для пользователя; неизвестные статусы выводятся как есть.
func (s GenerationStatus) Label() string {
	switch s {
	case StatusCompleted:
		return "Completado"
	case StatusFailed:
		return "Fallido"
	case StatusGenerating:
		return "Generando..."
	case StatusPendingReview:
		return "Pendiente de Revisión"
	default:
		return string(s)
	}
}

type GeneratedResume struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	UserID           int64            `json:"userId"`
	TemplateID       int64            `json:"templateId"`
	UserData         map[string]any   `json:"userData"`
	GeneratedLatex   string           `json:"generatedLatex,omitempty"`
	PDFPath          string           `json:"pdfPath,omitempty"`
	S3URL            string           `json:"s3Url,omitempty"`
	S3Key            string           `json:"s3Key,omitempty"`
	GenerationStatus GenerationStatus `json:"generationStatus"`
	AISuggestions    map[string]any   `json:"aiSuggestions,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	IsFavorite       bool             `json:"isFavorite"`
	Version          string           `json:"version"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type CreateResumeRequest struct {
	Title      string         `json:"title" validate:"required"`
	TemplateID int64          `json:"templateId" validate:"required,gt=0"`
	UserData   map[string]any `json:"userData" validate:"required"`
	Notes      string         `json:"notes,omitempty"`
	IsFavorite *bool          `json:"isFavorite,omitempty"`
}

type UpdateResumeRequest struct {
	Title      *string        `json:"title,omitempty"`
	TemplateID *int64         `json:"templateId,omitempty"`
	UserData   map[string]any `json:"userData,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	IsFavorite *bool          `json:"isFavorite,omitempty"`
}

type GenerateWithFreeTextRequest struct {
	UserID            int64          `json:"userId" validate:"required,gt=0"`
	TemplateID        int64          `json:"templateId" validate:"required,gt=0"`
	UserFreeText      string         `json:"userFreeText" validate:"required"`
	CustomTitle       string         `json:"customTitle,omitempty"`
	AdditionalContext string         `json:"additionalContext,omitempty"`
	BaseResumeID      *int64         `json:"baseResumeId,omitempty"`
	AIConfig          map[string]any `json:"aiConfig,omitempty"`
}

type ResumeFilter struct {
	Title            string
	TemplateID       int64
	GenerationStatus GenerationStatus
	IsFavorite       *bool
}
