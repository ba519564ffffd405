package models

import "time"

type LatexTemplate struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Faculty         string         `json:"faculty"`
	CareerCode      string         `json:"careerCode"`
	Description     string         `json:"description,omitempty"`
	LatexContent    string         `json:"latexContent"`
	Style           string         `json:"style"`
	RequiredFields  []string       `json:"requiredFields"`
	TemplateConfig  map[string]any `json:"templateConfig,omitempty"`
	IsActive        bool           `json:"isActive"`
	IsFeatured      bool           `json:"isFeatured"`
	Version         string         `json:"version"`
	PreviewPDFURL   string         `json:"previewPdfUrl,omitempty"`
	PreviewPDFS3Key string         `json:"previewPdfS3Key,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type CreateTemplateRequest struct {
	Name           string         `json:"name" validate:"required"`
	Faculty        string         `json:"faculty" validate:"required"`
	CareerCode     string         `json:"careerCode" validate:"required"`
	Description    string         `json:"description,omitempty"`
	LatexContent   string         `json:"latexContent" validate:"required"`
	Style          string         `json:"style,omitempty"`
	RequiredFields []string       `json:"requiredFields" validate:"required,min=1,dive,required"`
	TemplateConfig map[string]any `json:"templateConfig,omitempty"`
	IsFeatured     *bool          `json:"isFeatured,omitempty"`
	Version        string         `json:"version,omitempty"`
}

// UpdateTemplateRequest — частичное обновление: nil/пустые поля не отправляются.
type UpdateTemplateRequest struct {
	Name           *string        `json:"name,omitempty"`
	Faculty        *string        `json:"faculty,omitempty"`
	CareerCode     *string        `json:"careerCode,omitempty"`
	Description    *string        `json:"description,omitempty"`
	LatexContent   *string        `json:"latexContent,omitempty"`
	Style          *string        `json:"style,omitempty"`
	RequiredFields []string       `json:"requiredFields,omitempty"`
	TemplateConfig map[string]any `json:"templateConfig,omitempty"`
	IsActive       *bool          `json:"isActive,omitempty"`
	IsFeatured     *bool          `json:"isFeatured,omitempty"`
	Version        *string        `json:"version,omitempty"`
}

// UpdateFromCreate превращает полную форму создания в частичное обновление
// (используется при обновлении уже существующего шаблона той же карьеры).
func UpdateFromCreate(c CreateTemplateRequest) UpdateTemplateRequest {
	u := UpdateTemplateRequest{
		Name:           &c.Name,
		Faculty:        &c.Faculty,
		CareerCode:     &c.CareerCode,
		LatexContent:   &c.LatexContent,
		RequiredFields: c.RequiredFields,
		TemplateConfig: c.TemplateConfig,
		IsFeatured:     c.IsFeatured,
	}
	if c.Description != "" {
		u.Description = &c.Description
	}
	if c.Style != "" {
		u.Style = &c.Style
	}
	if c.Version != "" {
		u.Version = &c.Version
	}

	return u
}

type TemplateFilter struct {
	Name       string
	Faculty    string
	CareerCode string
	Style      string
	IsActive   *bool
	IsFeatured *bool
}
