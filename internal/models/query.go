package models

import (
	"net/url"
	"strconv"
)

// Query — фильтры в query-параметры; незаданные поля не передаются.
func (f TemplateFilter) Query() url.Values {
	q := url.Values{}
	setStr(q, "name", f.Name)
	setStr(q, "faculty", f.Faculty)
	setStr(q, "careerCode", f.CareerCode)
	setStr(q, "style", f.Style)
	setBool(q, "isActive", f.IsActive)
	setBool(q, "isFeatured", f.IsFeatured)
	return q
}

func (f ResumeFilter) Query() url.Values {
	q := url.Values{}
	setStr(q, "title", f.Title)
	if f.TemplateID > 0 {
		q.Set("templateId", strconv.FormatInt(f.TemplateID, 10))
	}
	setStr(q, "generationStatus", string(f.GenerationStatus))
	setBool(q, "isFavorite", f.IsFavorite)
	return q
}

func setStr(q url.Values, k, v string) {
	if v != "" {
		q.Set(k, v)
	}
}

func setBool(q url.Values, k string, v *bool) {
	if v != nil {
		q.Set(k, strconv.FormatBool(*v))
	}
}
