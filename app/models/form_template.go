package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Field types a form template may contain.
const (
	FieldTypeText     = "text"
	FieldTypeTextarea = "textarea"
	FieldTypeNumber   = "number"
	FieldTypeScale    = "scale"
	FieldTypeDropdown = "dropdown"
	FieldTypeRadio    = "radio"
	FieldTypeCheckbox = "checkbox"
	FieldTypeDate     = "date"
)

// FormField is one configured field inside a template. Stored as JSON on the
// template row.
type FormField struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Min         int      `json:"min,omitempty"`
	Max         int      `json:"max,omitempty"`
}

// FormTemplate is a coach-built questionnaire (daily check-ins, surveys).
type FormTemplate struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	CreatorID   uint           `gorm:"not null;index" json:"creator_id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	FieldsJSON  string         `gorm:"type:longtext;not null" json:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Fields decodes the stored field list.
func (t *FormTemplate) Fields() ([]FormField, error) {
	if t.FieldsJSON == "" {
		return nil, nil
	}
	var fields []FormField
	if err := json.Unmarshal([]byte(t.FieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("decode template fields: %w", err)
	}
	return fields, nil
}

// SetFields validates and stores the field list.
func (t *FormTemplate) SetFields(fields []FormField) error {
	for _, f := range fields {
		if err := validateFormField(f); err != nil {
			return err
		}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	t.FieldsJSON = string(data)
	return nil
}

func validateFormField(f FormField) error {
	switch f.Type {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeDate:
	case FieldTypeScale:
		if f.Min >= f.Max {
			return fmt.Errorf("scale field %q: min must be below max", f.Label)
		}
	case FieldTypeDropdown, FieldTypeRadio, FieldTypeCheckbox:
		if len(f.Options) == 0 {
			return fmt.Errorf("choice field %q: at least one option required", f.Label)
		}
	default:
		return fmt.Errorf("unknown field type %q", f.Type)
	}
	if f.Label == "" {
		return fmt.Errorf("field of type %q: label required", f.Type)
	}
	return nil
}
