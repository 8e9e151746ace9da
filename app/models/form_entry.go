package models

import "time"

// FormEntry is one submitted response to a form template. Answers are stored
// as a JSON object keyed by field ID.
type FormEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TemplateID  uint      `gorm:"not null;index:idx_form_entries_template_user,priority:1" json:"template_id"`
	UserID      uint      `gorm:"not null;index:idx_form_entries_template_user,priority:2" json:"user_id"`
	AnswersJSON string    `gorm:"type:longtext;not null" json:"-"`
	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`
}
