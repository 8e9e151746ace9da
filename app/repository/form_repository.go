package repository

import (
	"github.com/velolab/velolab/app/models"
	"gorm.io/gorm"
)

// formTemplateRepository implements the FormTemplateRepository interface
type formTemplateRepository struct {
	db *gorm.DB
}

// NewFormTemplateRepository creates a new form template repository instance
func NewFormTemplateRepository(db *gorm.DB) FormTemplateRepository {
	return &formTemplateRepository{db: db}
}

// Create creates a new check-in form template
func (r *formTemplateRepository) Create(template *models.FormTemplate) error {
	return r.db.Create(template).Error
}

// GetByID retrieves a form template by its ID
func (r *formTemplateRepository) GetByID(id uint) (*models.FormTemplate, error) {
	var template models.FormTemplate
	err := r.db.First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// GetByUUID retrieves a form template by its public UUID
func (r *formTemplateRepository) GetByUUID(uuid string) (*models.FormTemplate, error) {
	var template models.FormTemplate
	err := r.db.Where("uuid = ?", uuid).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// GetByCreatorID lists all templates created by the given coach
func (r *formTemplateRepository) GetByCreatorID(creatorID uint) ([]models.FormTemplate, error) {
	var templates []models.FormTemplate
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&templates).Error
	return templates, err
}

// Update updates an existing form template
func (r *formTemplateRepository) Update(template *models.FormTemplate) error {
	return r.db.Save(template).Error
}

// Delete soft deletes a form template
func (r *formTemplateRepository) Delete(id uint) error {
	return r.db.Delete(&models.FormTemplate{}, id).Error
}

// formEntryRepository implements the FormEntryRepository interface
type formEntryRepository struct {
	db *gorm.DB
}

// NewFormEntryRepository creates a new form entry repository instance
func NewFormEntryRepository(db *gorm.DB) FormEntryRepository {
	return &formEntryRepository{db: db}
}

// Create stores a submitted check-in entry
func (r *formEntryRepository) Create(entry *models.FormEntry) error {
	return r.db.Create(entry).Error
}

// GetByID retrieves a form entry by its ID
func (r *formEntryRepository) GetByID(id uint) (*models.FormEntry, error) {
	var entry models.FormEntry
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByTemplateID lists submissions for a template, newest first
func (r *formEntryRepository) GetByTemplateID(templateID uint, offset, limit int) ([]models.FormEntry, error) {
	var entries []models.FormEntry
	err := r.db.Where("template_id = ?", templateID).
		Order("submitted_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, err
}

// GetByUserID lists submissions made by a user, newest first
func (r *formEntryRepository) GetByUserID(userID uint, offset, limit int) ([]models.FormEntry, error) {
	var entries []models.FormEntry
	err := r.db.Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, err
}

// CountByTemplateID returns the number of submissions for a template
func (r *formEntryRepository) CountByTemplateID(templateID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.FormEntry{}).Where("template_id = ?", templateID).Count(&count).Error
	return count, err
}
