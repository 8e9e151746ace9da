package repository

import (
	"github.com/velolab/velolab/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// ProviderAccountRepository defines the interface for OAuth account linkage operations
type ProviderAccountRepository interface {
	Create(account *models.ProviderAccount) error
	GetByProviderUserID(provider, providerUserID string) (*models.ProviderAccount, error)
	GetByUserID(userID uint) ([]models.ProviderAccount, error)
	Delete(id uint) error
}

// FormTemplateRepository defines the interface for check-in form template operations
type FormTemplateRepository interface {
	Create(template *models.FormTemplate) error
	GetByID(id uint) (*models.FormTemplate, error)
	GetByUUID(uuid string) (*models.FormTemplate, error)
	GetByCreatorID(creatorID uint) ([]models.FormTemplate, error)
	Update(template *models.FormTemplate) error
	Delete(id uint) error
}

// FormEntryRepository defines the interface for check-in form submission operations
type FormEntryRepository interface {
	Create(entry *models.FormEntry) error
	GetByID(id uint) (*models.FormEntry, error)
	GetByTemplateID(templateID uint, offset, limit int) ([]models.FormEntry, error)
	GetByUserID(userID uint, offset, limit int) ([]models.FormEntry, error)
	CountByTemplateID(templateID uint) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User            UserRepository
	ProviderAccount ProviderAccountRepository
	FormTemplate    FormTemplateRepository
	FormEntry       FormEntryRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		ProviderAccount: NewProviderAccountRepository(db),
		FormTemplate:    NewFormTemplateRepository(db),
		FormEntry:       NewFormEntryRepository(db),
	}
}
