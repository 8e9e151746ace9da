package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velolab/velolab/app/models"
	"github.com/velolab/velolab/app/repository"
	"github.com/velolab/velolab/internal/pkg/usercontext"
)

type memoryTemplateRepo struct {
	templates map[string]*models.FormTemplate
	nextID    uint
}

func newMemoryTemplateRepo() *memoryTemplateRepo {
	return &memoryTemplateRepo{templates: make(map[string]*models.FormTemplate)}
}

func (m *memoryTemplateRepo) Create(t *models.FormTemplate) error {
	m.nextID++
	t.ID = m.nextID
	copied := *t
	m.templates[t.UUID] = &copied
	return nil
}

func (m *memoryTemplateRepo) GetByID(id uint) (*models.FormTemplate, error) {
	for _, t := range m.templates {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryTemplateRepo) GetByUUID(uuid string) (*models.FormTemplate, error) {
	t, ok := m.templates[uuid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *memoryTemplateRepo) GetByCreatorID(creatorID uint) ([]models.FormTemplate, error) {
	var out []models.FormTemplate
	for _, t := range m.templates {
		if t.CreatorID == creatorID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memoryTemplateRepo) Update(t *models.FormTemplate) error {
	copied := *t
	m.templates[t.UUID] = &copied
	return nil
}

func (m *memoryTemplateRepo) Delete(id uint) error {
	for uuid, t := range m.templates {
		if t.ID == id {
			delete(m.templates, uuid)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memoryEntryRepo struct {
	entries []models.FormEntry
	nextID  uint
}

func (m *memoryEntryRepo) Create(e *models.FormEntry) error {
	m.nextID++
	e.ID = m.nextID
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memoryEntryRepo) GetByID(id uint) (*models.FormEntry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryEntryRepo) GetByTemplateID(templateID uint, offset, limit int) ([]models.FormEntry, error) {
	var out []models.FormEntry
	for _, e := range m.entries {
		if e.TemplateID == templateID {
			out = append(out, e)
		}
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryEntryRepo) GetByUserID(userID uint, offset, limit int) ([]models.FormEntry, error) {
	var out []models.FormEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryEntryRepo) CountByTemplateID(templateID uint) (int64, error) {
	var n int64
	for _, e := range m.entries {
		if e.TemplateID == templateID {
			n++
		}
	}
	return n, nil
}

var _ repository.FormTemplateRepository = (*memoryTemplateRepo)(nil)
var _ repository.FormEntryRepository = (*memoryEntryRepo)(nil)

func formsTestApp(userID uint) (*fiber.App, *memoryTemplateRepo, *memoryEntryRepo) {
	templates := newMemoryTemplateRepo()
	entries := &memoryEntryRepo{}
	SetFormsController(NewFormsController(templates, entries))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			UserID: userID, Username: "tester", IsLoggedIn: true, IsCoach: true,
		})
		return c.Next()
	})
	app.Get("/api/v1/forms", HandleAPIFormsList)
	app.Post("/api/v1/forms", HandleAPIFormsCreate)
	app.Get("/api/v1/forms/:uuid", HandleAPIFormsGet)
	app.Put("/api/v1/forms/:uuid", HandleAPIFormsUpdate)
	app.Delete("/api/v1/forms/:uuid", HandleAPIFormsDelete)
	app.Post("/api/v1/forms/:uuid/entries", HandleAPIFormsSubmit)
	app.Get("/api/v1/forms/:uuid/entries", HandleAPIFormsEntries)

	return app, templates, entries
}

func TestFormsCreateAndGet(t *testing.T) {
	app, _, _ := formsTestApp(1)

	payload := `{"title":"Morning check-in","description":"Daily wellness","fields":[
		{"id":"mood","type":"scale","label":"Mood","min":1,"max":10,"required":true},
		{"id":"notes","type":"textarea","label":"Notes"}]}`
	req := httptest.NewRequest("POST", "/api/v1/forms", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := decodeBody(t, resp.Body)
	template := created["template"].(map[string]any)
	uuid := template["uuid"].(string)
	require.NotEmpty(t, uuid)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/forms/"+uuid, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	fetched := decodeBody(t, resp.Body)["template"].(map[string]any)
	assert.Equal(t, "Morning check-in", fetched["title"])
	assert.Len(t, fetched["fields"], 2)
}

func TestFormsCreateRejectsInvalidField(t *testing.T) {
	app, _, _ := formsTestApp(1)

	payload := `{"title":"Bad","fields":[{"id":"x","type":"slider","label":"X"}]}`
	req := httptest.NewRequest("POST", "/api/v1/forms", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFormsUpdateForbiddenForNonCreator(t *testing.T) {
	app, templates, _ := formsTestApp(2)
	seed := &models.FormTemplate{UUID: "tpl-1", CreatorID: 1, Title: "Owned by coach 1"}
	require.NoError(t, seed.SetFields([]models.FormField{{ID: "q", Type: models.FieldTypeText, Label: "Q"}}))
	require.NoError(t, templates.Create(seed))

	req := httptest.NewRequest("PUT", "/api/v1/forms/tpl-1", strings.NewReader(`{"title":"Stolen"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestFormsSubmitValidatesRequiredFields(t *testing.T) {
	app, templates, entries := formsTestApp(3)
	seed := &models.FormTemplate{UUID: "tpl-1", CreatorID: 1, Title: "Check-in"}
	require.NoError(t, seed.SetFields([]models.FormField{
		{ID: "mood", Type: models.FieldTypeScale, Label: "Mood", Min: 1, Max: 10, Required: true},
	}))
	require.NoError(t, templates.Create(seed))

	// Missing required answer
	req := httptest.NewRequest("POST", "/api/v1/forms/tpl-1/entries", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, entries.entries)

	// Complete answer
	req = httptest.NewRequest("POST", "/api/v1/forms/tpl-1/entries", strings.NewReader(`{"mood":7}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Len(t, entries.entries, 1)
	assert.Equal(t, uint(3), entries.entries[0].UserID)
}

func TestFormsEntriesOnlyForCreator(t *testing.T) {
	app, templates, _ := formsTestApp(2)
	seed := &models.FormTemplate{UUID: "tpl-1", CreatorID: 1, Title: "Owned by coach 1"}
	require.NoError(t, seed.SetFields([]models.FormField{{ID: "q", Type: models.FieldTypeText, Label: "Q"}}))
	require.NoError(t, templates.Create(seed))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/forms/tpl-1/entries", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestFormsGetUnknown(t *testing.T) {
	app, _, _ := formsTestApp(1)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/forms/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
