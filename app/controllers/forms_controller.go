package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velolab/velolab/app/models"
	"github.com/velolab/velolab/app/repository"
	"github.com/velolab/velolab/internal/pkg/usercontext"
)

// FormsController handles check-in form templates and submissions
type FormsController struct {
	templateRepo repository.FormTemplateRepository
	entryRepo    repository.FormEntryRepository
}

// NewFormsController creates a new forms controller instance
func NewFormsController(templateRepo repository.FormTemplateRepository, entryRepo repository.FormEntryRepository) *FormsController {
	return &FormsController{
		templateRepo: templateRepo,
		entryRepo:    entryRepo,
	}
}

// Global controller instance
var formsController *FormsController

// InitializeFormsController initializes the global forms controller
func InitializeFormsController() {
	factory := repository.GetGlobalFactory()
	formsController = NewFormsController(factory.GetFormTemplateRepository(), factory.GetFormEntryRepository())
}

// GetFormsController returns the global forms controller instance
func GetFormsController() *FormsController {
	if formsController == nil {
		InitializeFormsController()
	}
	return formsController
}

// SetFormsController replaces the global instance, used by tests
func SetFormsController(fc *FormsController) {
	formsController = fc
}

// HandleFormsView renders the form builder page
func HandleFormsView(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	templates, err := GetFormsController().templateRepo.GetByCreatorID(userCtx.UserID)
	if err != nil {
		templates = nil
	}
	data := pageData(c, "Check-in Forms | VeloLab", fiber.Map{
		"Templates": templates,
		"CSRFToken": csrfToken(c),
	})
	return c.Render("app/forms", data, "layouts/app")
}

// HandleAPIFormsList lists form templates
func HandleAPIFormsList(c *fiber.Ctx) error {
	return GetFormsController().List(c)
}

// HandleAPIFormsCreate creates a form template (coach only)
func HandleAPIFormsCreate(c *fiber.Ctx) error {
	return GetFormsController().Create(c)
}

// HandleAPIFormsGet returns one template with its fields
func HandleAPIFormsGet(c *fiber.Ctx) error {
	return GetFormsController().Get(c)
}

// HandleAPIFormsUpdate updates a template (creator only)
func HandleAPIFormsUpdate(c *fiber.Ctx) error {
	return GetFormsController().Update(c)
}

// HandleAPIFormsDelete deletes a template (creator only)
func HandleAPIFormsDelete(c *fiber.Ctx) error {
	return GetFormsController().Delete(c)
}

// HandleAPIFormsSubmit stores a check-in entry for the logged-in athlete
func HandleAPIFormsSubmit(c *fiber.Ctx) error {
	return GetFormsController().Submit(c)
}

// HandleAPIFormsEntries lists submissions for a template (creator only)
func HandleAPIFormsEntries(c *fiber.Ctx) error {
	return GetFormsController().Entries(c)
}

type formTemplateRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Fields      []models.FormField `json:"fields"`
}

type formTemplateResponse struct {
	UUID        string             `json:"uuid"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Fields      []models.FormField `json:"fields"`
	CreatorID   uint               `json:"creator_id"`
}

func templateResponse(t *models.FormTemplate) (*formTemplateResponse, error) {
	fields, err := t.Fields()
	if err != nil {
		return nil, err
	}
	return &formTemplateResponse{
		UUID:        t.UUID,
		Title:       t.Title,
		Description: t.Description,
		Fields:      fields,
		CreatorID:   t.CreatorID,
	}, nil
}

func (fc *FormsController) List(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	templates, err := fc.templateRepo.GetByCreatorID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load templates"})
	}

	out := make([]*formTemplateResponse, 0, len(templates))
	for i := range templates {
		resp, err := templateResponse(&templates[i])
		if err != nil {
			continue
		}
		out = append(out, resp)
	}
	return c.JSON(fiber.Map{"templates": out})
}

func (fc *FormsController) Create(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req formTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if len(req.Fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "at least one field is required"})
	}

	template := &models.FormTemplate{
		UUID:        uuid.New().String(),
		CreatorID:   userCtx.UserID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := template.SetFields(req.Fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := fc.templateRepo.Create(template); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create template"})
	}

	resp, err := templateResponse(template)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode template"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": resp})
}

func (fc *FormsController) Get(c *fiber.Ctx) error {
	template, err := fc.templateRepo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return formsNotFound(c, err)
	}

	resp, err := templateResponse(template)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode template"})
	}
	return c.JSON(fiber.Map{"template": resp})
}

func (fc *FormsController) Update(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	template, err := fc.templateRepo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return formsNotFound(c, err)
	}
	if template.CreatorID != userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your template"})
	}

	var req formTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Title != "" {
		template.Title = req.Title
	}
	template.Description = req.Description
	if len(req.Fields) > 0 {
		if err := template.SetFields(req.Fields); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if err := fc.templateRepo.Update(template); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update template"})
	}

	resp, err := templateResponse(template)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode template"})
	}
	return c.JSON(fiber.Map{"template": resp})
}

func (fc *FormsController) Delete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	template, err := fc.templateRepo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return formsNotFound(c, err)
	}
	if template.CreatorID != userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your template"})
	}

	if err := fc.templateRepo.Delete(template.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete template"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (fc *FormsController) Submit(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	template, err := fc.templateRepo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return formsNotFound(c, err)
	}

	var answers map[string]any
	if err := json.Unmarshal(c.Body(), &answers); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	fields, err := template.Fields()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to decode template"})
	}
	for _, f := range fields {
		if f.Required {
			if _, ok := answers[f.ID]; !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing required field: " + f.Label})
			}
		}
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid answers"})
	}

	entry := &models.FormEntry{
		TemplateID:  template.ID,
		UserID:      userCtx.UserID,
		AnswersJSON: string(raw),
	}
	if err := fc.entryRepo.Create(entry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store entry"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry_id": entry.ID})
}

func (fc *FormsController) Entries(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	template, err := fc.templateRepo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return formsNotFound(c, err)
	}
	if template.CreatorID != userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your template"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	const perPage = 25

	entries, err := fc.entryRepo.GetByTemplateID(template.ID, (page-1)*perPage, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load entries"})
	}
	total, _ := fc.entryRepo.CountByTemplateID(template.ID)

	type entryResponse struct {
		ID          uint            `json:"id"`
		UserID      uint            `json:"user_id"`
		Answers     json.RawMessage `json:"answers"`
		SubmittedAt string          `json:"submitted_at"`
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			Answers:     json.RawMessage(e.AnswersJSON),
			SubmittedAt: e.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return c.JSON(fiber.Map{
		"entries": out,
		"total":   total,
		"page":    page,
	})
}

func formsNotFound(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "template not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load template"})
}
