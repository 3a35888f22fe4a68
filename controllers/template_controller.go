package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surveyguy/surveyguy-server/config"
	"github.com/surveyguy/surveyguy-server/engine"
	"github.com/surveyguy/surveyguy-server/middleware"
	"github.com/surveyguy/surveyguy-server/models"
)

func loadTemplate(id string) (models.Template, error) {
	var tpl models.Template
	err := config.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&tpl, "id = ?", id).Error
	return tpl, err
}

/* ========== Library listing ========== */

func ListTemplates(c *gin.Context) {
	query := config.DB.Model(&models.Template{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var templates []models.Template
	if err := query.Order("title ASC").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func GetTemplate(c *gin.Context) {
	tpl, err := loadTemplate(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

/* ========== Authoring ========== */

type templateQuestionReq struct {
	Title    string                   `json:"title" binding:"required"`
	Type     string                   `json:"type" binding:"required"`
	Required bool                     `json:"required"`
	Settings *models.QuestionSettings `json:"settings"`
}

type createTemplateReq struct {
	Title       string                `json:"title" binding:"required,min=1"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Questions   []templateQuestionReq `json:"questions"`
}

// CreateTemplate stores a blueprint question set. Blueprints are accepted
// even when structurally invalid; the defect surfaces when a survey built
// from this template is published.
func CreateTemplate(c *gin.Context) {
	var req createTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	tpl := models.Template{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	for i, bq := range req.Questions {
		qtype := strings.ToLower(strings.TrimSpace(bq.Type))
		if !models.KnownQuestionType(qtype) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Unknown question type: " + bq.Type})
			return
		}
		blueprint := models.TemplateQuestion{
			TemplateID: tpl.ID,
			Title:      bq.Title,
			Type:       qtype,
			Required:   bq.Required,
			Position:   i,
		}
		settings := engine.DefaultSettings(qtype)
		if bq.Settings != nil {
			settings = *bq.Settings
		}
		q := models.Question{}
		if err := q.SetSettings(settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not encode settings"})
			return
		}
		blueprint.SettingsJSON = q.SettingsJSON
		tpl.Questions = append(tpl.Questions, blueprint)
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		questions := tpl.Questions
		tpl.Questions = nil
		if err := tx.Create(&tpl).Error; err != nil {
			return err
		}
		tpl.Questions = questions
		if len(questions) > 0 {
			return tx.Create(&questions).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create template"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": tpl.ID, "title": tpl.Title})
}

// DeleteTemplate removes a template and its blueprints. Surveys already
// created from it keep their questions; only the library entry goes.
func DeleteTemplate(c *gin.Context) {
	tpl, err := loadTemplate(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Template not found"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", tpl.ID).Delete(&models.TemplateQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Template{}, "id = ?", tpl.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

/* ========== Apply: POST /api/templates/:id/apply ========== */

type applyTemplateReq struct {
	// When set, the template's questions are appended to this draft.
	// Otherwise a new draft survey is created from the template.
	SurveyID *string `json:"survey_id"`
}

func ApplyTemplate(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	tpl, err := loadTemplate(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Template not found"})
		return
	}

	// An empty body means "create a new draft from this template".
	var req applyTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	var doc models.Survey
	if req.SurveyID != nil {
		target, err := loadDocument(*req.SurveyID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
			return
		}
		if target.OwnerID == nil || *target.OwnerID != u.ID {
			c.JSON(http.StatusForbidden, gin.H{"message": "You do not own this survey"})
			return
		}
		doc = engine.ApplyTemplate(tpl, &target)
	} else {
		doc = engine.ApplyTemplate(tpl, nil)
		doc.OwnerID = &u.ID
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if req.SurveyID == nil {
			questions := doc.Questions
			doc.Questions = nil
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
			doc.Questions = questions
			if len(questions) > 0 {
				return tx.Create(&questions).Error
			}
			return nil
		}
		return replaceQuestions(tx, doc)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not apply template"})
		return
	}

	c.JSON(http.StatusCreated, surveyDetail(doc))
}
