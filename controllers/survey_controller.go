package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surveyguy/surveyguy-server/config"
	"github.com/surveyguy/surveyguy-server/engine"
	"github.com/surveyguy/surveyguy-server/middleware"
	"github.com/surveyguy/surveyguy-server/models"
	"github.com/surveyguy/surveyguy-server/utils"
)

// loadDocument fetches a survey with its questions in presentation order.
func loadDocument(id string) (models.Survey, error) {
	var doc models.Survey
	err := config.DB.
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&doc).Error
	return doc, err
}

// replaceQuestions persists an engine-produced document: the question set is
// rewritten wholesale and the survey row's updated_at is bumped. Engine
// operators return full document values, so a rewrite is the simple way to
// keep rows and value in lockstep.
func replaceQuestions(tx *gorm.DB, doc models.Survey) error {
	if err := tx.Where("survey_id = ?", doc.ID).Delete(&models.Question{}).Error; err != nil {
		return err
	}
	if len(doc.Questions) > 0 {
		if err := tx.Create(&doc.Questions).Error; err != nil {
			return err
		}
	}
	return tx.Model(&models.Survey{}).
		Where("id = ?", doc.ID).
		Update("updated_at", doc.UpdatedAt).Error
}

/* ========== Create survey (optionally seeded from a template) ========== */

type createSurveyReq struct {
	Title       string          `json:"title" binding:"required,min=1"`
	Description string          `json:"description"`
	TemplateID  *string         `json:"template_id"`
	Settings    json.RawMessage `json:"settings"`
}

func CreateSurvey(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	settings, err := utils.ParseSettings(req.Settings)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	settingsJSON, err := utils.SettingsJSON(settings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not encode settings"})
		return
	}

	doc := models.Survey{
		ID:           uuid.NewString(),
		OwnerID:      &u.ID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.StatusDraft,
		SettingsJSON: settingsJSON,
	}

	// Seeding from a template keeps the caller's title/description and only
	// takes the template's question set.
	if req.TemplateID != nil {
		var tpl models.Template
		err := config.DB.
			Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
			First(&tpl, "id = ?", *req.TemplateID).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Template not found"})
			return
		}
		doc = engine.ApplyTemplate(tpl, &doc)
		doc.TemplateID = &tpl.ID
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
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
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create survey"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          doc.ID,
		"title":       doc.Title,
		"description": doc.Description,
		"status":      doc.Status,
		"owner_id":    doc.OwnerID,
		"questions":   doc.Questions,
	})
}

/* ========== Owner/editor detail ========== */

func GetSurvey(c *gin.Context) {
	doc, err := loadDocument(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	c.JSON(http.StatusOK, surveyDetail(doc))
}

func surveyDetail(doc models.Survey) gin.H {
	var settings any
	if doc.SettingsJSON != "" {
		_ = json.Unmarshal([]byte(doc.SettingsJSON), &settings)
	}
	questions := make([]gin.H, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		var qs any
		if q.SettingsJSON != "" {
			_ = json.Unmarshal([]byte(q.SettingsJSON), &qs)
		}
		questions = append(questions, gin.H{
			"id":       q.ID,
			"type":     q.Type,
			"title":    q.Title,
			"required": q.Required,
			"position": q.Position,
			"settings": qs,
		})
	}
	return gin.H{
		"id":             doc.ID,
		"owner_id":       doc.OwnerID,
		"title":          doc.Title,
		"description":    doc.Description,
		"status":         doc.Status,
		"published_at":   doc.PublishedAt,
		"settings":       settings,
		"questions":      questions,
		"response_count": doc.ResponseCount,
		"created_at":     doc.CreatedAt,
		"updated_at":     doc.UpdatedAt,
	}
}

/* ========== List my surveys ========== */

func ListMySurveys(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var surveys []models.Survey
	if err := config.DB.
		Where("owner_id = ? AND status <> ?", u.ID, models.StatusDeleted).
		Order("updated_at DESC").
		Find(&surveys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list surveys"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"surveys": surveys})
}

/* ========== Update title/description/settings ========== */

type updateSurveyReq struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Settings    *utils.SurveySettings `json:"settings"`
}

func UpdateSurvey(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var req updateSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Settings != nil {
		current, err := utils.ParseSettings([]byte(s.SettingsJSON))
		if err != nil {
			current = &utils.SurveySettings{}
		}
		merged := utils.MergeSettings(current, req.Settings)
		if err := utils.ValidateSettings(merged); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
			return
		}
		encoded, err := utils.SettingsJSON(merged)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not encode settings"})
			return
		}
		updates["settings_json"] = encoded
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&models.Survey{}).
		Where("id = ?", s.ID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

/* ========== Settings read ========== */

func GetSurveySettings(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	settings, err := utils.ParseSettings([]byte(s.SettingsJSON))
	if err != nil {
		settings = &utils.SurveySettings{}
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

/* ========== Soft delete / archive / restore ========== */

func DeleteSurvey(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)
	if err := config.DB.Model(&models.Survey{}).
		Where("id = ?", s.ID).
		Update("status", models.StatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func ArchiveSurvey(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	doc, err := loadDocument(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}
	doc = engine.Archive(doc)
	if err := config.DB.Model(&models.Survey{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{"status": doc.Status, "updated_at": doc.UpdatedAt}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Archive failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "archived"})
}

func RestoreSurvey(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)
	if err := config.DB.Model(&models.Survey{}).
		Where("id = ?", s.ID).
		Update("status", models.StatusDraft).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Restore failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "restored"})
}

/* ========== Publish / unpublish ========== */

func PublishSurvey(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	doc, err := loadDocument(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	published, err := engine.Publish(doc)
	if err != nil {
		var pubErr *engine.PublishError
		if errors.As(err, &pubErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": pubErr.Error(),
				"error":   pubErr,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Publish failed"})
		return
	}

	// The transition must be durable before we report success.
	if err := config.DB.Model(&models.Survey{}).
		Where("id = ?", published.ID).
		Updates(map[string]interface{}{
			"status":       published.Status,
			"published_at": published.PublishedAt,
			"updated_at":   published.UpdatedAt,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Publish failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           published.ID,
		"status":       published.Status,
		"published_at": published.PublishedAt,
	})
}

func UnpublishSurvey(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	doc, err := loadDocument(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	draft := engine.Unpublish(doc)
	if err := config.DB.Model(&models.Survey{}).
		Where("id = ?", draft.ID).
		Updates(map[string]interface{}{
			"status":       draft.Status,
			"published_at": nil,
			"updated_at":   draft.UpdatedAt,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unpublish failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": draft.ID, "status": draft.Status})
}

/* ========== Reorder questions ========== */

type reorderReq struct {
	Order []string `json:"order" binding:"required,min=1,dive,required"`
}

func ReorderQuestions(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	doc, err := loadDocument(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	reordered, err := engine.ReorderQuestions(doc, req.Order)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Order must be a permutation of the survey's question ids"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return replaceQuestions(tx, reordered)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Reorder failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

/* ========== Clone ========== */

func CloneSurvey(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	doc, err := loadDocument(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	clone := models.Survey{
		ID:           uuid.NewString(),
		OwnerID:      &u.ID,
		Title:        doc.Title + " (Copy)",
		Description:  doc.Description,
		Status:       models.StatusDraft,
		SettingsJSON: doc.SettingsJSON,
		TemplateID:   doc.TemplateID,
	}
	for _, q := range doc.Questions {
		clone.Questions = append(clone.Questions, models.Question{
			ID:           uuid.NewString(),
			SurveyID:     clone.ID,
			Title:        q.Title,
			Type:         q.Type,
			Required:     q.Required,
			Position:     q.Position,
			SettingsJSON: q.SettingsJSON,
		})
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		questions := clone.Questions
		clone.Questions = nil
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}
		clone.Questions = questions
		if len(questions) > 0 {
			return tx.Create(&questions).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Clone failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": clone.ID, "title": clone.Title})
}

/* ========== Edit token sharing ========== */

func ShareSurvey(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	token, err := utils.GenerateEditToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not generate token"})
		return
	}
	hash, err := utils.HashEditToken(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash token"})
		return
	}

	if err := config.DB.Model(&models.Survey{}).
		Where("id = ?", s.ID).
		Update("edit_token_hash", hash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not store token"})
		return
	}

	// The raw token is returned exactly once; only the hash is stored.
	c.JSON(http.StatusOK, gin.H{"edit_token": token})
}
