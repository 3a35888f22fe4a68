package controllers

import (
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

/* ========== Add question ========== */

type addQuestionReq struct {
	Type     string                   `json:"type" binding:"required"`
	Title    string                   `json:"title" binding:"required"`
	Required bool                     `json:"required"`
	Settings *models.QuestionSettings `json:"settings"`
}

func AddQuestion(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var req addQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if !models.KnownQuestionType(req.Type) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Unknown question type"})
		return
	}

	q := models.Question{
		ID:       uuid.NewString(),
		SurveyID: s.ID,
		Title:    req.Title,
		Type:     req.Type,
		Required: req.Required,
	}
	settings := engine.DefaultSettings(req.Type)
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := q.SetSettings(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not encode settings"})
		return
	}

	doc, err := loadDocument(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	doc, err = engine.AddQuestion(doc, q)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Question id already exists"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return replaceQuestions(tx, doc)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not add question"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"question_id": q.ID, "survey_id": s.ID})
}

/* ========== Update question ========== */

func UpdateQuestion(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)
	q := c.MustGet(middleware.CtxQuestion).(models.Question)

	var patch engine.QuestionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if patch.Title == nil && patch.Required == nil && patch.Settings == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	doc, err := loadDocument(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	doc, err = engine.UpdateQuestion(doc, q.ID, patch)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return replaceQuestions(tx, doc)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

/* ========== Delete question ========== */

func DeleteQuestion(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)
	q := c.MustGet(middleware.CtxQuestion).(models.Question)

	doc, err := loadDocument(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	doc, err = engine.RemoveQuestion(doc, q.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return replaceQuestions(tx, doc)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

/* ========== Duplicate question ========== */

func DuplicateQuestion(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)
	q := c.MustGet(middleware.CtxQuestion).(models.Question)

	doc, err := loadDocument(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	doc, err = engine.DuplicateQuestion(doc, q.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return replaceQuestions(tx, doc)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Duplicate failed"})
		return
	}

	// The clone sits directly after the source in the returned document.
	var cloneID string
	for i, question := range doc.Questions {
		if question.ID == q.ID && i+1 < len(doc.Questions) {
			cloneID = doc.Questions[i+1].ID
			break
		}
	}
	c.JSON(http.StatusCreated, gin.H{"question_id": cloneID, "survey_id": s.ID})
}
