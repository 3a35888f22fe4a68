package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surveyguy/surveyguy-server/config"
	"github.com/surveyguy/surveyguy-server/engine"
	"github.com/surveyguy/surveyguy-server/middleware"
	"github.com/surveyguy/surveyguy-server/models"
	"github.com/surveyguy/surveyguy-server/utils"
)

/* ========== Public runtime fetch: GET /survey/:id ========== */

// GetPublicSurvey serves the respondent-facing document. It resolves without
// authentication, but only for published surveys.
func GetPublicSurvey(c *gin.Context) {
	doc, err := loadDocument(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}
	if doc.Status != models.StatusPublished {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey is not open for responses"})
		return
	}

	settings, err := utils.ParseSettings([]byte(doc.SettingsJSON))
	if err != nil {
		settings = &utils.SurveySettings{}
	}

	// Stored order is authoritative; randomization is a per-request view.
	if settings.Randomized() {
		rand.Shuffle(len(doc.Questions), func(i, j int) {
			doc.Questions[i], doc.Questions[j] = doc.Questions[j], doc.Questions[i]
		})
	}

	body := surveyDetail(doc)
	body["show_progress"] = settings.ShowProgress != nil && *settings.ShowProgress
	body["collect_email"] = settings.EmailRequired()
	c.JSON(http.StatusOK, body)
}

/* ========== Response intake: POST /survey/:id/responses ========== */

type submitResponseReq struct {
	SessionID             string         `json:"session_id"`
	Email                 *string        `json:"email"`
	CompletionTimeSeconds int            `json:"completion_time_seconds"`
	Answers               map[string]any `json:"answers" binding:"required"`
}

func SubmitResponse(c *gin.Context) {
	surveyID := c.Param("id")

	doc, err := loadDocument(surveyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}
	if doc.Status != models.StatusPublished {
		c.JSON(http.StatusForbidden, gin.H{"message": "Survey is not accepting responses"})
		return
	}

	settings, err := utils.ParseSettings([]byte(doc.SettingsJSON))
	if err != nil {
		settings = &utils.SurveySettings{}
	}

	// Response cap.
	if limit := settings.ResponseCap(); limit > 0 {
		var count int64
		if err := config.DB.Model(&models.Response{}).
			Where("survey_id = ?", surveyID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not check response count"})
			return
		}
		if count >= int64(limit) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Survey has reached its response limit"})
			return
		}
	}

	var req submitResponseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	// Login requirement comes from the survey's settings, not the route.
	var userID *string
	if v, exists := c.Get(middleware.CtxUser); exists {
		if u, ok := v.(models.User); ok {
			userID = &u.ID
			if req.Email == nil || *req.Email == "" {
				req.Email = &u.Email
			}
		}
	}
	if !settings.AnonymousAllowed() && userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "This survey requires sign-in"})
		return
	}
	if settings.EmailRequired() && (req.Email == nil || *req.Email == "") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "This survey requires an email address"})
		return
	}

	// Engine validation: all offending questions reported at once.
	result := engine.Validate(doc, req.Answers)
	if !result.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Some answers are invalid",
			"errors":  result.Errors,
		})
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	response := models.Response{
		ID:                    uuid.NewString(),
		SurveyID:              surveyID,
		SessionID:             req.SessionID,
		UserID:                userID,
		Email:                 req.Email,
		CompletionTimeSeconds: req.CompletionTimeSeconds,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&response).Error; err != nil {
			return err
		}

		for _, q := range doc.Questions {
			value, answered := req.Answers[q.ID]
			if !answered {
				continue
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return err
			}
			answer := models.Answer{
				ResponseID: response.ID,
				QuestionID: q.ID,
				ValueJSON:  string(encoded),
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Survey{}).
			Where("id = ?", surveyID).
			UpdateColumn("response_count", gorm.Expr("response_count + 1")).Error
	})
	if err != nil {
		log.Printf("could not store response for survey %s: %v", surveyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not store response"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"response_id": response.ID,
		"session_id":  response.SessionID,
	})
}

/* ========== Owner listing: GET /api/surveys/:id/responses ========== */

func ListResponses(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.Response{}).Where("survey_id = ?", s.ID)

	if startStr := c.Query("start_date"); startStr != "" {
		if start, err := time.Parse("2006-01-02", startStr); err == nil {
			query = query.Where("submitted_at >= ?", start)
		}
	}
	if endStr := c.Query("end_date"); endStr != "" {
		if end, err := time.Parse("2006-01-02", endStr); err == nil {
			// inclusive end date
			query = query.Where("submitted_at < ?", end.Add(24*time.Hour))
		}
	}

	var total int64
	query.Count(&total)

	var responses []models.Response
	if err := query.
		Preload("Answers").
		Order("submitted_at DESC").
		Limit(limit).Offset(offset).
		Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list responses"})
		return
	}

	resp := []gin.H{}
	for _, r := range responses {
		resp = append(resp, responseView(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"survey_id": s.ID,
		"page":      page,
		"limit":     limit,
		"total":     total,
		"responses": resp,
	})
}

func responseView(r models.Response) gin.H {
	answers := []gin.H{}
	for _, a := range r.Answers {
		var value any
		_ = json.Unmarshal([]byte(a.ValueJSON), &value)
		answers = append(answers, gin.H{
			"question_id": a.QuestionID,
			"value":       value,
		})
	}
	return gin.H{
		"id":                      r.ID,
		"session_id":              r.SessionID,
		"user_id":                 r.UserID,
		"email":                   r.Email,
		"completion_time_seconds": r.CompletionTimeSeconds,
		"submitted_at":            r.SubmittedAt,
		"answers":                 answers,
	}
}

/* ========== Owner detail: GET /api/surveys/:id/responses/:response_id ========== */

func GetResponseDetail(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var response models.Response
	if err := config.DB.
		Preload("Answers").
		Where("id = ? AND survey_id = ?", c.Param("response_id"), s.ID).
		First(&response).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Response not found"})
		return
	}

	body := responseView(response)
	body["survey_id"] = s.ID
	c.JSON(http.StatusOK, body)
}
