package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/surveyguy/surveyguy-server/config"
	"github.com/surveyguy/surveyguy-server/models"
	"github.com/surveyguy/surveyguy-server/utils"
)

const HeaderEditToken = "X-Survey-Edit-Token"

func isOwner(u models.User, s *models.Survey) bool {
	return s.OwnerID != nil && *s.OwnerID == u.ID
}

func loadSurvey(c *gin.Context, id string) (models.Survey, bool) {
	var s models.Survey
	err := config.DB.
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return models.Survey{}, false
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return models.Survey{}, false
	}
	return s, true
}

// CheckSurveyEditor allows (1) the JWT owner, or (2) a bearer of a valid
// edit token. The loaded survey is stashed in the context for the handler.
func CheckSurveyEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := loadSurvey(c, c.Param("id"))
		if !ok {
			return
		}

		if v, exists := c.Get(CtxUser); exists {
			if u, isUser := v.(models.User); isUser && isOwner(u, &s) {
				c.Set(CtxSurvey, s)
				c.Next()
				return
			}
		}

		token := c.GetHeader(HeaderEditToken)
		if token != "" && utils.VerifyEditToken(s.EditTokenHash, token) {
			c.Set(CtxSurvey, s)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Missing or invalid edit permission"})
	}
}

// CheckSurveyOwner is the strict variant: JWT owner only. Used for destructive
// operations and for minting edit tokens.
func CheckSurveyOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		s, ok := loadSurvey(c, c.Param("id"))
		if !ok {
			return
		}
		if !isOwner(u, &s) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this survey"})
			return
		}
		c.Set(CtxSurvey, s)
		c.Next()
	}
}

// CheckQuestionEditor resolves a question id back to its survey and applies
// the same owner-or-edit-token rule as CheckSurveyEditor.
func CheckQuestionEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		qid := c.Param("id")

		var q models.Question
		if err := config.DB.First(&q, "id = ?", qid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Question not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load question"})
			return
		}

		s, ok := loadSurvey(c, q.SurveyID)
		if !ok {
			return
		}

		if v, exists := c.Get(CtxUser); exists {
			if u, isUser := v.(models.User); isUser && isOwner(u, &s) {
				c.Set(CtxSurvey, s)
				c.Set(CtxQuestion, q)
				c.Next()
				return
			}
		}

		token := c.GetHeader(HeaderEditToken)
		if token != "" && utils.VerifyEditToken(s.EditTokenHash, token) {
			c.Set(CtxSurvey, s)
			c.Set(CtxQuestion, q)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Missing or invalid edit permission"})
	}
}
