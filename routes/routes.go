package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/surveyguy/surveyguy-server/controllers"
	"github.com/surveyguy/surveyguy-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)

	// Public runtime: a published survey must resolve without sign-in.
	r.GET("/survey/:id", controllers.GetPublicSurvey)
	r.POST("/survey/:id/responses",
		middleware.OptionalAuth(),
		middleware.RateLimitResponses(),
		controllers.SubmitResponse)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLogin)
		}
		api.GET("/me", middleware.AuthJWT(), controllers.Me)

		// Editing accepts either the JWT owner or an edit-token bearer, so
		// the group only loads a user when one is present; routes that need
		// a signed-in account stack AuthJWT explicitly.
		surveys := api.Group("/surveys")
		surveys.Use(middleware.OptionalAuth())
		{
			surveys.POST("", middleware.AuthJWT(), middleware.RateLimitSurveyCreate(), controllers.CreateSurvey)
			surveys.GET("/my", middleware.AuthJWT(), controllers.ListMySurveys)
			surveys.GET("/:id", middleware.CheckSurveyEditor(), controllers.GetSurvey)
			surveys.PUT("/:id", middleware.CheckSurveyEditor(), controllers.UpdateSurvey)
			surveys.DELETE("/:id", middleware.AuthJWT(), middleware.CheckSurveyOwner(), controllers.DeleteSurvey)
			surveys.PUT("/:id/archive", middleware.CheckSurveyEditor(), controllers.ArchiveSurvey)
			surveys.PUT("/:id/restore", middleware.CheckSurveyEditor(), controllers.RestoreSurvey)

			surveys.POST("/:id/publish", middleware.CheckSurveyEditor(), controllers.PublishSurvey)
			surveys.POST("/:id/unpublish", middleware.CheckSurveyEditor(), controllers.UnpublishSurvey)

			surveys.GET("/:id/settings", middleware.CheckSurveyEditor(), controllers.GetSurveySettings)

			surveys.POST("/:id/questions", middleware.CheckSurveyEditor(), controllers.AddQuestion)
			surveys.PUT("/:id/questions/reorder", middleware.CheckSurveyEditor(), controllers.ReorderQuestions)

			surveys.POST("/:id/clone", middleware.AuthJWT(), controllers.CloneSurvey)
			surveys.POST("/:id/share", middleware.AuthJWT(), middleware.CheckSurveyOwner(), controllers.ShareSurvey)

			surveys.GET("/:id/responses", middleware.CheckSurveyEditor(), controllers.ListResponses)
			surveys.GET("/:id/responses/:response_id", middleware.CheckSurveyEditor(), controllers.GetResponseDetail)

			surveys.POST("/:id/export", middleware.CheckSurveyEditor(), controllers.CreateExport)
		}

		// Question routes address the question directly; the guard walks back
		// to the owning survey.
		api.PUT("/questions/:id", middleware.OptionalAuth(), middleware.CheckQuestionEditor(), controllers.UpdateQuestion)
		api.DELETE("/questions/:id", middleware.OptionalAuth(), middleware.CheckQuestionEditor(), controllers.DeleteQuestion)
		api.POST("/questions/:id/duplicate", middleware.OptionalAuth(), middleware.CheckQuestionEditor(), controllers.DuplicateQuestion)

		templates := api.Group("/templates")
		{
			templates.GET("", controllers.ListTemplates)
			templates.GET("/:id", controllers.GetTemplate)
			templates.POST("", middleware.AuthJWT(), controllers.CreateTemplate)
			templates.DELETE("/:id", middleware.AuthJWT(), middleware.RequireAdmin(), controllers.DeleteTemplate)
			templates.POST("/:id/apply", middleware.AuthJWT(), controllers.ApplyTemplate)
		}

		api.GET("/exports/:job_id", middleware.AuthJWT(), controllers.GetExport)
	}
}
