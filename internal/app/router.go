package app

import (
	"ai_authoring_backend/docs"
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, sessionMiddleware gin.HandlerFunc) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.NoRoute(util.NotFound)

	api := router.Group("/api")
	api.Use(sessionMiddleware)
	{
		api.GET("/health", c.health.HealthCheck)

		// 1. 登录与会话
		a.registerAuthRoutes(api, c)

		// 2. 上游内容接口
		a.registerContentRoutes(api, c)

		// 3. 页面流程（会话内状态）
		a.registerPageRoutes(api, c)

		// 4. 知识库（需登录）
		a.registerKnowledgeBaseRoutes(api, c)
	}
}

func (a *App) registerAuthRoutes(rg *gin.RouterGroup, c *controllers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", c.auth.Login)
		auth.POST("/register", c.auth.Register)
		auth.POST("/logout", c.auth.Logout)
		auth.GET("/me", c.auth.Me)
	}
}

func (a *App) registerContentRoutes(rg *gin.RouterGroup, c *controllers) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/books", c.catalog.Books)
		catalog.GET("/chapters", c.catalog.Chapters)
		catalog.GET("/learning-objectives", c.catalog.LearningObjectives)
	}

	items := rg.Group("/items")
	{
		items.POST("/generate", c.item.Generate)
		items.POST("/search", c.item.Search)
		items.PUT("/:id", c.item.Update)
		items.DELETE("/:id", c.item.Delete)
	}

	reports := rg.Group("/reports")
	{
		reports.GET("/usage", c.report.Usage)
		reports.GET("/book-usage", c.report.BookUsage)
	}

	apps := rg.Group("/apps")
	{
		apps.GET("", c.app.List)
		apps.POST("/:appcode/subscribe", c.app.Subscribe)
	}
}

func (a *App) registerPageRoutes(rg *gin.RouterGroup, c *controllers) {
	quiz := rg.Group("/quiz")
	{
		quiz.POST("/generate", c.quiz.Generate)
		quiz.GET("", c.quiz.Current)
		quiz.DELETE("/questions/:id", c.quiz.RemoveQuestion)
		quiz.POST("/reset", c.quiz.Reset)
	}

	essays := rg.Group("/essays")
	{
		essays.GET("", c.essay.Sheet)
		essays.GET("/saved", c.essay.Saved)
		essays.POST("/:candidateId/open", c.essay.Open)
		essays.PUT("/answers/:questionId", c.essay.SetAnswer)
		essays.POST("/clear", c.essay.ClearAll)
		essays.POST("/evaluate", c.essay.Evaluate)
		essays.POST("/save", c.essay.Save)
	}

	similarity := rg.Group("/similarity")
	{
		similarity.GET("", c.similarity.List)
		similarity.POST("/upload", c.similarity.Upload)
		similarity.POST("/process", c.similarity.Process)
		similarity.POST("/items/:id/toggle", c.similarity.Toggle)
	}

	metadata := rg.Group("/metadata")
	{
		metadata.POST("/tag", c.metadata.Tag)
		metadata.GET("", c.metadata.Current)
	}

	summary := rg.Group("/summary")
	{
		summary.POST("", c.summary.Summarize)
		summary.GET("", c.summary.Current)
	}
}

func (a *App) registerKnowledgeBaseRoutes(rg *gin.RouterGroup, c *controllers) {
	kb := rg.Group("/knowledge-bases")
	kb.Use(middleware.RequireLogin())
	{
		kb.POST("", c.knowledgeBase.Create)
		kb.GET("", c.knowledgeBase.List)
		kb.GET("/:id", c.knowledgeBase.Get)
		kb.DELETE("/:id", c.knowledgeBase.Delete)
		kb.POST("/:id/documents", c.knowledgeBase.UploadDocument)
		kb.POST("/:id/chat", c.knowledgeBase.Chat)
		kb.GET("/:id/history", c.knowledgeBase.History)
		kb.DELETE("/:id/history", c.knowledgeBase.ClearHistory)
	}
}
