package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/api/handlers"
	"github.com/dynamisinc/cobra-poc-sub007/api/middleware"
	"github.com/dynamisinc/cobra-poc-sub007/internal/service"
)

// Services bundles the services the API depends on
type Services struct {
	Events     service.EventService
	Periods    service.PeriodService
	Templates  service.TemplateService
	Checklists service.ChecklistService
	Chat       service.ChatService
	Settings   service.SettingService
}

// SetupRoutes sets up all the routes for the server
func SetupRoutes(r *gin.Engine, svcs Services, log *logrus.Logger) {
	// Health check and metrics
	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", handlers.Metrics)

	// API routes
	api := r.Group("/api/v1")

	// Mutating routes require the configured API key
	auth := middleware.APIKeyAuth(svcs.Settings, log)

	// Event routes
	eventHandler := handlers.NewEventHandler(svcs.Events, log)
	events := api.Group("/events")
	{
		events.POST("", auth, eventHandler.CreateEvent)
		events.GET("", eventHandler.ListEvents)
		events.GET("/:id", eventHandler.GetEvent)
		events.PUT("/:id", auth, eventHandler.UpdateEvent)
		events.POST("/:id/deactivate", auth, eventHandler.DeactivateEvent)

		// Position routes
		events.POST("/:id/positions", auth, eventHandler.CreatePosition)
		events.GET("/:id/positions", eventHandler.ListPositions)
		events.PUT("/:id/positions/:positionId", auth, eventHandler.UpdatePosition)
		events.DELETE("/:id/positions/:positionId", auth, eventHandler.DeletePosition)
	}

	// Operational period routes
	periodHandler := handlers.NewPeriodHandler(svcs.Periods, log)
	{
		events.POST("/:id/periods", auth, periodHandler.CreatePeriod)
		events.GET("/:id/periods", periodHandler.ListPeriods)
		events.GET("/:id/periods/current", periodHandler.GetCurrentPeriod)
	}
	periods := api.Group("/periods")
	{
		periods.POST("/:id/close", auth, periodHandler.ClosePeriod)
		periods.DELETE("/:id", auth, periodHandler.DeletePeriod)
	}

	// Template routes
	templateHandler := handlers.NewTemplateHandler(svcs.Templates, log)
	templates := api.Group("/templates")
	{
		templates.POST("", auth, templateHandler.CreateTemplate)
		templates.GET("", templateHandler.ListTemplates)
		templates.GET("/:id", templateHandler.GetTemplate)
		templates.PUT("/:id", auth, templateHandler.UpdateTemplate)
		templates.POST("/:id/deactivate", auth, templateHandler.DeactivateTemplate)
		templates.POST("/:id/items", auth, templateHandler.AddTemplateItem)
		templates.PUT("/:id/items/:itemId", auth, templateHandler.UpdateTemplateItem)
		templates.DELETE("/:id/items/:itemId", auth, templateHandler.DeleteTemplateItem)
	}

	// Checklist routes
	checklistHandler := handlers.NewChecklistHandler(svcs.Checklists, log)
	{
		events.GET("/:id/checklists", checklistHandler.GetEventChecklists)
		events.POST("/:id/checklists", auth, checklistHandler.CreateChecklist)
	}
	checklists := api.Group("/checklists")
	{
		checklists.GET("/:id", checklistHandler.GetChecklist)
		checklists.POST("/:id/archive", auth, checklistHandler.ArchiveChecklist)
		checklists.POST("/:id/items", auth, checklistHandler.AddItem)
		checklists.PATCH("/:id/items/:itemId/toggle", auth, checklistHandler.ToggleItem)
		checklists.PATCH("/:id/items/:itemId/status", auth, checklistHandler.SetItemStatus)
		checklists.PATCH("/:id/items/:itemId/notes", auth, checklistHandler.UpdateItemNotes)
		checklists.DELETE("/:id/items/:itemId", auth, checklistHandler.RemoveItem)
	}

	// Chat routes
	chatHandler := handlers.NewChatHandler(svcs.Chat, log)
	{
		events.POST("/:id/messages", auth, chatHandler.PostMessage)
		events.GET("/:id/messages", chatHandler.ListMessages)
		events.GET("/:id/messages/search", chatHandler.SearchMessages)
	}

	// Admin setting routes
	settingHandler := handlers.NewSettingHandler(svcs.Settings, log)
	admin := api.Group("/admin/settings")
	{
		admin.POST("", auth, settingHandler.UpsertSetting)
		admin.GET("", settingHandler.ListSettings)
		admin.GET("/:key", settingHandler.GetSetting)
		admin.DELETE("/:key", auth, settingHandler.DeleteSetting)
	}
}
