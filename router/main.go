package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/practicahub/internship-api/database"
	"github.com/practicahub/internship-api/handlers"
	application_handlers "github.com/practicahub/internship-api/handlers/application"
	evaluation_handlers "github.com/practicahub/internship-api/handlers/evaluation"
	offer_handlers "github.com/practicahub/internship-api/handlers/offer"
	"github.com/practicahub/internship-api/services"
	"github.com/practicahub/internship-api/utils/cache"
)

func SetupRoutes(app *fiber.App, store database.Storage, redisCache *cache.RedisCache, lockTimeoutMS int) {
	db := store.GetDB()

	// Initialize services
	capacityTracker := services.NewCapacityTracker()
	offerService := services.NewOfferService(db, redisCache, lockTimeoutMS)
	applicationService := services.NewApplicationService(db, capacityTracker, redisCache, lockTimeoutMS)
	evaluationService := services.NewEvaluationService(db)

	// Initialize handlers
	offerHandler := offer_handlers.NewOfferHandler(offerService)
	applicationHandler := application_handlers.NewApplicationHandler(applicationService)
	evaluationHandler := evaluation_handlers.NewEvaluationHandler(evaluationService)

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error { return handlers.HandleCheckHealth(c, store) })

	// API v1 group
	api := app.Group("/api/v1")

	// Offers routes
	offers := api.Group("/offers")
	offers.Get("/", offerHandler.ListOffers)
	offers.Post("/", offerHandler.CreateOffer)
	offers.Get("/:id", offerHandler.GetOffer)
	offers.Put("/:id", offerHandler.UpdateOffer)      // Draft only
	offers.Delete("/:id", offerHandler.DeleteOffer)   // Rejected while applications are active
	offers.Post("/:id/publish", offerHandler.PublishOffer)
	offers.Post("/:id/close", offerHandler.CloseOffer)
	offers.Post("/:id/cancel", offerHandler.CancelOffer) // Force-rejects pending/reviewing applications
	offers.Post("/:id/reopen", offerHandler.ReopenOffer) // Guarded by spare capacity

	// Applications nested under offers
	offers.Get("/:id/applications", applicationHandler.ListOfferApplications)
	offers.Post("/:id/applications", applicationHandler.CreateApplication)

	// Applications routes
	applications := api.Group("/applications")
	applications.Get("/", applicationHandler.ListApplications)
	applications.Get("/:id", applicationHandler.GetApplication)
	applications.Post("/:id/start-review", applicationHandler.StartReview)
	applications.Post("/:id/accept", applicationHandler.Accept) // Claims one capacity slot atomically
	applications.Post("/:id/reject", applicationHandler.Reject)
	applications.Post("/:id/withdraw", applicationHandler.Withdraw)
	applications.Post("/:id/release", applicationHandler.Release) // Admin override: frees an accepted slot

	// Evaluations routes
	evaluations := api.Group("/evaluations")
	evaluations.Post("/", evaluationHandler.SubmitEvaluation)
	evaluations.Get("/", evaluationHandler.ListEvaluations)
	evaluations.Get("/:id", evaluationHandler.GetEvaluation)
}
