package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/soulbridgeai/soulbridge-golang/internal/config"
	"github.com/soulbridgeai/soulbridge-golang/internal/handlers"
	"github.com/soulbridgeai/soulbridge-golang/internal/middleware"
)

func SetupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// CORS must run before everything else so preflight requests never
	// hit the auth middleware.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})
		v1.GET("/health", h.HealthCheck)

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Public Catalog Routes ---
		v1.GET("/subscriptions/plans", h.GetSubscriptionPlans)
		v1.GET("/gallery", h.GetGallery)
		v1.GET("/legal", h.ListLegalDocuments)
		v1.GET("/legal/:slug", h.GetLegalDocument)

		// --- Stripe Webhook (Public, signature-verified) ---
		v1.POST("/webhooks/stripe", h.StripeWebhook)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware(h.DB))
		{
			// Profile & Credits
			auth.GET("/profile/me", h.GetMyProfile)
			auth.GET("/credits", h.GetMyCredits)
			auth.GET("/credits/costs", h.GetFeatureCosts)
			auth.POST("/credits/trial", h.StartTrial)

			// --- Companion Chat Routes ---
			auth.GET("/companions", h.ListCompanions)
			auth.POST("/chat", h.ChatWithCompanion)
			auth.GET("/chat/history", h.GetChatHistory)

			// --- Creative Studio Routes ---
			auth.POST("/studio/pack", h.GenerateStudioPack)
			auth.POST("/studio/image", h.GenerateImage)

			// --- Journal Routes ---
			auth.POST("/journal", h.CreateJournalEntry)
			auth.GET("/journal", h.ListJournalEntries)
			auth.POST("/journal/voice", h.UploadVoiceJournal)
			auth.POST("/journal/meditation", h.GenerateMeditation)

			// --- Gallery Routes ---
			auth.POST("/gallery", h.CreateGalleryPost)
			auth.GET("/gallery/mine", h.GetMyGalleryPosts)

			// --- Referral Routes ---
			auth.GET("/referrals", h.GetMyReferrals)

			// --- Notification Routes ---
			auth.GET("/notifications", h.GetMyNotifications)
			auth.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)

			// --- Billing Routes ---
			auth.POST("/subscriptions/checkout", h.CreateCheckoutSession)
			auth.POST("/subscriptions/portal", h.CreatePortalSession)
		}

		// --- Manager-Only Routes ---
		manager := v1.Group("/manager")
		manager.Use(middleware.AuthMiddleware(h.DB))
		manager.Use(middleware.ManagerMiddleware())
		{
			manager.GET("/gallery/pending", h.GetPendingGalleryPosts)
			manager.PATCH("/gallery/:id/approve", h.ApproveGalleryPost)
			manager.PATCH("/gallery/:id/reject", h.RejectGalleryPost)

			manager.PATCH("/users/:id/plan", h.AssignSubscription)
		}
	}

	return router
}
