package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PremPMehta/food-del-be-sub000/internal/config"
	"github.com/PremPMehta/food-del-be-sub000/internal/database"
	"github.com/PremPMehta/food-del-be-sub000/internal/finance"
	"github.com/PremPMehta/food-del-be-sub000/internal/gateway"
	"github.com/PremPMehta/food-del-be-sub000/internal/handlers"
	"github.com/PremPMehta/food-del-be-sub000/internal/invoice"
	"github.com/PremPMehta/food-del-be-sub000/internal/middleware"
	"github.com/PremPMehta/food-del-be-sub000/internal/notify"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsurePaymentIndexes(db); err != nil {
		log.Printf("payment index warning: %v", err)
	}
	if err := database.EnsureTransactionIndexes(db); err != nil {
		log.Printf("transaction index warning: %v", err)
	}

	var gw gateway.Gateway
	switch config.AppEnv.GatewayProvider {
	case "mock":
		gw = gateway.NewMock(config.AppEnv.RazorpayWebhookSecret)
		log.Println("payment gateway: mock backend")
	default:
		gw = gateway.NewRazorpay(
			config.AppEnv.RazorpayKeyID,
			config.AppEnv.RazorpayKeySecret,
			config.AppEnv.RazorpayWebhookSecret,
		)
		log.Println("payment gateway: razorpay")
	}

	orch := finance.NewOrchestrator(db, gw,
		config.AppEnv.MembershipPrice,
		config.AppEnv.PaymentReturnURL,
		config.AppEnv.PaymentCancelURL,
	)
	notifier := notify.FromBrokers(config.AppEnv.KafkaBrokers, config.AppEnv.OrderEventTopic)
	mailer := invoice.NewMailer(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPUser,
		config.AppEnv.SMTPPass,
		config.AppEnv.MailFrom,
	)

	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))

	r.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	r.GET("/catalog", handlers.GetCatalog(db))
	r.GET("/combos", handlers.GetCombos(db))

	r.POST("/payments/webhook", handlers.PaymentWebhook(gw, orch, notifier))

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.POST("/orders/thal", handlers.PlaceThalOrder(db, orch, notifier, mailer))
		user.POST("/orders/fastfood", handlers.PlaceFastfoodOrder(db, orch, notifier, mailer))
		user.GET("/user/orders", handlers.GetMyOrders(db))
		user.GET("/user/orders/:id", handlers.GetMyOrder(db))

		user.GET("/user/wallet", handlers.GetWallet(db))
		user.GET("/user/wallet/history", handlers.GetWalletHistory(db))
		user.POST("/user/wallet/topup", handlers.TopupWallet(db, orch))
		user.POST("/user/membership/purchase", handlers.PurchaseMembership(db, orch, config.AppEnv.MembershipPrice))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.POST("/categories", handlers.CreateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))
		admin.POST("/categories/:id/dishes", handlers.AddDish(db))
		admin.DELETE("/categories/:id/dishes/:dishId", handlers.RemoveDish(db))

		admin.POST("/combos", handlers.CreateCombo(db))
		admin.DELETE("/combos/:id", handlers.DeleteCombo(db))

		admin.POST("/kitchens", handlers.CreateKitchen(db))
		admin.GET("/kitchens", handlers.ListKitchens(db))

		admin.PUT("/referral-settings", handlers.UpsertReferralSettings(db))

		admin.GET("/orders", handlers.ListOrders(db))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db, orch, notifier))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
