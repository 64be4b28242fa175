package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bakeshop/internal/checkout"
	"bakeshop/internal/config"
	"bakeshop/internal/database"
	"bakeshop/internal/delivery"
	"bakeshop/internal/handlers"
	"bakeshop/internal/middleware"
	"bakeshop/internal/payments"
	"bakeshop/internal/schedule"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureCustomOrderIndexes(db); err != nil {
		log.Printf("custom order index warning: %v", err)
	}
	if err := database.EnsureMenuIndexes(db); err != nil {
		log.Printf("menu index warning: %v", err)
	}

	processor := payments.NewStripeProcessor(
		config.AppEnv.StripeSecretKey,
		config.AppEnv.StripeWebhookSecret,
	)

	builder := &checkout.Builder{
		Processor: processor,
		Catalog:   &checkout.MongoCatalog{DB: db},
		Schedule:  schedule.NewConfigChecker(),
		Delivery:  delivery.NewRadiusChecker(delivery.NewNominatimGeocoder()),
		Audit:     &checkout.MongoAuditLog{DB: db},
		ReturnURL: config.AppEnv.PublicBaseURL + "/checkout/return?session_id={CHECKOUT_SESSION_ID}",
	}

	store := checkout.NewMongoStore(db)

	links := &checkout.LinkManager{
		Store:   store,
		Builder: builder,
		BaseURL: config.AppEnv.PublicBaseURL,
	}

	reconciler := &checkout.Reconciler{Store: store}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/menu", handlers.GetMenu(db))
	r.GET("/menu/:id", handlers.GetMenuItem(db))

	r.POST("/checkout", handlers.Checkout(db, builder))

	r.POST("/custom-orders", handlers.CreateCustomOrder(db))
	r.POST("/custom-orders/pay", handlers.PayCustomOrder(db, links))

	r.POST("/webhooks/stripe", handlers.StripeWebhook(processor, reconciler))

	r.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/menu", handlers.GetAllMenuItems(db))
		admin.POST("/menu", handlers.CreateMenuItem(db))
		admin.PUT("/menu/:id", handlers.UpdateMenuItem(db))
		admin.DELETE("/menu/:id", handlers.DeleteMenuItem(db))

		admin.GET("/orders", handlers.GetOrders(db))
		admin.GET("/orders/:id", handlers.GetOrder(db))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db))

		admin.GET("/custom-orders", handlers.GetCustomOrders(db))
		admin.PATCH("/custom-orders/:id/status", handlers.UpdateCustomOrderStatus(db))
		admin.POST("/custom-orders/:id/payment-link", handlers.CreatePaymentLink(db, links))

		admin.GET("/settings", handlers.GetSettings(db))
		admin.PUT("/settings", handlers.UpdateSettings(db))

		admin.GET("/audit", handlers.GetAuditLog(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
