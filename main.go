package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"hagyustic/internal/config"
	"hagyustic/internal/database"
	"hagyustic/internal/handlers"
	"hagyustic/internal/middleware"
	"hagyustic/internal/orders"
	"hagyustic/internal/payments"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	store := orders.NewMongoStore(db)
	orderSvc := orders.NewService(store, cfg.LowStockThreshold)

	stripeGateway := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.FrontendURL)
	paypalGateway, err := payments.NewPayPalGateway(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalLive)
	if err != nil {
		log.Fatal("paypal client:", err)
	}

	r := gin.Default()
	r.Use(middleware.CORS(cfg.FrontendURL))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register(db, cfg.JWTSecret, cfg.AccessTokenTTL))
		auth.POST("/login", handlers.Login(db, cfg.JWTSecret, cfg.AccessTokenTTL))
		auth.GET("/me", middleware.UserAuth(cfg.JWTSecret), handlers.GetMe(db))
	}

	api.GET("/products", handlers.GetProducts(db))
	api.GET("/products/:id", handlers.GetProductByID(db))
	api.GET("/categories", handlers.GetCategories())
	api.GET("/carousel", handlers.GetCarouselSlides(db))

	order := api.Group("/orders")
	{
		order.POST("", middleware.UserAuth(cfg.JWTSecret), handlers.CreateOrder(orderSvc))
		order.GET("", middleware.UserAuth(cfg.JWTSecret), handlers.GetUserOrders(orderSvc))
		order.GET("/analytics", middleware.AdminAuth(cfg.JWTSecret), handlers.GetAnalytics(orderSvc))
		order.GET("/all", middleware.AdminAuth(cfg.JWTSecret), handlers.GetAllOrders(orderSvc))
		order.PUT("/bulk-update", middleware.AdminAuth(cfg.JWTSecret), handlers.BulkUpdateOrders(orderSvc))
		order.GET("/:id", middleware.UserAuth(cfg.JWTSecret), handlers.GetOrderByID(orderSvc))
		order.PUT("/:id/status", middleware.AdminAuth(cfg.JWTSecret), handlers.UpdateOrderStatus(orderSvc))
	}

	payment := api.Group("/payment")
	payment.Use(middleware.UserAuth(cfg.JWTSecret))
	{
		payment.POST("/create-checkout-session", handlers.CreateCheckoutSession(stripeGateway))
		payment.POST("/stripe-confirm", handlers.ConfirmStripePayment(stripeGateway, orderSvc))
		payment.POST("/paypal-capture", handlers.CapturePayPalPayment(paypalGateway, orderSvc))
	}

	user := api.Group("/user")
	user.Use(middleware.UserAuth(cfg.JWTSecret))
	{
		user.GET("/profile", handlers.GetUserProfile(db))
		user.PUT("/update", handlers.UpdateUser(db))
		user.PUT("/password", handlers.UpdatePassword(db))
		user.GET("/has-ordered", handlers.HasPlacedOrder(orderSvc))
		user.GET("/all", middleware.AdminAuth(cfg.JWTSecret), handlers.GetAllUsers(db))
		user.DELETE("/:id", middleware.AdminAuth(cfg.JWTSecret), handlers.DeleteUser(db))
	}

	admin := api.Group("")
	admin.Use(middleware.AdminAuth(cfg.JWTSecret))
	{
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.POST("/carousel", handlers.CreateCarouselSlide(db))
		admin.PUT("/carousel/:id", handlers.UpdateCarouselSlide(db))
		admin.DELETE("/carousel/:id", handlers.DeleteCarouselSlide(db))
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
