package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/handlers"
	"marketplace/internal/middleware"
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
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureProfileIndexes(db); err != nil {
		log.Printf("⚠️ profile index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("⚠️ product index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("⚠️ cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureSettingIndexes(db); err != nil {
		log.Printf("⚠️ setting index warning: %v", err)
	}

	secret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL
	refreshTTL := config.AppEnv.RefreshTokenTTL

	r := gin.Default()
	r.Use(middleware.CORS(config.AppEnv.AllowedOrigin))

	user := r.Group("/user")
	{
		user.POST("/register", handlers.Register(db, secret, accessTTL, refreshTTL))
		user.POST("/login", handlers.Login(db, secret, accessTTL, refreshTTL))
		user.POST("/refresh", handlers.Refresh(db, secret, accessTTL, refreshTTL))
		user.POST("/logout", handlers.Logout(db))
		user.POST("/forgot-password", handlers.ForgotPassword(db, config.AppEnv.ResetTokenTTL))
		user.POST("/reset-password", handlers.ResetPassword(db))
	}

	customer := r.Group("/customer")
	{
		customer.POST("/profile", middleware.BuyerAuth(secret), handlers.SaveBuyerProfile(db))
		customer.PUT("/profile", middleware.BuyerAuth(secret), handlers.SaveBuyerProfile(db))
		customer.GET("/getprofile/:id", middleware.UserAuth(secret), handlers.GetBuyerProfile(db))
	}

	seller := r.Group("/seller")
	{
		seller.POST("/sellerprofile", middleware.SellerAuth(secret), handlers.SaveSellerProfile(db))
		seller.GET("/getprofile/:id", handlers.GetSellerProfile(db))
		seller.GET("/customers/:sellerId", middleware.SellerAuth(secret), handlers.GetSellerCustomers(db))
	}

	product := r.Group("/product")
	{
		product.GET("/getproducts", handlers.GetProducts(db))
		product.GET("/getproduct/:id", handlers.GetProduct(db))
		product.POST("/addproduct", middleware.SellerAuth(secret), handlers.AddProduct(db))
		product.PUT("/updateproduct", middleware.SellerAuth(secret), handlers.UpdateProduct(db))
		product.DELETE("/deleteproduct/:id", middleware.SellerAuth(secret), handlers.DeleteProduct(db))
	}

	cart := r.Group("/cart")
	cart.Use(middleware.BuyerAuth(secret))
	{
		cart.POST("/add", handlers.AddCartItem(db))
		cart.GET("/get/:userId", handlers.GetCart(db))
		cart.PUT("/update/:userId/:productId", handlers.UpdateCartItem(db))
		cart.DELETE("/remove/:userId/:productId", handlers.RemoveCartItem(db))
		cart.DELETE("/clear/:userId", handlers.ClearCart(db))
	}

	order := r.Group("/order")
	{
		order.POST("/create", middleware.BuyerAuth(secret), handlers.CreateOrder(db))
		order.GET("/buyer/:buyerId", middleware.BuyerAuth(secret), handlers.GetBuyerOrders(db))
		order.GET("/seller/:sellerId", middleware.SellerAuth(secret), handlers.GetSellerOrders(db))
		order.PUT("/status/:orderId", middleware.SellerAuth(secret), handlers.UpdateOrderStatus(db))
	}

	payment := r.Group("/payment")
	{
		payment.POST("/create", middleware.BuyerAuth(secret), handlers.CreatePayment(db))
		payment.POST("/stripe/create-session", middleware.BuyerAuth(secret), handlers.CreateCheckoutSession())
		payment.POST("/stripe/verify", middleware.BuyerAuth(secret), handlers.VerifyCheckoutSession())
		payment.GET("/seller/:sellerId", middleware.SellerAuth(secret), handlers.GetSellerPayments(db))
		payment.PUT("/status/:paymentId", middleware.SellerAuth(secret), handlers.UpdatePaymentStatus(db))
	}

	setting := r.Group("/setting")
	{
		setting.GET("/:sellerId", handlers.GetSetting(db))
		setting.PUT("/:sellerId", middleware.SellerAuth(secret), handlers.SaveSetting(db))
	}

	review := r.Group("/review")
	{
		review.POST("/add", middleware.UserAuth(secret), handlers.AddReview(db))
		review.GET("/product/:productId", handlers.GetProductReviews(db))
	}

	r.GET("/analytics/seller/:sellerId", middleware.SellerAuth(secret), handlers.GetSellerAnalytics(db))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
