package routes

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"rental-backend/config"
	"rental-backend/controllers"
	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Handlers groups the controllers mounted by SetupRouter.
type Handlers struct {
	Accounts     *controllers.AccountController
	Properties   *controllers.PropertyController
	Reservations *controllers.ReservationController
	Reviews      *controllers.ReviewController
	Wishlist     *controllers.WishlistController
}

type Options struct {
	CorsOrigins []string
	UploadDir   string
	Logger      *slog.Logger
}

var bindingOnce sync.Once

// Build wires services and controllers over db and returns the router.
func Build(db *gorm.DB, cfg *config.AppConfig, logger *slog.Logger) *gin.Engine {
	tokens := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	images := services.NewImageStore(cfg.UploadDir)

	accounts := services.NewAccountService(db, tokens)
	h := Handlers{
		Accounts:     controllers.NewAccountController(accounts),
		Properties:   controllers.NewPropertyController(services.NewPropertyService(db, images)),
		Reservations: controllers.NewReservationController(services.NewReservationService(db, cfg.AllowOverlappingBookings)),
		Reviews:      controllers.NewReviewController(services.NewReviewService(db)),
		Wishlist:     controllers.NewWishlistController(services.NewWishlistService(db)),
	}
	return SetupRouter(h, accounts, Options{
		CorsOrigins: cfg.CorsOrigins,
		UploadDir:   images.Root,
		Logger:      logger,
	})
}

func SetupRouter(h Handlers, auth middleware.Authenticator, opts Options) *gin.Engine {
	bindingOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			services.ConfigureValidator(v)
		}
	})

	r := gin.New()
	r.Use(middleware.Logger(opts.Logger), gin.Recovery())

	origins := opts.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.Authenticate(auth))
	authed := middleware.RequireAuth()

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login/", h.Accounts.Login)
	}

	accounts := api.Group("/accounts")
	{
		accounts.POST("/register/", h.Accounts.Register)
		accounts.GET("/profile/", authed, h.Accounts.GetProfile)
		accounts.PUT("/profile/", authed, h.Accounts.UpdateProfile)
		accounts.PATCH("/profile/", authed, h.Accounts.UpdateProfile)
		accounts.POST("/change-password/", authed, h.Accounts.ChangePassword)
		accounts.POST("/become-host/", authed, h.Accounts.BecomeHost)
		accounts.GET("/stats/", authed, h.Accounts.Stats)
	}

	properties := api.Group("/properties")
	{
		properties.GET("/", h.Properties.ListProperties)
		properties.POST("/", authed, h.Properties.CreateProperty)

		// static segments must be registered alongside /:id/
		properties.GET("/search/", h.Properties.SearchProperties)
		properties.GET("/user/properties/", authed, h.Properties.ListMyProperties)

		properties.GET("/:id/", h.Properties.GetProperty)
		properties.PUT("/:id/", authed, h.Properties.UpdateProperty)
		properties.PATCH("/:id/", authed, h.Properties.UpdateProperty)
		properties.DELETE("/:id/", authed, h.Properties.DeleteProperty)

		properties.POST("/:id/images/", authed, h.Properties.UploadImage)
		properties.DELETE("/:id/images/:image_id/", authed, h.Properties.DeleteImage)

		properties.GET("/:id/reviews/", h.Reviews.ListReviews)
		properties.POST("/:id/reviews/", authed, h.Reviews.CreateReview)

		// Reservation and wishlist paths are also served under /properties
		// for clients of the older URL layout.
		registerReservationRoutes(properties.Group("/reservations", authed), h.Reservations)
		registerWishlistRoutes(properties.Group("/wishlist", authed), h.Wishlist)
	}

	registerReservationRoutes(api.Group("/reservations", authed), h.Reservations)
	registerWishlistRoutes(api.Group("/wishlist", authed), h.Wishlist)

	reviews := api.Group("/reviews", authed)
	{
		reviews.DELETE("/:id/", h.Reviews.DeleteReview)
	}

	return r
}

func registerReservationRoutes(g *gin.RouterGroup, rc *controllers.ReservationController) {
	g.GET("/", rc.ListReservations)
	g.POST("/create/", rc.CreateReservation)
	g.GET("/:id/", rc.GetReservation)
	g.PUT("/:id/", rc.UpdateReservation)
	g.PATCH("/:id/", rc.UpdateReservation)
	g.POST("/:id/cancel/", rc.CancelReservation)
	g.POST("/:id/confirm/", rc.ConfirmReservation)
	g.POST("/:id/decline/", rc.DeclineReservation)
}

func registerWishlistRoutes(g *gin.RouterGroup, wc *controllers.WishlistController) {
	g.GET("/", wc.ListWishlist)
	g.POST("/", wc.AddToWishlist)
	g.DELETE("/:property_id/remove/", wc.RemoveFromWishlist)
}
