package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tidemill/bookable-backend/internal/announcement"
	annHttp "github.com/tidemill/bookable-backend/internal/announcement/http"
	"github.com/tidemill/bookable-backend/internal/auth"
	"github.com/tidemill/bookable-backend/internal/availability"
	availHttp "github.com/tidemill/bookable-backend/internal/availability/http"
	"github.com/tidemill/bookable-backend/internal/booking"
	bookingHttp "github.com/tidemill/bookable-backend/internal/booking/http"
	"github.com/tidemill/bookable-backend/internal/catalog"
	catalogHttp "github.com/tidemill/bookable-backend/internal/catalog/http"
	"github.com/tidemill/bookable-backend/internal/media"
	mediaHttp "github.com/tidemill/bookable-backend/internal/media/http"
	"github.com/tidemill/bookable-backend/internal/provider"
	providerHttp "github.com/tidemill/bookable-backend/internal/provider/http"
	"github.com/tidemill/bookable-backend/internal/user"
	userHttp "github.com/tidemill/bookable-backend/internal/user/http"
)

// Config carries the services the router exposes over HTTP.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	ProviderService     provider.Service
	CatalogService      catalog.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
	AnnouncementService announcement.Service
	MediaService        media.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles the gin engine: global middleware, CORS, and the
// per-module route registrations under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081",
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	providerHandler := providerHttp.NewHandler(cfg.ProviderService, cfg.UserService)
	catalogHandler := catalogHttp.NewHandler(cfg.CatalogService)
	availHandler := availHttp.NewHandler(cfg.AvailabilityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	annHandler := annHttp.NewHandler(cfg.AnnouncementService)
	mediaHandler := mediaHttp.NewHandler(cfg.MediaService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		providerHttp.RegisterRoutes(v1, providerHandler, authMiddleware)
		catalogHttp.RegisterRoutes(v1, catalogHandler, authMiddleware)
		availHttp.RegisterRoutes(v1, availHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		annHttp.RegisterRoutes(v1, annHandler, authMiddleware)
		mediaHttp.RegisterRoutes(v1, mediaHandler, authMiddleware)
	}

	return r
}
