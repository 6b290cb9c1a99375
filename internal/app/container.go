package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tidemill/bookable-backend/internal/announcement"
	"github.com/tidemill/bookable-backend/internal/api"
	"github.com/tidemill/bookable-backend/internal/auth"
	"github.com/tidemill/bookable-backend/internal/availability"
	"github.com/tidemill/bookable-backend/internal/booking"
	"github.com/tidemill/bookable-backend/internal/catalog"
	"github.com/tidemill/bookable-backend/internal/media"
	"github.com/tidemill/bookable-backend/internal/pkg/storage"
	"github.com/tidemill/bookable-backend/internal/provider"
	"github.com/tidemill/bookable-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StorageDir   string
	Logger       *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Provider Module
	providerRepo := provider.NewPgxRepository(cfg.DBPool)
	providerService := provider.NewService(providerRepo)

	// Catalog Module
	catalogRepo := catalog.NewPgxRepository(cfg.DBPool)
	catalogService := catalog.NewService(catalogRepo, providerService)

	// Booking repository is created before the availability service: the
	// availability engine reads existing bookings through it.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Availability Module
	availRepo := availability.NewPgxRepository(cfg.DBPool)
	availService := availability.NewService(availRepo, catalogService, bookingRepo, providerService)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, availService, providerService, cfg.Logger)

	// Announcement Module
	annRepo := announcement.NewPgxRepository(cfg.DBPool)
	annService := announcement.NewService(annRepo, providerService)

	// Media Module
	store, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init local storage failed: %w", err)
	}
	mediaRepo := media.NewPgxRepository(cfg.DBPool)
	mediaService := media.NewService(mediaRepo, store, cfg.Logger)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		ProviderService:     providerService,
		CatalogService:      catalogService,
		AvailabilityService: availService,
		BookingService:      bookingService,
		AnnouncementService: annService,
		MediaService:        mediaService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
