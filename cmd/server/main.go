package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/AnshRaj112/recruiter-gateway/internal/config"
	"github.com/AnshRaj112/recruiter-gateway/internal/database"
	"github.com/AnshRaj112/recruiter-gateway/internal/handlers"
	"github.com/AnshRaj112/recruiter-gateway/internal/middleware"
	"github.com/AnshRaj112/recruiter-gateway/internal/repository"
	"github.com/AnshRaj112/recruiter-gateway/internal/routes"
	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
	"github.com/AnshRaj112/recruiter-gateway/internal/services"
	"github.com/AnshRaj112/recruiter-gateway/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	logg, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logg.Sync()

	if err := cfg.Validate(); err != nil {
		logg.Fatal("❌ Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Row store
	var store rowstore.Store
	if cfg.BaserowURL != "" {
		store = rowstore.NewBaserowStore(cfg.BaserowURL, cfg.BaserowToken, cfg.UpstreamTimeout)
		logg.Info("✅ Row store configured", zap.String("url", cfg.BaserowURL))
	} else {
		store = rowstore.NewMemoryStore()
		logg.Warn("⚠️  BASEROW_URL not set, using in-memory row store (data is lost on restart)")
	}

	// Redis: signup locks shared across instances and API rate limiting
	var rdb *redis.Client
	var locker services.EmailLocker = services.NewLocalEmailLocker()
	if cfg.RedisURI != "" {
		rdb, err = database.ConnectRedis(ctx, cfg.RedisURI, logg)
		if err != nil {
			logg.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		locker = services.NewRedisEmailLocker(rdb)
	} else {
		logg.Warn("⚠️  REDIS_URI not set, signup locks are local to this instance")
	}

	// MongoDB: persistent record of failed OAuth callbacks
	var events services.CallbackSink = services.NewLogCallbackSink(logg)
	if cfg.MongoURI != "" {
		var client *mongo.Client
		var db *mongo.Database
		client, db, err = database.ConnectMongo(ctx, cfg.MongoURI, logg)
		if err != nil {
			logg.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer database.DisconnectMongo(client)
		events = services.MultiCallbackSink{events, services.NewMongoCallbackSink(db)}
	}

	// Cloudinary: avatar and curriculum uploads
	var uploader services.FileUploader
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logg.Warn("Failed to initialize Cloudinary, file uploads will not be available", zap.Error(err))
		} else {
			uploader = cld
			logg.Info("✅ Cloudinary service initialized")
		}
	} else {
		logg.Warn("Cloudinary credentials not found, file uploads will not be available")
	}

	users := repository.NewUserRepository(store, cfg.UsersTableID)
	oauth := services.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI).
		WithTimeout(cfg.UpstreamTimeout)

	h := &handlers.Handler{
		Identity:      services.NewIdentityService(users, locker),
		Authorization: services.NewAuthorizationService(users, oauth),
		Calendar: services.NewCalendarService(users,
			services.NewGoogleCalendar(oauth, cfg.GoogleCalendarID),
			store, cfg.SchedulesTableID, logg),
		Records: services.NewRecordsService(store, services.Tables{
			Jobs:       cfg.JobsTableID,
			Candidates: cfg.CandidatesTableID,
			Schedules:  cfg.SchedulesTableID,
		}, uploader),
		Uploader: uploader,
		Events:   events,
		Log:      logg,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logg))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost, cfg.TrustProxy) {
			r.Use(mw)
		}
		logg.Info("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	}
	if rdb != nil {
		r.Use(middleware.RedisRateLimit(rdb, cfg.TrustProxy, logg))
	}

	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logg.Info("🚀 Recruiter gateway running", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logg.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("Graceful shutdown failed", zap.Error(err))
	}
}
