package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course_outline_backend/internal/config"
	"course_outline_backend/internal/controller"
	"course_outline_backend/internal/repository"
	"course_outline_backend/internal/service"
	"course_outline_backend/pkg/database"
	"course_outline_backend/pkg/logger"
	"course_outline_backend/pkg/monitoring"
	"course_outline_backend/pkg/security"
	"course_outline_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	course     *repository.CourseRepository
	completion *repository.CompletionRepository
}

type services struct {
	icons   *service.IconService
	outline *service.OutlineService
}

type controllers struct {
	outline *controller.OutlineController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		course:     repository.NewCourseRepository(db, rdb, cfg.Navigation.SnapshotCacheTTL),
		completion: repository.NewCompletionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	icons, err := service.NewIconService(&cfg.Icons)
	if err != nil {
		logger.Log.Fatal("Failed to initialize icon service", zap.Error(err))
	}
	s.icons = icons

	presenter := service.NewLinkPresenter("")
	s.outline = service.NewOutlineService(
		repos.course,
		repos.completion,
		presenter,
		s.icons,
		cfg.Navigation.CompletionColour,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		outline: controller.NewOutlineController(s.outline),
		health:  controller.NewHealthController(db),
	}
}

// ApplyConfig pushes hot-reloadable settings into running services. The
// config watcher calls this with every freshly loaded config.
func (a *App) ApplyConfig(cfg *config.Config) {
	if a.services != nil && a.services.outline != nil {
		a.services.outline.SetCompletionStyle(cfg.Navigation.CompletionColour)
	}
	logger.Log.Info("Config reloaded",
		zap.String("completionColour", cfg.Navigation.CompletionColour))
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("course-outline", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Icons.Type == "local" && cfg.Icons.LocalPath != "" {
		router.Static("/assets", cfg.Icons.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
