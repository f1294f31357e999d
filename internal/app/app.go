package app

import (
	"ai_authoring_backend/internal/config"
	"ai_authoring_backend/internal/controller"
	"ai_authoring_backend/internal/gateway"
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/repository"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/configwatcher"
	"ai_authoring_backend/pkg/database"
	"ai_authoring_backend/pkg/logger"
	"ai_authoring_backend/pkg/monitoring"
	"ai_authoring_backend/pkg/security"
	"ai_authoring_backend/pkg/tracing"
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	configFile     = "configs/config.yaml"
	pageMaxIdle    = 2 * time.Hour
	sweepInterval  = 10 * time.Minute
	tracingService = "ai-authoring-backend"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	sessions        session.Store
	tracer          *sdktrace.TracerProvider
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	evaluation    *repository.EvaluationRepository
	knowledgeBase *repository.KnowledgeBaseRepository
	chat          *repository.ChatRepository
}

type services struct {
	backend    gateway.Backend
	simulation *gateway.Simulation
	simulator  *service.Simulator
	storage    *service.StorageService
	ai         *service.AIService

	auth          *service.AuthService
	catalog       *service.CatalogService
	itemBank      *service.ItemBankService
	usage         *service.UsageService
	apps          *service.AppService
	quiz          *service.QuizService
	essay         *service.EssayService
	similarity    *service.SimilarityService
	metadata      *service.MetadataService
	knowledgeBase *service.KnowledgeBaseService
	docChat       *service.DocChatService
	summary       *service.SummaryService
}

type controllers struct {
	auth          *controller.AuthController
	health        *controller.HealthController
	catalog       *controller.CatalogController
	item          *controller.ItemController
	report        *controller.ReportController
	app           *controller.AppController
	quiz          *controller.QuizController
	essay         *controller.EssayController
	similarity    *controller.SimilarityController
	metadata      *controller.MetadataController
	knowledgeBase *controller.KnowledgeBaseController
	summary       *controller.SummaryController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		evaluation:    repository.NewEvaluationRepository(db),
		knowledgeBase: repository.NewKnowledgeBaseRepository(db),
		chat:          repository.NewChatRepository(db),
	}
}

func newBackend(cfg *config.Config) (gateway.Backend, *gateway.Simulation) {
	if cfg.Upstream.Mode == config.UpstreamModeHTTP {
		return gateway.NewClient(cfg.Upstream), nil
	}
	sim := gateway.NewSimulation(cfg.Simulation.Delay())
	return sim, sim
}

// newSimulator seed 为 0 时使用随机种子
func newSimulator(cfg *config.Config) *service.Simulator {
	var rng *rand.Rand
	if cfg.Simulation.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Simulation.Seed))
	}
	return service.NewSimulator(cfg.Simulation.Delay(), rng)
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.backend, s.simulation = newBackend(cfg)
	s.simulator = newSimulator(cfg)
	s.storage = service.NewStorageService(cfg)
	s.ai = service.NewAIService(cfg.AI)

	s.catalog = service.NewCatalogService(s.backend)
	s.itemBank = service.NewItemBankService(s.backend)
	s.usage = service.NewUsageService(s.backend)
	s.apps = service.NewAppService(s.backend)

	s.quiz = service.NewQuizService(s.simulator)
	s.essay = service.NewEssayService(service.NewStaticEssaySource(), repos.evaluation, s.simulator)
	s.similarity = service.NewSimilarityService(s.storage, service.NewSimulatedSimilarityAnalyzer(s.simulator))
	s.metadata = service.NewMetadataService(s.simulator)
	s.knowledgeBase = service.NewKnowledgeBaseService(repos.knowledgeBase, s.storage)
	s.docChat = service.NewDocChatService(s.knowledgeBase, repos.chat, s.ai, s.simulator)
	s.summary = service.NewSummaryService(s.ai, s.simulator)

	// 登出时清理所有页面状态
	s.auth = service.NewAuthService(s.backend, s.pages()...)

	return s
}

func (s *services) pages() []service.Sweeper {
	return []service.Sweeper{
		s.quiz.Pages(),
		s.essay.Pages(),
		s.similarity.Pages(),
		s.metadata.Pages(),
		s.docChat.Pages(),
		s.summary.Pages(),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth),
		health:        controller.NewHealthController(db, a.Config.Upstream.Mode),
		catalog:       controller.NewCatalogController(s.catalog),
		item:          controller.NewItemController(s.itemBank),
		report:        controller.NewReportController(s.usage),
		app:           controller.NewAppController(s.apps),
		quiz:          controller.NewQuizController(s.quiz),
		essay:         controller.NewEssayController(s.essay),
		similarity:    controller.NewSimilarityController(s.similarity),
		metadata:      controller.NewMetadataController(s.metadata),
		knowledgeBase: controller.NewKnowledgeBaseController(s.knowledgeBase, s.docChat),
		summary:       controller.NewSummaryController(s.summary),
	}
}

func (a *App) newSessionStore(cfg *config.Config) session.Store {
	if cfg.Session.Store != "redis" {
		return session.NewMemoryStore()
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	a.Redis = rdb
	return session.NewRedisStore(rdb, cfg.Session.TTLHours)
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.NoCache())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.SetMode(cfg.Server.Mode)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.simulator.SetDelay(cfg.Simulation.Delay())
		if s.simulation != nil {
			s.simulation.SetDelay(cfg.Simulation.Delay())
		}
		logger.Log.Info("Simulation delay updated", zap.Duration("delay", cfg.Simulation.Delay()))
	})
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	// 清理长时间无访问的会话页面
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := 0
				for _, p := range s.pages() {
					removed += p.Sweep(pageMaxIdle)
				}
				if removed > 0 {
					logger.Log.Info("Idle pages swept", zap.Int("removed", removed))
				}
				// redis 会话依赖 TTL 过期，内存会话在此清理
				if mem, ok := a.sessions.(*session.MemoryStore); ok && a.Config.Session.TTLHours > 0 {
					if n := mem.Sweep(a.Config.Session.TTLHours); n > 0 {
						logger.Log.Info("Idle sessions swept", zap.Int("removed", n))
					}
				}
			}
		}
	}()

	go func() {
		err := configwatcher.WatchConfig(ctx, configFile, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully",
		zap.String("mode", cfg.Server.Mode),
		zap.String("upstream", cfg.Upstream.Mode),
	)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式下默认不迁移，可通过 -migrate 强制执行
	if cfg.Server.Mode != "release" || cfg.ForceMigrate || cfg.MigrateOnly {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	store := app.newSessionStore(cfg)
	app.sessions = store
	tokens := session.NewTokenManager(cfg.Session.Secret, cfg.Session.TTLHours)

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracingService, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, middleware.SessionMiddleware(tokens, store))

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.registerConfigCallbacks(services)

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
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

	if a.cancel != nil {
		a.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
