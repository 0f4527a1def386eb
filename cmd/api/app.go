package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-vendas/docs"
	"github.com/hugohenrick/erp-vendas/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-vendas/internal/adapter/api/route"
	"github.com/hugohenrick/erp-vendas/internal/adapter/messaging"
	"github.com/hugohenrick/erp-vendas/internal/adapter/repository"
	"github.com/hugohenrick/erp-vendas/internal/application/saleapp"
	"github.com/hugohenrick/erp-vendas/internal/config"
	"github.com/hugohenrick/erp-vendas/internal/domain/event"
	"github.com/hugohenrick/erp-vendas/internal/domain/sale"
	"github.com/hugohenrick/erp-vendas/internal/infrastructure/database"
	"github.com/hugohenrick/erp-vendas/pkg/correlation"
	"github.com/hugohenrick/erp-vendas/pkg/logger"
	"github.com/hugohenrick/erp-vendas/pkg/metrics"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const basePath = "/api/v1"

// App representa a aplicação e suas dependências
type App struct {
	cfg            config.Config
	logger         *logger.ZapLogger
	router         *gin.Engine
	db             *database.PostgresDB
	kafka          *messaging.KafkaPublisher
	metrics        *metrics.ServerMetrics
	saleController *controller.SaleController
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg config.Config, log *logger.ZapLogger) (*App, error) {
	app := &App{cfg: cfg, logger: log}

	// Armazenamento das vendas
	var repo sale.Repository
	switch cfg.Store {
	case config.StorePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.Pool, log)
		if err != nil {
			return nil, err
		}
		app.db = db
		repo = repository.NewPostgresSaleRepository(db)
	default:
		log.Warn("vendas mantidas em memória; os dados são perdidos ao reiniciar")
		repo = repository.NewMemorySaleRepository()
	}

	// Destino dos eventos
	var publisher event.Publisher
	if cfg.Kafka.Enabled() {
		app.kafka = messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		publisher = app.kafka
	} else {
		publisher = messaging.NewLogPublisher(log)
	}

	service := saleapp.NewService(repo, publisher, log)
	app.saleController = controller.NewSaleController(service, log)
	app.metrics = metrics.NewServerMetrics("sales_api")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.router = gin.New()
	app.router.Use(gin.Recovery())
	app.router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	app.router.Use(correlation.Middleware())
	app.router.Use(app.metrics.Middleware())

	app.SetupRoutes()
	return app, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = append(c.AllowHeaders, correlation.HeaderName)
	c.ExposeHeaders = []string{correlation.HeaderName}
	return c
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes() {
	var pinger route.Pinger
	if a.db != nil {
		pinger = a.db
	}
	route.RegisterHealthRoutes(a.router, pinger)

	a.router.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	docs.SwaggerInfo.BasePath = basePath
	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := a.router.Group(basePath)
	route.RegisterSaleRoutes(api, a.saleController)
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Start inicia o servidor HTTP e aguarda SIGINT/SIGTERM para encerrar
func (a *App) Start() error {
	srv := &http.Server{
		Addr:         ":" + a.cfg.HTTPPort,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		a.logger.Info("encerrando servidor", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("erro ao encerrar servidor", "error", err)
		}
		close(idleConnsClosed)
	}()

	a.logger.Info("servidor iniciado", "port", a.cfg.HTTPPort, "store", a.cfg.Store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-idleConnsClosed
	return nil
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.logger.Error("erro ao fechar publicador de eventos", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
