// Пакет techblog - HTTP сервер технического блога. Отдает опубликованные статьи с отрендеренным HTML и оглавлением,
// проверяет и нормализует документы редактора, сохраняет тело статей и управляет изображениями.
//
// Основные возможности:
//   - Публичное чтение статей и категорий. Поврежденное тело статьи не ломает страницу.
//   - Проверка и предпросмотр документов редактора.
//   - Сохранение нормализованного тела и лида статьи (по токену администратора).
//   - Список, загрузка и удаление изображений в объектном хранилище.
//   - Метрики Prometheus на отдельном адресе.
package techblog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/aisa-it/techblog/internal/techblog/apierrors"
	"github.com/aisa-it/techblog/internal/techblog/config"
	"github.com/aisa-it/techblog/internal/techblog/editor"
	"github.com/aisa-it/techblog/internal/techblog/editor/mathml"
	filestorage "github.com/aisa-it/techblog/internal/techblog/file-storage"
)

const bodyLimit = "5M"

type Services struct {
	db       *gorm.DB
	cfg      *config.Config
	renderer *editor.Renderer
	// nil, если объектное хранилище не настроено
	media   *filestorage.Media
	version string
}

func NewServices(db *gorm.DB, cfg *config.Config, media *filestorage.Media, version string) *Services {
	return &Services{
		db:       db,
		cfg:      cfg,
		renderer: &editor.Renderer{MaxDepth: cfg.RenderMaxDepth},
		media:    media,
		version:  version,
	}
}

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "TechBlog")
		return next(c)
	}
}

// RegisterMetrics регистрирует счетчики рендера и время запуска.
func RegisterMetrics(reg prometheus.Registerer) error {
	bootTimeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "techblog",
		Name:      "boot_time",
		Help:      "Server startup time",
	})
	bootTimeGauge.Set(float64(time.Now().UnixMilli()))

	for _, c := range []prometheus.Collector{bootTimeGauge, editor.RenderTotal, mathml.FallbackTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Echo собирает API сервер. Метрики запросов пишутся в reg.
func (s *Services) Echo(reg prometheus.Registerer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}

		switch code {
		case http.StatusNotFound:
			EErrorDefined(c, apierrors.ErrPageNotFound)
		case http.StatusMethodNotAllowed:
			EErrorDefined(c, apierrors.ErrMethodNotAllowed)
		default:
			slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
			EErrorMsgStatus(c, nil, code)
		}
	}

	// Global middlewares
	e.Use(middleware.Recover())
	e.Use(ServerHeader)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{s.cfg.WebURL.Scheme + "://" + s.cfg.WebURL.Host},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     5,
		MinLength: 2048,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "techblog",
		Registerer: reg,
	}))
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	apiGroup := e.Group("/api/")

	// Public read path
	s.AddArticleServices(apiGroup)

	// Editor
	s.AddEditorServices(apiGroup.Group("editor/"))

	// Admin
	s.AddAdminServices(apiGroup.Group("admin/", s.AdminMiddleware))

	// Version endpoint
	apiGroup.GET("version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"version": s.version,
			"media":   s.media != nil,
		})
	})

	// Health endpoint
	apiGroup.GET("_health/", func(c echo.Context) error {
		sqlDB, err := s.db.DB()
		if err != nil {
			return EError(c, err)
		}
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return EErrorMsgStatus(c, err, http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	return e
}

// MetricsEcho - отдельный сервер для /metrics.
func MetricsEcho(gatherer prometheus.Gatherer) *echo.Echo {
	metrics := echo.New()
	metrics.HideBanner = true
	metrics.HidePort = true
	metrics.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	return metrics
}

// Server запускает API и метрики и блокируется до сигнала завершения.
func Server(db *gorm.DB, cfg *config.Config, version string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var media *filestorage.Media
	if cfg.AWSEndpoint != "" {
		storage, err := filestorage.NewMinioStorage(ctx, cfg.AWSEndpoint, cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSUseSSL, cfg.AWSBucketName)
		if err != nil {
			slog.Error("Fail init Minio connection", "err", err)
			os.Exit(1)
		}
		media = &filestorage.Media{Storage: storage, Prefix: cfg.MediaPrefix, PublicURL: cfg.MediaPublicURL}
	} else {
		slog.Warn("AWS_S3_ENDPOINT_URL is empty, media API disabled")
	}

	if err := RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		slog.Error("Register metrics", "err", err)
		os.Exit(1)
	}

	s := NewServices(db, cfg, media, version)
	e := s.Echo(prometheus.DefaultRegisterer)
	metrics := MetricsEcho(prometheus.DefaultGatherer)

	go func() {
		if err := metrics.Start(cfg.MetricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server fail", "err", err)
		}
	}()

	go func() {
		slog.Info("Start API server", "addr", cfg.HTTPAddr, "version", version)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server fail", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range []*echo.Echo{e, metrics} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown", "err", err)
		}
	}
}

// pathParam возвращает параметр пути без процентного кодирования.
func pathParam(c echo.Context, name string) string {
	value := c.Param(name)
	if unescaped, err := url.PathUnescape(value); err == nil {
		return strings.TrimSpace(unescaped)
	}
	return strings.TrimSpace(value)
}
