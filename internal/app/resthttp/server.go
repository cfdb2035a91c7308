package resthttp

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sir_venger/upload_lite/internal/config"
	"github.com/sir_venger/upload_lite/internal/notifier"
	"github.com/sir_venger/upload_lite/internal/repo/meta"
	"github.com/sir_venger/upload_lite/internal/storage/fsstore"
	"github.com/sir_venger/upload_lite/internal/storage/s3store"
	"github.com/sir_venger/upload_lite/internal/usecase/filesvc"
	"github.com/sir_venger/upload_lite/pkg/logger"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Notifier получает корень хранилища после каждой успешной загрузки и не должен блокировать запрос.
type Notifier interface {
	Notify(ctx context.Context, root string)
}

type Deps struct {
	Files    filesvc.Service
	Notifier Notifier
	Cfg      *config.Config
	Log      logger.Logger
}

type Server struct {
	Deps
	Flash *FlashStore

	tmpl    *template.Template
	closers []func()
}

// New собирает сервер из готовых зависимостей.
func New(deps Deps) (*Server, error) {
	if deps.Files == nil {
		return nil, fmt.Errorf("files service is required")
	}
	if deps.Cfg == nil {
		deps.Cfg = config.Default()
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notifier.New(nil, deps.Log)
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		Deps:  deps,
		Flash: NewFlashStore(deps.Cfg.FlashTTL),
		tmpl:  tmpl,
	}, nil
}

// NewServer конструктор: собирает хранилище, журнал и уведомитель по конфигурации.
func NewServer(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, *Server, error) {
	if log == nil {
		log = logger.NewNop()
	}

	storage, stopSweeper, err := buildStorage(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	journal, err := meta.Open(ctx, cfg.MetaDSN)
	if err != nil {
		stopSweeper()
		return nil, nil, err
	}

	files := filesvc.New(filesvc.Deps{
		Storage: storage,
		Journal: journal,
	})

	srv, err := New(Deps{
		Files:    files,
		Notifier: notifier.New(cfg.Notifier.Command, log),
		Cfg:      cfg,
		Log:      log,
	})
	if err != nil {
		stopSweeper()
		journal.Close()
		return nil, nil, err
	}
	srv.closers = append(srv.closers, stopSweeper, journal.Close)

	return srv.Routes(), srv, nil
}

func buildStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (filesvc.Storage, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendS3:
		s3cfg := cfg.Storage.S3
		st, err := s3store.New(ctx, s3store.Config{
			Bucket:    s3cfg.Bucket,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
			Prefix:    s3cfg.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	case config.BackendFS, "":
		st, err := fsstore.NewOS(cfg.Storage.Location)
		if err != nil {
			return nil, nil, err
		}
		stop := st.StartSweeper(cfg.GC.TTL, cfg.GC.Interval, log.With("component", "sweeper"))
		return st, stop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Routes регистрирует обработчики загрузки, списка, выдачи файлов и служебные эндпоинты.
func (s *Server) Routes() http.Handler {
	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(middleware.RealIP)
	rtr.Use(s.accessLog)
	rtr.Use(middleware.Recoverer)
	// HEAD отвечает там же, где GET (заголовки файла без тела).
	rtr.Use(middleware.GetHead)

	rtr.Get("/", s.listFiles)
	rtr.Post("/", s.handleUpload)
	// "*" жадный: имя может содержать слэши (файлы, разложенные скриптом по каталогам).
	rtr.Get("/files/*", s.serveFile)

	rtr.Get("/health", s.health)
	rtr.Get("/admin/config", s.showConfig)
	rtr.Get("/admin/uploads", s.listUploads)
	rtr.Handle("/metrics", promhttp.Handler())

	return rtr
}

// Close останавливает фоновые задачи и освобождает журнал.
func (s *Server) Close() {
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}
