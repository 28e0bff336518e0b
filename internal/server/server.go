package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/warungpos/apiserver/config"
	"github.com/warungpos/apiserver/internal/handlers"
	"github.com/warungpos/apiserver/internal/mq"
	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/internal/storage"
	"github.com/warungpos/apiserver/internal/store"
)

// Server wraps the HTTP server and router together with the shared
// clients that need closing on shutdown.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	closers    []func() error
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	srv := &Server{}

	rows, err := newRowStore(ctx, cfg, srv)
	if err != nil {
		return nil, err
	}

	events, err := newEventQueue(ctx, cfg, srv)
	if err != nil {
		srv.closeAll()
		return nil, err
	}

	objects, err := newObjectStorage(ctx, cfg)
	if err != nil {
		srv.closeAll()
		return nil, err
	}

	userRepo := store.NewUserRepository(rows)
	stockRepo := store.NewStockRepository(rows)
	orderRepo := store.NewOrderRepository(rows)
	itemRepo := store.NewMasterItemRepository(rows)
	shoppingRepo := store.NewShoppingRepository(rows)

	var publisher services.EventPublisher
	if events != nil {
		publisher = events
	}

	userService := services.NewUserService(userRepo)
	ledger := services.NewLedger(stockRepo, publisher, cfg.LowStockThreshold)
	committer := services.NewCommitter(ledger, orderRepo, publisher)
	catalog := services.NewCatalogService(itemRepo)
	shopping := services.NewShoppingService(shoppingRepo)
	reports := services.NewReportService(orderRepo, stockRepo, objects)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UsersRouter(r, userService, authMiddleware)
	})
	router.Route("/stock", func(r chi.Router) {
		handlers.StockRouter(r, ledger, authMiddleware)
	})
	router.Route("/orders", func(r chi.Router) {
		handlers.OrdersRouter(r, committer, authMiddleware)
	})
	router.Route("/items", func(r chi.Router) {
		handlers.ItemsRouter(r, catalog, authMiddleware)
	})
	router.Route("/shopping-list", func(r chi.Router) {
		handlers.ShoppingRouter(r, shopping, authMiddleware)
	})
	router.Route("/reports", func(r chi.Router) {
		handlers.ReportsRouter(r, reports, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	srv.router = router
	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return srv, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	s.closeAll()
	return s.httpServer.Close()
}

func (s *Server) closeAll() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logrus.WithError(err).Warn("shutdown cleanup failed")
		}
	}
	s.closers = nil
}

func newRowStore(ctx context.Context, cfg config.Config, srv *Server) (rowstore.Store, error) {
	switch cfg.StoreBackend {
	case "sheets", "":
		return rowstore.NewSheetsStore(ctx, cfg.Sheets)
	case "postgres":
		pg, err := rowstore.OpenPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, pg.Close)
		return pg, nil
	case "memory":
		return rowstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func newEventQueue(ctx context.Context, cfg config.Config, srv *Server) (*mq.MQ, error) {
	switch cfg.MQBackend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, client.Close)
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, client.Close)
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQBackend)
	}
}

func newObjectStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch cfg.StorageBackend {
	case "":
		return nil, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		objects := storage.NewStorage(client)
		if err := objects.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return objects, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		objects := storage.NewStorage(client)
		if err := objects.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return objects, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
