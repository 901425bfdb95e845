package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/logger"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/notify"
	"github.com/iliyamo/movie-ticket-booking/internal/payment"
	"github.com/iliyamo/movie-ticket-booking/internal/qrcode"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/realtime"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/repository/memory"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// stores is the persistence the services run on, whichever driver backs it.
type stores struct {
	movies   service.MovieStore
	bookings service.BookingStore
	payments service.PaymentStore
	reviews  service.ReviewStore
	users    service.UserStore
	tokens   service.TokenStore
	pingers  map[string]handler.Pinger
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &stores{
			movies:   memory.NewMovieRepo(),
			bookings: memory.NewBookingRepo(),
			payments: memory.NewPaymentRepo(),
			reviews:  memory.NewReviewRepo(),
			users:    memory.NewUserRepo(),
			tokens:   memory.NewTokenRepo(),
			close:    func() {},
		}, nil
	}

	db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	client, mdb, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := repository.EnsureIndexes(ctx, mdb); err != nil {
		_ = db.Close()
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return &stores{
		movies:   repository.NewMovieRepo(mdb),
		bookings: repository.NewBookingRepo(mdb),
		payments: repository.NewPaymentRepo(mdb),
		reviews:  repository.NewReviewRepo(mdb),
		users:    repository.NewUserRepo(db),
		tokens:   repository.NewTokenRepo(db),
		pingers: map[string]handler.Pinger{
			"mysql": db.PingContext,
			"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		},
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
			_ = db.Close()
		},
	}, nil
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting, caching and cross-instance seat updates disabled")
	} else {
		defer rdb.Close()
		if st.pingers == nil {
			st.pingers = map[string]handler.Pinger{}
		}
		st.pingers["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	hub := realtime.NewHub(log)
	var notifier service.Notifier = hub
	var relay *realtime.RedisNotifier
	if rdb != nil {
		relay = realtime.NewRedisNotifier(rdb, hub, log)
		notifier = relay
	}

	var gateway service.PaymentGateway
	if g := payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.Currency); g != nil {
		gateway = g
	} else {
		log.Info().Msg("no payment gateway configured; payments run in demo mode")
	}

	mailer := notify.NewMailer(notify.Config{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		User:        cfg.Mail.User,
		Pass:        cfg.Mail.Pass,
		From:        cfg.Mail.From,
		FrontendURL: cfg.Mail.FrontendURL,
	}, log)

	var events service.EventPublisher
	if cfg.RabbitURL != "" {
		events = queue.NewPublisher(cfg.RabbitURL, log)
	}

	engine := service.NewEngine(service.EngineDeps{
		Movies:   st.movies,
		Bookings: st.bookings,
		Payments: st.payments,
		Users:    st.users,
		Notifier: notifier,
		Gateway:  gateway,
		Mailer:   mailer,
		Codes:    qrcode.NewGenerator(),
		Events:   events,
		Logger:   log,
	}, service.EngineConfig{
		LockTTL:      cfg.Booking.LockTTL,
		CancelWindow: cfg.Booking.CancelWindow,
		Serialize:    cfg.Booking.Serialize,
	})
	auth := service.NewAuthService(st.users, st.tokens, mailer, service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
		FrontendURL:    cfg.Mail.FrontendURL,
		AdminEmails:    cfg.AdminEmails,
	}, log)
	catalog := service.NewCatalogService(st.movies, log)

	if cfg.SeedDemoData {
		if _, err := catalog.Seed(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	prod := cfg.IsProd()
	e := newServer(log, router.Handlers{
		Auth:     handler.NewAuthHandler(auth, prod, log),
		Bookings: handler.NewBookingHandler(engine, service.NewWalletService(st.users, st.payments, gateway, log), prod, log),
		Movies:   handler.NewMovieHandler(catalog, prod, log),
		Reviews:  handler.NewReviewHandler(service.NewReviewService(st.reviews, st.movies, st.users, log), prod, log),
		Admin:    handler.NewAdminHandler(service.NewAdminService(st.users, st.movies, st.bookings), prod, log),
		Hub:      hub,
		Health:   handler.Health(st.pingers),
	}, cfg, rdb)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if relay != nil {
		g.Go(func() error { return ignoreCanceled(relay.Run(gctx)) })
	}
	if cfg.RabbitURL != "" {
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.BookingLog, log)
		g.Go(func() error { return ignoreCanceled(consumer.Run(gctx)) })
	}
	if cfg.Booking.SweeperEnabled {
		sweeper := service.NewSweeper(engine, st.tokens, cfg.Booking.SweeperInterval, log)
		g.Go(func() error { return ignoreCanceled(sweeper.Run(gctx)) })
	}
	return g.Wait()
}

func newServer(log zerolog.Logger, h router.Handlers, cfg config.Config, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORS())

	router.RegisterRoutes(e, h)
	router.RegisterAPI(e, h, router.Options{
		JWTSecret: cfg.JWTSecret,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
	})
	return e
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
