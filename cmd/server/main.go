// @title                       LMS Platform API
// @version                     1.0
// @description                 Registration, activation, password reset, sessions and account management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/learnhub/lms-platform/internal/api"
	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/security"
	"github.com/learnhub/lms-platform/internal/core/service"
	"github.com/learnhub/lms-platform/internal/infrastructure/config"
	mongodb "github.com/learnhub/lms-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/learnhub/lms-platform/internal/infrastructure/db/redis"
	grpcserver "github.com/learnhub/lms-platform/internal/infrastructure/grpc"
	"github.com/learnhub/lms-platform/internal/infrastructure/http/handlers"
	"github.com/learnhub/lms-platform/internal/infrastructure/mail"
	"github.com/learnhub/lms-platform/internal/infrastructure/queue"
	"github.com/learnhub/lms-platform/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lms-platform: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty()})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	roles, err := mongodb.NewRoleRepository(db).Seed(ctx, domain.AllRoles)
	if err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	renderer, err := mail.NewRenderer()
	if err != nil {
		return err
	}
	var sender queue.Sender = mail.NewLogSender(renderer, logger.For("mail"))
	if cfg.Mail.Transport == "smtp" {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			Timeout:  cfg.Mail.Timeout,
		}, renderer)
	}
	dispatcher := queue.NewMailDispatcher(cfg.Mail.Workers, sender, logger.For("mail_dispatcher"))
	// Workers outlive ctx so queued mail drains during shutdown.
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Close()

	codec, err := security.NewSessionCodec(security.SessionConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.JWTIssuer,
		TTL:    cfg.Auth.SessionTTL,
	})
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	accounts := mongodb.NewAccountRepository(db)
	tokens := mongodb.NewTokenRepository(db)
	tx := mongodb.NewTxRunner(client, cfg.Mongo.Transactions)

	authService := service.NewAuthService(service.AuthDeps{
		Accounts: accounts,
		Tokens:   tokens,
		Tx:       tx,
		Hasher:   hasher,
		Sessions: codec,
		Mailer:   dispatcher,
		Throttle: redisdb.NewThrottle(rdb, cfg.Mail.Throttle),
		Roles:    roles,
		Links: service.AuthLinks{
			ActivationURL:    cfg.Auth.ActivationURL,
			ResetPasswordURL: cfg.Auth.ResetPasswordURL,
		},
	}, logger.For("auth_service"))
	accountService := service.NewAccountService(accounts, tokens, tx, hasher, logger.For("account_service"))
	markService := service.NewMarkService(mongodb.NewSubmissionRepository(db), tx, logger.For("mark_service"))

	router := api.NewRouter(api.RouterDeps{
		Auth:     authService,
		Accounts: accountService,
		Codec:    codec,
		Resolver: service.NewPrincipalResolver(accounts),
		Checks:   []handlers.Check{handlers.MongoCheck(db), handlers.RedisCheck(rdb)},
		Log:      logger.For("http"),
	})
	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcserver.NewServer(cfg.GRPCAddr, markService, codec, logger.For("grpc"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
