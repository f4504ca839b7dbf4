package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/event-registration/internal/consumer"
	"github.com/Eursukkul/event-registration/internal/handler"
	"github.com/Eursukkul/event-registration/internal/middleware"
	"github.com/Eursukkul/event-registration/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the catalog consumer and the background flusher",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "HTTP port (default from SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.ServerPort = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	var msgs <-chan amqp.Delivery
	if cfg.RabbitURL != "" {
		mq, err := rabbitmq.NewConsumer(cfg.RabbitURL, cfg.ServiceName+".events", "event.*")
		if err != nil {
			return err
		}
		defer mq.Close()

		if msgs, err = mq.Consume(); err != nil {
			return err
		}
	}

	e := newServer(a)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("port", cfg.ServerPort).Info("registration service starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.flusher().Start(gctx)
	})

	if msgs != nil {
		g.Go(func() error {
			return consumer.NewEventConsumer(a.events, cfg.ServiceName).Run(gctx, msgs)
		})
	}

	return g.Wait()
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestID())
	e.Use(middleware.RequestLogger(log.StandardLogger()))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"service": a.cfg.ServiceName,
			"storage": a.cfg.Storage,
			"pending": a.ledger.Pending(),
		})
	})

	handler.NewEventHandler(a.events).RegisterRoutes(e.Group("/api/v1/events"))
	handler.NewAttendeeHandler(a.attendees).RegisterRoutes(e.Group("/api/v1/attendees"))
	handler.NewRegistrationHandler(a.registrations).RegisterRoutes(e)
	handler.NewCheckInHandler(a.checkins).RegisterRoutes(e)
	handler.NewReportHandler(a.reports).RegisterRoutes(e.Group("/api/v1/reports"))

	return e
}
