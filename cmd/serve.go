package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-ordering/router"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, kitchen display and background jobs",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// Notifications and websocket board clients listen to order changes
	unsubscribe := a.feed.Subscribe(a.notifications.HandleChange)
	defer unsubscribe()
	unsubscribeBoard := a.feed.Subscribe(func(ev services.ChangeEvent) { a.hub.BroadcastOrderUpdate(ev) })
	defer unsubscribeBoard()

	scheduler, err := services.NewScheduler(services.SchedulerConfig{
		DailyReportAt: cfg.Reports.Schedule,
		Recipients:    cfg.Reports.Recipients,
		Location:      cfg.Display.Location(),
	}, a.reports, a.auth, a.store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.SetupRouter(*a.router()),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.InfoLogger.WithFields(logrus.Fields{
			"port":       cfg.Server.Port,
			"db":         cfg.Database.Driver,
			"changefeed": cfg.ChangeFeed.Driver,
		}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.monitor.Run(gctx)
	})

	if a.redisFeed != nil {
		g.Go(func() error {
			return a.redisFeed.Run(gctx)
		})
	}

	g.Go(func() error {
		a.kitchen.Start(gctx, a.feed)
		<-gctx.Done()
		a.kitchen.Stop()
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		return scheduler.Shutdown()
	})

	g.Go(func() error {
		<-gctx.Done()
		utils.InfoLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.hub.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
