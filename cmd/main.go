package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"trading-dashboard/config"
	"trading-dashboard/internal/api"
	"trading-dashboard/internal/chart"
	"trading-dashboard/internal/dashboard"
	"trading-dashboard/internal/database"
	"trading-dashboard/internal/exchange"
	"trading-dashboard/internal/metrics"
	"trading-dashboard/internal/notify"
	"trading-dashboard/internal/telegram"
	"trading-dashboard/lib/translation"
)

func init() {
	config.InitConfig()
	setupLogging()
}

func main() {
	lang := translation.Configure("locales", config.GetString("lang"))
	log.Debugf("Notification language: %s", lang)

	store, err := database.Open(config.GetString("db_path"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	m := metrics.NewDashboardMetrics(prometheus.DefaultRegisterer)
	m.LoadFrom(store)

	var sinks []notify.Sink
	if token := config.GetString("telegram_bot_token"); token != "" {
		bot, err := telegram.NewBot(telegram.BotConfig{
			Token:  token,
			ChatID: config.GetInt64("telegram_chat_id"),
			Debug:  config.GetBool("debug"),
		})
		if err != nil {
			log.Errorf("Telegram notifications disabled: %v", err)
		} else {
			sinks = append(sinks, bot)
		}
	}

	renderer := chart.NewRenderer(chart.Options{
		FrameInterval: config.GetDuration("chart_frame_interval"),
		Seed:          config.GetInt64("chart_seed"),
		AutoFit:       config.GetString("chart_mapping") != "fixed",
		Metrics:       m,
	})

	dash := dashboard.New(dashboard.Options{
		Gateway:           exchange.NewFromConfig(m),
		Notifier:          notify.NewHost(m, sinks...),
		Renderer:          renderer,
		Preferences:       store,
		Metrics:           m,
		MarketInterval:    config.GetDuration("market_poll_interval"),
		PortfolioInterval: config.GetDuration("portfolio_poll_interval"),
		ChartWidth:        config.GetInt("chart_width"),
		ChartHeight:       config.GetInt("chart_height"),
		Seed:              config.GetInt64("chart_seed"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	dash.Start(ctx)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			m.SaveTo(store)
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancel()
		dash.Stop()
		m.SaveTo(store)
		store.Close()
		log.Info("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	go func() {
		port := config.GetInt("http_port")
		log.Infof("Serving dashboard API on :%d", port)
		if err := api.NewHandler(dash).StartServer(port); err != nil {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting trading dashboard...")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}
