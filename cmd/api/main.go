package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/omytech/contact-api/internal/config"
	"github.com/omytech/contact-api/internal/handlers"
	"github.com/omytech/contact-api/internal/mailer"
	"github.com/omytech/contact-api/internal/ratelimit"
	"github.com/omytech/contact-api/internal/repository"
	"github.com/omytech/contact-api/internal/services"
	xhttp "github.com/omytech/contact-api/pkg/http"
	"github.com/omytech/contact-api/pkg/logger"
	"github.com/omytech/contact-api/pkg/pg"
	"github.com/omytech/contact-api/pkg/prom"
)

const apiBanner = "OmyTech Kenya Contact Form API"

const (
	submitLimitMessage = "Too many contact form submissions. Please try again later."
	apiLimitMessage    = "Too many requests. Please try again later."
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 15))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.CORSMiddleware(corsPolicy()))
	s.Router = xhttp.CreateDefaultRouter()

	dbConf := pg.Config{
		User:     config.Get().PostgresUser,
		Host:     config.Get().PostgresHost,
		Port:     config.Get().PostgresPort,
		Password: config.Get().PostgresPassword,
		Database: config.Get().PostgresDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.Create(dbConf, pgDebug)
	if err != nil {
		logger.Fatal(err)
	}
	// an unreachable database at startup is fatal, no retry
	if err := db.Ping(context.Background()); err != nil {
		logger.Fatal(err)
	}

	if config.Get().AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed to register metrics", "error", err)
		}
		go prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
	}

	contactMailer := mailer.NewMailer(mailer.Config{
		Host:     config.Get().SmtpHost,
		Port:     config.Get().SmtpPort,
		Secure:   config.Get().SmtpSecure,
		Username: config.Get().SmtpUser,
		Password: config.Get().SmtpPassword,
		From:     config.Get().EmailFrom,
		To:       config.Get().EmailTo,
	})

	contactRepo := repository.NewContactRepository(db)

	// services
	contactService := services.NewContactService(contactRepo, contactMailer)

	// limiters: the submit endpoint gets the strict policy, everything else
	// under /api/contact the loose one
	submitLimiter := ratelimit.New(config.Get().RateSubmitWindow, config.Get().RateSubmitMax, submitLimitMessage)
	apiLimiter := ratelimit.New(config.Get().RateApiWindow, config.Get().RateApiMax, apiLimitMessage)

	// handlers
	contactHandler := handlers.NewContactHandler(contactService)
	rootHandler := handlers.NewRootHandler(apiBanner, config.Get().AppVersion)

	g := s.Router.Group("/api/contact")
	handlers.RegisterContactRoutes(g, contactHandler, submitLimiter, apiLimiter)
	handlers.RegisterRootRoutes(s.Router, rootHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func corsPolicy() xhttp.CORSConfig {
	return xhttp.CORSConfig{
		AllowedOrigins: []string{
			config.Get().CorsOrigin,
			"https://omytech.co.ke",
			"https://www.omytech.co.ke",
		},
		AllowedMethods:   "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowedHeaders:   "Content-Type, Authorization, X-Requested-With",
		AllowCredentials: true,
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
