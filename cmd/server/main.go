package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tacology/feedback/internal/ai"
	"github.com/tacology/feedback/internal/api"
	"github.com/tacology/feedback/internal/config"
	"github.com/tacology/feedback/internal/db"
	"github.com/tacology/feedback/internal/middleware"
	"github.com/tacology/feedback/internal/notify"
	"github.com/tacology/feedback/internal/services"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.JWTSecret == "" {
		log.Warn("FEEDBACK_JWT_SECRET not set, using development secret")
	}
	auth := middleware.NewAuth(cfg.JWTSecret)

	conn, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer conn.Close()
	if err := db.RunMigrations(conn, ""); err != nil {
		log.WithError(err).Fatal("run migrations")
	}
	store, err := db.New(conn, cfg.DBDriver)
	if err != nil {
		log.WithError(err).Fatal("init store")
	}

	var model *ai.Client
	if cfg.OpenAI.APIKey != "" {
		model = ai.New(ai.Config{
			BaseURL:     cfg.OpenAI.BaseURL,
			APIKey:      cfg.OpenAI.APIKey,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Timeout:     cfg.OpenAI.Timeout,
		}, log)
	} else {
		log.Warn("FEEDBACK_OPENAI_API_KEY not set, sentiment and insights disabled")
	}

	dispatcher := notify.NewDispatcher(
		notify.NewEmailClient(notify.EmailConfig{
			BaseURL: cfg.Email.BaseURL,
			APIKey:  cfg.Email.APIKey,
			From:    cfg.Email.From,
		}),
		notify.NewSMSClient(notify.SMSConfig{
			BaseURL:    cfg.SMS.BaseURL,
			AccountSID: cfg.SMS.AccountSID,
			AuthToken:  cfg.SMS.AuthToken,
			From:       cfg.SMS.From,
			AlertTo:    cfg.SMS.AlertTo,
		}),
		cfg.CouponCTAURL,
		log,
	)
	defer dispatcher.Flush()

	var classifier services.SentimentClassifier
	var insightsModel services.ModelClient
	if model != nil {
		classifier = model
		insightsModel = model
	}

	server := api.NewServer(log, api.Services{
		Tokens:    auth,
		Auth:      services.NewAuthService(store, services.NewAdminPolicy(cfg.AdminEmails), auth.SignToken),
		Questions: services.NewQuestionService(store),
		Responses: services.NewResponseService(store, classifier, dispatcher, log),
		Answers:   services.NewAnswerService(store),
		Stats:     services.NewStatsService(store),
		Insights:  services.NewInsightsService(store, insightsModel, log),
		Customers: services.NewCustomerService(store),
		Exports:   services.NewExportService(store),
	})

	handler := middleware.RequestLog(log)(
		middleware.CORS(middleware.SecureHeaders(middleware.NoStore(server.Routes()))))

	log.WithField("addr", cfg.Addr).Info("feedback server listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
