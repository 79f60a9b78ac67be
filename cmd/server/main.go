package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nashvel/loginform/internal/config"
	"github.com/nashvel/loginform/internal/db"
	"github.com/nashvel/loginform/internal/email"
	"github.com/nashvel/loginform/internal/routes"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		logrus.Fatalf("db error: %v", err)
	}

	mailer := email.NewMailer(email.Config{
		Host:     cfg.SmtpHost,
		Port:     cfg.SmtpPort,
		Username: cfg.SmtpUser,
		Password: cfg.SmtpPass,
		From:     cfg.SmtpFrom,
	})

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, database, mailer, cfg)

	logrus.WithField("addr", cfg.Addr).Info("server listening")
	if err := router.Run(cfg.Addr); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
