package main

import (
	"log"

	"github.com/ekremdev/pazarca/config"
	"github.com/ekremdev/pazarca/db"
	"github.com/ekremdev/pazarca/realtime"
	"github.com/ekremdev/pazarca/server"
	"github.com/ekremdev/pazarca/services"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(conf)
	if err != nil {
		log.Fatalf("error initializing logger: %v", err)
	}
	defer logger.Sync()

	gormDB := db.GetDB(conf)
	conversationRepo := db.NewConversationRepo(gormDB)
	messageRepo := db.NewMessageRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)
	userRepo := db.NewUserRepo(gormDB)
	listingRepo := db.NewListingRepo(gormDB)

	var publisher realtime.Publisher = realtime.NoopPublisher{}
	if conf.RedisAddr != "" {
		rp, err := realtime.NewRedisPublisher(conf.RedisAddr, conf.RedisPassword, conf.RedisDB)
		if err != nil {
			logger.Fatalf("error connecting to redis: %v", err)
		}
		publisher = rp
	} else {
		logger.Warn("no redis address configured, real-time fanout disabled")
	}

	conversationService := services.NewConversationService(conversationRepo, messageRepo, userRepo, listingRepo, conf)
	messageService := services.NewMessageService(conversationRepo, messageRepo, userRepo, publisher, logger, conf)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, publisher, logger, conf)

	s := &server.Server{
		Config:                 conf,
		Logger:                 logger,
		DB:                     *gormDB,
		ConversationRepository: conversationRepo,
		ConversationService:    conversationService,
		MessageService:         messageService,
		NotificationService:    notificationService,
		Publisher:              publisher,
	}
	s.Start()
}

func newLogger(conf *config.Config) (*zap.SugaredLogger, error) {
	var l *zap.Logger
	var err error
	if conf.Debug || conf.Env != "prod" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
