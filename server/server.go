package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ekremdev/pazarca/config"
	"github.com/ekremdev/pazarca/db"
	"github.com/ekremdev/pazarca/realtime"
	"github.com/ekremdev/pazarca/services"
	"go.uber.org/zap"
)

type Server struct {
	Config                 *config.Config
	Logger                 *zap.SugaredLogger
	DB                     db.GormDB
	ConversationRepository db.ConversationRepository
	ConversationService    services.ConversationService
	MessageService         services.MessageService
	NotificationService    services.NotificationService
	Publisher              realtime.Publisher
}

func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		s.Logger.Infof("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Errorf("shutdown: %v", err)
	}
	if err := s.Publisher.Close(); err != nil {
		s.Logger.Errorf("close publisher: %v", err)
	}
	s.Logger.Info("server stopped")
}
