package services

import (
	"fmt"
	"testing"

	"github.com/ekremdev/pazarca/config"
	"github.com/ekremdev/pazarca/db"
	"github.com/ekremdev/pazarca/models"
	"github.com/ekremdev/pazarca/realtime"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	gormDB        *db.GormDB
	publisher     *realtime.MemoryPublisher
	conversations ConversationService
	messages      MessageService
	notifications NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Conversation{},
		&models.Message{},
		&models.ConversationUnreadCounter{},
		&models.UserUnreadCounter{},
		&models.ConversationHidden{},
		&models.Notification{},
		&models.NotificationUnreadCounter{},
	))

	g := &db.GormDB{DB: gdb}
	conf := &config.Config{ConversationListLimit: 20, MessageListLimit: 100}
	pub := realtime.NewMemoryPublisher()
	log := zap.NewNop().Sugar()

	convRepo := db.NewConversationRepo(g)
	msgRepo := db.NewMessageRepo(g)
	notifRepo := db.NewNotificationRepo(g)
	userRepo := db.NewUserRepo(g)
	listingRepo := db.NewListingRepo(g)

	return &fixture{
		gormDB:        g,
		publisher:     pub,
		conversations: NewConversationService(convRepo, msgRepo, userRepo, listingRepo, conf),
		messages:      NewMessageService(convRepo, msgRepo, userRepo, pub, log, conf),
		notifications: NewNotificationService(notifRepo, userRepo, pub, log, conf),
	}
}

func (f *fixture) seedUser(t *testing.T, id, first, last string) {
	t.Helper()
	require.NoError(t, f.gormDB.DB.Create(&models.User{ID: id, FirstName: first, LastName: last}).Error)
}

func (f *fixture) seedAdmin(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.gormDB.DB.Create(&models.User{ID: id, FirstName: "Admin", Role: "admin"}).Error)
}

func (f *fixture) seedListing(t *testing.T, id, ownerID, title string) {
	t.Helper()
	require.NoError(t, f.gormDB.DB.Create(&models.Listing{ID: id, UserID: ownerID, Title: title, Price: 250000}).Error)
}
