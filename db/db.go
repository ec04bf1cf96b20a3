package db

import (
	"fmt"
	"log"

	"github.com/ekremdev/pazarca/config"
	"github.com/ekremdev/pazarca/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=Europe/Istanbul",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

func migrate(db *gorm.DB) error {
	// users and listings are owned by their own subsystems; migrating them
	// here keeps local development self-contained and is a no-op when the
	// tables already exist.
	return db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Conversation{},
		&models.Message{},
		&models.ConversationUnreadCounter{},
		&models.UserUnreadCounter{},
		&models.ConversationHidden{},
		&models.Notification{},
		&models.NotificationUnreadCounter{},
	)
}
