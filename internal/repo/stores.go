package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"sheetboard/internal/core/config"
	"sheetboard/internal/core/database"
	"sheetboard/internal/domain"
	"sheetboard/internal/feature/engagement"
	"sheetboard/internal/feature/file"
	"sheetboard/internal/feature/user"
)

// Stores bundles the repositories of one backend.
type Stores struct {
	Users        domain.UserRepository
	Files        domain.FileRepository
	Subscribers  domain.SubscriberRepository
	Testimonials domain.TestimonialRepository

	migrate func(context.Context) error
	close   func(context.Context) error
}

// Migrate creates tables or indexes.
func (s *Stores) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Models lists every gorm-managed table.
func Models() []any {
	return []any{
		&user.UserModel{},
		&file.FileModel{},
		&engagement.SubscriberModel{},
		&engagement.TestimonialModel{},
	}
}

// NewGormStores wires the SQL repositories onto an open connection.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Users:        NewUserRepo(db),
		Files:        NewFileRepo(db),
		Subscribers:  NewSubscriberRepo(db),
		Testimonials: NewTestimonialRepo(db),
		migrate: func(ctx context.Context) error {
			if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			return nil
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMongoStores wires the document repositories. Close disconnects client.
func NewMongoStores(client *mongo.Client, db *mongo.Database) *Stores {
	return &Stores{
		Users:        NewMongoUserRepo(db),
		Files:        NewMongoFileRepo(db),
		Subscribers:  NewMongoSubscriberRepo(db),
		Testimonials: NewMongoTestimonialRepo(db),
		migrate: func(ctx context.Context) error {
			return EnsureMongoIndexes(ctx, db)
		},
		close: client.Disconnect,
	}
}

// Open connects to the configured backend. db.driver "mongo" selects the
// document store, anything else goes through gorm.
func Open(ctx context.Context, c config.DB) (*Stores, error) {
	if c.Driver == "mongo" {
		client, mdb, err := database.NewMongo(ctx, database.MongoOpts{
			URI:         c.DSN,
			Database:    c.Database,
			MaxPoolSize: uint64(max(c.MaxOpenConns, 0)),
		})
		if err != nil {
			return nil, err
		}
		return NewMongoStores(client, mdb), nil
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		Username:           c.Username,
		Password:           c.Password,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
	})
	if err != nil {
		return nil, err
	}
	return NewGormStores(db), nil
}
