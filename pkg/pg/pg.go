package pg

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type DB struct {
	conn *gorm.DB
}

func Create(config Config, withDebug bool) (*DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN()),
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			},
		})
	if err != nil {
		return nil, err
	}

	if withDebug {
		db = db.Debug()
	}
	return &DB{conn: db}, nil
}

// Ping verifies the connection is usable. The contact API fails fast on
// startup when the database is unreachable.
func (r *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sqlDB, err := r.conn.DB()
	if err != nil {
		return fmt.Errorf("pg: obtain sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *DB) Conn(ctx context.Context) *gorm.DB {
	return r.conn.WithContext(ctx)
}
