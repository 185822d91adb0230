package repository

import (
	"reflect"
	"testing"

	"github.com/omytech/contact-api/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&ContactEntity{})
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	connField := pgDBValue.FieldByName("conn")
	connField = reflect.NewAt(connField.Type(), connField.Addr().UnsafePointer()).Elem()
	connField.Set(reflect.ValueOf(db))

	return pgDB
}
