package helpers

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/omytech/contact-api/internal/repository"
	"github.com/omytech/contact-api/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&repository.ContactEntity{})
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	connField := pgDBValue.FieldByName("conn")
	connField = reflect.NewAt(connField.Type(), connField.Addr().UnsafePointer()).Elem()
	connField.Set(reflect.ValueOf(db))

	return pgDB
}

func CreateTestContact(t *testing.T, db *pg.DB, name, email, subject, message string) *repository.ContactEntity {
	ctx := context.Background()
	entity := &repository.ContactEntity{
		ID:          uuid.New(),
		Name:        name,
		Email:       email,
		Subject:     subject,
		Message:     message,
		Status:      "new",
		SubmittedAt: time.Now(),
	}
	err := db.Conn(ctx).Create(entity).Error
	require.NoError(t, err)
	return entity
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func AssertEventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	if !WaitForCondition(t, timeout, condition) {
		t.Fatal(msg)
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
