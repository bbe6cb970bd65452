package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/favorites-api/internal/models"
)

func TestUniqueViolationFromSQLite(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, db.Create(&models.Client{Name: "Bob", Email: "bob@email.com"}).Error)

	err = db.Create(&models.Client{Name: "Bob2", Email: "bob@email.com"}).Error
	name, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, models.ClientEmailIndex, name)

	owner := &models.Client{Name: "Owner", Email: "owner@email.com"}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(&models.Favorite{ClientID: owner.ID, ProductID: 1}).Error)

	err = db.Create(&models.Favorite{ClientID: owner.ID, ProductID: 1}).Error
	name, ok = UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, models.FavoriteClientProductIdx, name)
}

func TestUniqueViolationFromPostgres(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: models.ClientEmailIndex})
	name, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, models.ClientEmailIndex, name)

	_, ok = UniqueViolation(&pq.Error{Code: "23503"})
	assert.False(t, ok)
}

func TestUniqueViolationIgnoresOtherErrors(t *testing.T) {
	_, ok := UniqueViolation(nil)
	assert.False(t, ok)

	_, ok = UniqueViolation(fmt.Errorf("connection refused"))
	assert.False(t, ok)
}

func TestForeignKeyViolation(t *testing.T) {
	assert.True(t, ForeignKeyViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23503", Constraint: "fk_clients_favorites"})))
	assert.True(t, ForeignKeyViolation(fmt.Errorf("constraint failed: FOREIGN KEY constraint failed (787)")))

	assert.False(t, ForeignKeyViolation(nil))
	assert.False(t, ForeignKeyViolation(&pq.Error{Code: "23505"}))
	assert.False(t, ForeignKeyViolation(fmt.Errorf("UNIQUE constraint failed: clients.email")))
}

func TestWithTransactionRollsBack(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer Close(db)

	id := uuid.New()
	err = WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Client{BaseModel: models.BaseModel{ID: id}, Name: "Tx", Email: "tx@email.com"}).Error; err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	assert.EqualError(t, err, "abort")

	var count int64
	require.NoError(t, db.Model(&models.Client{}).Where("id = ?", id).Count(&count).Error)
	assert.Zero(t, count)
}
