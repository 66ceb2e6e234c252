package db

import (
	"testing"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoUserEmails(t *testing.T) {
	emails := DemoUserEmails()
	require.Len(t, emails, 10)
	assert.Equal(t, "e0001@example.com", emails[0])
	assert.Equal(t, "e0010@example.com", emails[9])
}

func TestSeedDemoUsers_Idempotent(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, SeedDemoUsers(testDB, []string{"Admin@Example.com"}))
	require.NoError(t, SeedDemoUsers(testDB, []string{"admin@example.com"}))

	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.Equal(t, int64(11), count)

	var admin model.User
	require.NoError(t, testDB.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, util.VerifyPassword(admin.PasswordHash, "admin@example.com"))

	var employee model.User
	require.NoError(t, testDB.Where("email = ?", "e0003@example.com").First(&employee).Error)
	assert.Equal(t, model.RoleEmployee, employee.Role)
}

func TestTruncateAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, SeedDemoUsers(testDB, nil))
	var user model.User
	require.NoError(t, testDB.First(&user).Error)
	require.NoError(t, testDB.Create(&model.GiftBox{
		UserID:       user.ID,
		BoxType:      model.BoxTypeStandard,
		DeliveryType: model.DeliveryPickup,
		Status:       model.GiftBoxStatusPending,
	}).Error)

	require.NoError(t, TruncateAllTables(testDB))

	var users, boxes int64
	testDB.Model(&model.User{}).Count(&users)
	testDB.Model(&model.GiftBox{}).Count(&boxes)
	assert.Zero(t, users)
	assert.Zero(t, boxes)
}
