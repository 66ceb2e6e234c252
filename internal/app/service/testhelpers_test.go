package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	failGet error
}

func newMemRevoker() *memRevoker {
	return &memRevoker{revoked: map[string]time.Duration{}}
}

func (r *memRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = ttl
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return false, r.failGet
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.GiftBoxEvent
}

func (p *recordingPublisher) PublishGiftBoxEvent(event model.GiftBoxEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []model.GiftBoxEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.GiftBoxEvent(nil), p.events...)
}

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, email string, role model.UserRole) *model.User {
	user := &model.User{Email: email, PasswordHash: "unused", Role: role}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func strPtr(s string) *string { return &s }
