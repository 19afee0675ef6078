package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

type poolRepoStub struct {
	pools map[string]*models.Pool

	statusCalls  int
	closingCalls int
	created      []*models.Pool
	deleted      []string
}

func newPoolRepoStub(pools ...*models.Pool) *poolRepoStub {
	stub := &poolRepoStub{pools: make(map[string]*models.Pool)}
	for _, p := range pools {
		stub.pools[p.ID] = p
	}
	return stub
}

func (s *poolRepoStub) List(ctx context.Context, filter models.PoolFilter) ([]models.Pool, int, error) {
	out := make([]models.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (s *poolRepoStub) GetByID(ctx context.Context, id string) (*models.Pool, error) {
	if p, ok := s.pools[id]; ok {
		return p.Clone(), nil
	}
	return nil, sql.ErrNoRows
}

func (s *poolRepoStub) Create(ctx context.Context, pool *models.Pool) error {
	s.created = append(s.created, pool)
	s.pools[pool.ID] = pool.Clone()
	return nil
}

func (s *poolRepoStub) UpdateStatus(ctx context.Context, id string, from, to models.PoolStatus, publishedAt, archivedAt *time.Time) error {
	s.statusCalls++
	p, ok := s.pools[id]
	if !ok || p.Status != from {
		return sql.ErrNoRows
	}
	p.Status = to
	return nil
}

func (s *poolRepoStub) UpdateClosingDate(ctx context.Context, id string, closingDate time.Time) error {
	s.closingCalls++
	p, ok := s.pools[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.ClosingDate = &closingDate
	return nil
}

func (s *poolRepoStub) Delete(ctx context.Context, id string, status models.PoolStatus) error {
	p, ok := s.pools[id]
	if !ok || p.Status != status {
		return sql.ErrNoRows
	}
	delete(s.pools, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func TestPoolServicePublishComplete(t *testing.T) {
	repo := newPoolRepoStub(completePoolFixture(models.PoolStatusDraft))
	service := NewPoolService(repo, nil, nil)

	pool, err := service.Publish(context.Background(), "pool-1")
	require.NoError(t, err)
	assert.Equal(t, models.PoolStatusPublished, pool.Status)
	assert.NotNil(t, pool.PublishedAt)
}

func TestPoolServicePublishBlockedByIncompleteSection(t *testing.T) {
	incomplete := completePoolFixture(models.PoolStatusDraft)
	incomplete.ClosingDate = nil
	incomplete.KeyTasks = models.LocalizedString{}
	repo := newPoolRepoStub(incomplete)
	service := NewPoolService(repo, nil, nil)

	_, err := service.Publish(context.Background(), "pool-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Contains(t, appErrors.FromError(err).Message, "closing_date, key_tasks")
	assert.Zero(t, repo.statusCalls, "precondition check never reaches the store")
}

func TestPoolServicePublishOnlyFromDraft(t *testing.T) {
	repo := newPoolRepoStub(completePoolFixture(models.PoolStatusPublished))
	service := NewPoolService(repo, nil, nil)

	_, err := service.Publish(context.Background(), "pool-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLifecycle.Code, appErrors.FromError(err).Code)
}

func TestPoolServiceLifecycleChain(t *testing.T) {
	repo := newPoolRepoStub(completePoolFixture(models.PoolStatusDraft))
	service := NewPoolService(repo, nil, nil)
	ctx := context.Background()

	_, err := service.Publish(ctx, "pool-1")
	require.NoError(t, err)

	pool, err := service.Close(ctx, "pool-1")
	require.NoError(t, err)
	assert.Equal(t, models.PoolStatusClosed, pool.Status)

	pool, err = service.Archive(ctx, "pool-1")
	require.NoError(t, err)
	assert.Equal(t, models.PoolStatusArchived, pool.Status)
	assert.NotNil(t, pool.ArchivedAt)

	pool, err = service.Unarchive(ctx, "pool-1")
	require.NoError(t, err)
	assert.Equal(t, models.PoolStatusClosed, pool.Status)
	assert.Nil(t, pool.ArchivedAt)
}

func TestPoolServiceArchiveOnlyFromClosed(t *testing.T) {
	repo := newPoolRepoStub(completePoolFixture(models.PoolStatusPublished))
	service := NewPoolService(repo, nil, nil)

	_, err := service.Archive(context.Background(), "pool-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLifecycle.Code, appErrors.FromError(err).Code)
}

func TestPoolServiceExtendChangesOnlyClosingDate(t *testing.T) {
	repo := newPoolRepoStub(completePoolFixture(models.PoolStatusClosed))
	service := NewPoolService(repo, nil, nil)

	newClosing := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	pool, err := service.Extend(context.Background(), "pool-1", dto.ExtendPoolRequest{ClosingDate: newClosing})
	require.NoError(t, err)
	assert.Equal(t, newClosing, *pool.ClosingDate)
	assert.Equal(t, models.PoolStatusClosed, pool.Status, "extending never reopens the pool on its own")
	assert.Equal(t, 1, repo.closingCalls)
	assert.Zero(t, repo.statusCalls)
}

func TestPoolServiceExtendRejectedForDraft(t *testing.T) {
	repo := newPoolRepoStub(completePoolFixture(models.PoolStatusDraft))
	service := NewPoolService(repo, nil, nil)

	_, err := service.Extend(context.Background(), "pool-1", dto.ExtendPoolRequest{ClosingDate: time.Now()})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLifecycle.Code, appErrors.FromError(err).Code)
}

func TestPoolServiceDeleteDraftOnly(t *testing.T) {
	published := completePoolFixture(models.PoolStatusPublished)
	published.ID = "pool-2"
	repo := newPoolRepoStub(completePoolFixture(models.PoolStatusDraft), published)
	service := NewPoolService(repo, nil, nil)

	require.NoError(t, service.Delete(context.Background(), "pool-1"))
	err := service.Delete(context.Background(), "pool-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLifecycle.Code, appErrors.FromError(err).Code)
}

func TestPoolServiceDuplicateDeepCopiesDraft(t *testing.T) {
	source := completePoolFixture(models.PoolStatusArchived)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	source.PublishedAt = &now
	source.ArchivedAt = &now
	repo := newPoolRepoStub(source)
	service := NewPoolService(repo, nil, nil)

	dup, err := service.Duplicate(context.Background(), "pool-1")
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, dup.ID)
	assert.Equal(t, models.PoolStatusDraft, dup.Status)
	assert.Nil(t, dup.PublishedAt)
	assert.Nil(t, dup.ArchivedAt)

	assert.Equal(t, source.Name, dup.Name)
	assert.Equal(t, source.ClassificationID, dup.ClassificationID)
	assert.Equal(t, source.ClosingDate, dup.ClosingDate)
	assert.Equal(t, source.YourImpact, dup.YourImpact)
	assert.Equal(t, source.KeyTasks, dup.KeyTasks)
	assert.Equal(t, source.EssentialSkillIDs, dup.EssentialSkillIDs)

	// Mutating the copy must not reach the source.
	dup.EssentialSkillIDs[0] = "other"
	*dup.ClassificationID = "other"
	assert.Equal(t, "skill-1", source.EssentialSkillIDs[0])
	assert.Equal(t, "class-1", *source.ClassificationID)
}

func TestPoolServiceCreateSeedsDraft(t *testing.T) {
	repo := newPoolRepoStub()
	service := NewPoolService(repo, nil, nil)

	pool, err := service.Create(context.Background(), dto.CreatePoolRequest{
		Name: models.LocalizedString{En: "New pool", Fr: "Nouveau bassin"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pool.ID)
	assert.Equal(t, models.PoolStatusDraft, pool.Status)

	_, err = service.Create(context.Background(), dto.CreatePoolRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPoolServiceLifecycleInvalidatesSessions(t *testing.T) {
	repo := newPoolRepoStub(completePoolFixture(models.PoolStatusDraft))
	var invalidated []string
	service := NewPoolService(repo, nil, nil, WithSessionInvalidator(func(poolID string) {
		invalidated = append(invalidated, poolID)
	}))

	_, err := service.Publish(context.Background(), "pool-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pool-1"}, invalidated)
}
