package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

type poolServiceMock struct {
	pool      *models.Pool
	err       error
	lastQuery dto.PoolQuery
	lastCall  string
}

func (m *poolServiceMock) List(ctx context.Context, query dto.PoolQuery) ([]models.Pool, *models.Pagination, error) {
	m.lastCall, m.lastQuery = "list", query
	if m.err != nil {
		return nil, nil, m.err
	}
	return []models.Pool{}, &models.Pagination{Page: query.Page, PageSize: query.PageSize}, nil
}

func (m *poolServiceMock) Get(ctx context.Context, id string) (*models.Pool, error) {
	m.lastCall = "get"
	return m.pool, m.err
}

func (m *poolServiceMock) Create(ctx context.Context, req dto.CreatePoolRequest) (*models.Pool, error) {
	m.lastCall = "create"
	return m.pool, m.err
}

func (m *poolServiceMock) Publish(ctx context.Context, id string) (*models.Pool, error) {
	m.lastCall = "publish"
	return m.pool, m.err
}

func (m *poolServiceMock) Close(ctx context.Context, id string) (*models.Pool, error) {
	m.lastCall = "close"
	return m.pool, m.err
}

func (m *poolServiceMock) Extend(ctx context.Context, id string, req dto.ExtendPoolRequest) (*models.Pool, error) {
	m.lastCall = "extend"
	return m.pool, m.err
}

func (m *poolServiceMock) Archive(ctx context.Context, id string) (*models.Pool, error) {
	m.lastCall = "archive"
	return m.pool, m.err
}

func (m *poolServiceMock) Unarchive(ctx context.Context, id string) (*models.Pool, error) {
	m.lastCall = "unarchive"
	return m.pool, m.err
}

func (m *poolServiceMock) Delete(ctx context.Context, id string) error {
	m.lastCall = "delete"
	return m.err
}

func (m *poolServiceMock) Duplicate(ctx context.Context, id string) (*models.Pool, error) {
	m.lastCall = "duplicate"
	return m.pool, m.err
}

func (m *poolServiceMock) ListChangeLogs(ctx context.Context, poolID string, limit int) ([]models.PoolChangeLog, error) {
	m.lastCall = "changelogs"
	return []models.PoolChangeLog{}, m.err
}

func TestPoolHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &poolServiceMock{}
	handler := NewPoolHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/pools", bytes.NewReader([]byte(`invalid`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mock.lastCall)
}

func TestPoolHandlerPublishSurfacesPreconditionStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &poolServiceMock{err: appErrors.Clone(appErrors.ErrPreconditionFailed, "incomplete required sections: pool_name")}
	handler := NewPoolHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/pools/pool-1/publish", nil)
	c.Params = gin.Params{{Key: "id", Value: "pool-1"}}

	handler.Publish(c)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "publish", mock.lastCall)
}

func TestPoolHandlerListParsesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &poolServiceMock{}
	handler := NewPoolHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/pools?status=published,%20closed&departmentId=dept-1&page=3", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.PoolStatus{models.PoolStatusPublished, models.PoolStatusClosed}, mock.lastQuery.Status)
	assert.Equal(t, "dept-1", mock.lastQuery.DepartmentID)
	assert.Equal(t, 3, mock.lastQuery.Page)
	assert.Equal(t, 20, mock.lastQuery.PageSize)
}

func TestPoolHandlerListDropsUnknownStatusTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &poolServiceMock{}
	handler := NewPoolHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/pools?status=draft,bogus,", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.PoolStatus{models.PoolStatusDraft}, mock.lastQuery.Status)
}

func TestPoolHandlerExtendInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &poolServiceMock{}
	handler := NewPoolHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/pools/pool-1/extend", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "pool-1"}}

	handler.Extend(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mock.lastCall)
}

func TestPoolHandlerDuplicateReturnsCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &poolServiceMock{pool: &models.Pool{ID: "pool-2", Status: models.PoolStatusDraft}}
	handler := NewPoolHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/pools/pool-1/duplicate", nil)
	c.Params = gin.Params{{Key: "id", Value: "pool-1"}}

	handler.Duplicate(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Pool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "pool-2", envelope.Data.ID)
	assert.Equal(t, models.PoolStatusDraft, envelope.Data.Status)
}
