package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/internal/requestmeta"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
	mu           sync.Mutex
	insertedLogs []*models.AuditLog
}

func (m *MockAuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertedLogs = append(m.insertedLogs, log)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.AuditLog, int, error) {
	args := m.Called(ctx, params)
	if logs := args.Get(0); logs != nil {
		return logs.([]*models.AuditLog), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockAuditRepository) GetInsertedLogs() []*models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.AuditLog(nil), m.insertedLogs...)
}

func newEntry() *models.AuditLog {
	moderator := authz.NewPrincipal(uuid.New(), authz.RoleModerator, false, false)
	return models.NewAuditLog(moderator, models.AuditActionReviewDeleted, "review", uuid.New())
}

func TestAuditService_StartStop(t *testing.T) {
	service := NewAuditService(new(MockAuditRepository), zap.NewNop(), Config{BufferSize: 10, WorkerCount: 2})

	require.NoError(t, service.Start())

	stats := service.GetStats()
	assert.True(t, stats.Started)
	assert.Equal(t, 2, stats.WorkerCount)
	assert.Equal(t, 10, stats.BufferSize)

	assert.Error(t, service.Start())

	require.NoError(t, service.Stop(5*time.Second))
	assert.False(t, service.GetStats().Started)
	assert.ErrorIs(t, service.Stop(time.Second), ErrNotRunning)
	assert.Error(t, service.Start())
}

func TestAuditService_RecordBeforeStart(t *testing.T) {
	service := NewAuditService(new(MockAuditRepository), zap.NewNop(), DefaultConfig())
	assert.ErrorIs(t, service.Record(context.Background(), newEntry()), ErrNotRunning)
}

func TestAuditService_Record(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	service := NewAuditService(mockRepo, zap.NewNop(), Config{BufferSize: 100, WorkerCount: 2})
	require.NoError(t, service.Start())

	ctx := requestmeta.With(context.Background(), requestmeta.Meta{
		RequestID: "req-1",
		IPAddress: "10.0.0.1",
		UserAgent: "curl/8",
	})
	entry := newEntry()
	require.NoError(t, service.Record(ctx, entry))

	// Stop drains the queue
	require.NoError(t, service.Stop(5*time.Second))

	inserted := mockRepo.GetInsertedLogs()
	require.Len(t, inserted, 1)
	assert.Equal(t, models.AuditActionReviewDeleted, inserted[0].Action)
	assert.Equal(t, "req-1", inserted[0].RequestID)
	assert.Equal(t, "10.0.0.1", inserted[0].IPAddress)
	assert.Equal(t, "curl/8", inserted[0].UserAgent)
	assert.Equal(t, int64(1), service.GetStats().Written)
}

func TestAuditService_RecordKeepsExplicitRequest(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	service := NewAuditService(mockRepo, zap.NewNop(), Config{BufferSize: 10, WorkerCount: 1})
	require.NoError(t, service.Start())

	ctx := requestmeta.With(context.Background(), requestmeta.Meta{RequestID: "from-ctx"})
	entry := newEntry().WithRequest("explicit", "", "")
	require.NoError(t, service.Record(ctx, entry))
	require.NoError(t, service.Stop(5*time.Second))

	assert.Equal(t, "explicit", mockRepo.GetInsertedLogs()[0].RequestID)
}

func TestAuditService_ConcurrentRecording(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	service := NewAuditService(mockRepo, zap.NewNop(), Config{BufferSize: 1000, WorkerCount: 5})
	require.NoError(t, service.Start())

	goroutineCount := 10
	eventsPerGoroutine := 10
	var wg sync.WaitGroup

	for i := 0; i < goroutineCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				assert.NoError(t, service.Record(context.Background(), newEntry()))
			}
		}()
	}
	wg.Wait()

	require.NoError(t, service.Stop(5*time.Second))
	assert.Len(t, mockRepo.GetInsertedLogs(), goroutineCount*eventsPerGoroutine)
}

func TestAuditService_BufferFull(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	release := make(chan struct{})
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		<-release
	})

	service := NewAuditService(mockRepo, zap.NewNop(), Config{BufferSize: 2, WorkerCount: 1})
	require.NoError(t, service.Start())

	failures := 0
	for i := 0; i < 10; i++ {
		if err := service.Record(context.Background(), newEntry()); err != nil {
			assert.ErrorIs(t, err, ErrQueueFull)
			failures++
		}
	}
	assert.Greater(t, failures, 0)
	assert.Equal(t, int64(failures), service.GetStats().Dropped)

	close(release)
	require.NoError(t, service.Stop(5*time.Second))
}

func TestAuditService_StopTimeout(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	release := make(chan struct{})
	defer close(release)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		<-release
	})

	service := NewAuditService(mockRepo, zap.NewNop(), Config{BufferSize: 10, WorkerCount: 1})
	require.NoError(t, service.Start())
	require.NoError(t, service.Record(context.Background(), newEntry()))

	err := service.Stop(50 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestAuditService_List(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	params := repositories.ListParams{Limit: 20}
	mockRepo.On("List", mock.Anything, params).Return([]*models.AuditLog{newEntry()}, 1, nil)

	service := NewAuditService(mockRepo, zap.NewNop(), DefaultConfig())
	logs, total, err := service.List(context.Background(), params)

	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, 1, total)
	mockRepo.AssertExpectations(t)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 1000, config.BufferSize)
	assert.Equal(t, 2, config.WorkerCount)
	assert.Equal(t, 5*time.Second, config.InsertTimeout)
}

func TestAuditService_FailedInsertIsNotCounted(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(assert.AnError)

	service := NewAuditService(mockRepo, zap.NewNop(), Config{BufferSize: 10, WorkerCount: 1})
	require.NoError(t, service.Start())
	require.NoError(t, service.Record(context.Background(), newEntry()))
	require.NoError(t, service.Stop(5*time.Second))

	stats := service.GetStats()
	assert.Equal(t, int64(0), stats.Written)
	assert.Equal(t, int64(0), stats.Dropped)
	assert.Len(t, mockRepo.GetInsertedLogs(), 1)
}
