package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolProcessingService_ProcessRequest(t *testing.T) {
	logger := slog.Default()
	request := &shared.ReconciliationRequest{
		RequestID:     uuid.New(),
		Account:       "tutor_hub",
		Year:          2025,
		Month:         9,
		CorrelationID: "corr1",
	}

	tests := []struct {
		name          string
		result        error
		expectedError error
	}{
		{name: "successful processing"},
		{name: "processing error", result: errors.New("processing error"), expectedError: errors.New("processing error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBaseService := &MockProcessingService{}
			workerPoolService, err := NewWorkerPoolProcessingService(mockBaseService, WorkerPoolConfig{Size: 2}, logger)
			require.NoError(t, err)
			defer workerPoolService.Shutdown()

			mockBaseService.On("ProcessRequest", mock.Anything, request).Return(tt.result).Once()

			err = workerPoolService.ProcessRequest(context.Background(), request)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
			mockBaseService.AssertExpectations(t)
		})
	}
}

func TestWorkerPoolProcessingService_Concurrency(t *testing.T) {
	mockBaseService := &MockProcessingService{}
	workerPoolService, err := NewWorkerPoolProcessingService(mockBaseService, WorkerPoolConfig{Size: 5}, slog.Default())
	require.NoError(t, err)
	defer workerPoolService.Shutdown()

	assert.Equal(t, 5, workerPoolService.Capacity())

	var counter int64
	mockBaseService.On("ProcessRequest", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&counter, 1)
	}).Return(nil)

	numRequests := 10
	var wg sync.WaitGroup
	wg.Add(numRequests)

	for i := 0; i < numRequests; i++ {
		go func(i int) {
			defer wg.Done()
			req := &shared.ReconciliationRequest{
				RequestID: uuid.New(),
				Account:   fmt.Sprintf("account_%d", i%3),
				Year:      2025,
				Month:     9,
			}
			assert.NoError(t, workerPoolService.ProcessRequest(context.Background(), req))
		}(i)
	}

	wg.Wait()
	assert.Equal(t, int64(numRequests), atomic.LoadInt64(&counter))
}

func TestWorkerPoolProcessingService_ContextCanceled(t *testing.T) {
	mockBaseService := &MockProcessingService{}
	workerPoolService, err := NewWorkerPoolProcessingService(mockBaseService, WorkerPoolConfig{Size: 1}, slog.Default())
	require.NoError(t, err)
	defer workerPoolService.Shutdown()

	release := make(chan struct{})
	mockBaseService.On("ProcessRequest", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		<-release
	}).Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = workerPoolService.ProcessRequest(ctx, &shared.ReconciliationRequest{RequestID: uuid.New(), Account: "slow"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}
