package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEnqueueWithRetry(t *testing.T) {
	task := Task{Type: TaskTypeRecord, Payload: []byte(`{}`)}

	t.Run("succeeds after transient failure", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(errors.New("nats down")).Once()
		q.On("Enqueue", mock.Anything, task).Return(nil).Once()

		err := EnqueueWithRetry(context.Background(), q, task, 3, time.Millisecond)

		assert.NoError(t, err)
		q.AssertNumberOfCalls(t, "Enqueue", 2)
	})

	t.Run("returns last error when attempts exhausted", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(errors.New("nats down"))

		err := EnqueueWithRetry(context.Background(), q, task, 2, time.Millisecond)

		assert.EqualError(t, err, "nats down")
		q.AssertNumberOfCalls(t, "Enqueue", 2)
	})

	t.Run("zero attempts still tries once", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(nil).Once()

		assert.NoError(t, EnqueueWithRetry(context.Background(), q, task, 0, time.Millisecond))
		q.AssertExpectations(t)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(errors.New("nats down"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := EnqueueWithRetry(ctx, q, task, 5, time.Hour)

		assert.ErrorIs(t, err, context.Canceled)
		q.AssertNumberOfCalls(t, "Enqueue", 1)
	})
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "tasks.record", Subject(TaskTypeRecord))
}
