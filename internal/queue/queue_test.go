package queue_test

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unclebandit/mailflow-backend/internal/queue"
)

func TestInMemoryQueueDeliversPayload(t *testing.T) {
	q := queue.NewInMemoryQueue()

	received := make(chan queue.DispatchJob, 1)
	q.Subscribe(queue.DispatchTopic, func(body []byte) error {
		var job queue.DispatchJob
		if err := json.Unmarshal(body, &job); err != nil {
			return err
		}
		received <- job
		return nil
	})

	if err := q.Publish(queue.DispatchTopic, queue.DispatchJob{MailingID: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case job := <-received:
		if job.MailingID != 7 {
			t.Errorf("expected mailing 7, got %d", job.MailingID)
		}
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestInMemoryQueueNoSubscribers(t *testing.T) {
	q := queue.NewInMemoryQueue()

	if err := q.Publish(queue.DispatchTopic, queue.DispatchJob{MailingID: 1}); err == nil {
		t.Error("expected error when publishing without subscribers")
	}
}

func TestInMemoryQueueRetriesFailedJob(t *testing.T) {
	q := queue.NewInMemoryQueue()

	var calls int32
	var wg sync.WaitGroup
	wg.Add(2)
	q.Subscribe(queue.DispatchTopic, func(body []byte) error {
		defer wg.Done()
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("transient failure")
		}
		return nil
	})

	if err := q.Publish(queue.DispatchTopic, queue.DispatchJob{MailingID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job was not retried after a failure")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 invocations, got %d", got)
	}
}
