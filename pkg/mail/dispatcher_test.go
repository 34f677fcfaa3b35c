package mail

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/fasttrader/pkg/dtp"
)

func newRequestMail(t *testing.T, apiID int32, requestID string, sync bool) *Mail {
	t.Helper()
	m, err := NewRequest(apiID, requestID, sync, nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// TestBindRejectsDuplicate checks rebinding without override fails and
// with override succeeds.
func TestBindRejectsDuplicate(t *testing.T) {
	d := NewDispatcher(0)
	defer d.Close()

	h := func(m *Mail) (*Mail, error) { return nil, nil }
	if err := d.Bind("10001001_req", h, false); err != nil {
		t.Fatal(err)
	}
	if err := d.Bind("10001001_req", h, false); err == nil {
		t.Error("expected duplicate bind to fail")
	}
	if err := d.Bind("10001001_req", h, true); err != nil {
		t.Errorf("override bind failed: %v", err)
	}
}

// TestSyncPutDispatchesInline checks a sync mail runs on the caller's
// goroutine and its handler result is returned directly.
func TestSyncPutDispatchesInline(t *testing.T) {
	d := NewDispatcher(0)
	defer d.Close()

	want := NewResponse(dtp.LoginAccountResponse, &dtp.Payload{
		Header: &dtp.ResponseHeader{ApiID: dtp.LoginAccountResponse},
		Body:   &dtp.LoginAccountRsp{Token: "T1"},
	}, true)

	err := d.Bind("10001001_req", func(m *Mail) (*Mail, error) {
		return want, nil
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	got, err := d.Put(newRequestMail(t, dtp.LoginAccountRequest, "11000001", true))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("sync dispatch returned %v, expected handler result", got)
	}
}

// TestAsyncPutPreservesFIFO checks mails queued on one queue are handled
// in arrival order.
func TestAsyncPutPreservesFIFO(t *testing.T) {
	d := NewDispatcher(64)
	defer d.Close()

	var mu sync.Mutex
	var order []string
	done := make(chan struct{})

	err := d.Bind("10002001_req", func(m *Mail) (*Mail, error) {
		mu.Lock()
		order = append(order, m.RequestID())
		n := len(order)
		mu.Unlock()
		if n == 50 {
			close(done)
		}
		return nil, nil
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", 11000000+i)
		if _, err := d.Put(newRequestMail(t, dtp.PlaceOrderRequest, ids[i], false)); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queue drain")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, id := range ids {
		if order[i] != id {
			t.Fatalf("mail %d handled out of order: got %s, expected %s", i, order[i], id)
		}
	}
}

// TestAsyncPutUnboundHandler checks an async mail whose handler never got
// bound is logged by the worker, not delivered; a sync one errors to the
// caller.
func TestAsyncPutUnboundHandler(t *testing.T) {
	d := NewDispatcher(0)
	defer d.Close()

	if _, err := d.Put(newRequestMail(t, dtp.LoginAccountRequest, "11000001", true)); err == nil {
		t.Error("expected error for sync mail with no handler")
	}

	// 异步信件进队列即返回，绑定缺失由 worker 记日志
	if _, err := d.Put(newRequestMail(t, dtp.PlaceOrderRequest, "11000002", false)); err != nil {
		t.Errorf("async put failed: %v", err)
	}
}

// TestHandlerPanicDoesNotKillWorker checks the queue keeps draining after
// a handler panics.
func TestHandlerPanicDoesNotKillWorker(t *testing.T) {
	d := NewDispatcher(16)
	defer d.Close()

	survived := make(chan struct{})
	err := d.Bind("10002001_req", func(m *Mail) (*Mail, error) {
		if m.RequestID() == "11000001" {
			panic("boom")
		}
		close(survived)
		return nil, nil
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.Put(newRequestMail(t, dtp.PlaceOrderRequest, "11000001", false)); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Put(newRequestMail(t, dtp.PlaceOrderRequest, "11000002", false)); err != nil {
		t.Fatal(err)
	}

	select {
	case <-survived:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive handler panic")
	}
}

// TestCloseDoesNotPanicConcurrentPut checks producers racing Close never
// hit a closed channel: each Put either queues the mail or returns the
// closed error, and a Put already blocked on a full queue completes.
func TestCloseDoesNotPanicConcurrentPut(t *testing.T) {
	for iter := 0; iter < 20; iter++ {
		d := NewDispatcher(1)

		// 慢 handler 让队列顶住，生产者阻塞在入队上
		err := d.Bind("10002001_req", func(m *Mail) (*Mail, error) {
			time.Sleep(2 * time.Millisecond)
			return nil, nil
		}, false)
		if err != nil {
			t.Fatal(err)
		}

		// 信件不可变，可在多个生产者间复用
		m := newRequestMail(t, dtp.PlaceOrderRequest, "11000001", false)

		panics := make(chan interface{}, 8)
		var wg sync.WaitGroup
		for p := 0; p < 4; p++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						panics <- r
					}
				}()
				for i := 0; i < 8; i++ {
					if _, err := d.Put(m); err != nil {
						return // 已关闭，合法出口
					}
				}
			}()
		}

		time.Sleep(time.Millisecond)
		d.Close()
		wg.Wait()

		select {
		case r := <-panics:
			t.Fatalf("iteration %d: Put panicked during Close: %v", iter, r)
		default:
		}
	}
}

// TestPutAfterClose checks a closed dispatcher rejects new mail.
func TestPutAfterClose(t *testing.T) {
	d := NewDispatcher(0)
	d.Close()

	if _, err := d.Put(newRequestMail(t, dtp.PlaceOrderRequest, "11000001", false)); err == nil {
		t.Error("expected error after Close")
	}
}
