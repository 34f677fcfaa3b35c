package mail

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Handler processes one mail. The return value is only meaningful for
// synchronous dispatch, where it is handed back to the caller of Put.
type Handler func(*Mail) (*Mail, error)

const defaultQueueSize = 1024

// Dispatcher decouples mail producers from their handlers.
//
// 同步信件在调用方线程上原地分发并返回结果；异步信件按 handler_id 后缀
// 路由到收件箱（_req）或发件箱（_rsp），每个队列由一个后台 worker 按到达
// 顺序串行消费。两个队列之间不保证相对顺序。
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler

	inbox  chan *Mail // outbound requests waiting for the broker
	outbox chan *Mail // inbound responses waiting for fan-out

	// closeMu orders queue sends against Close: producers hold the read
	// lock across the closed-check and the send, so Close can only shut
	// the channels once no send is in flight.
	closeMu sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
}

// NewDispatcher starts the two queue workers immediately.
func NewDispatcher(queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{
		handlers: make(map[string]Handler),
		inbox:    make(chan *Mail, queueSize),
		outbox:   make(chan *Mail, queueSize),
	}
	d.wg.Add(2)
	go d.processQueue("inbox", d.inbox)
	go d.processQueue("outbox", d.outbox)
	return d
}

// Bind registers a handler for one routing key. Rebinding an existing key
// is rejected unless override is set; the registry is expected to be written
// once during Trader.Bind and treated as read-only afterwards.
func (d *Dispatcher) Bind(handlerID string, handler Handler, override bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[handlerID]; exists && !override {
		return fmt.Errorf("dispatcher: handler %s already exists", handlerID)
	}
	d.handlers[handlerID] = handler
	return nil
}

// Put routes one mail. Synchronous mails are dispatched inline and their
// handler result returned. Asynchronous mails are queued; a handler_id that
// matches neither suffix is a construction error and fails the call.
func (d *Dispatcher) Put(m *Mail) (*Mail, error) {
	var queue chan *Mail
	switch {
	case m.Sync():
		// 同步信件不进队列，只需挡住已关闭的分发器
	case strings.HasSuffix(m.HandlerID(), "_"+TypeRequest):
		queue = d.inbox
	case strings.HasSuffix(m.HandlerID(), "_"+TypeResponse):
		queue = d.outbox
	default:
		return nil, fmt.Errorf("dispatcher: invalid mail %s", m)
	}

	d.closeMu.RLock()
	if d.closed {
		d.closeMu.RUnlock()
		return nil, fmt.Errorf("dispatcher: closed")
	}
	if m.Sync() {
		d.closeMu.RUnlock()
		return d.dispatch(m)
	}
	queue <- m
	d.closeMu.RUnlock()
	return nil, nil
}

func (d *Dispatcher) dispatch(m *Mail) (*Mail, error) {
	d.mu.RLock()
	handler, ok := d.handlers[m.HandlerID()]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dispatcher: no handler bound for %s", m.HandlerID())
	}
	return handler(m)
}

// processQueue drains one queue in FIFO order. A handler failure or panic
// must never stop the pipeline: it is logged and the worker moves on.
func (d *Dispatcher) processQueue(name string, queue chan *Mail) {
	defer d.wg.Done()
	for m := range queue {
		d.safeDispatch(name, m)
	}
}

func (d *Dispatcher) safeDispatch(queue string, m *Mail) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Dispatcher] %s handler panic on %s: %v", queue, m, r)
		}
	}()
	if _, err := d.dispatch(m); err != nil {
		log.Printf("[Dispatcher] %s dispatch %s failed: %v", queue, m, err)
	}
}

// Close stops both workers after the queued mails are drained. Producers
// racing Close get the closed error from Put; a producer already blocked
// in a queue send finishes that send first, because the workers keep
// draining until the channels shut.
func (d *Dispatcher) Close() {
	d.closeMu.Lock()
	if d.closed {
		d.closeMu.Unlock()
		return
	}
	d.closed = true
	close(d.inbox)
	close(d.outbox)
	d.closeMu.Unlock()
	d.wg.Wait()
}
