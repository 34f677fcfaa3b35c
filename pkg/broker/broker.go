// Package broker translates mail envelopes to and from counter wire frames
// and manages the four transport endpoints.
package broker

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yourusername/fasttrader/pkg/dtp"
	"github.com/yourusername/fasttrader/pkg/mail"
)

const (
	// RequestTimeout bounds every synchronous query. 超时后调用方拿不到
	// 应答，按失败处理。
	RequestTimeout = 5 * time.Second
	// pollInterval is the sync response poll step.
	pollInterval = 100 * time.Millisecond
	// listenWait bounds one blocking receive so listener loops can observe
	// the running flag.
	listenWait = 500 * time.Millisecond
)

// Broker is the transport adapter between the dispatcher and the counter.
type Broker struct {
	dispatcher *mail.Dispatcher
	transport  Transport

	running atomic.Bool
	wg      sync.WaitGroup
}

// New wires a broker to its dispatcher and transport. Listener loops start
// with Start.
func New(dispatcher *mail.Dispatcher, transport Transport) *Broker {
	return &Broker{
		dispatcher: dispatcher,
		transport:  transport,
	}
}

// Start launches the counter response listener and the compliance listener.
func (b *Broker) Start() {
	if !b.running.CompareAndSwap(false, true) {
		return
	}
	b.wg.Add(2)
	go b.handleCounterResponse()
	go b.handleComplianceReport()
}

// Stop clears the running flag and waits for both listeners to exit.
func (b *Broker) Stop() {
	if !b.running.CompareAndSwap(true, false) {
		return
	}
	b.wg.Wait()
}

// HandleSyncRequest serves login/logout and the query APIs over the sync
// channel: send the two-part frame, then poll every 100ms until a response
// arrives or the 5s ceiling passes. On timeout the error is logged and the
// caller receives no payload.
func (b *Broker) HandleSyncRequest(m *mail.Mail) (*mail.Mail, error) {
	frame, err := b.buildFrame(m)
	if err != nil {
		return nil, err
	}
	if err := b.transport.SendRequest(frame); err != nil {
		return nil, fmt.Errorf("broker: send sync request api_id=%d: %w", m.ApiID(), err)
	}
	return b.waitSyncResponse(m)
}

// HandleAsyncRequest serves order actions (place/cancel/batch) over the
// async channel. 必须已登录：没有 token 直接拒绝，不上线。
func (b *Broker) HandleAsyncRequest(m *mail.Mail) (*mail.Mail, error) {
	if m.Token() == "" {
		return nil, fmt.Errorf("broker: async request api_id=%d without token", m.ApiID())
	}
	frame, err := b.buildFrame(m)
	if err != nil {
		return nil, err
	}
	if err := b.transport.SendOrder(frame); err != nil {
		return nil, fmt.Errorf("broker: send async request api_id=%d: %w", m.ApiID(), err)
	}
	return nil, nil
}

// buildFrame encodes header and whitelist-filtered body into one frame.
func (b *Broker) buildFrame(m *mail.Mail) ([]byte, error) {
	header := &dtp.RequestHeader{
		RequestID: m.RequestID(),
		ApiID:     m.ApiID(),
		Token:     m.Token(),
	}
	body, err := dtp.NewRequestBody(m.ApiID(), m.Fields())
	if err != nil {
		return nil, err
	}

	rawHeader, err := header.Marshal()
	if err != nil {
		return nil, err
	}
	rawBody, err := body.Marshal()
	if err != nil {
		return nil, err
	}
	return dtp.EncodeFrame(rawHeader, rawBody), nil
}

func (b *Broker) waitSyncResponse(req *mail.Mail) (*mail.Mail, error) {
	var waited time.Duration

	for waited < RequestTimeout {
		data, err := b.transport.RecvResponse()
		if err != nil {
			if errors.Is(err, ErrNoMessage) {
				time.Sleep(pollInterval)
				waited += pollInterval
				continue
			}
			return nil, fmt.Errorf("broker: recv sync response: %w", err)
		}

		parts, err := dtp.DecodeFrameN(data, 2)
		if err != nil {
			return nil, err
		}
		header := new(dtp.ResponseHeader)
		if err := header.Unmarshal(parts[0]); err != nil {
			return nil, fmt.Errorf("broker: decode response header: %w", err)
		}
		body, err := dtp.DecodeBody(header.ApiID, parts[1])
		if err != nil {
			return nil, err
		}

		rsp := mail.NewResponse(header.ApiID, &dtp.Payload{Header: header, Body: body}, req.Sync())
		if req.Sync() {
			return rsp, nil
		}
		// 异步查询：应答重新投递给分发器，由回调链路送达策略
		if _, err := b.dispatcher.Put(rsp); err != nil {
			return nil, err
		}
		return nil, nil
	}

	log.Printf("[Broker] sync request api_id=%d request_id=%s timed out after %v",
		req.ApiID(), req.RequestID(), RequestTimeout)
	return nil, nil
}

// handleCounterResponse drains the report subscription: three-part frames
// (topic, header, body). A body that fails to decode is discarded with a
// warning; the loop never dies on one bad frame.
func (b *Broker) handleCounterResponse() {
	defer b.wg.Done()

	for b.running.Load() {
		data, err := b.transport.RecvReport(listenWait)
		if err != nil {
			if errors.Is(err, ErrNoMessage) {
				continue
			}
			if b.running.Load() {
				log.Printf("[Broker] recv counter report: %v", err)
			}
			continue
		}

		topic, header, body, err := b.decodeReport(data)
		if err != nil {
			log.Printf("[Broker] discard counter report: %v", err)
			continue
		}

		log.Printf("[Broker] counter report topic=%s api_id=%d", topic, header.ApiID)
		rsp := mail.NewResponse(header.ApiID, &dtp.Payload{Header: header, Body: body}, false)
		if _, err := b.dispatcher.Put(rsp); err != nil {
			log.Printf("[Broker] route counter report api_id=%d: %v", header.ApiID, err)
		}
	}
}

// handleComplianceReport drains the risk subscription. 风控推送目前只解码
// 记日志，不再向策略转发。
func (b *Broker) handleComplianceReport() {
	defer b.wg.Done()

	for b.running.Load() {
		data, err := b.transport.RecvRisk(listenWait)
		if err != nil {
			if errors.Is(err, ErrNoMessage) {
				continue
			}
			if b.running.Load() {
				log.Printf("[Broker] recv compliance report: %v", err)
			}
			continue
		}

		_, header, _, err := b.decodeReport(data)
		if err != nil {
			log.Printf("[Broker] discard compliance report: %v", err)
			continue
		}
		log.Printf("[Broker] compliance report api_id=%d message=%s",
			header.ApiID, header.Message)
	}
}

func (b *Broker) decodeReport(data []byte) (topic string, header *dtp.ReportHeader, body dtp.Message, err error) {
	parts, err := dtp.DecodeFrameN(data, 3)
	if err != nil {
		return "", nil, nil, err
	}
	header = new(dtp.ReportHeader)
	if err := header.Unmarshal(parts[1]); err != nil {
		return "", nil, nil, fmt.Errorf("decode report header: %w", err)
	}
	body, err = dtp.DecodeBody(header.ApiID, parts[2])
	if err != nil {
		return "", nil, nil, fmt.Errorf("api_id=%d message=%s: %w", header.ApiID, header.Message, err)
	}
	return string(parts[0]), header, body, nil
}
