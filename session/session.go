// Package session drives the CIMD2 wire protocol over a TCP
// connection: it negotiates the banner, logs in, pipelines requests
// against a FIFO of response continuations, and reconnects on
// transport loss without leaking callbacks.
package session

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cimd2"
	"cimd2/pdu"
)

// State is one of the five states a Session moves through.
type State int32

const (
	Disconnected State = iota
	Connecting
	BannerPending
	Authenticated
	Closing
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case BannerPending:
		return "banner_pending"
	case Authenticated:
		return "authenticated"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// defaultRequestTimeout bounds how long Send-family calls wait for a
// correlated response when the caller's context carries no deadline.
const defaultRequestTimeout = 30 * time.Second

// Session is a CIMD2 ESME client: one TCP connection, one codec, one
// packet counter, one pending-response queue.
type Session struct {
	cfg     Config
	sink    EventSink
	metrics *Metrics
	backoff BackoffPolicy

	codec   pdu.Codec
	counter *cimd2.PacketCounter
	builder *cimd2.Builder
	queue   *pendingQueue

	mu    sync.Mutex
	state State
	conn  net.Conn
	w     *bufio.Writer

	writeCh  chan []byte
	closedCh chan struct{}

	manualClose atomic.Bool
}

// New builds a Session from cfg. sink and metrics may be nil (a
// NopSink and unregistered Metrics are used); backoff may be nil (the
// default exponential policy seeded from cfg is used).
func New(cfg Config, sink EventSink, metrics *Metrics, backoff BackoffPolicy) *Session {
	if sink == nil {
		sink = NopSink{}
	}
	if metrics == nil {
		metrics = NewMetrics(cfg.Addr())
	}
	if backoff == nil {
		maxInterval := cfg.MaxReconnectBackoff
		if maxInterval <= 0 {
			maxInterval = DefaultMaxReconnectBackoff
		}
		backoff = NewBackoffPolicy(cfg.ReconnectTimeout, maxInterval)
	}
	counter := cimd2.NewPacketCounter()
	return &Session{
		cfg:     cfg,
		sink:    sink,
		metrics: metrics,
		backoff: backoff,
		counter: counter,
		builder: &cimd2.Builder{Counter: counter, UseChecksum: cfg.UseChecksum},
		queue:   newPendingQueue(),
	}
}

// State reports the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.metrics.setState(st)
}

// Open dials the configured host:port, consumes the banner, logs in,
// and — on success — starts the background read and write loops. It
// returns once authentication succeeds or fails; it does not itself
// retry or reconnect (see Run for that).
func (s *Session) Open(ctx context.Context) error {
	s.setState(Connecting)

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		s.setState(Disconnected)
		return fmt.Errorf("session: dial %s: %w", s.cfg.Addr(), err)
	}

	s.mu.Lock()
	s.conn = conn
	s.w = bufio.NewWriter(conn)
	s.mu.Unlock()

	s.setState(BannerPending)
	s.sink.Connected(s.cfg.Host, s.cfg.Port)

	reader := bufio.NewReader(conn)
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}

	bannerLine, err := reader.ReadString('\n')
	if err != nil {
		conn.Close()
		s.setState(Disconnected)
		return fmt.Errorf("session: reading banner: %w", err)
	}
	s.sink.Banner(strings.TrimRight(bannerLine, "\r\n"))

	loginFrame, err := s.builder.Login(s.cfg.Username, s.cfg.Password, s.cfg.SubAddr, s.cfg.WindowSize)
	if err != nil {
		conn.Close()
		s.setState(Disconnected)
		return fmt.Errorf("session: building login frame: %w", err)
	}

	if _, err := conn.Write(loginFrame); err != nil {
		conn.Close()
		s.setState(Disconnected)
		return fmt.Errorf("session: writing login frame: %w", err)
	}
	s.sink.Sent(loginFrame)
	s.metrics.incFramesSent()

	respFrame, err := reader.ReadBytes(byte(pdu.ETX))
	if err != nil {
		conn.Close()
		s.setState(Disconnected)
		return fmt.Errorf("session: reading login response: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	resp := s.decodeFrame(respFrame)
	if resp.Opcode == pdu.OpGeneralErrorResponse || resp.Opcode == pdu.OpNack {
		protoErr := s.protocolErrorFrom(resp)
		conn.Close()
		s.setState(Disconnected)
		return fmt.Errorf("session: login rejected: %w", protoErr)
	}
	if resp.Opcode != pdu.ResponseOf(pdu.OpLogin) {
		conn.Close()
		s.setState(Disconnected)
		return fmt.Errorf("session: unexpected login response opcode %s", resp.Opcode)
	}

	s.counter.Reset()
	s.writeCh = make(chan []byte, 16)
	s.closedCh = make(chan struct{})
	s.manualClose.Store(false)
	s.setState(Authenticated)

	go s.writeLoop()
	go s.readLoop(reader)

	return nil
}

// Run keeps the session open: it calls Open, and on transport loss
// (but not on an explicit Close) waits out the backoff policy's delay
// and opens again, until ctx is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.Open(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if s.cfg.DisableReconnect {
				return err
			}
			if !s.wait(ctx, s.scheduleReconnect()) {
				return ctx.Err()
			}
			continue
		}

		s.backoff.Reset()

		select {
		case <-s.closedCh:
		case <-ctx.Done():
			s.Close("context cancelled")
			return ctx.Err()
		}

		if s.manualClose.Load() || s.cfg.DisableReconnect {
			return nil
		}
		if !s.wait(ctx, s.scheduleReconnect()) {
			return ctx.Err()
		}
	}
}

func (s *Session) scheduleReconnect() time.Duration {
	delay := s.backoff.NextBackOff()
	s.metrics.incReconnects()
	s.sink.ReconnectScheduled(delay)
	return delay
}

func (s *Session) wait(ctx context.Context, delay time.Duration) bool {
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

// Close transitions the session to Closing, cancels every pending
// response with ErrTransportLost, and releases the socket. It is safe
// to call more than once. A session closed this way is not
// automatically reconnected by Run.
func (s *Session) Close(reason string) error {
	s.manualClose.Store(true)
	return s.close(reason)
}

func (s *Session) close(reason string) error {
	s.mu.Lock()
	if s.state == Closing || s.state == Disconnected {
		s.mu.Unlock()
		return nil
	}
	s.state = Closing
	conn := s.conn
	closedCh := s.closedCh
	s.mu.Unlock()

	s.metrics.setState(Closing)
	s.sink.Closed(reason)

	s.queue.Drain(ErrTransportLost)
	s.metrics.setPendingResponses(0)

	var err error
	if conn != nil {
		err = conn.Close()
	}

	s.setState(Disconnected)

	if closedCh != nil {
		select {
		case <-closedCh:
		default:
			close(closedCh)
		}
	}
	return err
}

func (s *Session) writeLoop() {
	for frame := range s.writeCh {
		s.mu.Lock()
		w := s.w
		s.mu.Unlock()
		if w == nil {
			continue
		}
		if _, err := w.Write(frame); err != nil {
			s.handleTransportLoss(err)
			return
		}
		if err := w.Flush(); err != nil {
			s.handleTransportLoss(err)
			return
		}
		s.sink.Sent(frame)
		s.metrics.incFramesSent()
	}
}

func (s *Session) readLoop(reader *bufio.Reader) {
	for {
		frame, err := reader.ReadBytes(byte(pdu.ETX))
		if err != nil {
			s.handleTransportLoss(err)
			return
		}
		s.dispatch(frame)
	}
}

func (s *Session) handleTransportLoss(err error) {
	s.close(fmt.Sprintf("transport lost: %v", err))
}

func (s *Session) dispatch(frame []byte) {
	s.sink.Received(frame)
	s.metrics.incFramesReceived()

	if s.cfg.UseChecksum {
		if ok, err := s.codec.VerifyChecksum(frame); !ok && err != nil {
			s.sink.ProtocolErrorEvent(0, -1, err.Error())
		}
	}

	resp := s.decodeFrame(frame)

	if resp.Opcode == pdu.OpDeliverStatusReport {
		s.reportDeliveryStatus(resp)
		return
	}

	handler := s.queue.PopFront()
	s.metrics.setPendingResponses(s.queue.Len())
	if handler == nil {
		s.sink.ProtocolErrorEvent(int(resp.Opcode), 0, errNoPendingHandler.Error())
		return
	}
	if handler.packetNo != resp.PacketNo {
		mismatch := &correlationMismatchError{expected: handler.packetNo, got: resp.PacketNo}
		s.sink.ProtocolErrorEvent(int(resp.Opcode), 0, mismatch.Error())
	}

	if resp.Opcode == pdu.OpGeneralErrorResponse || resp.Opcode == pdu.OpNack {
		protoErr := s.protocolErrorFrom(resp)
		s.metrics.incProtocolErrors()
		s.sink.ProtocolErrorEvent(int(resp.Opcode), protoErr.Code, protoErr.Text)
		handler.handle(resp, protoErr)
		return
	}
	handler.handle(resp, nil)
}

func (s *Session) decodeFrame(frame []byte) Response {
	opcode, packetNo, _ := parseHeader(frame)
	return Response{
		Opcode:   opcode,
		PacketNo: packetNo,
		Params:   s.codec.ExtractAllParamValues(frame),
		Raw:      frame,
	}
}

func (s *Session) protocolErrorFrom(resp Response) *ProtocolError {
	codeStr, _ := resp.ParamValue(pdu.ParamErrorCode)
	text, _ := resp.ParamValue(pdu.ParamErrorText)
	code, _ := strconv.Atoi(codeStr)
	if text == "" {
		if known, ok := pdu.CommError(code); ok {
			text = known
		}
	}
	return &ProtocolError{Code: code, Text: text}
}

// reportDeliveryStatus surfaces a deliver-status-report's status_code
// (061) through the event sink, resolved against pdu.StatusError the
// same way protocolErrorFrom resolves 900/901 against pdu.CommError.
// Deliver-status-report is SMSC-initiated, not a correlated response
// to anything the ESME side sent, so it never touches the pending
// queue.
func (s *Session) reportDeliveryStatus(resp Response) {
	codeStr, _ := resp.ParamValue(pdu.ParamStatusCode)
	code, _ := strconv.Atoi(codeStr)
	text, known := pdu.StatusError(code)
	if !known {
		text = "unknown status code"
	}
	s.sink.ProtocolErrorEvent(int(resp.Opcode), code, text)
}

// parseHeader extracts the opcode and packet number from a raw frame's
// "STX OO:PPP TAB" header.
func parseHeader(frame []byte) (pdu.OpCode, int, bool) {
	if len(frame) < 8 || frame[0] != byte(pdu.STX) || frame[3] != ':' || frame[7] != byte(pdu.TAB) {
		return 0, 0, false
	}
	op, err := strconv.Atoi(string(frame[1:3]))
	if err != nil {
		return 0, 0, false
	}
	pn, err := strconv.Atoi(string(frame[4:7]))
	if err != nil {
		return 0, 0, false
	}
	return pdu.OpCode(op), pn, true
}

// sendRequest pushes a correlated continuation for frame's packet
// number, writes it, and blocks until the matching response arrives,
// ctx is done, or the transport is lost.
func (s *Session) sendRequest(ctx context.Context, frame []byte) (Response, error) {
	opcode, packetNo, ok := parseHeader(frame)
	if !ok {
		return Response{}, fmt.Errorf("session: malformed outbound frame")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
	}

	resultCh := make(chan struct {
		resp Response
		err  error
	}, 1)

	s.queue.Push(&pendingResponse{
		opcode:   pdu.ResponseOf(opcode),
		packetNo: packetNo,
		handle: func(r Response, err error) {
			resultCh <- struct {
				resp Response
				err  error
			}{r, err}
		},
	})
	s.metrics.setPendingResponses(s.queue.Len())

	select {
	case s.writeCh <- frame:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	select {
	case res := <-resultCh:
		return res.resp, res.err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// SubmitMessage sends opcode 03 and waits for its correlated response.
func (s *Session) SubmitMessage(ctx context.Context, params []pdu.ParameterPair) (Response, error) {
	frame, err := s.builder.SubmitMessage(params)
	if err != nil {
		return Response{}, err
	}
	return s.sendRequest(ctx, frame)
}

// EnquireMessageStatus sends opcode 04 and waits for its correlated response.
func (s *Session) EnquireMessageStatus(ctx context.Context, destAddr, servCentreTimestamp string) (Response, error) {
	frame := s.builder.EnquireMessageStatus(destAddr, servCentreTimestamp)
	return s.sendRequest(ctx, frame)
}

// DeliveryRequest sends opcode 05 and waits for its correlated response.
func (s *Session) DeliveryRequest(ctx context.Context, mode int) (Response, error) {
	frame, err := s.builder.DeliveryRequest(mode)
	if err != nil {
		return Response{}, err
	}
	return s.sendRequest(ctx, frame)
}

// CancelMessage sends opcode 06 and waits for its correlated response.
func (s *Session) CancelMessage(ctx context.Context, mode int, destAddr, servCentreTimestamp string) (Response, error) {
	frame, err := s.builder.CancelMessage(mode, destAddr, servCentreTimestamp)
	if err != nil {
		return Response{}, err
	}
	return s.sendRequest(ctx, frame)
}

// SetParam sends opcode 08 and waits for its correlated response.
func (s *Session) SetParam(ctx context.Context, symbol pdu.ParameterCode, value string) (Response, error) {
	frame, err := s.builder.SetParam(symbol, value)
	if err != nil {
		return Response{}, err
	}
	return s.sendRequest(ctx, frame)
}

// GetParam sends opcode 09 and waits for its correlated response.
func (s *Session) GetParam(ctx context.Context, symbol pdu.ParameterCode) (Response, error) {
	frame := s.builder.GetParam(symbol)
	return s.sendRequest(ctx, frame)
}

// Alive sends opcode 40 and waits for its correlated response.
func (s *Session) Alive(ctx context.Context) (Response, error) {
	frame := s.builder.Alive()
	return s.sendRequest(ctx, frame)
}

// Logout sends opcode 02 and waits for its correlated response.
func (s *Session) Logout(ctx context.Context) (Response, error) {
	frame := s.builder.Logout()
	return s.sendRequest(ctx, frame)
}
