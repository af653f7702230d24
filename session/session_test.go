package session

import (
	"bufio"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cimd2/pdu"
)

// fakeSMSC accepts one connection, sends a banner, accepts a login,
// and answers opcode 51 (login response). Further frames are answered
// by respond, which the test controls.
type fakeSMSC struct {
	t        *testing.T
	listener net.Listener
	conn     net.Conn
	reader   *bufio.Reader
}

func newFakeSMSC(t *testing.T) (*fakeSMSC, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return &fakeSMSC{t: t, listener: ln}, ln.Addr().String()
}

func (f *fakeSMSC) acceptAndLogin() {
	f.t.Helper()
	conn, err := f.listener.Accept()
	require.NoError(f.t, err)
	f.conn = conn
	f.reader = bufio.NewReader(conn)

	_, err = conn.Write([]byte("CIMD2 test SMSC ready\n"))
	require.NoError(f.t, err)

	loginFrame, err := f.reader.ReadBytes(byte(pdu.ETX))
	require.NoError(f.t, err)
	assert.Contains(f.t, string(loginFrame), "010:tester")

	resp := (pdu.Codec{}).CreateMessage(int(pdu.ResponseOf(pdu.OpLogin)), nil, 1, false)
	_, err = conn.Write(resp)
	require.NoError(f.t, err)
}

func (f *fakeSMSC) nextFrame() []byte {
	f.t.Helper()
	frame, err := f.reader.ReadBytes(byte(pdu.ETX))
	require.NoError(f.t, err)
	return frame
}

func (f *fakeSMSC) respond(frame []byte) {
	f.t.Helper()
	_, err := f.conn.Write(frame)
	require.NoError(f.t, err)
}

func (f *fakeSMSC) close() {
	if f.conn != nil {
		f.conn.Close()
	}
	f.listener.Close()
}

func testConfig(addr string) Config {
	host, portStr, _ := net.SplitHostPort(addr)
	port := 0
	for _, c := range portStr {
		port = port*10 + int(c-'0')
	}
	return Config{
		Host:             host,
		Port:             port,
		Username:         "tester",
		Password:         "secret",
		ReconnectTimeout: 10 * time.Millisecond,
	}
}

func TestSession_OpenAuthenticatesAndReachesAuthenticated(t *testing.T) {
	peer, addr := newFakeSMSC(t)
	defer peer.close()

	go peer.acceptAndLogin()

	sess := New(testConfig(addr), nil, nil, FixedBackoff{Delay: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, sess.Open(ctx))
	assert.Equal(t, Authenticated, sess.State())

	sess.Close("test done")
	assert.Equal(t, Disconnected, sess.State())
}

func TestSession_SubmitMessageCorrelatesResponse(t *testing.T) {
	peer, addr := newFakeSMSC(t)
	defer peer.close()

	go peer.acceptAndLogin()

	sess := New(testConfig(addr), nil, nil, FixedBackoff{Delay: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sess.Open(ctx))
	defer sess.Close("test done")

	resultCh := make(chan struct {
		resp Response
		err  error
	}, 1)
	go func() {
		resp, err := sess.SubmitMessage(ctx, []pdu.ParameterPair{{Code: pdu.ParamDestAddr, Value: "12345"}})
		resultCh <- struct {
			resp Response
			err  error
		}{resp, err}
	}()

	reqFrame := peer.nextFrame()
	opcode, packetNo, ok := parseHeader(reqFrame)
	require.True(t, ok)
	assert.Equal(t, pdu.OpSubmitMessage, opcode)

	respFrame := (pdu.Codec{}).CreateMessage(int(pdu.ResponseOf(pdu.OpSubmitMessage)), []pdu.ParameterPair{
		{Code: pdu.ParamServCentreTimestamp, Value: "210301120000"},
	}, packetNo, false)
	peer.respond(respFrame)

	result := <-resultCh
	require.NoError(t, result.err)
	assert.Equal(t, pdu.ResponseOf(pdu.OpSubmitMessage), result.resp.Opcode)
	ts, ok := result.resp.ParamValue(pdu.ParamServCentreTimestamp)
	assert.True(t, ok)
	assert.Equal(t, "210301120000", ts)
}

func TestSession_TransportLossCancelsPendingRequest(t *testing.T) {
	peer, addr := newFakeSMSC(t)
	defer peer.close()

	go peer.acceptAndLogin()

	sess := New(testConfig(addr), nil, nil, FixedBackoff{Delay: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sess.Open(ctx))

	errCh := make(chan error, 1)
	go func() {
		_, err := sess.Alive(ctx)
		errCh <- err
	}()

	peer.nextFrame()
	peer.conn.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrTransportLost)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for transport-loss cancellation")
	}

	assert.Equal(t, Disconnected, sess.State())
}

func TestSession_RunReconnectsAfterTransportLoss(t *testing.T) {
	peer, addr := newFakeSMSC(t)
	defer peer.close()

	cfg := testConfig(addr)
	sess := New(cfg, nil, nil, FixedBackoff{Delay: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	runErrCh := make(chan error, 1)
	go func() { runErrCh <- sess.Run(ctx) }()

	peer.acceptAndLogin()
	require.Eventually(t, func() bool { return sess.State() == Authenticated }, time.Second, time.Millisecond)

	peer.conn.Close()
	require.Eventually(t, func() bool { return sess.State() == Disconnected }, time.Second, time.Millisecond)

	go peer.acceptAndLogin()
	require.Eventually(t, func() bool { return sess.State() == Authenticated }, time.Second, time.Millisecond)

	sess.Close("test done")
	cancel()
	<-runErrCh
}

// spySink records ProtocolErrorEvent calls; every other event is
// discarded.
type spySink struct {
	NopSink
	mu     sync.Mutex
	events []protocolErrorCall
}

type protocolErrorCall struct {
	opcode int
	code   int
	text   string
}

func (s *spySink) ProtocolErrorEvent(opcode, code int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, protocolErrorCall{opcode: opcode, code: code, text: text})
}

func (s *spySink) calls() []protocolErrorCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocolErrorCall(nil), s.events...)
}

func TestSession_DeliverStatusReportReportsStatusCodeWithoutTouchingQueue(t *testing.T) {
	peer, addr := newFakeSMSC(t)
	defer peer.close()

	go peer.acceptAndLogin()

	sink := &spySink{}
	sess := New(testConfig(addr), sink, nil, FixedBackoff{Delay: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sess.Open(ctx))
	defer sess.Close("test done")

	resultCh := make(chan struct {
		resp Response
		err  error
	}, 1)
	go func() {
		resp, err := sess.Alive(ctx)
		resultCh <- struct {
			resp Response
			err  error
		}{resp, err}
	}()

	aliveFrame := peer.nextFrame()
	_, alivePacketNo, ok := parseHeader(aliveFrame)
	require.True(t, ok)

	statusReportFrame := (pdu.Codec{}).CreateMessage(int(pdu.OpDeliverStatusReport), []pdu.ParameterPair{
		{Code: pdu.ParamDestAddr, Value: "12345"},
		{Code: pdu.ParamServCentreTimestamp, Value: "210301120000"},
		{Code: pdu.ParamStatusCode, Value: "1"},
		{Code: pdu.ParamDischargeTime, Value: "210301120100"},
	}, 9, false)
	peer.respond(statusReportFrame)

	aliveResp := (pdu.Codec{}).CreateMessage(int(pdu.ResponseOf(pdu.OpAlive)), nil, alivePacketNo, false)
	peer.respond(aliveResp)

	result := <-resultCh
	require.NoError(t, result.err)
	assert.Equal(t, pdu.ResponseOf(pdu.OpAlive), result.resp.Opcode)

	require.Eventually(t, func() bool { return len(sink.calls()) > 0 }, time.Second, time.Millisecond)
	calls := sink.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, int(pdu.OpDeliverStatusReport), calls[0].opcode)
	assert.Equal(t, 1, calls[0].code)
	assert.Equal(t, "Unknown subscriber", calls[0].text)
}
