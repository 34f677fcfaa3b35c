package manage

import (
	"context"
	"fmt"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

// echoManager answers start/stop and echoes kwargs back for fetches.
type echoManager struct{}

func (echoManager) Call(ctx context.Context, req *Request) (*Reply, error) {
	switch req.ApiName {
	case "start_strategy", "stop_strategy", "update_settings":
		return &Reply{Ret: map[string]interface{}{"ok": true}}, nil
	case "get_positions", "get_orders", "get_trades":
		return &Reply{Ret: req.Kwargs}, nil
	default:
		return &Reply{Error: fmt.Sprintf("unknown api %s", req.ApiName)}, nil
	}
}

func newTestClient(t *testing.T) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	RegisterManagerServer(server, echoManager{})
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewClientFromConn(conn)
}

// TestCallRoundTrip checks a control call travels the JSON codec both ways.
func TestCallRoundTrip(t *testing.T) {
	client := newTestClient(t)

	ret, err := client.Positions(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	// JSON 解码数字为 float64
	if got, ok := ret["strategy_id"].(float64); !ok || got != 7 {
		t.Errorf("strategy_id = %v", ret["strategy_id"])
	}
}

// TestCallServerError checks a reply error string surfaces as a Go error.
func TestCallServerError(t *testing.T) {
	client := newTestClient(t)

	if _, err := client.Call(context.Background(), "no_such_api", nil); err == nil {
		t.Fatal("expected error for unknown api")
	}
}

// TestStartStopStrategy checks the convenience wrappers.
func TestStartStopStrategy(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.StartStrategy(ctx, 1); err != nil {
		t.Errorf("start: %v", err)
	}
	if err := client.StopStrategy(ctx, 1); err != nil {
		t.Errorf("stop: %v", err)
	}
	if err := client.UpdateSettings(ctx, map[string]interface{}{"max_position": 1000}); err != nil {
		t.Errorf("update settings: %v", err)
	}
}
