package chain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

type fakeNetError struct {
	timeout bool
}

func (e fakeNetError) Error() string   { return "fake net error" }
func (e fakeNetError) Timeout() bool   { return e.timeout }
func (e fakeNetError) Temporary() bool { return false }

var _ net.Error = fakeNetError{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"deadline", context.DeadlineExceeded, ErrRPCTimeout},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), ErrRPCTimeout},
		{"net timeout", fakeNetError{timeout: true}, ErrRPCTimeout},
		{"net failure", fakeNetError{timeout: false}, ErrRPCUnavailable},
		{
			"connection refused",
			&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
			ErrRPCUnavailable,
		},
	}
	for _, tc := range tests {
		got := classify(tc.err)
		if tc.want == nil {
			if got != nil {
				t.Errorf("%s: classify = %v, want nil", tc.name, got)
			}
			continue
		}
		if !errors.Is(got, tc.want) {
			t.Errorf("%s: classify = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestClassifyPassesThroughChainErrors(t *testing.T) {
	reverted := errors.New("execution reverted")
	if got := classify(reverted); got != reverted {
		t.Errorf("classify rewrote a non-transport error: %v", got)
	}
}

func TestClientIsLazy(t *testing.T) {
	// constructing a client must not dial anything
	c := NewClient("test", "http://127.0.0.1:1")
	if c.NodeName() != "test" || c.NodeURL() != "http://127.0.0.1:1" {
		t.Errorf("unexpected identity: %s %s", c.NodeName(), c.NodeURL())
	}
	if c.ethClient != nil || c.rpcClient != nil {
		t.Errorf("client connected eagerly")
	}
}
