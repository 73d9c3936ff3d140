package chain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrRPCUnavailable marks connection-level failures: refused dials,
	// resets, DNS trouble. Callers decide whether to retry.
	ErrRPCUnavailable = errors.New("rpc endpoint unavailable")

	// ErrRPCTimeout marks a deadline exceeded while waiting on the node.
	ErrRPCTimeout = errors.New("rpc call timed out")
)

// classify wraps an RPC transport error with the matching sentinel so that
// callers can branch with errors.Is without parsing error strings. Errors
// that are neither connectivity nor deadline problems (a revert, a bad
// param) pass through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrRPCTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %s", ErrRPCTimeout, err)
		}
		return fmt.Errorf("%w: %s", ErrRPCUnavailable, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %s", ErrRPCUnavailable, err)
	}
	return err
}
