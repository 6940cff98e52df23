package core_test

import (
	"testing"

	. "synnergy-network/core"
)

func TestRetryable(t *testing.T) {
	retryable := []error{ErrRemote, ErrThreshold, ErrRootMismatch}
	for _, err := range retryable {
		if !Retryable(err) {
			t.Errorf("expected %v to be retryable", err)
		}
	}

	terminal := []error{ErrCodec, ErrProof, ErrMalformedSwap, ErrNotFound, ErrInvalidState, ErrExpired}
	for _, err := range terminal {
		if Retryable(err) {
			t.Errorf("expected %v to not be retryable", err)
		}
	}
}
