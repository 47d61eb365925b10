package domain

import "testing"

func TestLegalTransitions(t *testing.T) {
	legal := [][2]string{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusFailed},
		{StatusProcessing, StatusCancelled},
		{StatusCompleted, StatusRefunded},
		{StatusCompleted, StatusPartiallyRefunded},
		{StatusPartiallyRefunded, StatusRefunded},
		{StatusPartiallyRefunded, StatusPartiallyRefunded},
	}
	for _, pair := range legal {
		if !CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be legal", pair[0], pair[1])
		}
	}
}

func TestIllegalTransitions(t *testing.T) {
	illegal := [][2]string{
		{StatusFailed, StatusCompleted},
		{StatusFailed, StatusProcessing},
		{StatusCancelled, StatusProcessing},
		{StatusCompleted, StatusCancelled},
		{StatusCompleted, StatusFailed},
		{StatusRefunded, StatusCompleted},
		{StatusPending, StatusCompleted},
		{StatusPending, StatusFailed},
	}
	for _, pair := range illegal {
		if CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be illegal", pair[0], pair[1])
		}
		if err := ValidateTransition(pair[0], pair[1]); err == nil {
			t.Errorf("ValidateTransition(%s, %s) should return an error", pair[0], pair[1])
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []string{StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded, StatusPartiallyRefunded} {
		if !IsTerminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []string{StatusPending, StatusProcessing} {
		if IsTerminal(s) {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}
