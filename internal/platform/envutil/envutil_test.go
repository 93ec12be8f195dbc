package envutil

import (
	"testing"
	"time"
)

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	t.Setenv("ADVISORY_TIMEOUT", "12")
	if got := Duration("ADVISORY_TIMEOUT", time.Second); got != 12*time.Second {
		t.Fatalf("bare int: want=12s got=%s", got)
	}
	t.Setenv("ADVISORY_TIMEOUT", "1500ms")
	if got := Duration("ADVISORY_TIMEOUT", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("go syntax: want=1.5s got=%s", got)
	}
	t.Setenv("ADVISORY_TIMEOUT", "soon")
	if got := Duration("ADVISORY_TIMEOUT", time.Second); got != time.Second {
		t.Fatalf("invalid: want default got=%s", got)
	}
}

func TestFloatAndBoolFallBackToDefault(t *testing.T) {
	t.Setenv("LADDER_COUNTER_BAND", "abc")
	if got := Float("LADDER_COUNTER_BAND", 0.9); got != 0.9 {
		t.Fatalf("Float: want=0.9 got=%v", got)
	}
	t.Setenv("METRICS_ENABLED", "maybe")
	if got := Bool("METRICS_ENABLED", true); !got {
		t.Fatalf("Bool: want default true")
	}
	t.Setenv("METRICS_ENABLED", "off")
	if got := Bool("METRICS_ENABLED", true); got {
		t.Fatalf("Bool: want false for off")
	}
}
