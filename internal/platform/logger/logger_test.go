package logger

import "testing"

func TestSanitizeKVsRedactsSecretsAndHashesCustomers(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"advisory_api_key", "sk-live-123",
		"customer_id", "5f1c",
		"product_id", "p-1",
	})
	if len(out) != 6 {
		t.Fatalf("len: want=6 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api key: want=[REDACTED] got=%v", out[1])
	}
	hashed, _ := out[3].(string)
	if len(hashed) != len("hash:")+12 || hashed[:5] != "hash:" {
		t.Fatalf("customer_id: unexpected hash %q", hashed)
	}
	if out[5] != "p-1" {
		t.Fatalf("product_id: want=p-1 got=%v", out[5])
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"strategy", "match_offer", "orphan"})
	if len(out) != 3 || out[2] != "orphan" {
		t.Fatalf("unexpected output: %v", out)
	}
}
