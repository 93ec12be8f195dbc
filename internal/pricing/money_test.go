package pricing

import "testing"

func TestFormatNaira(t *testing.T) {
	cases := map[float64]string{
		0:       "₦0",
		500:     "₦500",
		1000:    "₦1,000",
		109500:  "₦109,500",
		1250000: "₦1,250,000",
		99999.6: "₦100,000",
		-2500:   "-₦2,500",
	}
	for in, want := range cases {
		if got := FormatNaira(in); got != want {
			t.Fatalf("FormatNaira(%v): want=%s got=%s", in, want, got)
		}
	}
}

func TestMeanOfRoundsToKobo(t *testing.T) {
	if got := meanOf([]float64{100, 100, 101}); got != 100.33 {
		t.Fatalf("meanOf: want=100.33 got=%v", got)
	}
	if got := meanOf(nil); got != 0 {
		t.Fatalf("meanOf(nil): want=0 got=%v", got)
	}
}
