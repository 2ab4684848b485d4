package cryptofolio

import "testing"

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		money Money
		want  string
	}{
		{money: M(64000.5, "USD"), want: "$64,000.50"},
		{money: M(0.129, "usd"), want: "$0.13"},
		{money: M(-1234.5, "USD"), want: "-$1,234.50"},
		{money: M(0.00012345, "DOGE"), want: "0.00012345 DOGE"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.money.String(); got != tc.want {
				t.Errorf("%#v.String() = %q, want %q", tc.money, got, tc.want)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	for _, s := range []string{"1.5", "-0.25", "100"} {
		if _, err := ParseQuantity(s); err != nil {
			t.Errorf("ParseQuantity(%q) unexpected error: %v", s, err)
		}
	}
	for _, s := range []string{"", "NaN", "Inf", "1,5", "abc"} {
		if _, err := ParseQuantity(s); err == nil {
			t.Errorf("ParseQuantity(%q) expected an error", s)
		}
	}
}
