package domain

import (
	"errors"
	"testing"
)

func TestCommissionRoundsToCents(t *testing.T) {
	cases := []struct {
		fee, rate, want float64
	}{
		{9.90, 0.10, 0.99},
		{19.99, 0.15, 3.00},
		{10, 0.333, 3.33},
		{0, 0.10, 0},
	}
	for _, c := range cases {
		if got := Commission(c.fee, c.rate); got != c.want {
			t.Errorf("Commission(%v, %v) = %v, want %v", c.fee, c.rate, got, c.want)
		}
	}
}

func TestPendingNeverNegative(t *testing.T) {
	p := &Partner{Accumulated: 5.94, Paid: 2.97}
	if got := p.Pending(); got != 2.97 {
		t.Fatalf("pending = %v", got)
	}
	p.Paid = 10
	if got := p.Pending(); got != 0 {
		t.Fatalf("overpaid pending = %v", got)
	}
}

func TestNormalizeGeneratesCode(t *testing.T) {
	p := &Partner{Name: " Lia ", Email: " Lia@X.com "}
	if err := p.Normalize(); err != nil {
		t.Fatal(err)
	}
	if !codePattern.MatchString(p.Code) || p.Email != "lia@x.com" || p.Name != "Lia" {
		t.Fatalf("normalized = %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := p.Link("https://alpha.example/"); got != "https://alpha.example/Cadastro?ref="+p.Code {
		t.Fatalf("link = %s", got)
	}

	bad := &Partner{Name: "Lia", Email: "lia@x.com", Code: "ab-1"}
	_ = bad.Normalize()
	var ve *ValidationError
	if err := bad.Validate(); !errors.As(err, &ve) || ve.Field != "codigo_indicacao" {
		t.Fatalf("bad code = %v", err)
	}
}
