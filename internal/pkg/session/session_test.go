package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestRequire(t *testing.T) {
	ctx := context.Background()
	if _, err := Require(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous Require = %v", err)
	}

	resident := &Principal{Email: "ana@x.com", UserType: "morador"}
	ctx = WithPrincipal(ctx, resident)
	if p, err := Require(ctx); err != nil || p != resident {
		t.Fatalf("Require = %v, %v", p, err)
	}
	if _, err := RequireAdmin(ctx); !errors.Is(err, ErrForbidden) {
		t.Fatalf("RequireAdmin for resident = %v", err)
	}

	admin := WithPrincipal(context.Background(), &Principal{Email: "adm@x.com", UserType: UserTypeAdmin})
	if _, err := RequireAdmin(admin); err != nil {
		t.Fatalf("RequireAdmin for admin = %v", err)
	}
}

func TestNeedsProfileCompletion(t *testing.T) {
	cases := []struct {
		name string
		p    Principal
		want bool
	}{
		{"complete", Principal{Phone: "11 99999-0000", Nickname: "Ana"}, false},
		{"missing phone", Principal{Nickname: "Ana"}, true},
		{"missing nickname", Principal{Phone: "1"}, true},
	}
	for _, tc := range cases {
		if got := tc.p.NeedsProfileCompletion(); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestGatewayRegistry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	m := NewManager(rdb, time.Minute)
	ctx := context.Background()

	if node, err := m.GetUserGateway(ctx, "ana@x.com"); err != nil || node != "" {
		t.Fatalf("offline user: %q, %v", node, err)
	}
	if err := m.SetUserGateway(ctx, "ana@x.com", "node-a"); err != nil {
		t.Fatal(err)
	}
	// user reconnected elsewhere; the old node must not erase the new mapping
	if err := m.SetUserGateway(ctx, "ana@x.com", "node-b"); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveUserGateway(ctx, "ana@x.com", "node-a"); err != nil {
		t.Fatal(err)
	}
	if node, _ := m.GetUserGateway(ctx, "ana@x.com"); node != "node-b" {
		t.Fatalf("gateway = %q, want node-b", node)
	}
	if err := m.RemoveUserGateway(ctx, "ana@x.com", "node-b"); err != nil {
		t.Fatal(err)
	}
	if node, _ := m.GetUserGateway(ctx, "ana@x.com"); node != "" {
		t.Fatalf("gateway after removal = %q", node)
	}
}
