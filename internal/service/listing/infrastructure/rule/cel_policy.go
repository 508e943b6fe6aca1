// internal/service/listing/infrastructure/rule/cel_policy.go
package rule

import (
	"time"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

const dateLayout = "2006-01-02"

// CELPolicy is the port.VisibilityPolicy backed by a CEL expression over
// `listing` (a map of the listing's fields) and `today` (YYYY-MM-DD).
type CELPolicy struct {
	expr string
	prg  cel.Program
}

func NewCELPolicy(expr string) (*CELPolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("listing", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("today", cel.StringType),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(iss.Err(), "compile visibility rule %q", expr)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "build visibility rule")
	}
	return &CELPolicy{expr: expr, prg: prg}, nil
}

func (p *CELPolicy) Visible(l *domain.Listing, today time.Time) (bool, error) {
	out, _, err := p.prg.Eval(map[string]interface{}{
		"listing": facts(l),
		"today":   today.Format(dateLayout),
	})
	if err != nil {
		return false, errors.Wrapf(err, "evaluate visibility rule for listing %s", l.ID)
	}
	visible, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("visibility rule %q returned %T, want bool", p.expr, out.Value())
	}
	return visible, nil
}

func facts(l *domain.Listing) map[string]interface{} {
	expiresOn := ""
	if l.ExpiresOn != nil {
		expiresOn = l.ExpiresOn.Format(dateLayout)
	}
	return map[string]interface{}{
		"id":          l.ID,
		"status":      string(l.Status),
		"featured":    l.Featured,
		"category":    l.Category,
		"subcategory": l.Subcategory,
		"owner_email": l.OwnerEmail,
		"owner_type":  l.OwnerType,
		"price":       l.Price,
		"has_expiry":  l.ExpiresOn != nil,
		"expires_on":  expiresOn,
	}
}
