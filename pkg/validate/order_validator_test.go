package validate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
	"github.com/Gunvolt24/orders_ingest/pkg/validate"
)

func TestOrderValidator_Validate(t *testing.T) {
	v := validate.NewOrderValidator()
	ctx := context.Background()

	t.Run("valid input", func(t *testing.T) {
		if err := v.Validate(ctx, &domain.OrderInput{OrderID: "A100"}); err != nil {
			t.Fatalf("expected valid input, got: %v", err)
		}
	})

	cases := []struct {
		name string
		in   *domain.OrderInput
		msg  string
	}{
		{"nil input", nil, "body is required"},
		{"empty orderId", &domain.OrderInput{}, "orderId: field required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(ctx, tc.in)
			if !errors.Is(err, validate.ErrInvalidOrder) {
				t.Fatalf("want ErrInvalidOrder, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("error %q must contain %q", err.Error(), tc.msg)
			}
		})
	}
}
