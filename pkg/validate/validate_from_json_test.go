package validate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidateOrderFromJSON_OK(t *testing.T) {
	in, err := ValidateOrderFromJSON(context.Background(), NewOrderValidator(), []byte(`{"orderId":"A100"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.OrderID != "A100" {
		t.Fatalf("unexpected orderId: %s", in.OrderID)
	}
}

func TestValidateOrderFromJSON_UnknownFieldsIgnored(t *testing.T) {
	in, err := ValidateOrderFromJSON(context.Background(), NewOrderValidator(), []byte(`{"orderId":"A1","note":"x"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.OrderID != "A1" {
		t.Fatalf("unexpected orderId: %s", in.OrderID)
	}
}

func TestValidateOrderFromJSON_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		msg  string
	}{
		{"empty body", "", "body is required"},
		{"whitespace body", "  \n", "body is required"},
		{"missing field", `{}`, "orderId: field required"},
		{"null field", `{"orderId":null}`, "orderId: field required"},
		{"empty string", `{"orderId":""}`, "orderId: field required"},
		{"number instead of string", `{"orderId":42}`, "orderId: expected string, got number"},
		{"array body", `[]`, "body: expected object, got array"},
		{"broken json", `{"orderId":`, "invalid json"},
		{"trailing data", `{"orderId":"A"} {"orderId":"B"}`, "trailing data"},
		{"upper-case key", `{"ORDERID":"A"}`, "orderId: field required"},
		{"lower-case key", `{"orderid":"A"}`, "orderId: field required"},
		{"pascal-case key", `{"OrderId":"A"}`, "orderId: field required"},
		{"invalid utf-8", "{\"orderId\":\"A\xff\"}", "not valid utf-8"},
	}

	v := NewOrderValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateOrderFromJSON(context.Background(), v, []byte(tc.raw))
			if !errors.Is(err, ErrInvalidOrder) {
				t.Fatalf("want ErrInvalidOrder, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("error %q must contain %q", err.Error(), tc.msg)
			}
		})
	}
}

// DecodeOrderInput не проверяет обязательные поля: это делает валидатор.
func TestDecodeOrderInput_NoRequiredCheck(t *testing.T) {
	in, err := DecodeOrderInput([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.OrderID != "" {
		t.Fatalf("unexpected orderId: %q", in.OrderID)
	}

	if _, err := DecodeOrderInput([]byte(`{"orderId":true}`)); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}
