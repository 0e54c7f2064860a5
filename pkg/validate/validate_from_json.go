package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
	"github.com/Gunvolt24/orders_ingest/internal/ports"
)

// ValidateOrderFromJSON разбирает тело заказа и проверяет схему.
// Любая проблема (пустое тело, синтаксис, неверный тип поля, хвост после объекта,
// отсутствие orderId) возвращается как ErrInvalidOrder с причиной.
func ValidateOrderFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) (*domain.OrderInput, error) {
	in, err := DecodeOrderInput(raw)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// DecodeOrderInput: только разбор JSON, без проверки обязательных полей.
// Ключ orderId сравнивается точно (ORDERID, orderid не подходят). Незнакомые поля игнорируются.
func DecodeOrderInput(raw []byte) (*domain.OrderInput, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidOrder)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: body is not valid utf-8", ErrInvalidOrder)
	}

	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: body: expected object, got %s", ErrInvalidOrder, typeErr.Value)
		}
		return nil, fmt.Errorf("%w: invalid json: %v", ErrInvalidOrder, err)
	}
	// после объекта ничего быть не должно
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", ErrInvalidOrder)
	}

	var in domain.OrderInput
	if v, ok := fields[orderIDKey]; ok {
		if err := json.Unmarshal(v, &in.OrderID); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, fmt.Errorf("%w: %s: expected string, got %s", ErrInvalidOrder, orderIDKey, typeErr.Value)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOrder, orderIDKey, err)
		}
	}
	return &in, nil
}

const orderIDKey = "orderId"
