package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
	"github.com/Gunvolt24/orders_ingest/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder: базовая (sentinel) ошибка валидации тела заказа.
var ErrInvalidOrder = errors.New("order validation failed")

// OrderValidator проверяет схему тела заказа по тегам `validate`.
type OrderValidator struct {
	v *validator.Validate
}

// NewOrderValidator: конструктор. Имена полей в ошибках берутся из json-тегов.
func NewOrderValidator() *OrderValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &OrderValidator{v: v}
}

// Validate возвращает ErrInvalidOrder с причиной, если тело не проходит схему.
func (ov *OrderValidator) Validate(ctx context.Context, in *domain.OrderInput) error {
	if in == nil {
		return fmt.Errorf("%w: body is required", ErrInvalidOrder)
	}
	if err := ov.v.StructCtx(ctx, in); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOrder, describe(err))
	}
	return nil
}

// describe переводит ошибки validator в короткий текст вида "orderId: field required".
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+": field required")
		default:
			parts = append(parts, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}
