package service

import (
	"fmt"
	"strings"

	"github.com/storefront-next/internal/models"

	validatorv10 "github.com/go-playground/validator/v10"
)

// newValidator 返回注册了结构级校验的 validator
func newValidator() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterStructValidation(orderDraftStructValidation, models.OrderDraft{})
	return v
}

// orderDraftStructValidation 同一草稿内商品不可重复
func orderDraftStructValidation(sl validatorv10.StructLevel) {
	draft := sl.Current().Interface().(models.OrderDraft)
	seen := make(map[uint]struct{}, len(draft.Products))
	for _, item := range draft.Products {
		if _, ok := seen[item.ProductID]; ok {
			sl.ReportError(draft.Products, "products", "Products", "unique_product", fmt.Sprint(item.ProductID))
			return
		}
		seen[item.ProductID] = struct{}{}
	}
}

// validationMessage 汇总校验错误
func validationMessage(err error) string {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s:%s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func validateStruct(v *validatorv10.Validate, target error, value interface{}) error {
	if err := v.Struct(value); err != nil {
		return fmt.Errorf("%w: %s", target, validationMessage(err))
	}
	return nil
}
