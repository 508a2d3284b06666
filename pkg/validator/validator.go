package validator

import (
	"reflect"
	"sync"

	"github.com/haierkeys/objective-share-service/pkg/util"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CustomValidator gin 的验证引擎，额外注册 share_role / resource_id 标签
type CustomValidator struct {
	once     sync.Once
	validate *validator.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 只校验 struct（及其指针），其他类型直接放行
func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New()
		v.validate.SetTagName("binding")
		RegisterCustom(v.validate)
	})
}

// RegisterCustom 注册业务校验标签
func RegisterCustom(validate *validator.Validate) {
	_ = validate.RegisterValidation("share_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "viewer", "editor":
			return true
		}
		return false
	})
	_ = validate.RegisterValidation("resource_id", func(fl validator.FieldLevel) bool {
		return util.IsValidResourceID(fl.Field().String())
	})
	_ = validate.RegisterValidation("share_action", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", "view", "comment", "edit":
			return true
		}
		return false
	})
}
