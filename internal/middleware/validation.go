package middleware

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/service/catalog"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator
// and reports fields by their json name.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		for tag, fn := range map[string]validator.Func{
			"webcolor":       validateWebColor,
			"providerstatus": validateProviderStatus,
		} {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
	})
}

func validateWebColor(fl validator.FieldLevel) bool {
	return catalog.IsWebColor(fl.Field().String())
}

func validateProviderStatus(fl validator.FieldLevel) bool {
	_, ok := model.ParseProviderStatus(fl.Field().String())
	return ok
}
