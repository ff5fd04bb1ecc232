package requests

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxThreadIDLength = 128

// RegisterValidators installs custom binding rules on gin's validator engine.
// Called once at server construction.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("threadid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if strings.TrimSpace(id) == "" || len(id) > maxThreadIDLength {
			return false
		}
		return !strings.Contains(id, "\x00")
	})
}
