package http

import (
	"errors"
	"log"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/schooldesk/internal/entities"
)

var registerValidationsOnce sync.Once

// registerValidations installs the custom binding tags on gin's validator.
func registerValidations() {
	registerValidationsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Printf("Binding validator is %T, custom validations not registered", binding.Validator.Engine())
			return
		}
		if err := registerAttendanceStatus(v); err != nil {
			log.Printf("Failed to register attendance_status validation: %v", err)
		}
	})
}

func registerAttendanceStatus(v *validator.Validate) error {
	return v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return entities.AttendanceStatus(fl.Field().String()).IsValid()
	})
}

// validationDetails flattens binding errors into field -> failed tag.
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return details
}
