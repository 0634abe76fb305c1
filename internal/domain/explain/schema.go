package explain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const MsgTextRequired = "Text prompt is required"

// ValidationError reports the first schema violation of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// messages by field and failed rule
var messages = map[string]map[string]string{
	"text": {
		"required": MsgTextRequired,
	},
	"data": {
		"min": "Image upload is empty",
	},
	"mimeType": {
		"required":   "Image media type is required",
		"startswith": "Only image uploads are supported",
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks r against the request schema.
func Validate(r ExplainRequest) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "request", Message: "Invalid request"}
	}

	fe := verrs[0]
	msg, ok := messages[fe.Field()][fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("Invalid %s", fe.Field())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
