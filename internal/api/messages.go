package api

import "github.com/nicksnyder/go-i18n/v2/i18n"

var (
	msgInvalidRequestBody = &i18n.Message{ID: "InvalidRequestBody", Other: "Invalid request body."}
	msgValidationFailed   = &i18n.Message{ID: "ValidationFailed", Other: "Validation failed."}
	msgFieldRequired      = &i18n.Message{ID: "FieldRequired", Other: "The '{{.Field}}' field is required."}
	msgFieldEmpty         = &i18n.Message{ID: "FieldEmpty", Other: "The '{{.Field}}' field is not allowed to be empty."}
	msgFieldMustBeString  = &i18n.Message{ID: "FieldMustBeString", Other: "The '{{.Field}}' field must be a string."}
	msgFieldMustBeBoolean = &i18n.Message{ID: "FieldMustBeBoolean", Other: "The '{{.Field}}' field must be a boolean."}
	msgParamMustBeInteger = &i18n.Message{ID: "ParamMustBeInteger", Other: "The url parameter {{.Param}} must be an integer."}
	msgSomethingWentWrong = &i18n.Message{ID: "SomethingWentWrong", Other: "Something went wrong."}
)
