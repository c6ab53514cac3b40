package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shamimfewd/job-provider-server/internal/common"
)

var validate = validator.New()

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

func validateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return common.NewError(common.CodeValidation, "invalid request", err)
	}
	fields := map[string]string{}
	for _, fe := range validationErrs {
		fields[strings.ToLower(fe.Field())] = "failed " + fe.Tag() + " validation"
	}
	return common.NewValidationError("invalid request", fields)
}

// idFromPath parses the path segment at the given position (zero-based,
// leading slash skipped) as an ObjectID.
func idFromPath(r *http.Request, position int) (primitive.ObjectID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if position >= len(parts) {
		return primitive.NilObjectID, common.NewError(common.CodeValidation, "missing id", nil)
	}
	id, err := primitive.ObjectIDFromHex(parts[position])
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.CodeValidation, "invalid id", err)
	}
	return id, nil
}

func emailFromPath(r *http.Request, position int) (string, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if position >= len(parts) || parts[position] == "" {
		return "", common.NewError(common.CodeValidation, "missing email", nil)
	}
	return parts[position], nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "unauthorized access", nil)
}
