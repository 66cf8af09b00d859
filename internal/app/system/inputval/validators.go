package inputval

import (
	"strings"

	"github.com/dalemusser/crccards/internal/app/system/htmlsanitize"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func registerCustomRules(v *validator.Validate) {
	// Registration only fails on an empty tag name or nil func.
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return IsValidObjectID(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("inert", func(fl validator.FieldLevel) bool {
		return !htmlsanitize.HasActiveContent(fl.Field().String())
	})
}

// IsValidObjectID reports whether s is exactly a 24-character hex ObjectID.
// Surrounding whitespace makes it invalid.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// ParseObjectID parses an identifier taken from a path, query parameter or
// body field.
func ParseObjectID(s string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
