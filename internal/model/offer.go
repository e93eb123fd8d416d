package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Offer describes the product being sold. IdealUseCases doubles as the list
// of ICP industry labels.
type Offer struct {
	Name          string   `json:"name" yaml:"name" validate:"required"`
	ValueProps    []string `json:"value_props" yaml:"value_props" validate:"required,min=1"`
	IdealUseCases []string `json:"ideal_use_cases" yaml:"ideal_use_cases" validate:"required,min=1"`
}

// fieldNames maps struct fields to their wire names for error messages.
var fieldNames = map[string]string{
	"Name":          "name",
	"ValueProps":    "value_props",
	"IdealUseCases": "ideal_use_cases",
}

// Validate checks that name, value_props and ideal_use_cases are all present
// and non-empty. The returned error lists every missing field.
func (o Offer) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !eris.As(err, &verrs) {
		return eris.Wrap(err, "offer: validate")
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name, ok := fieldNames[fe.StructField()]
		if !ok {
			name = fe.Field()
		}
		missing = append(missing, name)
	}
	return eris.Errorf("offer: missing or empty %s", strings.Join(missing, ", "))
}

// Clone returns a deep copy so callers can hold a snapshot that later
// submissions cannot mutate.
func (o Offer) Clone() Offer {
	return Offer{
		Name:          o.Name,
		ValueProps:    append([]string(nil), o.ValueProps...),
		IdealUseCases: append([]string(nil), o.IdealUseCases...),
	}
}
