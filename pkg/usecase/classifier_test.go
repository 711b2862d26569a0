package usecase

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestClassifierSchemaMarksDomainRequired(t *testing.T) {
	domain := classifierSchema.Properties["domain"]
	gt.Value(t, domain).NotNil().Required()
	gt.Bool(t, domain.Required).True()
}
