package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestBuildWithoutErrors() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("actor_id", "abc", vb)
	errors.ValidateRange("max_depth", 4, 1, 16, vb)
	errors.ValidateEnum("kind", "derived", []string{"derived", "standing"}, vb)

	s.Require().NoError(vb.Build())
}

func (s *ValidationTestSuite) TestBuildCollectsFields() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("actor_id", "   ", vb)
	errors.ValidateRange("max_depth", 0, 1, 16, vb)
	errors.ValidateEnum("kind", "social", []string{"derived", "standing"}, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Equal(
		"INVALID_ARGUMENT: validation failed: actor_id: is required; kind: must be one of: derived, standing; max_depth: must be between 1 and 16",
		err.Error(),
	)

	var e *errors.Error
	s.Require().True(errors.As(err, &e))
	fields, ok := e.Meta["validation_errors"].(map[string][]string)
	s.Require().True(ok)
	s.Assert().Len(fields, 3)
}

func (s *ValidationTestSuite) TestMultipleMessagesPerField() {
	ve := errors.NewValidationError()
	ve.AddFieldError("method", "is required")
	ve.AddFieldError("method", "is reserved")

	s.Assert().Equal("validation failed: method: is required, is reserved", ve.Error())
	s.Assert().Nil(errors.NewValidationError().ToError())
}
