package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorString() {
	s.Run("message wins over code", func() {
		err := &Error{Code: CodeAlreadySettled, Message: "payment already made for this due"}
		s.Equal("payment already made for this due", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeAlreadySettled}
		s.Equal("already_settled", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	a := &Error{Code: CodeNotFound, Message: "tenant not found"}
	b := &Error{Code: CodeNotFound, Message: "payment due not found"}
	s.True(errors.Is(a, b))
	s.False(errors.Is(a, &Error{Code: CodeForbidden}))
	s.False(errors.Is(a, errors.New("not found")))

	wrapped := &Error{Code: CodeInternal, Message: "settle", Err: a}
	s.True(errors.Is(wrapped, &Error{Code: CodeNotFound}))
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps the code of a wrapped domain error", func() {
		inner := New(CodeAlreadySettled, "payment already made for this due")
		err := Wrap(inner, CodeInternal, "settle payment")

		var de *Error
		s.Require().True(errors.As(err, &de))
		s.Equal(CodeAlreadySettled, de.Code)
		s.Equal("settle payment", de.Message)
	})

	s.Run("keeps validation fields", func() {
		inner := Validation("invalid payment issue", map[string]string{"amount": "must be positive"})
		err := Wrap(inner, CodeInternal, "create issue")

		var de *Error
		s.Require().True(errors.As(err, &de))
		s.Equal(CodeValidation, de.Code)
		s.Equal("must be positive", de.Fields["amount"])
	})

	s.Run("uses the given code for plain errors", func() {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "list payments")

		s.True(HasCode(err, CodeInternal))
		s.True(errors.Is(err, cause))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.True(HasCode(New(CodeForbidden, "only estate admins can issue payments"), CodeForbidden))
	s.False(HasCode(New(CodeForbidden, "x"), CodeUnauthorized))
	s.False(HasCode(errors.New("plain"), CodeForbidden))
	s.False(HasCode(nil, CodeForbidden))
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeNotFound, CodeOf(Wrap(New(CodeNotFound, "tenant not found"), CodeInternal, "get tenant")))
	s.Equal(CodeInternal, CodeOf(errors.New("plain")))
	s.True(CodeOf(errors.New("plain")).ServerFault())
	s.True(CodeTimeout.ServerFault())
	s.False(CodeAlreadySettled.ServerFault())
}

func (s *DomainErrorsSuite) TestFieldsOf() {
	err := Wrap(Validation("invalid request", map[string]string{"month": "must be between 1 and 12"}), CodeInternal, "monthly summary")
	s.Equal("must be between 1 and 12", FieldsOf(err)["month"])
	s.Nil(FieldsOf(errors.New("plain")))
	s.True(IsDomain(err))
	s.False(IsDomain(errors.New("plain")))
}
