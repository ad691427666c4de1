package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/m2m-server/internal/model"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{model.ErrNotFound, codes.NotFound},
	{model.ErrUnauthenticated, codes.Unauthenticated},
	{model.ErrInvalidCode, codes.InvalidArgument},
	{model.ErrNameRequired, codes.InvalidArgument},
	{model.ErrInvalidEmail, codes.InvalidArgument},
	{model.ErrInvalidDate, codes.InvalidArgument},
	{model.ErrInvalidLocation, codes.InvalidArgument},
	{model.ErrInvalidImage, codes.InvalidArgument},
	{model.ErrCommentRequired, codes.InvalidArgument},
	{model.ErrEndBeforeStart, codes.InvalidArgument},
	{model.ErrHolidayLeadTime, codes.InvalidArgument},
	{model.ErrMissingFields, codes.InvalidArgument},
	{model.ErrInvalidExpression, codes.InvalidArgument},
	{model.ErrInvalidTransition, codes.FailedPrecondition},
	{model.ErrChecklistIncomplete, codes.FailedPrecondition},
	{model.ErrRequestAlreadySent, codes.FailedPrecondition},
	{model.ErrNoGiftCard, codes.FailedPrecondition},
	{model.ErrEmailRequired, codes.FailedPrecondition},
	{model.ErrMailNotSent, codes.Unavailable},
}

func handleError(err error) error {
	if st, ok := status.FromError(err); ok {
		return st.Err()
	}

	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, e.err.Error())
		}
	}

	return status.Error(codes.Internal, "internal server error")
}
