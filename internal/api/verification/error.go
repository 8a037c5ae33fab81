package verification

import (
	"net/http"
	"testa/pkg/response"
)

var (
	ErrMissingReferencePortrait = response.NewError(http.StatusBadRequest, "user has no reference portrait on file")
	ErrReferenceUnreachable     = response.NewError(http.StatusBadGateway, "reference portrait could not be loaded")
	ErrReferenceUnreadable      = response.NewError(http.StatusUnprocessableEntity, "reference portrait could not be processed")
	ErrNoFaceInReference        = response.NewError(http.StatusUnprocessableEntity, "no face found in the reference portrait")
	ErrInternalServerError      = response.NewError(http.StatusInternalServerError, "internal server error")
)
