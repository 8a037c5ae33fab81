package exam

import (
	"net/http"
	"testa/pkg/response"
)

var (
	ErrPaperNotFound        = response.NewError(http.StatusNotFound, "paper not found")
	ErrPaperTitleExists     = response.NewError(http.StatusConflict, "a paper with this title already exists")
	ErrExamNotFound         = response.NewError(http.StatusNotFound, "exam not found")
	ErrActiveSessionExists  = response.NewError(http.StatusBadRequest, "an active session for this exam already exists")
	ErrSessionNotFound      = response.NewError(http.StatusNotFound, "active exam session not found")
	ErrVerificationRequired = response.NewError(http.StatusForbidden, "identity verification required")
)
