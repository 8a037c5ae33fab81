package auth

import (
	"net/http"
	"testa/pkg/response"
)

var (
	ErrEmailAlreadyExists      = response.NewError(http.StatusConflict, "user with this email already exists")
	ErrICANNumberAlreadyExists = response.NewError(http.StatusConflict, "user with this ican number already exists")
	ErrInvalidUserCredentials  = response.NewError(http.StatusBadRequest, "invalid user credentials")
	ErrUserNotFound            = response.NewError(http.StatusNotFound, "user not found")
	ErrorInvalidToken          = response.NewError(http.StatusUnauthorized, "invalid token")
	ErrorRefreshTokenExpired   = response.NewError(http.StatusUnauthorized, "refresh token expired")
	ErrNotAuthorized           = response.NewError(http.StatusForbidden, "not authorized to update this user")
	ErrInvalidFileType         = response.NewError(http.StatusBadRequest, "invalid file type")
	ErrFileTooLarge            = response.NewError(http.StatusBadRequest, "file too large")
	ErrFailedToUploadFile      = response.NewError(http.StatusInternalServerError, "failed to upload file")
)
