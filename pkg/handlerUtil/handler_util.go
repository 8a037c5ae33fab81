package handlerUtil

import (
	"testa/internal/api/auth"
	"testa/internal/api/exam"
	"testa/internal/api/verification"
	"testa/pkg/log"
	"testa/pkg/response"

	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	// Auth domain errors
	if errors.Is(err, auth.ErrUserNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("User not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
			"code":    "USER_NOT_FOUND",
		})
	}

	if errors.Is(err, auth.ErrInvalidUserCredentials) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid user credentials")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user credentials",
			"code":    "INVALID_CREDENTIALS",
		})
	}

	if errors.Is(err, auth.ErrEmailAlreadyExists) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Email already exists")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "User with this email already exists",
			"code":    "EMAIL_ALREADY_EXISTS",
		})
	}

	if errors.Is(err, auth.ErrICANNumberAlreadyExists) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("ICAN number already exists")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "User with this ican number already exists",
			"code":    "ICAN_NUMBER_ALREADY_EXISTS",
		})
	}

	if errors.Is(err, auth.ErrorRefreshTokenExpired) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Refresh token expired")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Refresh token expired",
			"code":    "REFRESH_TOKEN_EXPIRED",
		})
	}

	if errors.Is(err, auth.ErrorInvalidToken) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid token")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid token",
			"code":    "INVALID_TOKEN",
		})
	}

	if errors.Is(err, auth.ErrNotAuthorized) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Not authorized")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "The user does not have adequate permissions",
		})
	}

	if errors.Is(err, auth.ErrInvalidFileType) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid file type")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file type. Only images are allowed.",
		})
	}

	if errors.Is(err, auth.ErrFileTooLarge) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("File too large")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File too large. Maximum size is 5MB.",
		})
	}

	if errors.Is(err, auth.ErrFailedToUploadFile) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Failed to upload file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload file",
		})
	}

	// Exam domain errors
	if errors.Is(err, exam.ErrPaperNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Paper not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Paper not found",
		})
	}

	if errors.Is(err, exam.ErrExamNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Exam not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Exam not found",
		})
	}

	if errors.Is(err, exam.ErrPaperTitleExists) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Paper title already exists")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A paper with this title already exists.",
		})
	}

	if errors.Is(err, exam.ErrActiveSessionExists) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Active exam session already exists")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You already have an active session for this exam.",
		})
	}

	if errors.Is(err, exam.ErrSessionNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Active exam session not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Active exam session not found.",
		})
	}

	if errors.Is(err, exam.ErrVerificationRequired) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Verification required before starting exam")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Identity verification required before starting this exam",
		})
	}

	// Verification domain errors
	if errors.Is(err, verification.ErrMissingReferencePortrait) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("User has no reference portrait")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No reference portrait on file",
		})
	}

	if errors.Is(err, verification.ErrReferenceUnreachable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Reference portrait could not be loaded")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Reference image could not be loaded",
		})
	}

	if errors.Is(err, verification.ErrReferenceUnreadable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Reference portrait could not be processed")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Reference image could not be processed",
		})
	}

	if errors.Is(err, verification.ErrNoFaceInReference) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("No face in reference portrait")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "No face found in the reference image",
		})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
