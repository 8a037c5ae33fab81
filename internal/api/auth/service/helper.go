package authService

import (
	"testa/internal/api/auth"
	"testa/internal/entity"
)

func MakeUserData(user entity.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	}
}

func MakeUserResponse(user entity.User) auth.UserResponse {
	return auth.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		AvatarURL:   user.AvatarURL,
		PhoneNumber: user.PhoneNumber,
		ICANNumber:  user.ICANNumber,
		IsActive:    user.IsActive,
		IsAdmin:     user.IsAdmin,
		IsVerified:  user.IsVerified,
		CreatedAt:   user.CreatedAt,
	}
}

// GetUserDifferenceData overlays the fields a profile update is allowed to
// change on top of the stored user.
func GetUserDifferenceData(DbUser entity.User, NewUser auth.UpdateUserRequest) entity.User {
	result := DbUser

	if NewUser.FirstName != "" && NewUser.FirstName != DbUser.FirstName {
		result.FirstName = NewUser.FirstName
	}

	if NewUser.LastName != "" && NewUser.LastName != DbUser.LastName {
		result.LastName = NewUser.LastName
	}

	if NewUser.PhoneNumber != "" && NewUser.PhoneNumber != DbUser.PhoneNumber {
		result.PhoneNumber = NewUser.PhoneNumber
	}

	result.IsVerified = DbUser.IsVerified

	return result
}
