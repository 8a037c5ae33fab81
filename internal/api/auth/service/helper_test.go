package authService

import (
	"testa/internal/api/auth"
	"testa/internal/entity"

	"testing"
)

func TestGetUserDifferenceData(t *testing.T) {
	stored := entity.User{
		ID:          "01J0TESTUSER",
		Email:       "student@example.com",
		FirstName:   "Ada",
		LastName:    "Okafor",
		PhoneNumber: "+2348000000000",
		ICANNumber:  "ICAN-12345",
		IsActive:    true,
		IsVerified:  true,
	}

	tests := []struct {
		name string
		req  auth.UpdateUserRequest
		want entity.User
	}{
		{
			name: "empty request changes nothing",
			req:  auth.UpdateUserRequest{},
			want: stored,
		},
		{
			name: "first name only",
			req:  auth.UpdateUserRequest{FirstName: "Amara"},
			want: func() entity.User {
				u := stored
				u.FirstName = "Amara"
				return u
			}(),
		},
		{
			name: "all editable fields",
			req: auth.UpdateUserRequest{
				FirstName:   "Amara",
				LastName:    "Eze",
				PhoneNumber: "+2348111111111",
			},
			want: func() entity.User {
				u := stored
				u.FirstName = "Amara"
				u.LastName = "Eze"
				u.PhoneNumber = "+2348111111111"
				return u
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := GetUserDifferenceData(stored, tc.req)
			if got != tc.want {
				t.Errorf("got %+v; want %+v", got, tc.want)
			}

			// Immutable fields never move through a profile update.
			if got.Email != stored.Email || got.ICANNumber != stored.ICANNumber || got.IsVerified != stored.IsVerified {
				t.Errorf("immutable field changed: %+v", got)
			}
		})
	}
}

func TestMakeUserResponseOmitsPassword(t *testing.T) {
	user := entity.User{
		ID:       "01J0TESTUSER",
		Email:    "student@example.com",
		Password: "$2a$10$hash",
	}

	resp := MakeUserResponse(user)
	if resp.ID != user.ID || resp.Email != user.Email {
		t.Errorf("resp = %+v", resp)
	}
}

func TestMakeUserData(t *testing.T) {
	user := entity.User{ID: "01J0TESTUSER", Email: "student@example.com", IsAdmin: true}

	data := MakeUserData(user)
	if data["id"] != user.ID || data["email"] != user.Email || data["is_admin"] != true {
		t.Errorf("data = %v", data)
	}
}
