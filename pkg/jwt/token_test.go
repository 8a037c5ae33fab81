package jwtPkg

import (
	"testing"
	"time"
)

func userClaims() map[string]interface{} {
	return map[string]interface{}{
		"id":       "01J0TESTUSER",
		"email":    "student@example.com",
		"is_admin": false,
	}
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv(AccessTokenSecretEnv, "access-secret")

	tokenString, expiredAt, err := Sign(userClaims(), time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if tokenString == "" {
		t.Fatal("Sign returned an empty token")
	}
	if remaining := time.Until(time.Unix(expiredAt, 0)); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("expiry %v away; want about an hour", remaining)
	}

	token, err := VerifyTokenString(tokenString, AccessTokenSecretEnv)
	if err != nil {
		t.Fatalf("VerifyTokenString: %v", err)
	}

	user, err := UserFromClaims(token)
	if err != nil {
		t.Fatalf("UserFromClaims: %v", err)
	}
	if user.ID != "01J0TESTUSER" || user.Email != "student@example.com" || user.IsAdmin {
		t.Errorf("user = %+v", user)
	}
}

func TestVerifyTokenStringWrongSecret(t *testing.T) {
	t.Setenv(AccessTokenSecretEnv, "access-secret")
	t.Setenv(RefreshTokenSecretEnv, "refresh-secret")

	tokenString, _, err := Sign(userClaims(), time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	// An access token must not verify against the refresh secret.
	if _, err := VerifyTokenString(tokenString, RefreshTokenSecretEnv); err == nil {
		t.Error("token signed with the access secret verified against the refresh secret")
	}
}

func TestVerifyTokenStringExpired(t *testing.T) {
	t.Setenv(AccessTokenSecretEnv, "access-secret")

	tokenString, _, err := Sign(userClaims(), -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := VerifyTokenString(tokenString, AccessTokenSecretEnv); err == nil {
		t.Error("expired token verified")
	}
}

func TestSignWithoutSecret(t *testing.T) {
	t.Setenv(AccessTokenSecretEnv, "")

	if _, _, err := Sign(userClaims(), time.Hour); err == nil {
		t.Error("Sign succeeded without a configured secret")
	}
}

func TestUserFromClaimsAdminFlag(t *testing.T) {
	t.Setenv(AccessTokenSecretEnv, "access-secret")

	claims := userClaims()
	claims["is_admin"] = true

	tokenString, _, err := Sign(claims, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	token, err := VerifyTokenString(tokenString, AccessTokenSecretEnv)
	if err != nil {
		t.Fatalf("VerifyTokenString: %v", err)
	}

	user, err := UserFromClaims(token)
	if err != nil {
		t.Fatalf("UserFromClaims: %v", err)
	}
	if !user.IsAdmin {
		t.Error("IsAdmin = false; want true")
	}
}

func TestUserFromClaimsMissingFields(t *testing.T) {
	t.Setenv(AccessTokenSecretEnv, "access-secret")

	tokenString, _, err := Sign(map[string]interface{}{"id": "01J0TESTUSER"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	token, err := VerifyTokenString(tokenString, AccessTokenSecretEnv)
	if err != nil {
		t.Fatalf("VerifyTokenString: %v", err)
	}

	if _, err := UserFromClaims(token); err == nil {
		t.Error("claims without an email produced a user")
	}
}
