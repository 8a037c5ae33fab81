package authRepository

const (
	queryCreateUser = `
INSERT INTO users (id, email, password, first_name, last_name, phone_number, ican_number, is_active, is_admin, is_verified, created_at, updated_at)
VALUES (:id, :email, :password, :first_name, :last_name, :phone_number, :ican_number, :is_active, :is_admin, :is_verified, :created_at, :updated_at)`

	queryGetByID = `
SELECT id, email, password, first_name, last_name, avatar_url, phone_number,
       ican_number, is_active, is_admin, is_verified, created_at, updated_at
FROM users
    WHERE id = :id`

	queryGetByEmail = `
SELECT id, email, password, first_name, last_name, avatar_url, phone_number,
       ican_number, is_active, is_admin, is_verified, created_at, updated_at
FROM users
    WHERE email = :email`

	queryUpdateUser = `
UPDATE users
SET first_name = :first_name,
    last_name = :last_name,
    phone_number = :phone_number,
    updated_at = :updated_at
WHERE id = :id`

	queryUpdateAvatar = `
UPDATE users
SET avatar_url = :avatar_url,
    updated_at = :updated_at
WHERE id = :id`

	queryUpdateVerified = `
UPDATE users
SET is_verified = :is_verified,
    updated_at = :updated_at
WHERE id = :id`

	queryDeleteUser = `
DELETE FROM users
WHERE id = :id`
)
