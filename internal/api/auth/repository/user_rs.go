package authRepository

import (
	"testa/internal/api/auth"
	"testa/internal/entity"
	contextPkg "testa/pkg/context"

	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type UserDB struct {
	ID          sql.NullString `db:"id"`
	Email       sql.NullString `db:"email"`
	Password    sql.NullString `db:"password"`
	FirstName   sql.NullString `db:"first_name"`
	LastName    sql.NullString `db:"last_name"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	PhoneNumber sql.NullString `db:"phone_number"`
	ICANNumber  sql.NullString `db:"ican_number"`
	IsActive    bool           `db:"is_active"`
	IsAdmin     bool           `db:"is_admin"`
	IsVerified  bool           `db:"is_verified"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

func (r *userRepository) CreateUser(c context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":           user.ID,
		"email":        user.Email,
		"password":     user.Password,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"phone_number": user.PhoneNumber,
		"ican_number":  user.ICANNumber,
		"is_active":    user.IsActive,
		"is_admin":     user.IsAdmin,
		"is_verified":  user.IsVerified,
		"created_at":   time.Now(),
		"updated_at":   time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateUser")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "users_email_key" {
					r.log.WithFields(logrus.Fields{
						"request_id": requestID,
						"error":      err.Error(),
					}).Warn("Email already exists")
					return auth.ErrEmailAlreadyExists
				}
				if pqErr.Constraint == "users_ican_number_key" {
					r.log.WithFields(logrus.Fields{
						"request_id": requestID,
						"error":      err.Error(),
					}).Warn("ICAN number already exists")
					return auth.ErrICANNumberAlreadyExists
				}
			}
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating user")

		return err
	}

	return nil
}

func (r *userRepository) GetByID(c context.Context, id string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(c)
	var user UserDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.User{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetByID no rows found")
			return entity.User{}, auth.ErrUserNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.User{}, err
	}

	return r.makeUser(user), nil
}

func (r *userRepository) GetByEmail(c context.Context, email string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(c)
	var user UserDB

	argsKV := map[string]interface{}{
		"email": email,
	}

	query, args, err := sqlx.Named(queryGetByEmail, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByEmail named query preparation err")
		return entity.User{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetByEmail no rows found")
			return entity.User{}, auth.ErrUserNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByEmail execution err")
		return entity.User{}, err
	}

	return r.makeUser(user), nil
}

func (r *userRepository) UpdateUser(c context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":           user.ID,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"phone_number": user.PhoneNumber,
		"updated_at":   time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateUser named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateUser execution err")
		return err
	}

	return nil
}

func (r *userRepository) UpdateAvatar(c context.Context, id string, avatarURL string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         id,
		"avatar_url": avatarURL,
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateAvatar, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateAvatar named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateAvatar execution err")
		return err
	}

	return nil
}

func (r *userRepository) UpdateVerified(c context.Context, id string, verified bool) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":          id,
		"is_verified": verified,
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateVerified, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateVerified named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateVerified execution err")
		return err
	}

	return nil
}

func (r *userRepository) DeleteUser(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteUser named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteUser execution err")
		return err
	}

	return nil
}

func (r *userRepository) makeUser(user UserDB) entity.User {
	return entity.User{
		ID:          user.ID.String,
		Email:       user.Email.String,
		Password:    user.Password.String,
		FirstName:   user.FirstName.String,
		LastName:    user.LastName.String,
		AvatarURL:   user.AvatarURL.String,
		PhoneNumber: user.PhoneNumber.String,
		ICANNumber:  user.ICANNumber.String,
		IsActive:    user.IsActive,
		IsAdmin:     user.IsAdmin,
		IsVerified:  user.IsVerified,
		CreatedAt:   user.CreatedAt.Time,
		UpdatedAt:   user.UpdatedAt.Time,
	}
}
