package bcrypt

import "golang.org/x/crypto/bcrypt"

// IBcrypt hashes account passwords at registration and checks them at
// login. Hashes carry their cost, so the cost can be raised later without
// invalidating stored credentials.
type IBcrypt interface {
	HashPassword(password string) (string, error)
	ComparePassword(hashPassword string, password string) error
}

type bcryptService struct {
	cost int
}

func New() IBcrypt {
	return NewWithCost(bcrypt.DefaultCost)
}

// NewWithCost exists for tests, which hash with bcrypt.MinCost to keep
// them fast.
func NewWithCost(cost int) IBcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptService{cost: cost}
}

func (b *bcryptService) HashPassword(password string) (string, error) {
	result, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func (b *bcryptService) ComparePassword(hashPassword string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashPassword), []byte(password))
}
