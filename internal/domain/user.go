package domain

import "context"

type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username  string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	FirstName string `gorm:"column:first_name;not null" json:"firstName"`
	LastName  string `gorm:"column:last_name;not null" json:"lastName"`
	Password  string `gorm:"size:255;not null" json:"-"`
}

func (User) TableName() string { return "users" }

// PublicUser 对外返回的字段（不含 id / password）
type PublicUser struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindConflict 查 email 或 username 撞库的行；excludeID 非空时排除该行（编辑场景）
	FindConflict(ctx context.Context, email, username string, excludeID *uint) (*User, error)
	Update(ctx context.Context, u *User) error
}
