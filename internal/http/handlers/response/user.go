package response

import (
	"inboxflow/internal/core/domain/user"
	"strconv"
)

// User is the public representation of a user, the password hash is never rendered.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = strconv.FormatInt(int64(du.ID), 10)
	u.Email = string(du.Email)
	u.Username = string(du.Username)
	u.Name = du.Name
}

type UserResult struct {
	User User `json:"user"`
}

func NewUserResult(du user.User) UserResult {
	result := UserResult{}
	result.User.FromDomainUser(du)
	return result
}
