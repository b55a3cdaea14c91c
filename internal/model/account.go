package model

// Account is the remote account behind the admin session.
type Account struct {
	ID               string `json:"$id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	EmailVerified    bool   `json:"emailVerification"`
	Status           bool   `json:"status"`
	RegistrationDate string `json:"registration,omitempty"`
}

// RemoteSession is returned by the remote account service on login.
type RemoteSession struct {
	ID       string `json:"$id"`
	UserID   string `json:"userId"`
	Secret   string `json:"secret"`
	Expire   string `json:"expire"`
	Provider string `json:"provider"`
}

type UpdatePasswordRequest struct {
	Password    string `json:"password" binding:"required,min=8"`
	OldPassword string `json:"oldPassword" binding:"required"`
}
