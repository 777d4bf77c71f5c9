package model

import "time"

// User is an account known to the local identity provider. Only the
// bcrypt hash of the password is kept.
//
// Fields:
//  ID           – primary key.
//  Email        – unique, lower-cased login name.
//  PasswordHash – bcrypt hash.
//  FirstName    – given name supplied at sign-up.
//  LastName     – family name supplied at sign-up.
//  Confirmed    – set by AdminConfirmSignUp; unconfirmed users cannot sign in.
//  CreatedAt    – creation timestamp.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Confirmed    bool
	CreatedAt    time.Time
}
