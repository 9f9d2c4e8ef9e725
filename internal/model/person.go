package model

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// RightType is the two-valued right attached to a person. It is embedded in
// issued tokens under the "rightId" claim and is never re-read from the
// database during the token's lifetime: a promotion or demotion only takes
// effect on the person's next login.
type RightType uint8

const (
	RightNormal RightType = 1 // regular account, rights.id = 1
	RightAdmin  RightType = 2 // administrator, rights.id = 2
)

// String returns the claim representation of the right ("Normal"/"Admin").
func (r RightType) String() string {
	switch r {
	case RightNormal:
		return "Normal"
	case RightAdmin:
		return "Admin"
	}
	return strconv.Itoa(int(r))
}

// ErrUnknownRight is returned by ParseRight for values that map to no right.
var ErrUnknownRight = errors.New("unknown right")

// ParseRight accepts a right name or its numeric form. Tokens carry the
// name; the numeric form shows up in older tokens issued before the claim
// format settled.
func ParseRight(s string) (RightType, error) {
	switch strings.TrimSpace(s) {
	case "Normal", "1":
		return RightNormal, nil
	case "Admin", "2":
		return RightAdmin, nil
	}
	return 0, ErrUnknownRight
}

// Person mirrors a row of the `people` table. The password is stored only as
// a bcrypt hash and is never serialized into responses.
//
// Fields:
//  ID           – primary key identifier of the person.
//  Login        – unique login name used for authentication.
//  PasswordHash – bcrypt hash of the password.
//  Name         – display name.
//  City         – home city shown on the profile and on ads.
//  Birthday     – date of birth (DATE column).
//  Phone        – contact phone number.
//  Email        – contact email, used for password recovery.
//  RightID      – the person's right (references rights.id).
//  PhotoName    – object-storage key of the profile photo.
type Person struct {
	ID           uint64    `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Birthday     time.Time `json:"birthday"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	RightID      RightType `json:"rightId"`
	PhotoName    string    `json:"photoName"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
