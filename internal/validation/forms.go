package validation

import (
	"fmt"
	"strconv"
	"strings"

	"flanes/internal/model"
)

// ContactForm is the data submitted through the contact page.
type ContactForm struct {
	Email   string `form:"email" validate:"required,email,max=254"`
	Name    string `form:"name" validate:"required,max=64"`
	Message string `form:"message" validate:"required"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// RegisterForm is the data submitted through the registration page.
type RegisterForm struct {
	Username        string `form:"username" validate:"required,max=150,username"`
	Email           string `form:"email" validate:"required,email,max=254"`
	Password        string `form:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginForm is the data submitted through the login page.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// ReviewForm is the data submitted with a product detail page.
type ReviewForm struct {
	Rating  string `form:"rating" validate:"required,number"`
	Comment string `form:"comment" validate:"required"`
}

// ValidateContact trims f in place and checks it.
func ValidateContact(f *ContactForm) Errors {
	f.Email = strings.TrimSpace(f.Email)
	f.Name = strings.TrimSpace(f.Name)
	f.Message = strings.TrimSpace(f.Message)
	return Struct(f)
}

// ValidateRegistration trims f in place and checks it. Passwords are not
// trimmed. Username uniqueness is checked by the caller against storage.
func ValidateRegistration(f *RegisterForm) Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	errs := Struct(f)
	if !errs.Has("password") && len(f.Password) > MaxPasswordBytes {
		errs.Add("password", fmt.Sprintf("Ensure this value has at most %d bytes.", MaxPasswordBytes))
	}
	return errs
}

// ValidateLogin trims the username in place and checks f.
func ValidateLogin(f *LoginForm) Errors {
	f.Username = strings.TrimSpace(f.Username)
	return Struct(f)
}

// ValidateReview trims f in place, checks it, and returns the parsed rating.
// The rating is only meaningful when the returned Errors are valid.
func ValidateReview(f *ReviewForm) (int, Errors) {
	f.Rating = strings.TrimSpace(f.Rating)
	f.Comment = strings.TrimSpace(f.Comment)

	errs := Struct(f)
	if errs.Has("rating") {
		return 0, errs
	}

	rating, err := strconv.Atoi(f.Rating)
	if err != nil || rating < model.MinRating || rating > model.MaxRating {
		errs.Add("rating", fmt.Sprintf("Rating must be between %d and %d.", model.MinRating, model.MaxRating))
		return 0, errs
	}
	return rating, errs
}
