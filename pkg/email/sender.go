package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"regexp"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+\/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// IsEmailValid reports whether the address is syntactically valid.
func IsEmailValid(email string) bool {
	return emailRegexp.MatchString(email)
}

type SendEmailInput struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(input SendEmailInput) error
}

// GenerateBodyFromHTML renders the named template file with data and sets it
// as the message body.
func (e *SendEmailInput) GenerateBodyFromHTML(templatePath string, data interface{}) error {
	t, err := template.ParseFiles(filepath.Clean(templatePath))
	if err != nil {
		return fmt.Errorf("parse template failed: %w", err)
	}

	buf := new(bytes.Buffer)
	if err = t.Execute(buf, data); err != nil {
		return fmt.Errorf("email data injection failed: %w", err)
	}

	e.Body = buf.String()

	return nil
}

func (e *SendEmailInput) Validate() error {
	if e.To == "" {
		return errors.New("empty to")
	}

	if e.Subject == "" || e.Body == "" {
		return errors.New("empty subject/body")
	}

	if !IsEmailValid(e.To) {
		return errors.New("invalid to email")
	}

	return nil
}
