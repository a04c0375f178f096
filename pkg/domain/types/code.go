package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// Code is a human readable reference such as "R-001" or "GER-FIN"
type Code string

var codePattern = regexp.MustCompile(`^[A-Z0-9]+(-[A-Z0-9]+)*$`)

// Validate checks if the Code is valid
func (c Code) Validate() error {
	if c == "" {
		return goerr.New("code cannot be empty")
	}
	if !codePattern.MatchString(string(c)) {
		return goerr.New("code must be uppercase alphanumeric with hyphens", goerr.V("code", c))
	}
	return nil
}

// String returns the string representation of Code
func (c Code) String() string {
	return string(c)
}
