package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken indicates that no bearer token is available.
var ErrNoToken = errors.New("no access token")

// TokenSource supplies bearer tokens. Acquiring and refreshing tokens is
// left to the caller.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

// Token returns the token, or ErrNoToken when it is empty.
func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}

	return string(t), nil
}

// EnvToken reads the token from the named environment variable on every call.
type EnvToken string

// Token returns the variable's trimmed value.
func (e EnvToken) Token(context.Context) (string, error) {
	token := strings.TrimSpace(os.Getenv(string(e)))
	if token == "" {
		return "", fmt.Errorf("%w: environment variable %s is empty", ErrNoToken, string(e))
	}

	return token, nil
}
