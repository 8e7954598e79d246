// Package configflow onboards a Warmup account: it exchanges the user's email and password for an access token
// and turns the result into a config entry.
package configflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clambin/warmup-bridge/internal/executor"
	"github.com/clambin/warmup-bridge/internal/host"
	"github.com/clambin/warmup-bridge/pkg/warmup"
)

const (
	// Domain is the domain of the config entries created by the flow
	Domain = "warmup"
	// Version of the config entries created by the flow
	Version = 1
	// ConnectionClass describes how the integration talks to the device
	ConnectionClass = "cloud_poll"

	StepUser = "user"

	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
)

// ErrorKind is the form error reported to the user
type ErrorKind string

const (
	ErrorNone          ErrorKind = ""
	ErrorInvalidAuth   ErrorKind = "invalid_auth"
	ErrorCannotConnect ErrorKind = "cannot_connect"
	ErrorUnknown       ErrorKind = "unknown"
)

// Translations holds the English messages for each ErrorKind
var Translations = map[ErrorKind]string{
	ErrorInvalidAuth:   "Invalid authentication",
	ErrorCannotConnect: "Failed to connect, please try again",
	ErrorUnknown:       "Unexpected error",
}

// Message returns the user-facing message for the error
func (k ErrorKind) Message() string {
	if msg, ok := Translations[k]; ok {
		return msg
	}
	return string(k)
}

type ResultType string

const (
	ResultForm        ResultType = "form"
	ResultCreateEntry ResultType = "create_entry"
)

// Field is one input field of a form
type Field struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

var userSchema = []Field{
	{Name: FieldEmail, Required: true},
	{Name: FieldPassword, Required: true},
}

// Result is the outcome of a flow step: either a form to show (again) or the data of a new config entry.
type Result struct {
	Type   ResultType           `json:"type"`
	StepID string               `json:"step_id,omitempty"`
	Schema []Field              `json:"data_schema,omitempty"`
	Errors map[string]ErrorKind `json:"errors,omitempty"`
	Title  string               `json:"title,omitempty"`
	Data   map[string]string    `json:"data,omitempty"`
}

// UserInput is the submitted user form
type UserInput struct {
	Email    string
	Password string
}

// LoginResult is the outcome of a token exchange. Either Credential is set, or Error tells what went wrong.
type LoginResult struct {
	Credential string
	Error      ErrorKind
}

// OK returns true if the login succeeded
func (r LoginResult) OK() bool {
	return r.Error == ErrorNone
}

// TokenFunc exchanges an email and password for an access token
type TokenFunc func(ctx context.Context, email, password string) (string, error)

// DefaultTokenFunc returns a TokenFunc that logs in to the Warmup service with the provided client options
func DefaultTokenFunc(options ...warmup.Option) TokenFunc {
	return func(ctx context.Context, email, password string) (string, error) {
		return warmup.GetAccessToken(ctx, email, password, options...)
	}
}

// Flow runs the onboarding steps
type Flow struct {
	getToken TokenFunc
	executor *executor.Executor
	logger   *slog.Logger
}

func New(getToken TokenFunc, exec *executor.Executor, logger *slog.Logger) *Flow {
	return &Flow{getToken: getToken, executor: exec, logger: logger}
}

// StepUser handles the user step. Without input, it returns the empty form. Otherwise, it logs in and either
// creates the entry or returns the form with the error that occurred.
func (f *Flow) StepUser(ctx context.Context, input *UserInput) Result {
	errs := make(map[string]ErrorKind)

	if input != nil {
		login := f.Login(ctx, *input)
		if login.OK() {
			return Result{
				Type:  ResultCreateEntry,
				Title: Domain,
				Data: map[string]string{
					FieldEmail:       input.Email,
					FieldAccessToken: login.Credential,
				},
			}
		}
		errs["base"] = login.Error
	}

	return Result{
		Type:   ResultForm,
		StepID: StepUser,
		Schema: userSchema,
		Errors: errs,
	}
}

// Login exchanges the credentials for an access token
func (f *Flow) Login(ctx context.Context, input UserInput) LoginResult {
	token, err := executor.Call(ctx, f.executor, func(ctx context.Context) (string, error) {
		return f.getToken(ctx, input.Email, input.Password)
	})
	if err == nil {
		return LoginResult{Credential: token}
	}

	var warmupErr *warmup.Error
	switch {
	case errors.Is(err, warmup.ErrInvalidToken):
		return LoginResult{Error: ErrorInvalidAuth}
	case errors.As(err, &warmupErr):
		f.logger.Debug("login failed", "email", input.Email, "err", err)
		return LoginResult{Error: ErrorCannotConnect}
	default:
		f.logger.Error("unexpected error during login", "email", input.Email, "err", err)
		return LoginResult{Error: ErrorUnknown}
	}
}

// ConfigEntry returns the config entry to store for a created result
func (r Result) ConfigEntry() (host.ConfigEntry, bool) {
	if r.Type != ResultCreateEntry {
		return host.ConfigEntry{}, false
	}
	return host.ConfigEntry{Domain: Domain, Title: r.Title, Version: Version, Data: r.Data}, true
}
