package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/coderTechJordan/UserService-Backend/internal/domain"
	"github.com/coderTechJordan/UserService-Backend/internal/service"
	"github.com/coderTechJordan/UserService-Backend/internal/store"
)

// Request is the transport-agnostic inbound envelope. An HTTP adapter or a
// function-invocation adapter fills it in the same way.
type Request struct {
	HTTPMethod     string            `json:"httpMethod"`
	Path           string            `json:"path"`
	PathParameters map[string]string `json:"pathParameters"`
	Body           string            `json:"body"`
}

// Response is the transport-agnostic outbound envelope.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// userIDParam selects a specific record when present.
const userIDParam = "userId"

// ErrorBody is the error payload shape shared by all failure responses.
type ErrorBody struct {
	ErrorMessage string `json:"errorMessage"`
	Details      string `json:"details,omitempty"`
}

// Dispatcher resolves an inbound request to one of the five user operations
// and translates results and errors back into response envelopes. It is the
// only layer that turns an error into a status code.
type Dispatcher struct {
	users  service.UserService
	logger *logrus.Logger
}

func NewDispatcher(users service.UserService, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		users:  users,
		logger: logger,
	}
}

// Dispatch never panics on bad input; unrecognized method/path combinations
// come back as a client error response.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	if lastSegment(req.Path) != "users" && req.PathParameters[userIDParam] == "" {
		return d.unsupported(req)
	}

	userID := req.PathParameters[userIDParam]

	switch {
	case req.HTTPMethod == http.MethodPost:
		return d.createUser(ctx, req)
	case req.HTTPMethod == http.MethodGet && userID == "":
		return d.listUsers(ctx)
	case req.HTTPMethod == http.MethodGet:
		return d.getUserByID(ctx, userID)
	case req.HTTPMethod == http.MethodPut && userID != "":
		return d.updateUser(ctx, userID, req)
	case req.HTTPMethod == http.MethodDelete && userID != "":
		return d.deleteUser(ctx, userID)
	default:
		return d.unsupported(req)
	}
}

func (d *Dispatcher) createUser(ctx context.Context, req Request) Response {
	candidate, resp, ok := d.decodeUser(req.Body)
	if !ok {
		return resp
	}

	created, err := d.users.CreateUser(ctx, candidate)
	if err != nil {
		return d.errorResponse("Error creating user", err)
	}

	d.logger.WithField("userId", created.ID).Info("user created")
	return d.jsonResponse(created)
}

func (d *Dispatcher) listUsers(ctx context.Context) Response {
	users, err := d.users.ListUsers(ctx)
	if err != nil {
		return d.errorResponse("Error listing users", err)
	}
	return d.jsonResponse(users)
}

func (d *Dispatcher) getUserByID(ctx context.Context, id string) Response {
	user, err := d.users.GetUserByID(ctx, id)
	if err != nil {
		return d.errorResponse("Error getting user by ID", err)
	}
	// Absence is not a failure: respond 200 with a null entity, the same
	// way the boundary reports it everywhere else.
	return d.jsonResponse(user)
}

func (d *Dispatcher) updateUser(ctx context.Context, id string, req Request) Response {
	replacement, resp, ok := d.decodeUser(req.Body)
	if !ok {
		return resp
	}

	updated, err := d.users.UpdateUser(ctx, id, replacement)
	if err != nil {
		return d.errorResponse("Error updating user", err)
	}

	d.logger.WithField("userId", updated.ID).Info("user updated")
	return d.jsonResponse(updated)
}

func (d *Dispatcher) deleteUser(ctx context.Context, id string) Response {
	if err := d.users.DeleteUser(ctx, id); err != nil {
		return d.errorResponse("Error deleting user", err)
	}

	d.logger.WithField("userId", id).Info("user deleted")
	return d.jsonResponse(map[string]string{"deleted": id})
}

func (d *Dispatcher) unsupported(req Request) Response {
	return d.clientError("Unsupported operation",
		fmt.Sprintf("%s %s is not a recognized operation", req.HTTPMethod, req.Path))
}

func (d *Dispatcher) decodeUser(body string) (*domain.User, Response, bool) {
	if strings.TrimSpace(body) == "" {
		return nil, d.clientError("Error decoding request body", "request body is required"), false
	}
	var user domain.User
	if err := json.Unmarshal([]byte(body), &user); err != nil {
		return nil, d.clientError("Error decoding request body", err.Error()), false
	}
	return &user, Response{}, true
}

func (d *Dispatcher) jsonResponse(payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return d.errorResponse("Error encoding response", err)
	}
	return Response{
		StatusCode: http.StatusOK,
		Headers:    defaultHeaders(),
		Body:       string(body),
	}
}

func (d *Dispatcher) clientError(message, details string) Response {
	return d.wrapError(http.StatusBadRequest, message, details)
}

// errorResponse classifies a failure: validation is the client's fault,
// anything out of the store (or unexpected) is the server's.
func (d *Dispatcher) errorResponse(message string, err error) Response {
	if errors.Is(err, service.ErrValidation) {
		return d.wrapError(http.StatusBadRequest, message, err.Error())
	}

	// Store failures and anything unexpected are the server's fault, not
	// the client's; the legacy habit of answering 400 here is gone.
	if errors.Is(err, store.ErrUnavailable) || errors.Is(err, store.ErrTableNotFound) {
		d.logger.WithError(err).Error(message)
	} else {
		d.logger.WithError(err).Errorf("%s (unexpected)", message)
	}
	return d.wrapError(http.StatusInternalServerError, message, err.Error())
}

func (d *Dispatcher) wrapError(status int, message, details string) Response {
	body, err := json.Marshal(ErrorBody{ErrorMessage: message, Details: details})
	if err != nil {
		// ErrorBody marshaling cannot realistically fail; keep the status.
		body = []byte(`{"errorMessage":"` + message + `"}`)
	}
	return Response{
		StatusCode: status,
		Headers:    defaultHeaders(),
		Body:       string(body),
	}
}

func defaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

func lastSegment(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	return parts[len(parts)-1]
}
