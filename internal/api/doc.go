// Package api exposes the account service over HTTP: signup, login and
// logout under the session cookie, and user CRUD under /users. Successful
// responses use the {data, message} envelope; failures use
// {error, code, trace_id} with a status derived from the error code.
package api
