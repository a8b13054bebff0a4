// Package service contains the account use cases that sit between the HTTP
// layer and the credential store: user CRUD here and authentication in the
// auth subpackage.
//
// Services receive their collaborators through constructors and return
// errors from the domain taxonomy, translated from store failures, so the
// API layer can map them to status codes without knowing about storage.
package service
