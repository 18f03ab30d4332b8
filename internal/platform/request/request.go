// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lectern-pub/lectern/internal/platform/apperr"
	"github.com/lectern-pub/lectern/internal/platform/ctxutil"
	"github.com/lectern-pub/lectern/internal/platform/sec"
	"github.com/lectern-pub/lectern/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (identifier/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Wildcard retrieves the trailing wildcard segment of the matched route.

Article identifiers contain slashes (msid/versionIdentifier), so the
routes that accept them are mounted with a trailing "*" pattern.
*/
func Wildcard(request *http.Request) string {
	return chi.URLParam(request, "*")
}

/*
Claims extracts the authenticated service claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.ServiceClaims {
	return ctxutil.GetServiceClaims(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the service claims.

Returns:
  - *sec.ServiceClaims: The authenticated service claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.ServiceClaims, error) {

	// Get service claims
	claims := ctxutil.GetServiceClaims(request.Context())

	// If the caller is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredService returns the name of the currently authenticated service.

Returns:
  - string: Service name
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredService(request *http.Request) (string, error) {

	// Get service claims
	claims, err := RequiredClaims(request)

	// If the caller is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.Service, nil
}
