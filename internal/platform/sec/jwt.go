// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

// Package sec provides service-token management for the ingest API.
//
// # Architecture
//
// Lectern has no end-user accounts: the only authenticated callers are
// ingestion feeds (the JATS import pipeline, the version-of-record
// feed). Each feed presents an RS256-signed JWT naming itself and the
// scope it operates under. This package isolates the token code from
// domain logic; it is injected into the middleware via the
// [middleware.TokenVerifier] interface.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceClaims is the payload embedded inside a service token.
type ServiceClaims struct {
	jwt.RegisteredClaims

	// Claims are abbreviated to keep the token payload small.
	Service string `json:"svc"`
	Scope   string `json:"scp"`
}

// TokenService handles generation and verification of service tokens
// using RS256.
//
// The private key is optional: the API server runs verify-only with the
// public key, signing happens in the token-issuing tooling.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService creates a new TokenService, reading RSA keys from the
// provided filesystem paths. An empty privateKeyPath yields a
// verify-only service.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	service := &TokenService{issuer: issuer}

	if privateKeyPath != "" {
		privateKeyData, err := os.ReadFile(privateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
		}
		if service.privateKey, err = jwt.ParseRSAPrivateKeyFromPEM(privateKeyData); err != nil {
			return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
		}
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}
	if service.publicKey, err = jwt.ParseRSAPublicKeyFromPEM(publicKeyData); err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return service, nil
}

// GenerateServiceToken creates a new signed token for a named feed.
func (service *TokenService) GenerateServiceToken(name string, scope Scope, timeToLive time.Duration) (string, error) {
	if service.privateKey == nil {
		return "", fmt.Errorf("sec: token service is verify-only (no private key loaded)")
	}

	currentTime := time.Now()
	claims := ServiceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   name,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Service: name,
		Scope:   string(scope),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a token string.
func (service *TokenService) VerifyToken(tokenString string) (*ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*ServiceClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
