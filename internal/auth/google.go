package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var (
	ErrNotAdmin         = errors.New("account is not allowed to administer")
	ErrEmailNotVerified = errors.New("google account email is not verified")
)

// Identity is a Google account that completed the consent flow.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleAuthenticator runs the authorization code flow.
type GoogleAuthenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type GoogleOAuth struct {
	cfg *oauth2.Config
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*Identity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errors.New("oauth exchange: no id_token in response")
	}
	payload, err := idtoken.Validate(ctx, raw, g.cfg.ClientID)
	if err != nil {
		return nil, fmt.Errorf("validate id_token: %w", err)
	}
	id := &Identity{Subject: payload.Subject}
	id.Email, _ = payload.Claims["email"].(string)
	id.EmailVerified, _ = payload.Claims["email_verified"].(bool)
	id.Name, _ = payload.Claims["name"].(string)
	id.Picture, _ = payload.Claims["picture"].(string)
	if !id.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return id, nil
}

// AdminPolicy decides which Google accounts are admins. An empty allowlist
// admits every verified account.
type AdminPolicy struct {
	allowed map[string]bool
}

func NewAdminPolicy(emails []string) AdminPolicy {
	p := AdminPolicy{allowed: make(map[string]bool)}
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			p.allowed[e] = true
		}
	}
	return p
}

func (p AdminPolicy) Check(id *Identity) error {
	if id == nil || !id.EmailVerified {
		return ErrEmailNotVerified
	}
	if len(p.allowed) == 0 {
		return nil
	}
	if !p.allowed[strings.ToLower(id.Email)] {
		return ErrNotAdmin
	}
	return nil
}
