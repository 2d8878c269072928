// FILE: config/google.go
package config

import (
	"context"
	"fmt"
	"log/slog"

	"chitsmart/internal/assistant"
	"chitsmart/internal/auth"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	GeminiClient *genai.Client
	Assistant    assistant.Suggester

	PhoneAuth        auth.PhoneVerifier
	RecaptchaSiteKey string
	GoogleAuth       auth.GoogleAuthenticator
	Admins           auth.AdminPolicy
)

// InitGoogleServices sets up every Google-backed client that is configured.
// Missing keys leave the matching global nil and the feature unavailable.
func InitGoogleServices(ctx context.Context, s Settings) error {
	Admins = auth.NewAdminPolicy(s.AdminEmails)

	if s.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(s.GeminiAPIKey))
		if err != nil {
			return fmt.Errorf("unable to create Gemini client: %v", err)
		}
		GeminiClient = client
		Assistant = assistant.NewGemini(client.GenerativeModel("gemini-1.5-flash"))
		slog.Info("Gemini API client initialized successfully.")
	} else {
		slog.Warn("GEMINI_API_KEY is not set, scheme suggestions are disabled.")
	}

	if s.FirebaseAPIKey != "" {
		toolkit, err := auth.NewIdentityToolkit(ctx, s.FirebaseAPIKey)
		if err != nil {
			return err
		}
		PhoneAuth = toolkit
		if key, err := toolkit.RecaptchaSiteKey(ctx); err != nil {
			slog.Warn("Could not fetch reCAPTCHA site key", "error", err)
		} else {
			RecaptchaSiteKey = key
		}
		slog.Info("Phone authentication initialized.")
	} else {
		slog.Warn("FIREBASE_API_KEY is not set, customer login is disabled.")
	}

	if s.GoogleClientID != "" && s.GoogleClientSecret != "" {
		GoogleAuth = auth.NewGoogleOAuth(s.GoogleClientID, s.GoogleClientSecret, s.GoogleRedirectURL)
		slog.Info("Google sign-in initialized.", "admins", len(s.AdminEmails))
	} else {
		slog.Warn("GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET is not set, admin login is disabled.")
	}
	return nil
}
