package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

var (
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrTooManyRequests = errors.New("too many requests")
	ErrCaptchaFailed   = errors.New("captcha check failed")
	ErrInvalidPhone    = errors.New("invalid phone number")
)

// PhoneVerifier issues and checks SMS one-time codes. The
// provider keeps the code; callers only hold the opaque session info
// between the two steps.
type PhoneVerifier interface {
	SendCode(ctx context.Context, phoneNumber, recaptchaToken string) (sessionInfo string, err error)
	VerifyCode(ctx context.Context, sessionInfo, code string) (*PhoneIdentity, error)
}

// PhoneIdentity is what the provider returns for a verified number.
type PhoneIdentity struct {
	UID         string
	PhoneNumber string
}

// IdentityToolkit uses the Firebase Auth REST surface.
type IdentityToolkit struct {
	svc *identitytoolkit.Service
}

func NewIdentityToolkit(ctx context.Context, apiKey string, opts ...option.ClientOption) (*IdentityToolkit, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit: %w", err)
	}
	return &IdentityToolkit{svc: svc}, nil
}

// RecaptchaSiteKey is the site key the login page needs to obtain the
// token SendCode expects.
func (t *IdentityToolkit) RecaptchaSiteKey(ctx context.Context) (string, error) {
	resp, err := t.svc.Relyingparty.GetRecaptchaParam().Context(ctx).Do()
	if err != nil {
		return "", classifyToolkitError(err)
	}
	return resp.RecaptchaSiteKey, nil
}

func (t *IdentityToolkit) SendCode(ctx context.Context, phoneNumber, recaptchaToken string) (string, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartySendVerificationCodeRequest{
		PhoneNumber:    phoneNumber,
		RecaptchaToken: recaptchaToken,
	}
	resp, err := t.svc.Relyingparty.SendVerificationCode(req).Context(ctx).Do()
	if err != nil {
		return "", classifyToolkitError(err)
	}
	return resp.SessionInfo, nil
}

func (t *IdentityToolkit) VerifyCode(ctx context.Context, sessionInfo, code string) (*PhoneIdentity, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPhoneNumberRequest{
		SessionInfo: sessionInfo,
		Code:        code,
	}
	resp, err := t.svc.Relyingparty.VerifyPhoneNumber(req).Context(ctx).Do()
	if err != nil {
		return nil, classifyToolkitError(err)
	}
	return &PhoneIdentity{UID: resp.LocalId, PhoneNumber: resp.PhoneNumber}, nil
}

// classifyToolkitError maps provider error codes to the package sentinels.
// The provider puts the code at the start of the message, sometimes
// followed by " : detail".
func classifyToolkitError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	codes := []string{apiErr.Message}
	for _, item := range apiErr.Errors {
		codes = append(codes, item.Message, item.Reason)
	}
	for _, c := range codes {
		switch {
		case strings.HasPrefix(c, "INVALID_CODE"):
			return fmt.Errorf("%w: %s", ErrInvalidCode, apiErr.Message)
		case strings.HasPrefix(c, "SESSION_EXPIRED"), strings.HasPrefix(c, "CODE_EXPIRED"):
			return fmt.Errorf("%w: %s", ErrCodeExpired, apiErr.Message)
		case strings.HasPrefix(c, "TOO_MANY_ATTEMPTS_TRY_LATER"), strings.HasPrefix(c, "QUOTA_EXCEEDED"):
			return fmt.Errorf("%w: %s", ErrTooManyRequests, apiErr.Message)
		case strings.HasPrefix(c, "CAPTCHA_CHECK_FAILED"), strings.HasPrefix(c, "MISSING_RECAPTCHA_TOKEN"):
			return fmt.Errorf("%w: %s", ErrCaptchaFailed, apiErr.Message)
		case strings.HasPrefix(c, "INVALID_PHONE_NUMBER"), strings.HasPrefix(c, "MISSING_PHONE_NUMBER"):
			return fmt.Errorf("%w: %s", ErrInvalidPhone, apiErr.Message)
		}
	}
	return err
}
