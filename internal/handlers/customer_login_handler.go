package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"chitsmart/config"
	"chitsmart/internal/auth"
	"chitsmart/internal/middleware"
	"chitsmart/internal/phone"

	"github.com/gin-gonic/gin"
)

// ShowCustomerLoginPage renders the number step, or the code step once an
// OTP has been sent in this browser.
func ShowCustomerLoginPage(c *gin.Context) {
	s := flow(c)
	pending, _ := s.Values[keyOTPPhone].(string)
	_, hasSession := s.Values[keyOTPSession].(string)

	description := "Enter your 10-digit phone number to receive an OTP."
	if hasSession {
		description = "Enter the OTP sent to your phone."
	}
	render(c, http.StatusOK, "login_customer.html", gin.H{
		"title":            "Customer Login",
		"description":      description,
		"otpSent":          hasSession,
		"pendingPhone":     pending,
		"countryCode":      config.App.CountryCode,
		"enabled":          config.PhoneAuth != nil,
		"recaptchaSiteKey": config.RecaptchaSiteKey,
	})
}

func sendOTPErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrTooManyRequests):
		return "You've requested too many OTPs. Please try again later."
	case errors.Is(err, auth.ErrCaptchaFailed):
		return "An internal error occurred. Please refresh and try again."
	}
	return "Could not send OTP. Please check your number and try again."
}

func verifyOTPErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCode):
		return "The OTP you entered is incorrect. Please double-check and try again."
	case errors.Is(err, auth.ErrCodeExpired):
		return "The OTP has expired. Please request a new one."
	}
	return "An error occurred during login. Please try again."
}

// SendOTPHandler validates the number and asks the provider to text a code.
func SendOTPHandler(c *gin.Context) {
	local, err := phone.Normalize(c.PostForm("phone"))
	if err != nil {
		toastError(c, "Invalid Phone Number", "Please enter a valid 10-digit phone number.")
		redirect(c, "/login/customer")
		return
	}
	if config.PhoneAuth == nil {
		toastError(c, "Failed to Send OTP", "An internal error occurred. Please refresh and try again.")
		redirect(c, "/login/customer")
		return
	}

	fullNumber := phone.International(local, config.App.CountryCode)
	sessionInfo, err := config.PhoneAuth.SendCode(c.Request.Context(), fullNumber, c.PostForm("recaptchaToken"))
	if err != nil {
		slog.Error("Error sending OTP", "error", err)
		toastError(c, "Failed to Send OTP", sendOTPErrorMessage(err))
		redirect(c, "/login/customer")
		return
	}

	s := flow(c)
	s.Values[keyOTPSession] = sessionInfo
	s.Values[keyOTPPhone] = fullNumber
	s.AddFlash(Toast{Title: "OTP Sent", Description: "An OTP has been sent to " + fullNumber + ".", Variant: "default"})
	saveFlow(c, s)
	redirect(c, "/login/customer")
}

// VerifyOTPHandler checks the code and signs the member in when the verified
// number belongs to a customer.
func VerifyOTPHandler(c *gin.Context) {
	s := flow(c)
	sessionInfo, ok := s.Values[keyOTPSession].(string)
	if !ok || sessionInfo == "" || config.PhoneAuth == nil {
		toastError(c, "Verification session expired.", "Please request a new OTP.")
		redirect(c, "/login/customer")
		return
	}

	identity, err := config.PhoneAuth.VerifyCode(c.Request.Context(), sessionInfo, c.PostForm("otp"))
	if err == nil && identity.PhoneNumber == "" {
		err = errors.New("phone number not found in user credentials")
	}
	if err != nil {
		slog.Error("Error verifying OTP", "error", err)
		toastError(c, "Login Failed", verifyOTPErrorMessage(err))
		redirect(c, "/login/customer")
		return
	}

	// The code is consumed either way.
	delete(s.Values, keyOTPSession)
	delete(s.Values, keyOTPPhone)

	customer, err := findCustomer(c.Request.Context(), identity.PhoneNumber)
	switch {
	case isNotFound(err):
		s.AddFlash(Toast{Title: "Welcome!", Description: "Your number is verified, but not registered. Explore our schemes to get started.", Variant: "default"})
		saveFlow(c, s)
		middleware.ClearSession(c)
		redirect(c, "/schemes")
		return
	case err != nil:
		slog.Error("Error fetching customer after OTP", "error", err)
		s.AddFlash(Toast{Title: "Login Failed", Description: verifyOTPErrorMessage(err), Variant: "destructive"})
		saveFlow(c, s)
		redirect(c, "/login/customer")
		return
	}

	claims := auth.Claims{Role: auth.RoleCustomer, Phone: identity.PhoneNumber, Name: customer.Name}
	claims.Subject = identity.UID
	if err := middleware.SetSession(c, claims); err != nil {
		slog.Error("Failed to issue customer session", "error", err)
		s.AddFlash(Toast{Title: "Login Failed", Description: verifyOTPErrorMessage(err), Variant: "destructive"})
		saveFlow(c, s)
		redirect(c, "/login/customer")
		return
	}
	s.AddFlash(Toast{Title: "Login Successful", Description: "Welcome back! Redirecting to your dashboard.", Variant: "default"})
	saveFlow(c, s)
	slog.Info("Customer logged in", "customer_id", customer.ID)
	redirect(c, "/customer/dashboard")
}

// ResetOTPHandler is "Change Number": back to the number step.
func ResetOTPHandler(c *gin.Context) {
	s := flow(c)
	delete(s.Values, keyOTPSession)
	delete(s.Values, keyOTPPhone)
	saveFlow(c, s)
	redirect(c, "/login/customer")
}

// LogoutHandler clears the session and returns to the landing page.
func LogoutHandler(c *gin.Context) {
	middleware.ClearSession(c)
	redirect(c, "/")
}
