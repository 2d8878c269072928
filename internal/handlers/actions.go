package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"chitsmart/config"
	"chitsmart/internal/phone"
	"chitsmart/internal/store"
	"chitsmart/models"
)

// actionError is a failed mutation: the status for JSON callers and the
// message shown to the admin either way.
type actionError struct {
	Status  int
	Message string
}

func (e *actionError) Error() string { return e.Message }

var errInvalidInput = &actionError{Status: http.StatusBadRequest, Message: "Invalid input provided."}

// parseSchemeAmount reads the leading integer of v after removing grouping
// commas, so "1,00,000" and "100000-IN" both give 100000.
func parseSchemeAmount(v string) (int64, bool) {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(v[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// updateSchemeGroups sets the group count of every scheme with the given
// amount.
func updateSchemeGroups(ctx context.Context, amount string, groups int) *actionError {
	if strings.TrimSpace(amount) == "" || groups < 0 {
		return errInvalidInput
	}
	amountNumber, ok := parseSchemeAmount(amount)
	if !ok {
		return &actionError{Status: http.StatusBadRequest, Message: "Invalid scheme amount format."}
	}

	n, err := config.Store.UpdateSchemeGroups(ctx, amountNumber, groups)
	if isNotFound(err) {
		slog.Info("Scheme not found for groups update", "amount", amountNumber)
		return &actionError{Status: http.StatusNotFound, Message: fmt.Sprintf("Scheme with amount %d not found.", amountNumber)}
	}
	if err != nil {
		slog.Error("Error updating scheme", "error", err, "amount", amountNumber)
		return &actionError{Status: http.StatusInternalServerError, Message: "An unexpected error occurred while updating the scheme."}
	}

	slog.Info("Scheme groups updated", "amount", amountNumber, "groups", groups, "documents", n)
	notifyChange(store.SchemesCollection)
	return nil
}

// localNumber accepts a number with or without the country code.
func localNumber(input string) (string, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, config.App.CountryCode)
	return phone.Normalize(input)
}

// setLiftStatus updates the lift status of the customer with number.
func setLiftStatus(ctx context.Context, number, status string) *actionError {
	local, err := localNumber(number)
	if err != nil {
		return errInvalidInput
	}
	st, ok := models.ParseLiftStatus(status)
	if !ok {
		return &actionError{Status: http.StatusBadRequest, Message: "Invalid lift status."}
	}

	_, err = config.Store.SetCustomerLiftStatus(ctx, phone.Variants(local, config.App.CountryCode), st)
	if isNotFound(err) {
		return &actionError{Status: http.StatusNotFound, Message: fmt.Sprintf("Customer with number %s not found.", local)}
	}
	if err != nil {
		slog.Error("Error updating lift status", "error", err)
		return &actionError{Status: http.StatusInternalServerError, Message: "An unexpected error occurred while updating the customer."}
	}

	invalidateCustomer(ctx, local)
	notifyChange(store.CustomersCollection)
	return nil
}

// amountInput accepts a JSON number or a string such as "1,00,000".
type amountInput string

func (a *amountInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amountInput(n.String())
	return nil
}
