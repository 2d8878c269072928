package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chitsmart/config"
	"chitsmart/internal/calc"
	"chitsmart/internal/middleware"
	"chitsmart/models"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) {
	t.Helper()
	config.App = config.Defaults()
	config.RDB = nil
	config.Assistant = nil
	m, err := config.NewDemoStore()
	if err != nil {
		t.Fatal(err)
	}
	config.Store = m
	if err := config.InitCalculator(config.App); err != nil {
		t.Fatal(err)
	}
	config.Sessions = config.NewCookieStore([]byte("handlers-test-session-key-000000"), false)
	config.JwtKey = []byte("handlers-test")
}

func doJSON(t *testing.T, h gin.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	r := gin.New()
	r.Handle(method, "/x", h)
	req := httptest.NewRequest(method, "/x"+target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestParseSchemeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"100000", 100000, true},
		{"1,00,000", 100000, true},
		{" 50000-IN", 50000, true},
		{"200000.75", 200000, true},
		{"abc", 0, false},
		{"-IN", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseSchemeAmount(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseSchemeAmount(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBuildDashboard(t *testing.T) {
	customers := []models.Customer{
		{ID: "a", Name: "A", Scheme: 100000, LiftStatus: models.LiftStatusRunning},
		{ID: "b", Name: "B", Scheme: 200000, LiftStatus: models.LiftStatusLifted},
		{ID: "c", Name: "C", Scheme: 50000, LiftStatus: models.LiftStatusDefaulted},
	}
	base := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	var payments []models.Payment
	for i := 0; i < 7; i++ {
		payments = append(payments, models.Payment{CustomerID: "a", Date: base.AddDate(0, i, 0), Amount: 6667, Status: models.PaymentPaid})
	}

	d := BuildDashboard(customers, nil, payments)

	want := map[string]string{
		"Total Collection":  "3.5L-IN",
		"Active Members":    "1",
		"Total Distributed": "2L-IN",
		"Total Pending":     "0.5L-IN",
	}
	for _, m := range d.Metrics {
		if want[m.Title] != m.Value {
			t.Errorf("%s = %q, want %q", m.Title, m.Value, want[m.Title])
		}
	}
	if len(d.RecentPayments) != recentPaymentsLimit {
		t.Fatalf("recent payments: %d", len(d.RecentPayments))
	}
	if d.RecentPayments[0].Date != "05-Jul-2024" || d.RecentPayments[0].Name != "A" {
		t.Fatalf("newest payment first, got %+v", d.RecentPayments[0])
	}
	if d.RecentPayments[0].Amount != "6,667-IN" || d.RecentPayments[0].StatusClass != "bg-green" {
		t.Fatalf("payment formatting: %+v", d.RecentPayments[0])
	}
	if d.StatusCounts["Defaulted"] != 1 {
		t.Fatalf("status counts: %v", d.StatusCounts)
	}
}

func TestBuildCustomerSummary(t *testing.T) {
	calculator := calc.MustDefault()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	running := models.Customer{ID: "a", Name: "Suresh", Number: "9876543210", Scheme: 100000, LiftStatus: models.LiftStatusRunning}

	s, err := BuildCustomerSummary(running, models.DefaultSchemes(), nil, calculator, now, 5)
	if err != nil {
		t.Fatal(err)
	}
	if s.Monthly != "6,667-IN" || s.SchemeLabel != "1,00,000-IN" {
		t.Fatalf("amounts: %+v", s)
	}
	if s.NextPayment != "05-Apr-2024" || s.BadgeVariant != "secondary" {
		t.Fatalf("due: %+v", s)
	}
	if s.Payments == nil || len(s.Payments) != 0 {
		t.Fatal("payments must be an empty list, not null")
	}

	lifted := running
	lifted.LiftStatus = models.LiftStatusLifted
	s, err = BuildCustomerSummary(lifted, models.DefaultSchemes(), nil, calculator, now, 5)
	if err != nil {
		t.Fatal(err)
	}
	if s.NextPayment != "N/A" {
		t.Fatalf("lifted members have nothing due, got %q", s.NextPayment)
	}
}

func TestFilterCustomers(t *testing.T) {
	config.App = config.Defaults()
	customers := []models.Customer{
		{Name: "Suresh Patel", Number: "9876543210"},
		{Name: "Deepika Singh", Number: "+919123456780"},
	}
	if got := filterCustomers(customers, "deep"); len(got) != 1 || got[0].Name != "Deepika Singh" {
		t.Fatalf("name search: %+v", got)
	}
	if got := filterCustomers(customers, "+9198765"); len(got) != 1 || got[0].Name != "Suresh Patel" {
		t.Fatalf("prefixed number search: %+v", got)
	}
	if got := filterCustomers(customers, "  "); len(got) != 2 {
		t.Fatal("blank query returns everything")
	}
}

func TestUpdateSchemeGroupsAPI(t *testing.T) {
	setup(t)

	w, _ := doJSON(t, UpdateSchemeGroupsAPI, http.MethodPut, "", `{"amount":"1,00,000","groups":10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body)
	}
	schemes, _ := config.Store.ListSchemes(context.Background())
	for _, s := range schemes {
		if s.Amount == 100000 && s.Groups != 10 {
			t.Fatalf("groups not updated: %+v", s)
		}
	}

	tests := []struct {
		body   string
		status int
		msg    string
	}{
		{`{"amount":123,"groups":1}`, http.StatusNotFound, "Scheme with amount 123 not found."},
		{`{"amount":"abc","groups":1}`, http.StatusBadRequest, "Invalid scheme amount format."},
		{`{"amount":"50000"}`, http.StatusBadRequest, "Invalid input provided."},
		{`{"amount":"50000","groups":-1}`, http.StatusBadRequest, "Invalid input provided."},
	}
	for _, tt := range tests {
		w, out := doJSON(t, UpdateSchemeGroupsAPI, http.MethodPut, "", tt.body)
		if w.Code != tt.status || out["error"] != tt.msg {
			t.Errorf("%s: got %d %v", tt.body, w.Code, out)
		}
	}
}

func TestUpdateCustomerStatusAPI(t *testing.T) {
	setup(t)

	w, _ := doJSON(t, UpdateCustomerStatusAPI, http.MethodPut, "", `{"number":"+919876543210","liftStatus":"lifted"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body)
	}
	cu, err := config.Store.FindCustomerByPhone(context.Background(), []string{"9876543210"})
	if err != nil || cu.LiftStatus != models.LiftStatusLifted {
		t.Fatalf("status not updated: %+v %v", cu, err)
	}

	w, out := doJSON(t, UpdateCustomerStatusAPI, http.MethodPut, "", `{"number":"9876543210","liftStatus":"Paid"}`)
	if w.Code != http.StatusBadRequest || out["error"] != "Invalid lift status." {
		t.Fatalf("got %d %v", w.Code, out)
	}
	w, out = doJSON(t, UpdateCustomerStatusAPI, http.MethodPut, "", `{"number":"9999999999","liftStatus":"Running"}`)
	if w.Code != http.StatusNotFound || out["error"] != "Customer with number 9999999999 not found." {
		t.Fatalf("got %d %v", w.Code, out)
	}
	w, _ = doJSON(t, UpdateCustomerStatusAPI, http.MethodPut, "", `{"number":"12","liftStatus":"Running"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short number: got %d", w.Code)
	}
}

func TestGetCustomersAPIPaginates(t *testing.T) {
	setup(t)
	w, out := doJSON(t, GetCustomersAPI, http.MethodGet, "?q=ravi", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	if out["totalRows"].(float64) != 1 || out["currentPage"].(float64) != 1 {
		t.Fatalf("unexpected page: %v", out)
	}

	_, out = doJSON(t, GetCustomersAPI, http.MethodGet, "?pageSize=2&page=2", "")
	data := out["data"].([]interface{})
	if len(data) != 1 || out["totalPages"].(float64) != 2 {
		t.Fatalf("second page: %v", out)
	}

	w, out = doJSON(t, GetCustomersAPI, http.MethodGet, "?page=461168601842738792", "")
	if w.Code != http.StatusOK {
		t.Fatalf("page past the end: got %d", w.Code)
	}
	if data, _ := out["data"].([]interface{}); len(data) != 0 {
		t.Fatalf("page past the end should be empty: %v", out)
	}
}

func TestGetMeAPI(t *testing.T) {
	setup(t)
	me := func(number string) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/me", func(c *gin.Context) { c.Set(middleware.KeyPhone, number) }, GetMeAPI)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		return w
	}

	w := me("+919123456780")
	var s CustomerSummary
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil || w.Code != http.StatusOK {
		t.Fatalf("got %d %s", w.Code, w.Body)
	}
	if s.Name != "Deepika Singh" || s.NextPayment != "N/A" || s.LiftStatus != "Lifted" {
		t.Fatalf("summary: %+v", s)
	}

	if w := me("+918888888888"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown member: %d", w.Code)
	}
}

type fakeSuggester struct {
	err    error
	budget int64
	n      int
}

func (f *fakeSuggester) Suggest(ctx context.Context, budget int64, schemes []calc.View) (string, error) {
	f.budget, f.n = budget, len(schemes)
	return "Try the Standard Plan.", f.err
}

func TestSuggestScheme(t *testing.T) {
	setup(t)
	w, _ := doJSON(t, SuggestScheme, http.MethodPost, "", `{"budget":7000}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("no assistant: %d", w.Code)
	}

	f := &fakeSuggester{}
	config.Assistant = f
	defer func() { config.Assistant = nil }()

	w, out := doJSON(t, SuggestScheme, http.MethodPost, "", `{"budget":7000}`)
	if w.Code != http.StatusOK || out["suggestion"] != "Try the Standard Plan." {
		t.Fatalf("got %d %v", w.Code, out)
	}
	if f.budget != 7000 || f.n != 4 {
		t.Fatalf("suggester saw budget %d and %d schemes", f.budget, f.n)
	}

	if w, _ := doJSON(t, SuggestScheme, http.MethodPost, "", `{"budget":0}`); w.Code != http.StatusBadRequest {
		t.Fatalf("zero budget: %d", w.Code)
	}

	f.err = errors.New("quota")
	if w, _ := doJSON(t, SuggestScheme, http.MethodPost, "", `{"budget":7000}`); w.Code != http.StatusBadGateway {
		t.Fatalf("failing assistant: %d", w.Code)
	}
}

func TestHubBroadcastsChanges(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	client := &Client{hub: h, send: make(chan []byte, 4), user: "owner@example.com"}
	h.register <- client
	h.Notify("schemes")

	select {
	case msg := <-client.send:
		var ev LiveEvent
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Collection != "schemes" || ev.Type != "changed" {
			t.Fatalf("unexpected event %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	cancel()
	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("send channel must be closed on shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}
}
