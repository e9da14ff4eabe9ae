package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type cartBody struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=10"`
}

func bindBody(body string, v interface{}) (*httptest.ResponseRecorder, bool) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	return w, Bind(w, r, v)
}

func TestBind_ReportsJSONFieldNames(t *testing.T) {
	var body signupBody
	w, ok := bindBody(`{"name":"Asha","email":"not-an-email","phone":"","password":"secret1"}`, &body)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	raw, err := json.Marshal(response.Error.Details["validation_errors"])
	require.NoError(t, err)
	var fields []ValidationError
	require.NoError(t, json.Unmarshal(raw, &fields))

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "phone"}, names)
}

func TestBind_MalformedJSON(t *testing.T) {
	var body signupBody
	w, ok := bindBody(`{"name":`, &body)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "invalid request body", response.Message)
}

func TestBind_AcceptsValidBody(t *testing.T) {
	var body cartBody
	_, ok := bindBody(`{"productId":"p1"}`, &body)
	require.True(t, ok)
	assert.Equal(t, "p1", body.ProductID)
	assert.Zero(t, body.Quantity)
}

// Cart quantities outside [1, 10] never pass validation; zero means "not given"
func TestProperty_CartQuantityBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantity validation matches the cart bounds", prop.ForAll(
		func(quantity int) bool {
			err := ValidateRequest(cartBody{ProductID: "p1", Quantity: quantity})
			want := quantity == 0 || (quantity >= 1 && quantity <= 10)
			return (err == nil) == want
		},
		gen.IntRange(-20, 40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Missing required fields are always reported
func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("an empty required field fails validation", prop.ForAll(
		func(name string, dropName bool) bool {
			body := signupBody{Name: name, Email: "a@b.co", Phone: "999", Password: "secret1"}
			if dropName {
				body.Name = ""
			}
			errs := FormatValidationErrors(ValidateRequest(body))
			if dropName {
				return len(errs) == 1 && errs[0].Field == "name" && errs[0].Message == "please provide name"
			}
			return len(errs) == 0
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
