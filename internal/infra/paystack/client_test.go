package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "sk_test_123", time.Second)
}

func TestClient_VerifySuccess(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref-1", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{
			"status":"success","amount":8000,"currency":"GHS","reference":"ref-1-canonical",
			"paid_at":"2026-03-01T10:00:00Z","channel":"mobile_money"}}`))
	})

	res, err := c.Verify(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, int64(8000), res.AmountMinor)
	assert.Equal(t, "GHS", res.Currency)
	assert.Equal(t, "ref-1-canonical", res.Reference)
	assert.Equal(t, "mobile_money", res.Channel)
	require.NotNil(t, res.PaidAt)
	assert.Equal(t, 2026, res.PaidAt.Year())
}

func TestClient_VerifyUnsuccessful(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"abandoned payment", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":true,"data":{"status":"abandoned","amount":8000,"paid_at":null}}`))
		}},
		{"gateway says false", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
		}},
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newGateway(t, tt.handler)
			res, err := c.Verify(context.Background(), "ref")
			require.NoError(t, err)
			assert.False(t, res.OK)
		})
	}
}

func TestClient_VerifyTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_123", 50*time.Millisecond)
	res, err := c.Verify(context.Background(), "ref")
	require.NoError(t, err)
	assert.False(t, res.OK)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient("", "", time.Second)

	_, err := c.Verify(context.Background(), "ref")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.Initialize(context.Background(), InitializeRequest{Email: "a@b.com", AmountMinor: 100})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_Initialize(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])
		assert.EqualValues(t, 8000, body["amount"])
		assert.Equal(t, "GHS", body["currency"])

		_, _ = w.Write([]byte(`{"status":true,"data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"ref-9"}}`))
	})

	res, err := c.Initialize(context.Background(), InitializeRequest{Email: "a@b.com", AmountMinor: 8000, Currency: "GHS"})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", res.AuthorizationURL)
	assert.Equal(t, "ref-9", res.Reference)
}

func TestClient_InitializeRejected(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	})

	_, err := c.Initialize(context.Background(), InitializeRequest{Email: "a@b.com", AmountMinor: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}
