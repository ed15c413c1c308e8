package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"moneycircle/native/circle"
)

func TestCircleStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/circles/c42/status", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"circle": map[string]any{
				"circle_id":           "c42",
				"status":              "Active",
				"n_members":           3,
				"contribution_units":  "5000000",
				"collateral_rate_bps": 1000,
			},
			"member": map[string]any{
				"join_status":  "onchain_joined",
				"withdrawable": "123",
			},
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	res, err := c.CircleStatus(context.Background(), "tok", "c42")
	require.NoError(t, err)
	require.Equal(t, "c42", res.Circle.ID)
	require.Equal(t, circle.StatusActive, res.Circle.Status)
	require.Equal(t, int64(5_000_000), res.Circle.ContributionUnits.BigInt().Int64())
	require.True(t, res.Member.OnchainJoined())
	require.Equal(t, int64(123), res.Member.Withdrawable.BigInt().Int64())
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "NOT_MEMBER", "message": "join first"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	_, err = c.CircleStatus(context.Background(), "tok", "c42")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "NOT_MEMBER", apiErr.Code)
	require.Equal(t, "join first", apiErr.Message)
}

func TestAPIErrorFallbackCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	_, err = c.CircleStatus(context.Background(), "", "c42")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "API_ERROR", apiErr.Code)
	require.Equal(t, "gateway exploded", apiErr.Message)
}

func TestDepositIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/deposit-intents", r.URL.Path)
		var req DepositIntentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, PurposeCollateral, req.Purpose)
		require.Equal(t, "10.5", req.AmountUSDT)
		_ = json.NewEncoder(w).Encode(DepositIntentResponse{
			JettonWallet:  "EQjw",
			TxValueNano:   "120000000",
			PayloadBase64: "te6cc",
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	res, err := c.DepositIntent(context.Background(), "tok", DepositIntentRequest{
		CircleID: "c42", Purpose: PurposeCollateral, AmountUSDT: "10.5",
	})
	require.NoError(t, err)
	require.Equal(t, "EQjw", res.JettonWallet)
	require.Equal(t, "120000000", res.TxValueNano)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("not a url", nil, nil)
	require.Error(t, err)
	_, err = New("/relative", nil, nil)
	require.Error(t, err)
}
