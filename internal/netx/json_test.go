package netx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	type reqBody struct {
		Email string `json:"email"`
	}
	type respBody struct {
		Token string `json:"token"`
	}

	t.Run("success sends body and bearer", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))

			var in reqBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "a@example.com", in.Email)

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"token":"t1"}`))
		}))
		defer ts.Close()

		var out respBody
		err := DoJSON(context.Background(), ts.Client(), http.MethodPost, ts.URL, "abc", reqBody{Email: "a@example.com"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "t1", out.Token)
	})

	t.Run("no body and no bearer", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Empty(t, r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		require.NoError(t, DoJSON(context.Background(), ts.Client(), http.MethodGet, ts.URL, "", nil, nil))
	})

	t.Run("error body message", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"Unauthorized"}`))
		}))
		defer ts.Close()

		err := DoJSON(context.Background(), ts.Client(), http.MethodGet, ts.URL, "", nil, nil)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusUnauthorized, se.Code)
		assert.Equal(t, "Unauthorized", se.Message)
		assert.Equal(t, "request failed: 401 Unauthorized", se.Error())
	})

	t.Run("error without json body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		err := DoJSON(context.Background(), ts.Client(), http.MethodGet, ts.URL, "", nil, nil)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusForbidden, se.Code)
		assert.Empty(t, se.Message)
		assert.Contains(t, err.Error(), "403 Forbidden")
	})

	t.Run("bad response json", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer ts.Close()

		var out respBody
		err := DoJSON(context.Background(), ts.Client(), http.MethodGet, ts.URL, "", nil, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := DoJSON(context.Background(), http.DefaultClient, http.MethodGet, ts.URL, "", nil, nil)
		require.Error(t, err)

		var se *StatusError
		assert.False(t, errors.As(err, &se))
	})
}
