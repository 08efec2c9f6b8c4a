package monetization

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const productsBody = `{
	"inSkillProducts": [
		{
			"productId": "amzn1.adg.product.sharing",
			"referenceName": "Sharing_Pack",
			"name": "Sharing Pack",
			"type": "CONSUMABLE",
			"summary": "Five coins for sharing greetings",
			"entitled": "ENTITLED",
			"purchasable": "PURCHASABLE",
			"activeEntitlementCount": 2,
			"purchaseMode": "TEST",
			"price": {"amount": "0.99", "currencyCode": "USD"}
		},
		{
			"productId": "amzn1.adg.product.other",
			"referenceName": "Other_Pack",
			"name": "Other Pack",
			"entitled": "NOT_ENTITLED",
			"purchasable": "NOT_PURCHASABLE",
			"activeEntitlementCount": 0
		}
	],
	"nextToken": null
}`

func TestGetCatalog_HappyPath(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productsBody))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))
	catalog, err := c.GetCatalog(context.Background(), Credentials{APIEndpoint: srv.URL + "/", APIAccessToken: "tok"}, "en-us")
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	require.Equal(t, productsPath, gotReq.URL.Path)
	require.Equal(t, "Bearer tok", gotReq.Header.Get("Authorization"))
	require.Equal(t, "en-US", gotReq.Header.Get("Accept-Language"))

	pack := catalog[0]
	require.Equal(t, "Sharing_Pack", pack.ReferenceName)
	require.True(t, pack.Entitled)
	require.True(t, pack.Purchasable)
	require.Equal(t, 2, pack.ActiveEntitlementCount)
	require.NotNil(t, pack.Price)
	require.Equal(t, "USD", pack.Price.Currency)

	other := catalog[1]
	require.False(t, other.Entitled)
	require.False(t, other.Purchasable)
	require.Nil(t, other.Price)
}

func TestGetCatalog_FollowsNextToken(t *testing.T) {
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next := r.URL.Query().Get("nextToken")
		tokens = append(tokens, next)
		if next == "" {
			_, _ = w.Write([]byte(`{"inSkillProducts":[{"productId":"a","referenceName":"A"}],"nextToken":"page 2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"inSkillProducts":[{"productId":"b","referenceName":"B"}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))
	catalog, err := c.GetCatalog(context.Background(), Credentials{APIEndpoint: srv.URL, APIAccessToken: "tok"}, "de-DE")
	require.NoError(t, err)
	require.Equal(t, []string{"", "page 2"}, tokens)
	require.Len(t, catalog, 2)
	require.Equal(t, "b", catalog[1].ProductID)
}

func TestGetCatalog_EmptyCatalogIsNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"inSkillProducts":[]}`))
	}))
	defer srv.Close()

	catalog, err := NewClient(WithHTTPClient(srv.Client())).GetCatalog(context.Background(), Credentials{APIEndpoint: srv.URL, APIAccessToken: "tok"}, "en-US")
	require.NoError(t, err)
	require.NotNil(t, catalog)
	require.Empty(t, catalog)
}

func TestGetCatalog_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"denied"}`))
	}))
	defer srv.Close()

	_, err := NewClient(WithHTTPClient(srv.Client())).GetCatalog(context.Background(), Credentials{APIEndpoint: srv.URL, APIAccessToken: "tok"}, "en-US")
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusForbidden, statusErr.HTTPStatusCode())
	require.Contains(t, statusErr.Body, "denied")
}

func TestGetCatalog_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"inSkillProducts":`))
	}))
	defer srv.Close()

	_, err := NewClient(WithHTTPClient(srv.Client())).GetCatalog(context.Background(), Credentials{APIEndpoint: srv.URL, APIAccessToken: "tok"}, "en-US")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode response")
}

func TestGetCatalog_ValidatesCredentials(t *testing.T) {
	c := NewClient()
	_, err := c.GetCatalog(context.Background(), Credentials{APIEndpoint: "https://api.example.com"}, "en-US")
	require.ErrorContains(t, err, "access token")

	_, err = c.GetCatalog(context.Background(), Credentials{APIAccessToken: "tok"}, "en-US")
	require.ErrorContains(t, err, "endpoint")
}

func TestGetCatalog_NilHTTPClientUsesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"inSkillProducts":[]}`))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(nil))
	_, err := c.GetCatalog(context.Background(), Credentials{APIEndpoint: srv.URL, APIAccessToken: "tok"}, "en-US")
	require.NoError(t, err)
}

func TestNormalizeLocale(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en-US", "en-US"},
		{"en-gb", "en-GB"},
		{"ja-JP", "ja-JP"},
		{"", "en-US"},
		{"not a locale!", "en-US"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NormalizeLocale(tc.in), "locale=%q", tc.in)
	}
}
