package uscis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/whttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const i140 = `{"data":{"processing_time":{"form_name":"I-140","range":[{"unit":"Months","value":9},{"unit":"Months","value":6}],"premium_processing":{"unit":"Days","value":15}}}}`

func TestParse(t *testing.T) {
	ft, err := Parse(i140)
	require.NoError(t, err)
	assert.Equal(t, 6.0, ft.MinMonths)
	assert.Equal(t, 9.0, ft.MaxMonths)
	assert.InDelta(t, 0.5, ft.PremiumMonths, 1e-9)

	ft, err = Parse(`{"data":{"processing_time":{"range":[{"unit":"Weeks","value":30},{"unit":"Weeks","value":60}]}}}`)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, ft.MinMonths, 1e-9)
	assert.InDelta(t, 14.0, ft.MaxMonths, 1e-9)

	_, err = Parse(`{"data":{}}`)
	assert.Error(t, err)
	_, err = Parse(`<html>`)
	assert.Error(t, err)
}

func TestFetchSkipsBrokenForms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/I-140") {
			_, _ = w.Write([]byte(i140))
			return
		}
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client, err := whttp.NewClient(whttp.Options{RetryMax: 1})
	require.NoError(t, err)
	part, err := New(srv.URL+"/", client).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, part.USCIS, 1)
	assert.Equal(t, 9.0, part.USCIS[catalog.FormI140].MaxMonths)
}

func TestFetchFailsWhenNothingParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := whttp.NewClient(whttp.Options{RetryMax: 1})
	require.NoError(t, err)
	_, err = New(srv.URL, client).Fetch(context.Background())
	assert.Error(t, err)
}
