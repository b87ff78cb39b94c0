package dol

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gcpath/gcpath/pkg/whttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<table><caption>Prevailing Wage Determinations</caption>
<tr><th>Program</th><th>Month</th></tr>
<tr><td>H-1B</td><td>February 2024</td></tr>
<tr><td>PERM</td><td>March 2024</td></tr>
</table>
<table><caption>PERM Processing Times</caption>
<tr><th>Queue</th><th>Priority Date</th></tr>
<tr><td>Analyst Review</td><td>December 2022</td></tr>
<tr><td>Audit Review</td><td>June 2022</td></tr>
</table>
</body></html>`

func TestParse(t *testing.T) {
	part, err := Parse(page)
	require.NoError(t, err)
	assert.Equal(t, "Mar 2024", part.DOL.PrevailingWage)
	assert.Equal(t, "Dec 2022", part.DOL.PERM)
	require.NoError(t, part.Validate())
}

func TestParseNothing(t *testing.T) {
	_, err := Parse("<html><table><tr><td>x</td></tr></table></html>")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	client, err := whttp.NewClient(whttp.Options{RetryMax: 1})
	require.NoError(t, err)
	part, err := New(srv.URL, client).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dec 2022", part.DOL.PERM)
}
