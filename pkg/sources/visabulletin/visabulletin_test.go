package visabulletin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/whttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = `<table>
<tr><td>Employment-based</td><td>All Chargeability Areas Except Those Listed</td><td>CHINA-mainland born</td><td>INDIA</td><td>MEXICO</td><td>PHILIPPINES</td></tr>
<tr><td>1st</td><td>C</td><td>%s</td><td>01FEB22</td><td>C</td><td>C</td></tr>
<tr><td>2nd</td><td>01APR24</td><td>01DEC20</td><td>%s</td><td>01APR24</td><td>01APR24</td></tr>
<tr><td>3rd</td><td>01APR23</td><td>01NOV20</td><td>01NOV13</td><td>01APR23</td><td>01APR23</td></tr>
<tr><td>Other Workers</td><td>01JAN21</td><td>01JAN17</td><td>01NOV13</td><td>01JAN21</td><td>01JAN21</td></tr>
<tr><td>5th Unreserved</td><td>C</td><td>U</td><td>01DEC20</td><td>C</td><td>C</td></tr>
</table>`

func page() string {
	return `<html><head><title>Visa Bulletin For November 2024</title></head><body>
<table><tr><td>Family-Sponsored</td><td>All Chargeability</td></tr><tr><td>F1</td><td>08NOV15</td></tr></table>` +
		fmt.Sprintf(table, "01NOV22", "01JAN13") +
		fmt.Sprintf(table, "01AUG23", "01DEC13") +
		`</body></html>`
}

func TestParse(t *testing.T) {
	part, err := Parse(page())
	require.NoError(t, err)
	require.NoError(t, part.Validate())

	fa := part.Bulletin.FinalAction
	assert.Equal(t, bulletin.Row{AllOther: "Current", China: "Nov 2022", India: "Feb 2022"}, fa[bulletin.EB1])
	assert.Equal(t, "Jan 2013", fa[bulletin.EB2].India)
	assert.Len(t, fa, 3)
	assert.Equal(t, "Dec 2013", part.Bulletin.DatesForFiling[bulletin.EB2].India)
	assert.Equal(t, "Aug 2023", part.Bulletin.DatesForFiling[bulletin.EB1].China)
}

func TestParseNeedsBothCharts(t *testing.T) {
	_, err := Parse("<html><body>" + fmt.Sprintf(table, "C", "C") + "</body></html>")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page()))
	}))
	defer srv.Close()

	client, err := whttp.NewClient(whttp.Options{RetryMax: 1})
	require.NoError(t, err)
	part, err := New(srv.URL, client).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Nov 2024", part.AsOf.String())
	assert.Equal(t, "Apr 2024", part.Bulletin.FinalAction[bulletin.EB2].AllOther)
}
