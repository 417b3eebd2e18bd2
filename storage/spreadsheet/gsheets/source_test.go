package gsheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/trezcool/hwunzipper/core/roster"
)

const spreadsheetID = "sheet-id"

func setup(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	src, err := New(context.Background(), spreadsheetID,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return src
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func TestSource_Cells(t *testing.T) {
	src := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/spreadsheets/"+spreadsheetID), r.URL.Path)
		assert.Equal(t, "Sheet1!B205:B217", r.URL.Query().Get("ranges"))
		assert.Equal(t, "true", r.URL.Query().Get("includeGridData"))

		writeJSON(t, w, map[string]interface{}{
			"spreadsheetId": spreadsheetID,
			"sheets": []interface{}{map[string]interface{}{
				"data": []interface{}{map[string]interface{}{
					"rowData": []interface{}{
						map[string]interface{}{"values": []interface{}{map[string]interface{}{
							"formattedValue":    "Иван Филипов",
							"userEnteredValue":  map[string]interface{}{"stringValue": "Иван Филипов"},
							"userEnteredFormat": map[string]interface{}{"backgroundColor": map[string]interface{}{"red": 1}},
							"effectiveFormat":   map[string]interface{}{"backgroundColor": map[string]interface{}{"red": 1, "green": 0.5}},
						}}},
						map[string]interface{}{},
						map[string]interface{}{"values": []interface{}{map[string]interface{}{"formattedValue": "81234"}}},
					},
				}},
			}},
		})
	})

	rows, err := src.Cells(context.Background(), "Sheet1!B205:B217")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []roster.Cell{{
		Value:          "Иван Филипов",
		EnteredColor:   &roster.Color{Red: 1},
		EffectiveColor: &roster.Color{Red: 1, Green: 0.5},
	}}, rows[0])
	assert.Empty(t, rows[1])
	assert.Equal(t, []roster.Cell{{Value: "81234"}}, rows[2])
}

func TestSource_Values(t *testing.T) {
	src := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/values/")
		writeJSON(t, w, map[string]interface{}{
			"range":  "Sheet1!D198:R198",
			"values": [][]interface{}{{"20 10 2019, 23:59", "3 11 2019, 9:30"}},
		})
	})

	rows, err := src.Values(context.Background(), "Sheet1!D198:R198")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"20 10 2019, 23:59", "3 11 2019, 9:30"}}, rows)
}

func TestSource_apiError(t *testing.T) {
	src := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "The caller does not have permission"}}`))
	})

	_, err := src.Values(context.Background(), "Sheet1!D198:R198")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission")
}
