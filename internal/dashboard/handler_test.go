package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	httperr "github.com/salesboard/salesboard/internal/core/errors"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	svc.RegisterRoutes(router)
	return router
}

func serve(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlers_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		loadErr        error
		expectedStatus int
		expectedType   string
	}{
		{name: "overview", path: "/v1/tabs/overview", expectedStatus: http.StatusOK},
		{name: "store options", path: "/v1/tabs/stores", expectedStatus: http.StatusOK},
		{name: "store", path: "/v1/tabs/stores/1", expectedStatus: http.StatusOK},
		{name: "unknown store is empty", path: "/v1/tabs/stores/404", expectedStatus: http.StatusOK},
		{name: "invalid store", path: "/v1/tabs/stores/abc", expectedStatus: http.StatusBadRequest, expectedType: httperr.HttpInvalidQueryError},
		{name: "state options", path: "/v1/tabs/states", expectedStatus: http.StatusOK},
		{name: "state", path: "/v1/tabs/states/Guayas", expectedStatus: http.StatusOK},
		{name: "insights", path: "/v1/tabs/insights", expectedStatus: http.StatusOK},
		{name: "panel list", path: "/v1/panels", expectedStatus: http.StatusOK},
		{name: "panel", path: "/v1/panels/families_by_store?selector=1", expectedStatus: http.StatusOK},
		{name: "unknown panel", path: "/v1/panels/missing", expectedStatus: http.StatusNotFound, expectedType: httperr.HttpPanelNotFoundError},
		{name: "bad selector", path: "/v1/panels/families_by_store?selector=x", expectedStatus: http.StatusBadRequest, expectedType: httperr.HttpInvalidQueryError},
		{name: "load failure", path: "/v1/tabs/overview", loadErr: errors.New("timeout"), expectedStatus: http.StatusServiceUnavailable, expectedType: httperr.HttpDataUnavailableError},
		{name: "load failure on export", path: "/v1/export.xlsx", loadErr: errors.New("timeout"), expectedStatus: http.StatusServiceUnavailable, expectedType: httperr.HttpDataUnavailableError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := fixtureTable()
			if tt.loadErr != nil {
				tbl = nil
			}
			router := newTestRouter(t, newTestService(t, tbl, tt.loadErr))

			w := serve(router, tt.path)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedType != "" {
				var body httperr.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				require.Equal(t, tt.expectedType, body.ErrorType)
				require.NotEmpty(t, body.Message)
			}
		})
	}
}

func TestHandleStore_Body(t *testing.T) {
	router := newTestRouter(t, newTestService(t, fixtureTable(), nil))

	w := serve(router, "/v1/tabs/stores/01")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		StoreNbr   string `json:"store_nbr"`
		TotalSales struct {
			Display string `json:"display"`
		} `json:"total_sales"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "1", body.StoreNbr)
	require.Equal(t, "150", body.TotalSales.Display)
}

func TestHandlePanelChart(t *testing.T) {
	router := newTestRouter(t, newTestService(t, fixtureTable(), nil))

	w := serve(router, "/v1/panels/families_by_store/chart.png?selector=1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)

	pie := serve(router, "/v1/panels/store_types/chart.png")
	require.Equal(t, http.StatusOK, pie.Code)

	stale := serve(router, "/v1/panels/families_by_store/chart.png?selector=999")
	require.Equal(t, http.StatusNoContent, stale.Code)
	require.Zero(t, stale.Body.Len())
}

func TestHandleExport(t *testing.T) {
	router := newTestRouter(t, newTestService(t, fixtureTable(), nil))

	w := serve(router, "/v1/export.xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "salesboard.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Top families")
	require.NoError(t, err)
	require.Equal(t, []string{"family", "value"}, rows[0])
	require.Equal(t, []string{"GROCERY I", "130"}, rows[1])
}
