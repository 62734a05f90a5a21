package dashboard

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	coreagg "github.com/salesboard/salesboard/internal/core/aggregation"
	httperr "github.com/salesboard/salesboard/internal/core/errors"
	"github.com/salesboard/salesboard/internal/export"
	"github.com/salesboard/salesboard/internal/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RegisterRoutes registers all dashboard API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1")

	v1.GET("/tabs/overview", s.HandleOverview)
	v1.GET("/tabs/stores", s.HandleStoreOptions)
	v1.GET("/tabs/stores/:store_nbr", s.HandleStore)
	v1.GET("/tabs/states", s.HandleStateOptions)
	v1.GET("/tabs/states/:state", s.HandleState)
	v1.GET("/tabs/insights", s.HandleInsights)

	v1.GET("/panels", s.HandleListPanels)
	v1.GET("/panels/:name", s.HandlePanel)
	v1.GET("/panels/:name/chart.png", s.HandlePanelChart)

	v1.GET("/export.xlsx", s.HandleExport)
}

// HandleOverview handles GET /v1/tabs/overview
func (s *Service) HandleOverview(c *gin.Context) {
	view, err := s.Overview(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to build overview", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleStoreOptions handles GET /v1/tabs/stores
func (s *Service) HandleStoreOptions(c *gin.Context) {
	opts, err := s.StoreOptions(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list stores", err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// HandleStore handles GET /v1/tabs/stores/:store_nbr
func (s *Service) HandleStore(c *gin.Context) {
	view, err := s.Store(c.Request.Context(), c.Param("store_nbr"))
	if err != nil {
		writeError(c, "Failed to build store view", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleStateOptions handles GET /v1/tabs/states
func (s *Service) HandleStateOptions(c *gin.Context) {
	opts, err := s.StateOptions(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list states", err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// HandleState handles GET /v1/tabs/states/:state
func (s *Service) HandleState(c *gin.Context) {
	view, err := s.State(c.Request.Context(), c.Param("state"))
	if err != nil {
		writeError(c, "Failed to build state view", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleInsights handles GET /v1/tabs/insights
func (s *Service) HandleInsights(c *gin.Context) {
	view, err := s.Insights(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to build insights", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleListPanels handles GET /v1/panels
func (s *Service) HandleListPanels(c *gin.Context) {
	panels, err := s.Panels(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list panels", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"panels": panels})
}

// HandlePanel handles GET /v1/panels/:name
// Query parameters: selector
func (s *Service) HandlePanel(c *gin.Context) {
	result, err := s.Panel(c.Request.Context(), c.Param("name"), c.Query("selector"))
	if err != nil {
		writeError(c, "Failed to evaluate panel", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandlePanelChart handles GET /v1/panels/:name/chart.png
// An empty result renders nothing and returns 204.
func (s *Service) HandlePanelChart(c *gin.Context) {
	result, err := s.Panel(c.Request.Context(), c.Param("name"), c.Query("selector"))
	if err != nil {
		writeError(c, "Failed to evaluate panel", err)
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, result.Panel.Visualize, result.Panel.Title, result.Rows); err != nil {
		if errors.Is(err, render.ErrNoData) {
			c.Status(http.StatusNoContent)
			return
		}
		writeError(c, "Failed to render chart", err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// HandleExport handles GET /v1/export.xlsx
func (s *Service) HandleExport(c *gin.Context) {
	sheets, err := s.Workbook(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to build workbook", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, sheets); err != nil {
		writeError(c, "Failed to write workbook", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="salesboard.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func writeError(c *gin.Context, message string, err error) {
	status, errorType := http.StatusInternalServerError, httperr.HttpInternalError
	switch {
	case errors.Is(err, ErrInvalidQuery):
		status, errorType = http.StatusBadRequest, httperr.HttpInvalidQueryError
	case errors.Is(err, coreagg.ErrPanelNotFound):
		status, errorType = http.StatusNotFound, httperr.HttpPanelNotFoundError
	case errors.Is(err, ErrDataUnavailable):
		status, errorType = http.StatusServiceUnavailable, httperr.HttpDataUnavailableError
	}

	c.JSON(status, httperr.ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   err.Error(),
	})
}
