// Package ui is the HTTP surface of the service: a thin gin adapter that
// parses requests and delegates to the pipeline packages.
package ui

import (
	"net/http"
	"strconv"

	"churnboard/adapters/excel"
	"churnboard/adapters/postgres"
	"churnboard/domain/sheet"
	"churnboard/internal"
	"churnboard/internal/dataset"
	"churnboard/internal/errors"
	"churnboard/internal/model"

	"github.com/gin-gonic/gin"
)

// Server wires the HTTP routes to the analytics and prediction pipeline.
type Server struct {
	router    *gin.Engine
	store     *dataset.WorkbookStore
	artifacts *model.Artifacts
	predictor *model.Predictor
	registry  postgres.UploadRegistry // nil when no registry database is configured
	log       *internal.Logger
}

// Config holds server settings.
type Config struct {
	GinMode string
}

// NewServer creates the server and registers all routes.
func NewServer(cfg Config, store *dataset.WorkbookStore, artifacts *model.Artifacts, registry postgres.UploadRegistry, logger *internal.Logger) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:    gin.New(),
		store:     store,
		artifacts: artifacts,
		predictor: model.NewPredictor(artifacts),
		registry:  registry,
		log:       logger,
	}

	s.router.Use(gin.Recovery(), RequestID(), CORS())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/get_files", s.handleGetFiles)
	s.router.DELETE("/delete_file/:file", s.handleDeleteFile)
	s.router.GET("/upload_events", s.handleUploadEvents)

	s.router.GET("/get_sheets/:file", s.handleGetSheets)
	s.router.GET("/get_sheets_data/:file/:sheet", s.handleGetSheetsData)
	s.router.GET("/get_all_columns/:file/:sheet", s.handleGetAllColumns)
	s.router.GET("/get_column_frequency/:file/:sheet/:column", s.handleGetColumnFrequency)
	s.router.GET("/get_correlation_heatmap/:file/:sheet", s.handleGetCorrelationHeatmap)
	s.router.GET("/get_distribution_vs_churn/:file/:sheet/:column", s.handleGetDistributionVsChurn)

	s.router.GET("/predict_churn/:file/:sheet", s.handlePredictChurn)
	s.router.GET("/download_predictions/:file/:sheet", s.handleDownloadPredictions)
	s.router.GET("/predictions_stats/:file/:sheet", s.handlePredictionsStats)
	s.router.GET("/model_accuracy/:file/:sheet", s.handleModelAccuracy)
	s.router.GET("/feature_importance", s.handleFeatureImportance)
	s.router.GET("/model_training_metrics", s.handleModelTrainingMetrics)
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP listener.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// abortWithError logs a caught error server-side and returns a structured
// body to the caller, mapping the error code to an HTTP status. The raw
// cause never leaks beyond the error's string message.
func (s *Server) abortWithError(c *gin.Context, err error) {
	s.log.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// loadSheet resolves the file and sheet route params to a freshly loaded
// sheet. No cross-request caching: each request reads from storage.
func (s *Server) loadSheet(c *gin.Context) (sheet.Sheet, bool) {
	file := c.Param("file")
	if !s.store.Exists(file) {
		s.abortWithError(c, errors.NotFound("file "+strconv.Quote(file)))
		return sheet.Sheet{}, false
	}

	reader := excel.NewWorkbookReader(s.store.Path(file))
	loaded, err := reader.ReadSheet(c.Param("sheet"))
	if err != nil {
		s.abortWithError(c, err)
		return sheet.Sheet{}, false
	}
	return loaded, true
}

// pagingParams parses page, page_size, and search query parameters.
// Defaults match the original dashboard: page 1, 50 rows per page.
func pagingParams(c *gin.Context) (page, pageSize int, search string, err error) {
	page, err = intQuery(c, "page", 1)
	if err != nil {
		return 0, 0, "", err
	}
	pageSize, err = intQuery(c, "page_size", 50)
	if err != nil {
		return 0, 0, "", err
	}
	return page, pageSize, c.Query("search"), nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(name + " must be an integer")
	}
	return v, nil
}
