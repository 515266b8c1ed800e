package ui

import (
	"bytes"
	"net/http"

	"churnboard/adapters/excel"
	"churnboard/domain/sheet"
	"churnboard/internal/model"
	"churnboard/internal/pagination"
	"churnboard/internal/reconcile"
	"churnboard/internal/report"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handlePredictChurn returns paged prediction records: the caller's
// original columns plus the prediction columns.
func (s *Server) handlePredictChurn(c *gin.Context) {
	page, pageSize, search, err := pagingParams(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}

	predictions, err := s.predictor.PredictSheet(c.Request.Context(), loaded)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	records := make([]sheet.Row, len(predictions))
	for i, p := range predictions {
		records[i] = p.Record()
	}

	result, err := pagination.FilterAndPage(records, search, page, pageSize)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns":     model.RecordHeaders(loaded.Headers),
		"preview":     result.Rows,
		"total_rows":  result.TotalRows,
		"page":        result.Number,
		"page_size":   result.Size,
		"total_pages": result.TotalPages,
	})
}

// handleDownloadPredictions streams the full prediction set as a new
// workbook. The source workbook is never modified.
func (s *Server) handleDownloadPredictions(c *gin.Context) {
	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}

	predictions, err := s.predictor.PredictSheet(c.Request.Context(), loaded)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	headers := model.RecordHeaders(loaded.Headers)
	rows := make([]map[string]string, len(predictions))
	for i, p := range predictions {
		rows[i] = p.Record()
	}

	var buf bytes.Buffer
	if err := excel.WritePredictions(&buf, "Predictions", headers, rows); err != nil {
		s.abortWithError(c, err)
		return
	}

	filename := c.Param("file") + "_" + c.Param("sheet") + "_predictions.xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handlePredictionsStats returns aggregate counts and means over the
// prediction set.
func (s *Server) handlePredictionsStats(c *gin.Context) {
	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}

	predictions, err := s.predictor.PredictSheet(c.Request.Context(), loaded)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Summarize(predictions))
}

// handleModelAccuracy scores predictions against ground truth, using only
// rows whose churn label is a valid number. Rows with missing or
// unparseable labels are excluded from scoring, not treated as 0.
func (s *Server) handleModelAccuracy(c *gin.Context) {
	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}

	scored := sheet.Sheet{Name: loaded.Name, Headers: loaded.Headers}
	var truth []int
	for _, row := range loaded.Rows {
		if label, valid := reconcile.ChurnTruth(row); valid {
			scored.Rows = append(scored.Rows, row)
			truth = append(truth, label)
		}
	}

	predictions, err := s.predictor.PredictSheet(c.Request.Context(), scored)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	predicted := make([]int, len(predictions))
	probabilities := make([]float64, len(predictions))
	for i, p := range predictions {
		predicted[i] = p.Label
		probabilities[i] = p.Probability
	}

	result, err := report.Evaluate(truth, predicted, probabilities)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleFeatureImportance returns the global importance shares over the
// fixed inference-time feature list.
func (s *Server) handleFeatureImportance(c *gin.Context) {
	importances, err := report.ImportancePercentages(
		s.artifacts.Classifier.FeatureNames,
		s.artifacts.Classifier.Importances,
	)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"features": importances,
		"ranked":   report.SortedByPercent(importances),
	})
}

// handleModelTrainingMetrics serves the persisted metrics artifact
// verbatim.
func (s *Server) handleModelTrainingMetrics(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", s.artifacts.TrainingMetrics)
}
