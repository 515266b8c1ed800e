package ui

import (
	"net/http"
	"strconv"

	"churnboard/adapters/excel"
	"churnboard/internal/aggregate"
	"churnboard/internal/analysis"
	"churnboard/internal/errors"
	"churnboard/internal/pagination"

	"github.com/gin-gonic/gin"
)

// handleGetSheets lists the worksheet names of one workbook.
func (s *Server) handleGetSheets(c *gin.Context) {
	file := c.Param("file")
	if !s.store.Exists(file) {
		s.abortWithError(c, errors.NotFound("file "+strconv.Quote(file)))
		return
	}

	reader := excel.NewWorkbookReader(s.store.Path(file))
	sheets, err := reader.SheetNames()
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheets": sheets})
}

// handleGetSheetsData returns a paged, optionally filtered row view.
func (s *Server) handleGetSheetsData(c *gin.Context) {
	page, pageSize, search, err := pagingParams(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}

	result, err := pagination.FilterAndPage(loaded.Rows, search, page, pageSize)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns":     loaded.Headers,
		"preview":     result.Rows,
		"total_rows":  result.TotalRows,
		"page":        result.Number,
		"page_size":   result.Size,
		"total_pages": result.TotalPages,
	})
}

// handleGetAllColumns returns the column name list of a sheet.
func (s *Server) handleGetAllColumns(c *gin.Context) {
	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": loaded.Headers})
}

// handleGetColumnFrequency returns the per-column frequency table.
func (s *Server) handleGetColumnFrequency(c *gin.Context) {
	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}

	column := c.Param("column")
	if !loaded.HasColumn(column) {
		s.abortWithError(c, errors.NotFound("column "+strconv.Quote(column)))
		return
	}

	result := aggregate.AggregateColumn(loaded, column)
	c.JSON(http.StatusOK, gin.H{
		"column":    column,
		"kind":      result.Kind,
		"frequency": result.Table,
	})
}

// handleGetCorrelationHeatmap returns the numeric-column pairwise
// correlation matrix.
func (s *Server) handleGetCorrelationHeatmap(c *gin.Context) {
	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}

	heatmap, err := analysis.CorrelationHeatmap(loaded)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

// handleGetDistributionVsChurn returns one column's distribution split by
// churn label.
func (s *Server) handleGetDistributionVsChurn(c *gin.Context) {
	loaded, ok := s.loadSheet(c)
	if !ok {
		return
	}

	dist, err := analysis.DistributionVsChurn(loaded, c.Param("column"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dist)
}
