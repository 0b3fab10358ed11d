package server

import (
	"cmp"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/etnz/analyzer"
	"github.com/etnz/analyzer/date"
	"github.com/etnz/analyzer/renderer"
)

type analysisRequest struct {
	Tickers   []string `json:"tickers" binding:"required,min=1,dive,ticker"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

func (r analysisRequest) dates() (date.Range, error) {
	return parseRange(r.StartDate, r.EndDate)
}

type tickersRequest struct {
	Tickers []string `json:"tickers" binding:"required,min=1,dive,ticker"`
}

type portfolioRequest struct {
	Portfolio []analyzer.Position `json:"portfolio" binding:"required"`
}

// parseRange parses the request dates, defaulting the missing ones.
func parseRange(start, end string) (date.Range, error) {
	r, err := date.NewRange(cmp.Or(start, DefaultStartDate), cmp.Or(end, DefaultEndDate))
	if err != nil {
		return date.Range{}, fmt.Errorf("%w: %v", analyzer.ErrValidation, err)
	}
	return r, nil
}

// bindAnalysis binds the request body and its dates.
func bindAnalysis(c *gin.Context) ([]string, date.Range, bool) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return nil, date.Range{}, false
	}
	r, err := req.dates()
	if err != nil {
		fail(c, err)
		return nil, date.Range{}, false
	}
	return req.Tickers, r, true
}

func bindTickers(c *gin.Context) ([]string, bool) {
	var req tickersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return nil, false
	}
	return req.Tickers, true
}

func (s *Server) analyze(c *gin.Context) {
	tickers, r, ok := bindAnalysis(c)
	if !ok {
		return
	}
	res, err := s.analyzer.Analyze(c.Request.Context(), tickers, r)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) advanced(c *gin.Context) {
	tickers, r, ok := bindAnalysis(c)
	if !ok {
		return
	}
	res, err := s.analyzer.Advanced(c.Request.Context(), tickers, r)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) simulate(c *gin.Context) {
	tickers, r, ok := bindAnalysis(c)
	if !ok {
		return
	}
	curve, err := s.analyzer.SimulatePair(c.Request.Context(), tickers, r)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"curve": curve})
}

func (s *Server) simulateMulti(c *gin.Context) {
	tickers, ok := bindTickers(c)
	if !ok {
		return
	}
	points, err := s.analyzer.SimulateMulti(c.Request.Context(), tickers)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"simulation": points})
}

func (s *Server) overlap(c *gin.Context) {
	tickers, ok := bindTickers(c)
	if !ok {
		return
	}
	res, err := s.analyzer.Overlap(c.Request.Context(), tickers)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) dividendStats(c *gin.Context) {
	tickers, ok := bindTickers(c)
	if !ok {
		return
	}
	res, err := s.analyzer.DividendStats(c.Request.Context(), tickers)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) projectIncome(c *gin.Context) {
	var req portfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}
	res, err := s.analyzer.ProjectIncome(c.Request.Context(), req.Portfolio)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) stockDetails(c *gin.Context) {
	res, err := s.analyzer.StockDetails(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) history(c *gin.Context) {
	points, err := s.analyzer.History(c.Request.Context(), c.Param("ticker"), c.DefaultQuery("period", "1y"), c.DefaultQuery("interval", "1d"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// trendChart draws the total return trend of the "tickers" query parameter, comma separated.
func (s *Server) trendChart(c *gin.Context) {
	var tickers []string
	for t := range strings.SplitSeq(c.Query("tickers"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	r, err := parseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		fail(c, err)
		return
	}
	res, err := s.analyzer.Analyze(c.Request.Context(), tickers, r)
	if err != nil {
		fail(c, err)
		return
	}
	png, err := renderer.TrendChart(res.Charts.TrendTR, "Total return "+r.String())
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
