package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/etnz/analyzer/docs"
)

const pageHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Investment Analyzer</title>
</head>
<body>
`

const pageFooter = `</body>
</html>
`

// dashboardPage renders the dashboard and API documentation topics to HTML.
func dashboardPage() ([]byte, error) {
	src, err := docs.GetTopics("dashboard", "api")
	if err != nil {
		return nil, err
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var b bytes.Buffer
	b.WriteString(pageHeader)
	if err := md.Convert([]byte(src), &b); err != nil {
		return nil, fmt.Errorf("cannot render dashboard page: %w", err)
	}
	b.WriteString(pageFooter)
	return b.Bytes(), nil
}

func (s *Server) dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.page)
}
