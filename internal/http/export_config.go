package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/navigator/internal/exporters"
)

// DocumentBuilder reads the catalog into an export document.
type DocumentBuilder interface {
	Build(ctx context.Context) (exporters.Document, error)
}

// ExportAuditLogger records export outcomes.
type ExportAuditLogger interface {
	LogExport(categories, sites int, err error)
}

type ConfigExportController struct {
	builder DocumentBuilder
	audit   ExportAuditLogger
}

func NewConfigExportController(builder DocumentBuilder, audit ExportAuditLogger) *ConfigExportController {
	return &ConfigExportController{builder: builder, audit: audit}
}

// Export handles GET /api/config/export
// Returns the catalog as a config.json attachment, or as Markdown with
// ?format=markdown (private entries only with ?include_private=true).
func (ec *ConfigExportController) Export(c *gin.Context) {
	doc, err := ec.builder.Build(c.Request.Context())
	if ec.audit != nil {
		result := doc.Result()
		ec.audit.LogExport(result.CategoriesExported, result.SitesExported, err)
	}
	if err != nil {
		respondInternalError(c, err, "export config")
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.Header("Content-Disposition", `attachment; filename="config.json"`)
		c.IndentedJSON(http.StatusOK, doc)
	case "markdown", "md":
		md := exporters.GenerateMarkdown(doc, exporters.MarkdownOptions{IncludePrivate: queryFlag(c, "include_private")})
		c.Header("Content-Disposition", `attachment; filename="bookmarks.md"`)
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	default:
		respondBadRequest(c, "unsupported export format")
	}
}
