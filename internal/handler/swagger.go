package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupSwagger serves spec as /swagger/doc.json and a Swagger UI page for
// every other path under /swagger.
func SetupSwagger(router *gin.Engine, spec []byte) {
	serveSpec := func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", spec)
	}
	router.GET("/swagger/doc.json", serveSpec)

	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" || c.Param("any") == "doc.json" {
			serveSpec(c)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIHTML))
	})
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="UTF-8">
  <title>Pharmacy Payments - API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/swagger/doc.json',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout"
    });
  </script>
</body>
</html>`
