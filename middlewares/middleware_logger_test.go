package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

func TestLoggerMiddlewareRedactsToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	utils.InfoLogger.SetOutput(&buf)
	t.Cleanup(func() { utils.InitLogger("info", "text") })

	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/ws/kds", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/kds?role=kitchen&token=eyJhbGciOiJIUzI1NiJ9.secret.sig", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	out := buf.String()
	assert.NotContains(t, out, "eyJhbGciOiJIUzI1NiJ9")
	assert.Contains(t, out, "token=REDACTED")
	assert.Contains(t, out, "role=kitchen")
}

func TestLoggedPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/orders?status=pending", nil)
	assert.Equal(t, "/api/orders?status=pending", loggedPath(r.URL))

	r = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	assert.Equal(t, "/api/orders", loggedPath(r.URL))
}
