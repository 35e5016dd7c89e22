package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/utopialog/internal/handler"
	"github.com/utopialog/internal/logger"
	"github.com/utopialog/internal/metrics"
	"github.com/utopialog/internal/view"
	"github.com/utopialog/web"
)

const sessionName = "utopia_session"

// Options configures the engine.
type Options struct {
	SessionSecret string
	Logger        *logger.Logger
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"float": func(v int) float64 {
			return float64(v)
		},
		"pct": func(fraction float64) float64 {
			return fraction * 100
		},
		"money":      view.Money,
		"percent":    view.Percent,
		"gapLabel":   view.GapLabel,
		"fieldLabel": view.FieldLabel,
		"stateBadge": view.StateBadge,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(metrics.DateLayout)
		},
		"tabIcon": func(key string) template.HTML {
			return template.HTML(view.TabIconSVG(key))
		},
	}
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log))

	// 配置会话中间件
	secret := opts.SessionSecret
	if secret == "" {
		secret = "utopia-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载内嵌模板
	tmpl := template.Must(template.New("").Funcs(templateFuncs()).ParseFS(web.Templates(), "*.html"))
	r.SetHTMLTemplate(tmpl)

	// 静态文件服务
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/command")
	})

	r.GET("/command", api.ShowCommand)
	r.GET("/plan", api.ShowPlan)

	r.GET("/logs", api.ShowLogs)
	r.POST("/logs", api.SubmitLog)

	r.GET("/journal", api.ShowJournal)
	r.POST("/journal", api.SubmitJournal)

	r.GET("/ops", api.ShowOps)
	r.POST("/ops", api.AddDirectiveForm)
	r.POST("/ops/:id/toggle", api.ToggleDirectiveForm)
	r.POST("/ops/purge", api.PurgeDirectivesForm)

	r.GET("/arsenal", api.ShowArsenal)
	r.POST("/arsenal/books", api.UpdateBookForm)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/report", api.GetReport)
		apiGroup.GET("/reality-check", api.GetRealityCheck)
		apiGroup.GET("/lyric", api.GetLyric)
		apiGroup.GET("/export.csv", api.ExportCSV)

		apiGroup.GET("/records", api.ListRecords)
		apiGroup.GET("/records/:date", api.GetRecord)
		apiGroup.GET("/heatmap", api.GetHeatmap)
		apiGroup.GET("/calendar", api.GetCalendar)
		apiGroup.PUT("/records", api.UpsertRecord)
		apiGroup.POST("/records", api.UpsertRecord)

		apiGroup.GET("/directives", api.ListDirectives)
		apiGroup.POST("/directives", api.CreateDirective)
		apiGroup.PATCH("/directives/:id", api.UpdateDirective)
		apiGroup.DELETE("/directives/completed", api.PurgeDirectives)

		apiGroup.GET("/books", api.ListBooks)
		apiGroup.PUT("/books/:title", api.UpdateBook)

		apiGroup.GET("/journal", api.ListJournal)
		apiGroup.POST("/journal", api.CreateJournalEntry)
	}

	return r
}
