package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-fertform"
	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/model"
	"github.com/goliatone/go-fertform/pkg/renderers/page"
	"github.com/goliatone/go-fertform/pkg/view"
)

const (
	actionPredict = "predict"
	actionSave    = "save"

	// AssetsPath serves the embedded stylesheet.
	AssetsPath = "/assets"
	// StylesheetURL is the default stylesheet link for pages served here.
	StylesheetURL = AssetsPath + "/" + fertform.StylesheetName
)

// browserDismissal leaves banner removal to the page: the rendered banner
// hides itself after the configured delay, so nothing is scheduled here.
var browserDismissal = controller.SchedulerFunc(func(time.Duration, func()) func() bool {
	return func() bool { return false }
})

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/", s.showForm)
	r.POST("/", s.handleForm)
	r.StaticFS(AssetsPath, http.FS(fertform.AssetsFS()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

func (s *Server) showForm(c *gin.Context) {
	doc, _, err := s.newPage(c, s.catalog.Defaults())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, doc)
}

func (s *Server) handleForm(c *gin.Context) {
	action := strings.TrimSpace(c.PostForm("action"))
	switch action {
	case "", actionPredict:
	case actionSave:
		if strings.TrimSpace(c.PostForm(page.CarryFertilizer)) == "" {
			c.String(http.StatusBadRequest, "nothing to save")
			return
		}
	default:
		c.String(http.StatusBadRequest, "unknown action %q", action)
		return
	}

	doc, ctrl, err := s.newPage(c, s.postedValues(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	if action == actionSave {
		ctrl.ShowResults(model.PredictionResponse{
			Fertilizer:     c.PostForm(page.CarryFertilizer),
			FertilizerType: c.PostForm(page.CarryFertilizerType),
			Crop:           c.PostForm(page.CarryCrop),
			Region:         c.PostForm(page.CarryRegion),
			Month:          c.PostForm(page.CarryMonth),
		})
		doc.ClickSaveHistory()
	} else {
		doc.SubmitForm(c.Request.Context())
	}
	s.render(c, doc)
}

// postedValues reads every field, keeping catalog defaults for fields the
// browser did not send.
func (s *Server) postedValues(c *gin.Context) model.FormValues {
	values := s.catalog.Defaults()
	for _, id := range model.AllFields() {
		if v, ok := c.GetPostForm(string(id)); ok {
			values[id] = v
		}
	}
	return values
}

func (s *Server) newPage(c *gin.Context, values model.FormValues) (*view.Document, *controller.Controller, error) {
	doc := view.NewDocument(values, view.WithSubmitLabel(s.submitLabel))

	opts := []controller.Option{
		controller.WithCatalog(s.catalog),
		controller.WithLogger(s.logger.With(zap.String("request_id", requestIDFrom(c)))),
		controller.WithScheduler(browserDismissal),
		controller.WithBannerDelay(s.bannerDelay),
		controller.WithBusyLabel(s.busyLabel),
	}
	if s.metrics != nil {
		opts = append(opts, controller.WithObserver(s.metrics))
	}
	ctrl, err := controller.New(doc, s.predictor, opts...)
	if err != nil {
		return nil, nil, err
	}
	ctrl.Setup()
	return doc, ctrl, nil
}

func (s *Server) render(c *gin.Context, doc *view.Document) {
	r := s.renderers.Negotiate(c.GetHeader("Accept"))
	body, err := r.Render(c.Request.Context(), doc.Snapshot())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, r.ContentType(), body)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("render page", zap.String("request_id", requestIDFrom(c)), zap.Error(err))
	c.String(http.StatusInternalServerError, "internal error")
}
