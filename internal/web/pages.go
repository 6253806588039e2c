package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/core/chart"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/outwriter"
	"github.com/huangsam/storecast/schema"
	"github.com/sirupsen/logrus"
)

// Validation messages shown next to the forms.
const (
	msgSelectSeries   = "Please select a department and a store."
	msgSelectCustomer = "Please select a Client to recommended items based on their last purchase."
	msgSelectImage    = "Please select an image first."
)

// multipartOverhead is the room left for form fields and boundaries around an upload.
const multipartOverhead = 1 << 20

//go:embed templates/*.html
var templatesFS embed.FS

// pageNames lists the templates rendered inside layout.html.
var pageNames = []string{"index", "series", "recommendations", "classifier"}

var templateFuncs = template.FuncMap{
	"money": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"count": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"dept":  func(d int) string { return fmt.Sprintf("Department %d", d) },
	"store": func(s int) string { return fmt.Sprintf("Store %d", s) },
}

// loadPages parses one template set per page so every page can define its own content block.
func loadPages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// pageView carries the state of one rendered page. It lives for a single request.
type pageView struct {
	Title   string
	Active  string
	Message string
	Catalog schema.Catalog

	// Forecast page
	Department int
	Store      int
	Chart      template.HTML

	// Recommendations page
	CustomerID     int
	Recommendation *schema.RecommendationResult

	// Classifier page
	Classification *schema.ClassificationResult
}

func (d *deps) render(w nethttp.ResponseWriter, status int, name string, view pageView) {
	view.Active = name
	view.Catalog = d.cfg.Catalog
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := d.pages[name].ExecuteTemplate(w, "layout.html", view); err != nil {
		d.logger.WithError(err).WithField("page", name).Error("failed to render page")
	}
}

// requestLogger is attached to the flow context so submission outcomes carry the route.
func (d *deps) requestLogger(r *nethttp.Request) *logrus.Entry {
	return d.logger.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path})
}

// failureStatus maps a failed submission to the page status code.
func failureStatus(err error) int {
	if contract.ReasonOf(err) == contract.ReasonInvalidInput {
		return nethttp.StatusBadRequest
	}
	return nethttp.StatusBadGateway
}

func indexHandler(d *deps) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		d.render(w, nethttp.StatusOK, "index", pageView{Title: "storecast"})
	}
}

func faviconHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.WriteHeader(nethttp.StatusNoContent)
}

// parseSelection reads a positive integer form value that must be one of allowed.
func parseSelection(r *nethttp.Request, field string, allowed func(int) bool) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(field)))
	if err != nil || v <= 0 || !allowed(v) {
		return 0, false
	}
	return v, true
}

func seriesHandler(d *deps) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := pageView{Title: "Time Series"}
		switch r.Method {
		case nethttp.MethodGet:
			d.render(w, nethttp.StatusOK, "series", view)
			return
		case nethttp.MethodPost:
		default:
			w.Header().Set("Allow", "GET, POST")
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		dept, okDept := parseSelection(r, "department", d.cfg.Catalog.HasDepartment)
		store, okStore := parseSelection(r, "store", d.cfg.Catalog.HasStore)
		view.Department, view.Store = dept, store
		if !okDept || !okStore {
			view.Message = msgSelectSeries
			d.render(w, nethttp.StatusBadRequest, "series", view)
			return
		}

		ctx := core.WithLogger(r.Context(), d.requestLogger(r))
		result, err := core.Forecast(ctx, d.cfg, d.client, d.mgr, schema.ForecastRequest{Department: dept, Store: store})
		if err != nil {
			view.Message = contract.UserMessage
			d.render(w, failureStatus(err), "series", view)
			return
		}

		opts := outwriter.ChartOptions(d.cfg, schema.DefaultForecastHighlight)
		opts.Highlight = result.Highlight
		drawing, err := chart.Render(result.Points, opts)
		if err != nil {
			d.requestLogger(r).WithError(err).Error("failed to render chart")
			view.Message = contract.UserMessage
			d.render(w, nethttp.StatusInternalServerError, "series", view)
			return
		}
		// The SVG is generated here and escapes every label it embeds
		view.Chart = template.HTML(drawing.SVG()) //nolint:gosec
		d.render(w, nethttp.StatusOK, "series", view)
	}
}

func recommendationsHandler(d *deps) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := pageView{Title: "Recommendations"}
		switch r.Method {
		case nethttp.MethodGet:
			d.render(w, nethttp.StatusOK, "recommendations", view)
			return
		case nethttp.MethodPost:
		default:
			w.Header().Set("Allow", "GET, POST")
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		customer, ok := d.cfg.Catalog.FindCustomer(r.FormValue("customer"))
		if r.FormValue("customer") == "" || !ok {
			view.Message = msgSelectCustomer
			d.render(w, nethttp.StatusBadRequest, "recommendations", view)
			return
		}
		view.CustomerID = customer.ID

		ctx := core.WithLogger(r.Context(), d.requestLogger(r))
		result, err := core.Recommend(ctx, d.cfg, d.client, d.mgr, customer.LastPurchase)
		if err != nil {
			view.Message = contract.UserMessage
			d.render(w, failureStatus(err), "recommendations", view)
			return
		}
		view.Recommendation = &result
		d.render(w, nethttp.StatusOK, "recommendations", view)
	}
}

func classifierHandler(d *deps) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := pageView{Title: "Image Classifier"}
		switch r.Method {
		case nethttp.MethodGet:
			d.render(w, nethttp.StatusOK, "classifier", view)
			return
		case nethttp.MethodPost:
		default:
			w.Header().Set("Allow", "GET, POST")
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		r.Body = nethttp.MaxBytesReader(w, r.Body, contract.MaxImageBytes+multipartOverhead)
		file, header, err := r.FormFile("image")
		if err != nil {
			status := nethttp.StatusBadRequest
			view.Message = msgSelectImage
			var maxErr *nethttp.MaxBytesError
			if errors.As(err, &maxErr) {
				status = nethttp.StatusRequestEntityTooLarge
				view.Message = contract.UserMessage
			}
			d.render(w, status, "classifier", view)
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(io.LimitReader(file, contract.MaxImageBytes+1))
		if err != nil {
			view.Message = contract.UserMessage
			d.render(w, nethttp.StatusBadRequest, "classifier", view)
			return
		}

		if len(data) > contract.MaxImageBytes {
			view.Message = contract.UserMessage
			d.render(w, nethttp.StatusRequestEntityTooLarge, "classifier", view)
			return
		}

		ctx := core.WithLogger(r.Context(), d.requestLogger(r))
		result, err := core.Classify(ctx, d.cfg, d.client, d.mgr, header.Filename, data)
		if err != nil {
			view.Message = contract.UserMessage
			d.render(w, failureStatus(err), "classifier", view)
			return
		}
		view.Classification = &result
		d.render(w, nethttp.StatusOK, "classifier", view)
	}
}
