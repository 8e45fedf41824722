package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"

	"github.com/blueye/globalsite/internal/content"
	"github.com/blueye/globalsite/internal/handler/health"
	"github.com/blueye/globalsite/internal/quiz"
)

const openAPIVersion = "3.0.3"

// Request shapes used only for documentation.

type idPath struct {
	ID string `path:"id"`
}

type localePath struct {
	Locale string `path:"locale" enum:"ko,en,zh"`
}

type localeIDPath struct {
	Locale string `path:"locale" enum:"ko,en,zh"`
	ID     string `path:"id"`
}

type listParams struct {
	Locale     string `query:"locale" enum:"ko,en,zh"`
	Status     string `query:"status" enum:"draft,published,all" description:"Ignored without an admin session."`
	CategoryID string `query:"categoryId"`
	Page       int    `query:"page" minimum:"1"`
	Limit      int    `query:"limit" minimum:"1" maximum:"100"`
}

type eventsParams struct {
	Locale string `query:"locale" enum:"ko,en,zh"`
}

type updateCategoryRequest struct {
	ID string `path:"id"`
	content.CategoryInput
}

type updateMagazineRequest struct {
	ID string `path:"id"`
	content.MagazineInput
}

type updateNoticeRequest struct {
	ID string `path:"id"`
	content.NoticeInput
}

type updateBriefRequest struct {
	ID string `path:"id"`
	content.BriefInput
}

type selectRequest struct {
	ID string `path:"id"`
	SelectRequest
}

type response struct {
	status int
	body   any
	ctype  string
}

func ok(body any) response      { return response{status: http.StatusOK, body: body} }
func created(body any) response { return response{status: http.StatusCreated, body: body} }
func fail(status int) response  { return response{status: status, body: ErrorResponse{}} }

func addOperation(r *openapi3.Reflector, method, path, summary, description string, req any, resps ...response) {
	op, err := r.NewOperationContext(method, path)
	if err != nil {
		return
	}
	op.SetSummary(summary)
	op.SetDescription(description)
	if req != nil {
		op.AddReqStructure(req)
	}
	for _, resp := range resps {
		opts := []openapi.ContentOption{openapi.WithHTTPStatus(resp.status)}
		if resp.ctype != "" {
			opts = append(opts, openapi.WithContentType(resp.ctype))
		}
		op.AddRespStructure(resp.body, opts...)
	}
	_ = r.AddOperation(op)
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Openapi = openAPIVersion
	r.Spec.Info.Title = "Blueye Global Site API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Blueye global lifestyle site.")

	const adminOnly = " Requires admin_session cookie."

	addOperation(r, http.MethodGet, "/healthz", "Health check",
		"Returns the health status of backend dependencies.", nil,
		ok(health.Report{}), response{status: http.StatusServiceUnavailable, body: health.Report{}})
	addOperation(r, http.MethodGet, "/ws/globe", "Globe session",
		"Upgrades to a WebSocket carrying scroll input and camera poses.", nil,
		response{status: http.StatusSwitchingProtocols, ctype: "text/plain"})
	addOperation(r, http.MethodGet, "/metrics", "Prometheus metrics", "", nil,
		response{status: http.StatusOK, ctype: "text/plain"})

	// Admin auth.
	addOperation(r, http.MethodPost, "/api/admin/login", "Admin login",
		"Authenticate with email and password. Sets admin_session cookie.", AdminLoginRequest{},
		ok(AdminMeResponse{}), fail(http.StatusBadRequest), fail(http.StatusUnauthorized), fail(http.StatusTooManyRequests))
	addOperation(r, http.MethodPost, "/api/admin/logout", "Admin logout",
		"Clears admin session and cookie.", nil, ok(nil))
	addOperation(r, http.MethodGet, "/api/admin/me", "Current admin",
		"Returns the currently authenticated admin."+adminOnly, nil,
		ok(AdminMeResponse{}), fail(http.StatusUnauthorized))

	// Categories.
	addOperation(r, http.MethodGet, "/api/categories", "List categories",
		"Returns magazine categories by display order.", nil, ok(CategoryListResponse{}))
	addOperation(r, http.MethodGet, "/api/categories/{id}", "Get category", "", idPath{},
		ok(content.Category{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodPost, "/api/categories", "Create category",
		"Without display_order the category goes last."+adminOnly, content.CategoryInput{},
		created(content.Category{}), fail(http.StatusBadRequest), fail(http.StatusConflict), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodPut, "/api/categories/reorder", "Reorder categories",
		"Applies every display order or none."+adminOnly, ReorderCategoriesRequest{},
		ok(CategoryListResponse{}), fail(http.StatusBadRequest), fail(http.StatusNotFound), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodPut, "/api/categories/{id}", "Update category", adminOnly[1:], updateCategoryRequest{},
		ok(content.Category{}), fail(http.StatusBadRequest), fail(http.StatusNotFound), fail(http.StatusConflict), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodDelete, "/api/categories/{id}", "Delete category",
		"Blocked while magazines use the category."+adminOnly, idPath{},
		response{status: http.StatusNoContent}, fail(http.StatusNotFound), fail(http.StatusConflict), fail(http.StatusUnauthorized))

	// Magazines.
	addOperation(r, http.MethodGet, "/api/magazines", "List magazines",
		"Published magazines, newest publication first, 8 per page.", listParams{},
		ok(content.Page[content.Magazine]{}), fail(http.StatusBadRequest))
	addOperation(r, http.MethodGet, "/api/admin/magazines", "List magazines for admins",
		"Every locale and status, newest first, 20 per page."+adminOnly, listParams{},
		ok(content.Page[content.Magazine]{}), fail(http.StatusBadRequest), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodGet, "/api/magazines/{id}", "Get magazine", "", idPath{},
		ok(content.Magazine{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodPost, "/api/magazines", "Create magazine",
		"Publishing without published_at stamps the current time."+adminOnly, content.MagazineInput{},
		created(content.Magazine{}), fail(http.StatusBadRequest), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodPut, "/api/magazines/{id}", "Update magazine", adminOnly[1:], updateMagazineRequest{},
		ok(content.Magazine{}), fail(http.StatusBadRequest), fail(http.StatusNotFound), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodDelete, "/api/magazines/{id}", "Delete magazine", adminOnly[1:], idPath{},
		response{status: http.StatusNoContent}, fail(http.StatusNotFound), fail(http.StatusUnauthorized))

	// Notices.
	addOperation(r, http.MethodGet, "/api/notices", "List notices",
		"Published notices, newest first, 10 per page.", listParams{},
		ok(content.Page[content.Notice]{}), fail(http.StatusBadRequest))
	addOperation(r, http.MethodGet, "/api/notices/{id}", "Get notice", "", idPath{},
		ok(content.Notice{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodPost, "/api/notices", "Create notice", adminOnly[1:], content.NoticeInput{},
		created(content.Notice{}), fail(http.StatusBadRequest), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodPut, "/api/notices/{id}", "Update notice", adminOnly[1:], updateNoticeRequest{},
		ok(content.Notice{}), fail(http.StatusBadRequest), fail(http.StatusNotFound), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodDelete, "/api/notices/{id}", "Delete notice", adminOnly[1:], idPath{},
		response{status: http.StatusNoContent}, fail(http.StatusNotFound), fail(http.StatusUnauthorized))

	// Daily briefs.
	addOperation(r, http.MethodGet, "/api/news", "List daily briefs",
		"Published briefs by date, newest first, 50 per page.", listParams{},
		ok(content.Page[content.DailyBrief]{}), fail(http.StatusBadRequest))
	addOperation(r, http.MethodGet, "/api/news/{id}", "Get daily brief", "", idPath{},
		ok(content.DailyBrief{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodPost, "/api/news", "Create daily brief", adminOnly[1:], content.BriefInput{},
		created(content.DailyBrief{}), fail(http.StatusBadRequest), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodPut, "/api/news/{id}", "Update daily brief", adminOnly[1:], updateBriefRequest{},
		ok(content.DailyBrief{}), fail(http.StatusBadRequest), fail(http.StatusNotFound), fail(http.StatusUnauthorized))
	addOperation(r, http.MethodDelete, "/api/news/{id}", "Delete daily brief", adminOnly[1:], idPath{},
		response{status: http.StatusNoContent}, fail(http.StatusNotFound), fail(http.StatusUnauthorized))

	addOperation(r, http.MethodGet, "/api/content/events", "Content event stream",
		"Server-Sent Events announcing published content.", eventsParams{},
		response{status: http.StatusOK, ctype: "text/event-stream"}, fail(http.StatusBadRequest))

	// Localization and lifestyle.
	addOperation(r, http.MethodGet, "/api/i18n/{locale}", "Message bundle",
		"Returns the UI messages of a locale.", localePath{},
		ok(map[string]any{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodGet, "/api/{locale}/destinations", "List destinations",
		"Localized destinations with their scroll section and hash.", localePath{},
		ok([]DestinationResponse{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodGet, "/api/{locale}/lifestyle/categories", "List lifestyle categories", "", localePath{},
		ok([]LifestyleCategoryResponse{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodPost, "/api/lifestyle/sessions", "Start lifestyle quiz",
		"Starts a bracket over every lifestyle category.", nil, created(quiz.Snapshot{}))
	addOperation(r, http.MethodGet, "/api/lifestyle/sessions/{id}", "Get lifestyle quiz", "", idPath{},
		ok(quiz.Snapshot{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodPost, "/api/lifestyle/sessions/{id}/select", "Pick a category",
		"Records the pick for the current match. 409 while the next round is being prepared or after the final.", selectRequest{},
		ok(quiz.SelectResult{}), fail(http.StatusBadRequest), fail(http.StatusNotFound), fail(http.StatusConflict))
	addOperation(r, http.MethodPost, "/api/lifestyle/sessions/{id}/restart", "Restart lifestyle quiz", "", idPath{},
		ok(quiz.Snapshot{}), fail(http.StatusNotFound))
	addOperation(r, http.MethodGet, "/api/{locale}/lifestyle/sessions/{id}/result", "Quiz result",
		"Winning category and recommended destinations.", localeIDPath{},
		ok(quiz.Result{}), fail(http.StatusNotFound), fail(http.StatusConflict))

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// handleSwaggerUI serves the API explorer under /docs/.
func handleSwaggerUI() http.Handler {
	return v5emb.New("Blueye Global Site API", "/openapi.json", "/docs")
}
