package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/pittrivia/internal/game"
	"github.com/playperu/pittrivia/internal/handler/health"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type gameIDPath struct {
	GameID string `path:"gameID"`
}

type adminHeader struct {
	Password string `header:"X-Admin-Password" required:"true"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Pit Trivia API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Hosts two-team trivia board games with perks and the Pit.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/categories
	listCats, _ := r.NewOperationContext(http.MethodGet, "/api/categories")
	listCats.SetSummary("List categories")
	listCats.SetDescription("Returns the enabled categories a game can be built from.")
	listCats.AddRespStructure(CategoriesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listCats)

	// GET /api/admin/categories
	adminListCats, _ := r.NewOperationContext(http.MethodGet, "/api/admin/categories")
	adminListCats.SetSummary("Export question bank")
	adminListCats.SetDescription("Returns every category with its questions. Requires X-Admin-Password.")
	adminListCats.AddReqStructure(adminHeader{})
	adminListCats.AddRespStructure(AdminCategoriesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminListCats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminListCats)

	// POST /api/admin/categories
	saveCats, _ := r.NewOperationContext(http.MethodPost, "/api/admin/categories")
	saveCats.SetSummary("Replace question bank")
	saveCats.SetDescription("Upserts the given categories and removes all others. Requires X-Admin-Password.")
	saveCats.AddReqStructure(adminHeader{})
	saveCats.AddReqStructure(AdminCategoriesRequest{})
	saveCats.AddRespStructure(SaveCategoriesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	saveCats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	saveCats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(saveCats)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Start game")
	createGame.SetDescription("Builds a board from the chosen categories and starts a game for two teams.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the current state of a live or finished game.")
	getGame.AddReqStructure(gameIDPath{})
	getGame.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{gameID}
	abandon, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	abandon.SetSummary("Abandon game")
	abandon.SetDescription("Ends a game early and stops its timer.")
	abandon.AddReqStructure(gameIDPath{})
	abandon.AddRespStructure(MoveResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	abandon.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(abandon)

	// POST /api/games/{gameID}/questions
	selectQ, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/questions")
	selectQ.SetSummary("Open question")
	selectQ.SetDescription("Opens an unsolved cell for the team whose turn it is.")
	selectQ.AddReqStructure(struct {
		gameIDPath
		SelectQuestionRequest
	}{})
	selectQ.AddRespStructure(MoveResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	selectQ.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	selectQ.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(selectQ)

	// POST /api/games/{gameID}/actions
	act, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/actions")
	act.SetSummary("Act on question")
	act.SetDescription("Applies use_pit, skip_pit, show_options, two_answers, answered, reveal or attribute " +
		"to the open question. Rejected moves return applied=false.")
	act.AddReqStructure(struct {
		gameIDPath
		ActionRequest
	}{})
	act.AddRespStructure(MoveResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	act.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	act.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(act)

	// POST /api/games/{gameID}/close
	closeQ, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/close")
	closeQ.SetSummary("Dismiss question")
	closeQ.SetDescription("Closes the open question without scoring it. The cell stays unsolved.")
	closeQ.AddReqStructure(gameIDPath{})
	closeQ.AddRespStructure(MoveResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	closeQ.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(closeQ)

	// GET /api/games/{gameID}/events
	events, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	events.SetSummary("SSE event stream")
	events.SetDescription("Server-Sent Events stream of game events, starting with a snapshot.")
	events.AddReqStructure(gameIDPath{})
	events.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(events)

	// GET /api/games/{gameID}/ws
	ws, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/ws")
	ws.SetSummary("WebSocket event stream")
	ws.SetDescription("Upgrades to a WebSocket that carries the same events as the SSE stream.")
	ws.AddReqStructure(gameIDPath{})
	ws.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(ws)

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
