package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/history"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/middleware"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/telemetry/metrics"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/telemetry/tracing"
	"github.com/Lauraredmond/pilates-class-generator-sub004/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=generator_test

type classGenerator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

type movementReader interface {
	ListMovements(ctx context.Context, difficulty catalog.Difficulty) ([]catalog.Movement, error)
	GetTransition(ctx context.Context, from, to catalog.Position) (*catalog.Transition, error)
}

type Handler struct {
	generator classGenerator
	catalog   movementReader
}

func NewHandler(generator classGenerator, catalogRepo movementReader) *Handler {
	return &Handler{
		generator: generator,
		catalog:   catalogRepo,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	generateAllowedPerMin int,
) {
	classSubrouter := mainRouter.PathPrefix("/class").Subrouter()
	classSubrouter.
		HandleFunc("/generate", handler.HandleGenerate).
		Methods("POST", "OPTIONS").Name("generate-class")
	classSubrouter.
		HandleFunc("/movements", handler.HandleListMovements).
		Methods("GET", "OPTIONS").Name("list-movements")
	classSubrouter.
		HandleFunc("/transition/{from}/{to}", handler.HandleGetTransition).
		Methods("GET", "OPTIONS").Name("get-transition")

	// generation hits the db and the whole engine, keep abuse in check
	classSubrouter.Use(middleware.RateLimit(rateLimiter, "class-api", generateAllowedPerMin, metricsManager))
}

func (handler *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.class.generate")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("generate class, unmarshal json params: %s", err)
		http.Error(w, "generate class failed", http.StatusBadRequest)
		return
	}

	result, err := handler.generator.Generate(ctx, req)
	if err != nil {
		handler.writeGenerateError(w, req, err)
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal generated class: %s", err)
		http.Error(w, "error, failed to generate class", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resultJson)
}

func (handler *Handler) writeGenerateError(w http.ResponseWriter, req Request, err error) {
	var medicalExclusion *MedicalExclusionError
	if errors.As(err, &medicalExclusion) {
		// surfaced verbatim, never masked by a generic message
		http.Error(w, medicalExclusion.Error(), http.StatusForbidden)
		return
	}

	var durationTooShort *DurationTooShortError
	if errors.As(err, &durationTooShort) {
		errJson, _ := json.Marshal(map[string]any{
			"error":                durationTooShort.Error(),
			"minimumViableMinutes": durationTooShort.MinimumViableMinutes,
		})
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, errJson, http.StatusUnprocessableEntity)
		return
	}

	var insufficientRepertoire *InsufficientRepertoireError
	if errors.As(err, &insufficientRepertoire) {
		http.Error(w, insufficientRepertoire.Error(), http.StatusUnprocessableEntity)
		return
	}

	if errors.Is(err, history.ErrProfileNotFound) {
		http.Error(w, "student profile not found", http.StatusBadRequest)
		return
	}

	if req.Validate() != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Errorf("failed to generate class for user [%s]: %s", req.UserID, err)
	http.Error(w, "error, failed to generate class", http.StatusInternalServerError)
}

func (handler *Handler) HandleListMovements(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.class.listMovements")
	defer span.End()

	difficulty := catalog.Difficulty(r.URL.Query().Get("difficulty"))
	if difficulty != "" && !difficulty.Valid() {
		http.Error(w, "unknown difficulty", http.StatusBadRequest)
		return
	}

	movements, err := handler.catalog.ListMovements(ctx, difficulty)
	if err != nil {
		log.Errorf("failed to list movements [%s]: %s", difficulty, err)
		http.Error(w, "error, failed to list movements", http.StatusInternalServerError)
		return
	}

	movementsJson, err := json.Marshal(movements)
	if err != nil {
		log.Errorf("failed to marshal movements: %s", err)
		http.Error(w, "error, failed to list movements", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, movementsJson)
}

func (handler *Handler) HandleGetTransition(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.class.getTransition")
	defer span.End()

	vars := mux.Vars(r)
	from := catalog.Position(vars["from"])
	to := catalog.Position(vars["to"])

	transition, err := handler.catalog.GetTransition(ctx, from, to)
	if errors.Is(err, catalog.ErrTransitionNotFound) {
		http.Error(w, "transition not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get transition [%s -> %s]: %s", from, to, err)
		http.Error(w, "error, failed to get transition", http.StatusInternalServerError)
		return
	}

	transitionJson, err := json.Marshal(transition)
	if err != nil {
		log.Errorf("failed to marshal transition: %s", err)
		http.Error(w, "error, failed to get transition", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, transitionJson)
}
