package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/gcbaptista/assessment-recommender/internal/errors"
	"github.com/gcbaptista/assessment-recommender/model"
	"github.com/gcbaptista/assessment-recommender/services"
)

// RecommendHandler answers a free-text query with ranked assessments.
// Request Body: services.RecommendRequest
func (api *API) RecommendHandler(c *gin.Context) {
	start := time.Now()

	var req services.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.track(req.Query, start, 0, apperrors.KindInput)

		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeRequestTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Missing query")
		default:
			SendInvalidJSONError(c, err)
		}
		return
	}

	if validation := ValidateRecommendRequest(&req); validation.HasErrors() {
		api.track(req.Query, start, 0, apperrors.KindInput)
		SendValidationError(c, validation)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(api.server.RequestTimeoutSec)*time.Second)
	defer cancel()

	assessments, err := api.engine.Recommend(ctx, *req.Query)
	if err != nil {
		kind := apperrors.KindOf(err)
		api.track(req.Query, start, 0, kind)
		if kind != apperrors.KindInput {
			api.logger.Error("recommend failed", "err", err, "kind", kind)
		}
		SendRecommendError(c, err)
		return
	}

	api.track(req.Query, start, len(assessments), "")
	c.JSON(http.StatusOK, services.RecommendResponse{RecommendedAssessments: assessments})
}

func (api *API) track(query *string, start time.Time, results int, kind apperrors.Kind) {
	var text string
	if query != nil {
		text = *query
	}
	api.analytics.TrackRecommendEvent(model.RecommendEvent{
		Query:        text,
		ResponseTime: time.Since(start),
		ResultCount:  results,
		ErrorKind:    string(kind),
		Timestamp:    start,
	})
}
