package http

import (
	"net/http"

	"github.com/rhythmiaheartcare/rhythmia-web/pkg/httputil"
)

// ApproveReview handles GET /approve-review?id=<id>&token=<token>, the link
// the administrator receives by email. Both parameters are required and the
// id must be a well-formed UUID before any store access happens.
func (h *ReviewHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	approvalToken := r.URL.Query().Get("token")

	if id == "" || approvalToken == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid approval link. Missing parameters.",
			},
		})
		return
	}

	if _, ok := httputil.ParseUUID(w, id); !ok {
		return
	}

	if err := h.service.Approve(r.Context(), id, approvalToken); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{
			"message": "Review approved successfully! It is now live on the site.",
		},
	})
}
