package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/content-pipeline/internal/pipeline"
	"github.com/jonathan/content-pipeline/internal/rendering"
	"github.com/jonathan/content-pipeline/internal/types"
)

// RunIDHeader carries the run ID of a generate request
const RunIDHeader = "X-Run-ID"

// maxRequestBytes caps the generate request body
const maxRequestBytes = 1 << 20

// decodeGenerateRequest parses and validates the request body
func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*types.GenerateRequest, error) {
	var req types.GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, &ErrValidation{Field: "prd", Message: "prd is required"}
		}
		return nil, &ErrValidation{Field: "prd", Message: err.Error()}
	}
	return &req, nil
}

// wantsHTML reports whether the caller asked for a rendered copy of the post
func wantsHTML(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "html")
}

// generate runs the pipeline and shapes the response body
func (s *Server) generate(ctx context.Context, runID uuid.UUID, prd string, html bool, onProgress pipeline.ProgressCallback) (*types.GenerateResponse, error) {
	result, err := s.runner.Run(ctx, pipeline.Request{
		RunID:      runID,
		PRD:        prd,
		OnProgress: onProgress,
	})
	if err != nil {
		return nil, err
	}

	resp := &types.GenerateResponse{FinalResult: *result}
	if html {
		rendered, err := rendering.MarkdownToHTML(result.BlogPost)
		if err != nil {
			return nil, fmt.Errorf("failed to render blog post: %w", err)
		}
		resp.BlogPostHTML = rendered
	}
	return resp, nil
}

// handleGenerate runs the pipeline synchronously and returns the polished post
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerateRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	runID := uuid.New()
	w.Header().Set(RunIDHeader, runID.String())
	s.extendWriteDeadline(w, s.runTimeout)

	resp, err := s.generate(r.Context(), runID, req.PRD, wantsHTML(r), nil)
	if err != nil {
		s.logger.Error("blog post generation failed", "run_id", runID.String(), "error", err)
		s.errorResponse(w, HTTPStatus(err), GenerateFailedMessage)
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerateStream runs the pipeline and streams stage progress via SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerateRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	runID := uuid.New()
	w.Header().Set(RunIDHeader, runID.String())
	s.extendWriteDeadline(w, s.runTimeout)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(EventStep, event); err != nil {
			s.logger.Warn("failed to write SSE event", "run_id", runID.String(), "error", err)
		}
	}

	resp, err := s.generate(r.Context(), runID, req.PRD, wantsHTML(r), onProgress)
	if err != nil {
		s.logger.Error("blog post generation failed", "run_id", runID.String(), "error", err)
		sse.WriteError(GenerateFailedMessage)
		return
	}

	sse.WriteComplete(resp)
}
