package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/clinsight/compliance-review/internal/types"
)

// DocumentMetadata carries the optional informational fields of the flat
// request form.
type DocumentMetadata struct {
	Title  string `json:"title,omitempty"`
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`
}

// ReviewRequest is the request body for the review endpoint. Either a full
// document object or the flat document_id/content pair must be supplied.
type ReviewRequest struct {
	Document   *types.Document   `json:"document,omitempty"`
	DocumentID string            `json:"document_id,omitempty" validate:"required_without=Document"`
	Content    *string           `json:"content,omitempty" validate:"required_without=Document"`
	Metadata   *DocumentMetadata `json:"metadata,omitempty"`
}

// Validate validates the ReviewRequest using the validator.
func (r *ReviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// toDocument converts the request into the document the pipeline reviews. A
// missing document ID gets a generated one so error paths stay loggable.
func (r *ReviewRequest) toDocument() types.Document {
	if r.Document != nil {
		return *r.Document
	}

	doc := types.Document{
		ID:      r.DocumentID,
		Content: *r.Content,
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if r.Metadata != nil {
		doc.Title = r.Metadata.Title
		doc.Type = r.Metadata.Type
		doc.Format = r.Metadata.Format
	}
	return doc
}

// handleReview runs one compliance review.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "document or document_id/content is required")
		return
	}

	result, err := s.reviewer.Review(r.Context(), req.toDocument())
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing useful to write.
			log.Printf("[server] review abandoned: %v", err)
			return
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleHealth returns server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleRoot returns a trivial greeting.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Welcome to " + s.projectName})
}
