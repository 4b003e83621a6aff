package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/llm"
	"github.com/alexanderramin/dealflow/internal/service"
)

// maxUploadMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const maxUploadMemory = 32 << 20

type analysisRequest struct {
	Stage   domain.Stage `json:"stage"`
	Preview bool         `json:"preview"`
}

func (s *Server) uploadDocuments(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, s.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	headers := r.MultipartForm.File["file"]
	uploads := make([]service.Upload, 0, len(headers))
	for _, h := range headers {
		if h.Size > service.MaxDocumentBytes {
			respondError(w, s.logger, &domain.ValidationError{Field: "file", Message: h.Filename + " exceeds the upload limit"})
			return
		}
		f, err := h.Open()
		if err != nil {
			respondError(w, s.logger, err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(w, s.logger, err)
			return
		}
		uploads = append(uploads, service.Upload{Filename: h.Filename, Data: data})
	}

	results, err := s.svc.Documents.Upload(r.Context(), dealID(r), uploads)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, results)
}

func (s *Server) draftAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.svc.Analysis == nil {
		respondError(w, s.logger, llm.ErrNoProviders)
		return
	}
	var req analysisRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, s.logger, err)
			return
		}
	}

	draft := s.svc.Analysis.Draft
	if req.Preview {
		draft = s.svc.Analysis.Preview
	}
	analysis, err := draft(r.Context(), dealID(r), req.Stage)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}
