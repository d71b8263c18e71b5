package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "ocrtables API is running"})
}

// handleUpload stores the upload under its own name in a scratch directory,
// so the output directory is named after the original document.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing multipart field \"file\": %w", err))
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !domain.FormatFromPath(name).IsValid() {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: only PDF and markdown files are supported", domain.ErrUnsupportedType))
		return
	}

	scratch, err := os.MkdirTemp(s.config.UploadDir, "ocrtables-upload-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("create upload directory: %w", err))
		return
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Warn("api: remove upload directory: %v", err)
		}
	}()

	path := filepath.Join(scratch, name)
	if err := saveUpload(path, file); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	extraction, err := s.extraction.Extract(r.Context(), path)
	if err != nil && extraction == nil {
		writeError(w, statusFor(err), err)
		return
	}
	// Failed runs are still reported with their record, status and error.
	writeJSON(w, http.StatusOK, toExtractionResponse(extraction))
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("save upload: %w", err)
	}
	return dst.Close()
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	extractions, err := s.extraction.List(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	resp := make([]ExtractionResponse, len(extractions))
	for i := range extractions {
		resp[i] = toExtractionResponse(&extractions[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	extraction, err := s.extraction.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toExtractionResponse(extraction))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.extraction.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	extraction, err := s.extraction.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	files, err := outputFiles(extraction.OutputDir)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	stem := strings.TrimSuffix(extraction.DocumentName, filepath.Ext(extraction.DocumentName))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stem+"_results.zip"))
	w.WriteHeader(http.StatusOK)

	if err := writeArchive(w, extraction.OutputDir, files); err != nil {
		// Headers are already sent; the client sees a truncated archive.
		logger.Error("api: archive %s: %v", extraction.ID, err)
	}
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !isPlainFileName(name) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: bad file name", domain.ErrInvalidInput))
		return
	}

	extraction, err := s.extraction.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	path := filepath.Join(extraction.OutputDir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, fmt.Errorf("file %s: %w", name, domain.ErrNotFound))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, fmt.Errorf("file %s: %w", name, domain.ErrNotFound))
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// isPlainFileName rejects anything that could leave the extraction directory.
func isPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrOCRUnavailable), errors.Is(err, domain.ErrAuthRequired):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
