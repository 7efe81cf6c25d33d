package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/go-chi/chi/v5"
)

// Spreadsheet content types accepted for import.
const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
)

// handleImport reads a multipart workbook upload and imports its rows.
// Any well-formed request returns 200 with per-row results, even when
// every row failed.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	if _, err := core.Lookup(entity); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	data, filename, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Import(ctx, core.OwnerIDFromContext(ctx), entity, filename, data)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeJSON(w, r, result)
}

// readUpload extracts the "file" part, enforcing the size cap and the
// spreadsheet content types.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, "", fmt.Errorf("%w: limit is %d bytes", errFileTooLarge, maxSize)
		}
		return nil, "", core.ErrNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", core.ErrNoFile
	}
	defer file.Close()

	if !isSpreadsheet(header.Header.Get("Content-Type")) {
		return nil, "", fmt.Errorf("%w: %q", errUnsupportedFileType, header.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", core.ErrNoFile
	}
	return data, header.Filename, nil
}

func isSpreadsheet(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == mimeXLSX || mt == mimeXLS
}

// handleTemplate serves the blank import workbook of an entity.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	data, err := s.service.Template(entity)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", mimeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, core.TemplateFilename(entity)))
	w.Write(data)
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.ListEntities())
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.ImportStatus())
}
