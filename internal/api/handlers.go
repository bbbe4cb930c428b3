package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/lvillar/pdfnumber"
)

// overlapMessage is shown when two ranges claim the same page.
const overlapMessage = "please ensure no overlapping pages between intervals"

// outputFilename names the numbered document offered for download.
const outputFilename = "numbered_output.pdf"

// readRequest parses the multipart upload into a numbering request. On
// failure it has already written the error response.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (pdfnumber.Request, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return pdfnumber.Request{}, false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return pdfnumber.Request{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return pdfnumber.Request{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return pdfnumber.Request{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return pdfnumber.Request{}, false
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		jsonError(w, "file is not a PDF", http.StatusBadRequest)
		return pdfnumber.Request{}, false
	}

	req := pdfnumber.Request{
		Document: data,
		Roman:    []string{r.FormValue("roman")},
		Arabic:   r.FormValue("arabic"),
	}
	if s.layout == pdfnumber.LayoutSplit {
		req.Roman = append(req.Roman, r.FormValue("roman2"))
	}
	return req, true
}

// numberingError maps a numbering failure to a status code and writes it.
func (s *Server) numberingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pdfnumber.ErrOverlap):
		jsonError(w, overlapMessage, http.StatusUnprocessableEntity)
	case pdfnumber.IsUserError(err):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("numbering failed", "path", r.URL.Path, "error", err)
		jsonError(w, "failed to number pages", http.StatusInternalServerError)
	}
}

func (s *Server) handleNumber(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	var out bytes.Buffer
	if err := pdfnumber.Number(&out, req, s.opts...); err != nil {
		s.numberingError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFilename))
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.Write(out.Bytes())
}

type labelResponse struct {
	Page  int    `json:"page"`
	Text  string `json:"text"`
	Style string `json:"style"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	preview, err := pdfnumber.Plan(req, s.opts...)
	if err != nil {
		s.numberingError(w, r, err)
		return
	}

	labels := make([]labelResponse, 0, len(preview.Labels))
	for _, l := range preview.Labels {
		labels = append(labels, labelResponse{Page: l.Page, Text: l.Text, Style: l.Style.String()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"pages":  preview.Pages,
		"labels": labels,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
