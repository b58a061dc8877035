package api

import (
	"net/http"

	"github.com/dowan1041/ocie-helper/internal/catalog"
	"github.com/dowan1041/ocie-helper/internal/imaging"
)

// UploadHandler handles image uploads.
type UploadHandler struct {
	Catalog *catalog.Service
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Message  string `json:"message"`
}

// multipartOverhead is allowed on top of the image size for form fields
// and part headers.
const multipartOverhead = 64 << 10

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	nsn := r.FormValue("nsn")
	file, header, err := r.FormFile("file")
	if err != nil || nsn == "" {
		jsonError(w, http.StatusBadRequest, "File and NSN are required")
		return
	}
	defer file.Close()

	res, err := h.Catalog.UploadImage(r.Context(), nsn, catalog.Image{Filename: header.Filename, Body: file})
	if err != nil {
		writeCatalogError(w, err, "Failed to upload image")
		return
	}

	jsonResponse(w, http.StatusOK, uploadResponse{
		Success:  true,
		Filename: res.Key,
		URL:      res.URL,
		Message:  "Image uploaded successfully",
	})
}
