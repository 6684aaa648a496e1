package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JonMunkholm/SendyUpload/internal/csvimport"
	"github.com/JonMunkholm/SendyUpload/internal/logging"
	"github.com/JonMunkholm/SendyUpload/internal/upload"
	"github.com/JonMunkholm/SendyUpload/internal/validate"
)

const (
	uploadIDHeader = "X-Upload-ID"

	// formOverhead is allowed on top of the file size for multipart framing
	// and the text fields.
	formOverhead = 64 << 10

	// multipartMemory is kept in memory before file parts spill to disk.
	multipartMemory = 8 << 20
)

// fileFields are the accepted names of the CSV file part, in order.
var fileFields = []string{"csvFile", "file"}

// uploadForm is the text part of an upload request.
type uploadForm struct {
	ListID   string `validate:"required,max=128"`
	ListName string `validate:"max=255"`
}

// handleUpload subscribes every row of the uploaded CSV to one Sendy list
// and returns the Summary. Request-level problems are rejected before the
// first row is read.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.sendy.CheckConfig(); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}

	file, header, err := formFile(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer file.Close()

	if header.Size > s.cfg.Upload.MaxFileSize {
		respondError(w, r, fmt.Errorf("%w: %d bytes", errFileTooLarge, header.Size))
		return
	}

	form := uploadForm{
		ListID:   strings.TrimSpace(r.FormValue("listId")),
		ListName: strings.TrimSpace(r.FormValue("listName")),
	}
	if form.ListID == "" {
		form.ListID = s.sendy.ListID()
	}
	if err := checkUploadForm(form); err != nil {
		respondError(w, r, err)
		return
	}

	release, err := s.limiter.Acquire(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer release()

	uploadID := uuid.NewString()
	w.Header().Set(uploadIDHeader, uploadID)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	logger := logging.WithFields(ctx,
		"upload_id", uploadID,
		"list_id", form.ListID,
		"filename", header.Filename,
	)
	logger.Info("upload started", "size", header.Size)
	start := time.Now()

	summary := upload.Aggregate(ctx, csvimport.NewExtractor(file), s.sendy.ForList(form.ListID))
	summary.UploadID = uploadID
	summary.ListID = form.ListID
	summary.ListName = form.ListName

	logger.Info("upload finished",
		"rows", summary.Total(),
		"subscribed", summary.Subscribed,
		"already_subscribed", summary.AlreadySubscribed,
		"bounced", summary.Bounced,
		"invalid", summary.Invalid,
		"other_errors", summary.OtherErrors,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, r, summary)
}

// parseForm bounds the body and parses a multipart or urlencoded form. It is
// safe to call more than once per request.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm != nil || r.PostForm != nil {
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+formOverhead)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
		return fmt.Errorf("%w: %v", errFileTooLarge, err)
	default:
		return fmt.Errorf("%w: %v", errInvalidForm, err)
	}
}

func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	for _, field := range fileFields {
		file, header, err := r.FormFile(field)
		if err == nil {
			return file, header, nil
		}
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, fmt.Errorf("%w: %v", errInvalidForm, err)
		}
	}
	return nil, nil, errNoFile
}

func checkUploadForm(form uploadForm) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && verrs[0].Field() == "ListID" && verrs[0].Tag() == "required" {
		return errNoList
	}
	return fmt.Errorf("%w: %s", errInvalidForm, validate.Message(err))
}
