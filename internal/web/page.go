package web

import (
	"net/http"

	"github.com/JonMunkholm/SendyUpload/internal/logging"
	"github.com/JonMunkholm/SendyUpload/internal/web/templates"
)

func (s *Server) pageData() templates.UploadPageData {
	return templates.UploadPageData{
		DefaultListID: s.sendy.ListID(),
		MaxFileSizeMB: s.cfg.Upload.MaxFileSize >> 20,
		RequireAPIKey: s.cfg.Security.RequireAPIKey,
	}
}

// handlePage serves the upload form. The page itself is public; when API keys
// are required the form asks for one and sends it with every call.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.UploadPage(s.pageData()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render upload page", "error", err)
	}
}
