package web

import (
	"net/http"
	"strings"
)

// handleBrands proxies Sendy's brand list. Remote failures yield [].
func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.sendy.FetchBrands(r.Context()))
}

// handleLists proxies the lists of one brand. brandId may come from the
// form body or the query string.
func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}

	brandID := strings.TrimSpace(r.FormValue("brandId"))
	if brandID == "" {
		respondError(w, r, errNoBrand)
		return
	}
	writeJSON(w, r, s.sendy.FetchLists(r.Context(), brandID))
}

// handleLegacyPost serves the single-endpoint protocol of the original page:
// action=get_brands, action=get_lists&brandId=..., or a multipart upload.
// Only the upload branch counts against the upload rate limit.
func (s *Server) handleLegacyPost(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}

	switch r.FormValue("action") {
	case "get_brands":
		s.handleBrands(w, r)
	case "get_lists":
		s.handleLists(w, r)
	default:
		s.upload.ServeHTTP(w, r)
	}
}
