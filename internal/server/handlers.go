// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdiddy/bgg-tellico/internal/fetch"
	"github.com/pdiddy/bgg-tellico/internal/table"
	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// run executes the pipeline for the request's q parameter. It writes the
// error response itself and reports whether the caller should continue.
func (s *Server) run(w http.ResponseWriter, r *http.Request, cfg types.FetchConfig) (fetch.Output, bool) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing query parameter q")
		return fetch.Output{}, false
	}
	out, err := fetch.Run(r.Context(), query, s.src, cfg, s.log)
	if err != nil {
		fmt.Fprintf(s.log, "warning: query %q: %v\n", query, err)
		respondError(w, http.StatusBadGateway, "upstream query failed")
		return fetch.Output{}, false
	}
	return out, true
}

// handleSearch returns the Tellico document for q.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r, s.cfg)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := fetch.Write(fetch.OutputTellico, out, &buf); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to write document")
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleGamesJSON returns the matched records as JSON.
func (s *Server) handleGamesJSON(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r, s.tableConfig())
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// handleGamesTable renders the matched records as a sortable, filterable
// HTML table. sort takes a column index or name, dir is asc or desc, and
// searchText filters rows.
func (s *Server) handleGamesTable(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	out, ok := s.run(w, r, s.tableConfig())
	if !ok {
		return
	}

	t := table.FromGames(out.Games)
	view := table.View{
		Title:      fmt.Sprintf("Board games matching %q", out.Query),
		Path:       r.URL.Path,
		Query:      out.Query,
		SortColumn: -1,
		Desc:       params.Get("dir") == "desc",
		SearchText: params.Get("searchText"),
	}
	if col := params.Get("sort"); col != "" {
		idx := t.ColumnIndex(col)
		if n, err := strconv.Atoi(col); err == nil {
			idx = n
		}
		if err := t.Sort(idx, view.Desc); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		view.SortColumn = idx
	}
	t.Filter(view.SearchText)

	var buf bytes.Buffer
	if err := t.Render(&buf, view); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render table")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// tableConfig skips cover downloads; the table and JSON views carry no images.
func (s *Server) tableConfig() types.FetchConfig {
	cfg := s.cfg
	cfg.ImageSize = types.ImageNone
	return cfg
}
