package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/scatter/pkg/config"
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/httputil"
	"github.com/matzehuels/scatter/pkg/layout"
	"github.com/matzehuels/scatter/pkg/pipeline"
	"github.com/matzehuels/scatter/pkg/render"
	"github.com/matzehuels/scatter/pkg/sceneio"
	"github.com/matzehuels/scatter/pkg/store"
)

// generateRequest is the body of POST /v1/scenes. Config and Catalog are
// JSON documents in the same shape as the YAML and TOML files.
type generateRequest struct {
	Config  json.RawMessage `json:"config"`
	Catalog json.RawMessage `json:"catalog,omitempty"`
	Seed    *uint64         `json:"seed,omitempty"`
	Formats []string        `json:"formats,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

// sceneResponse is returned by POST /v1/scenes. Artifacts holds every
// requested format other than json, base64 encoded.
type sceneResponse struct {
	Scene     sceneio.Document  `json:"scene"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
	CacheHit  bool              `json:"cache_hit"`
	Attempts  int               `json:"attempts"`
}

type listResponse struct {
	Scenes []store.Summary `json:"scenes"`
}

// candidateView is a layout candidate with an unusable divergence reported
// as null, since JSON has no infinity.
type candidateView struct {
	Mode       layout.Mode `json:"mode"`
	Count      int         `json:"count"`
	Divergence *float64    `json:"divergence"`
}

type layoutResponse struct {
	Tiles      []layout.Tile   `json:"tiles"`
	Best       candidateView   `json:"best"`
	Candidates []candidateView `json:"candidates"`
	CacheHit   bool            `json:"cache_hit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httputil.DecodeJSON(r, &req, 0); err != nil {
		s.fail(w, r, err)
		return
	}
	if len(req.Config) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "config is required"))
		return
	}
	cfg, err := config.Parse(req.Config, config.FormatJSON)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := pipeline.Options{
		Config:  cfg,
		Catalog: s.Catalog,
		Seed:    req.Seed,
		Formats: req.Formats,
		Refresh: req.Refresh,
	}
	if len(req.Catalog) > 0 {
		catalog, err := config.ParseCatalog(req.Catalog, config.FormatJSON)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		opts.Catalog = catalog
	}

	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Store.Save(r.Context(), result.Document); err != nil {
		s.fail(w, r, err)
		return
	}

	delete(result.Artifacts, pipeline.FormatJSON)
	w.Header().Set("Location", "/v1/scenes/"+result.Document.RunID)
	httputil.WriteJSON(w, http.StatusCreated, sceneResponse{
		Scene:     result.Document,
		Artifacts: result.Artifacts,
		CacheHit:  result.CacheInfo.SceneHit,
		Attempts:  result.Stats.Attempts,
	})
}

func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sums, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sums == nil {
		sums = []store.Summary{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Scenes: sums})
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSceneSVG(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var opts []render.SVGOption
	if r.URL.Query().Get("labels") == "true" {
		opts = append(opts, render.WithLabels())
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(render.RenderSVG(doc, opts...))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	length, err := floatParam(r, "length")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	height, err := floatParam(r, "height")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := intParam(r, "areas", 1)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if n > config.MaxAreas {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "areas %d exceeds the limit of %d", n, config.MaxAreas))
		return
	}

	res, hit, err := s.Runner.Layout(r.Context(), length, height, n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := layoutResponse{Tiles: res.Tiles, Best: viewOf(res.Best), CacheHit: hit}
	for _, c := range res.Candidates {
		resp.Candidates = append(resp.Candidates, viewOf(c))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func viewOf(c layout.Candidate) candidateView {
	v := candidateView{Mode: c.Mode, Count: c.Count}
	if !math.IsInf(c.Divergence, 0) {
		d := c.Divergence
		v.Divergence = &d
	}
	return v
}

// fail writes err and logs it at a level matching its status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
		return
	}
	s.Logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
	}
	return v, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
	}
	return v, nil
}
