package module

import (
	"net/http"
	"strings"
)

// Router dispatches requests to mounted modules keyed by their first path
// segment. Paths matching no module fall through to a native ServeMux,
// which carries endpoints like health probes that live outside any module.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// HandleNative registers a handler on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers a module under its prefix.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimSuffix(req.URL.Path, "/")
	if path == "" {
		path = "/"
	}
	req.URL.Path = path

	if m, ok := r.modules[firstSegment(path)]; ok {
		m.Serve(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}

// firstSegment returns the leading path segment with its slash, so
// "/api/runs/42" yields "/api".
func firstSegment(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if seg, _, found := strings.Cut(rest, "/"); found {
		return "/" + seg
	}
	return path
}
