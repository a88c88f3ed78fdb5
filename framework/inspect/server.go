// Package inspect serves a read-only JSON view of a container's registry.
//
//	GET /healthz                 {"status": "ok"}
//	GET /bindings[?kind=type]    {"data": [binding, ...]}
//	GET /bindings/{contract key} {"data": [binding, ...]} or 404
package inspect

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-ioc/framework/container"
	gohttp "github.com/km-arc/go-ioc/framework/http"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/framework/routing"
	"github.com/km-arc/go-ioc/framework/validation"
)

// Server is the diagnostics http.Handler.
type Server struct {
	router    *routing.Router
	inspector container.Inspector
	log       logging.Logger
}

// NewServer builds the handler. It is registered in the container as a type
// so both arguments are injected.
func NewServer(inspector container.Inspector, log logging.Logger) *Server {
	s := &Server{inspector: inspector, log: log.Named("inspect")}

	r := routing.New(s.log)
	r.NotFound(s.notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { gohttp.NewResponse(w).MethodNotAllowed() })
	r.Get("/healthz", s.health)
	r.Group(func(g *routing.Router) {
		// the registry changes at runtime
		g.Middleware(noStore)
		g.Prefix("/bindings", func(b *routing.Router) {
			b.Get("/", s.list)
			b.Get("/*", s.show)
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	gohttp.NewResponse(w).NotFound("No route for " + req.Method() + " " + req.Path() + ".")
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).JSON(http.StatusOK, map[string]string{"status": "ok"})
}

var listRules = validation.Rules{
	"kind": "nullable|in:" + container.KindType + "," + container.KindInstance + "," + container.KindDeferred,
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	v := validation.Make(req.Queries(), listRules)
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	kind := req.Query("kind")
	out := make([]container.Binding, 0)
	for _, b := range s.inspector.Bindings() {
		if kind == "" || b.Kind == kind {
			out = append(out, b)
		}
	}
	res.Success(out)
}

func (s *Server) show(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	key := req.RouteParam("*")

	var out []container.Binding
	for _, b := range s.inspector.Bindings() {
		if b.Contract == key {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		s.log.Debug("no binding for contract", zap.String("contract", key))
		res.NotFound("No binding for " + key + ".")
		return
	}
	res.Success(out)
}
