// Package http provides the request and JSON response helpers used by the
// framework's HTTP handlers.
//
//	req := gohttp.NewRequest(r)
//	res := gohttp.NewResponse(w)
//
//	kind := req.Query("kind")
//	key := req.RouteParam("*")
//
//	res.Success(bindings)        // 200 {"data": ...}
//	res.NotFound()               // 404 {"message": "Not found."}
//	res.ValidationError(v.Errors()) // 422 {"errors": {...}}
package http
