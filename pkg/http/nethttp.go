package xhttp

import (
	"io"
	"net"
	"net/http"

	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/valyala/fasthttp"
)

const maxBridgeBodySize = 1 * 1024 * 1024

// NetHTTPHandler serves a fasthttp handler behind a net/http entry point,
// which is what serverless runtimes hand us. fasthttpadaptor only covers the
// opposite direction.
func NetHTTPHandler(h RequestHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fasthttp.Request
		req.Header.SetMethod(r.Method)
		req.SetRequestURI(r.URL.RequestURI())
		req.Header.SetHost(r.Host)
		for k, values := range r.Header {
			for _, v := range values {
				req.Header.Add(k, v)
			}
		}
		if r.Body != nil {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBridgeBodySize+1))
			if err != nil {
				http.Error(w, StatusText(StatusBadRequest), StatusBadRequest)
				return
			}
			if len(body) > maxBridgeBodySize {
				http.Error(w, StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}
			req.SetBody(body)
		}

		var ctx fasthttp.RequestCtx
		ctx.Init(&req, remoteAddr(r), logger.GetLogger())
		h(&ctx)

		header := w.Header()
		ctx.Response.Header.VisitAll(func(k, v []byte) {
			key := string(k)
			if key == fasthttp.HeaderContentLength {
				return
			}
			header.Add(key, string(v))
		})
		w.WriteHeader(ctx.Response.StatusCode())
		if _, err := w.Write(ctx.Response.Body()); err != nil {
			logger.Warn("[xhttp] failed to write bridged response", "error", err)
		}
	}
}

func remoteAddr(r *http.Request) net.Addr {
	addr, err := net.ResolveTCPAddr("tcp", r.RemoteAddr)
	if err != nil {
		return nil
	}
	return addr
}
