package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofPrefix is where Pprof expects to be mounted. Named profiles such as
// heap or goroutine are resolved relative to it by pprof.Index.
const PprofPrefix = "/debug/pprof/"

// Pprof returns the runtime profiling endpoints rooted at PprofPrefix.
func Pprof() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(PprofPrefix, pprof.Index)
	mux.HandleFunc(PprofPrefix+"cmdline", pprof.Cmdline)
	mux.HandleFunc(PprofPrefix+"profile", pprof.Profile)
	mux.HandleFunc(PprofPrefix+"symbol", pprof.Symbol)
	mux.HandleFunc(PprofPrefix+"trace", pprof.Trace)

	return mux
}
