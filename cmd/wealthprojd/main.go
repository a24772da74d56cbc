package main

import (
	"log"
	"os"

	"github.com/valyala/fasthttp"

	"github.com/wealthproj/projection-engine/internal/api"
)

type serverLogger struct{}

func (serverLogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (serverLogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (serverLogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (serverLogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := api.NewHandler(serverLogger{})

	log.Printf("INFO: projection server listening on :%s", port)
	if err := fasthttp.ListenAndServe(":"+port, handler.Route); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
