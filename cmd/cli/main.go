package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Smoke client exercising the full happy path against a running server:
// register, log in, create one task per section, then fetch the sectioned
// listing and an AJAX fragment.
func main() {
	var baseURL string

	flag.StringVar(&baseURL, "url", "http://0.0.0.0:9234", "Server base URL")
	flag.Parse()

	initTracer()

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("Couldn't create cookie jar: %s", err)
	}

	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Jar:       jar,
	}

	ctx := context.Background()
	email := fmt.Sprintf("smoke+%d@example.com", time.Now().UnixNano())

	doJSON(ctx, client, http.MethodPost, baseURL+"/users", map[string]interface{}{
		"email":            email,
		"first_name":       "Smoke",
		"last_name":        "Test",
		"password":         "correct horse battery",
		"password_confirm": "correct horse battery",
	})

	doJSON(ctx, client, http.MethodPost, baseURL+"/sessions", map[string]interface{}{
		"email":    email,
		"password": "correct horse battery",
	})

	now := time.Now()

	for name, start := range map[string]time.Time{
		"today":    now,
		"tomorrow": now.Add(24 * time.Hour),
		"upcoming": now.Add(72 * time.Hour),
	} {
		doJSON(ctx, client, http.MethodPost, baseURL+"/tasks", map[string]interface{}{
			"title":       "Smoke task " + name,
			"description": "created by the smoke client",
			"priority":    "medium",
			"start_date":  start.Format(time.RFC3339),
			"end_date":    start.Add(time.Hour).Format(time.RFC3339),
		})
	}

	listing := doRequest(ctx, client, http.MethodGet, baseURL+"/tasks?today_page=1", nil)
	fmt.Printf("Sectioned listing:\n%s\n", listing)

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/tasks?section=today&page=1", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Couldn't fetch fragment: %s", err)
	}
	defer resp.Body.Close()

	fragment, _ := io.ReadAll(resp.Body)
	fmt.Printf("Fragment (%d):\n%s\n", resp.StatusCode, fragment)

	// Give the batch span processors time to flush.
	time.Sleep(10 * time.Second)
}

func doJSON(ctx context.Context, client *http.Client, method, url string, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("Couldn't marshal payload: %s", err)
	}

	body := doRequest(ctx, client, method, url, bytes.NewReader(b))
	fmt.Printf("%s %s:\n%s\n", method, url, body)
}

func doRequest(ctx context.Context, client *http.Client, method, url string, body io.Reader) []byte {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		log.Fatalf("Couldn't create request: %s", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		b, _ := io.ReadAll(resp.Body)
		log.Fatalf("%s %s: unexpected status %d: %s", method, url, resp.StatusCode, b)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Couldn't read response: %s", err)
	}

	return b
}

// initTracer initializes OpenTelemetry tracing with Jaeger and stdout exporters.
func initTracer() {
	jaegerEndpoint := "http://localhost:14268/api/traces"

	jaegerExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		log.Fatalf("Couldn't initialize jaeger exporter: %s", err)
	}

	stdoutExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatalf("Couldn't initialize stdout exporter: %s", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(stdoutExporter),
		sdktrace.WithBatcher(jaegerExporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
}
