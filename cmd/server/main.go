package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Marcximus/dansk-firma-finder/pkg/cvr"
	"github.com/Marcximus/dansk-firma-finder/pkg/db"
	"github.com/Marcximus/dansk-firma-finder/pkg/regnskab"
)

const defaultCacheMaxAge = 30 * 24 * time.Hour // 1 month

type Server struct {
	db          *db.DB
	client      *cvr.Client
	cacheMaxAge time.Duration
}

func NewServer(database *db.DB, client *cvr.Client, cacheMaxAge time.Duration) *Server {
	return &Server{
		db:          database,
		client:      client,
		cacheMaxAge: cacheMaxAge,
	}
}

// cachingFetcher serves documents from the cache when present and writes
// fresh downloads through. Search traffic always goes to the registry.
type cachingFetcher struct {
	db     *db.DB
	client *cvr.Client
	cvr    string
}

func (c *cachingFetcher) SearchFilings(ctx context.Context, cvrNumber string) ([]cvr.Filing, error) {
	return c.client.SearchFilings(ctx, cvrNumber)
}

func (c *cachingFetcher) LoadDocument(ctx context.Context, doc cvr.Document) ([]byte, error) {
	if data, err := c.db.GetDocument(doc.DokumentURL); err == nil {
		return data, nil
	}
	data, err := c.client.LoadDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := c.db.StoreDocument(c.cvr, doc.DokumentType, doc.DokumentURL, data); err != nil {
		log.Printf("Warning: failed to cache document %s: %v", doc.DokumentURL, err)
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// handleRegnskaber handles GET /api/regnskaber/{cvr}.
func (s *Server) handleRegnskaber(w http.ResponseWriter, r *http.Request) {
	cvrNumber := r.PathValue("cvr")
	if err := cvr.ValidateCVR(cvrNumber); err != nil {
		writeJSON(w, http.StatusBadRequest, &regnskab.Result{
			FinancialReports: []regnskab.ReportMetadata{},
			FinancialData:    []regnskab.FinancialMetricSet{},
			Error:            err.Error(),
		})
		return
	}

	stale, err := s.db.IsResultStale(cvrNumber, s.cacheMaxAge)
	if err != nil {
		log.Printf("Error checking result staleness for CVR %s: %v", cvrNumber, err)
		stale = true
	}

	if !stale {
		if cached, err := s.db.GetResult(cvrNumber); err == nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
		log.Printf("Error reading cached result for CVR %s, fetching from registry", cvrNumber)
	}

	log.Printf("Fetching financial reports for CVR %s from registry", cvrNumber)
	fetcher := &cachingFetcher{db: s.db, client: s.client, cvr: cvrNumber}
	result, err := regnskab.Fetch(r.Context(), fetcher, cvrNumber)
	if err != nil {
		if errors.Is(err, cvr.ErrRegistryUnavailable) {
			log.Printf("Registry unavailable for CVR %s: %v", cvrNumber, err)
			writeJSON(w, http.StatusBadGateway, result)
			return
		}
		writeJSON(w, http.StatusBadRequest, &regnskab.Result{
			FinancialReports: []regnskab.ReportMetadata{},
			FinancialData:    []regnskab.FinancialMetricSet{},
			Error:            err.Error(),
		})
		return
	}

	if err := s.db.StoreResult(cvrNumber, result); err != nil {
		log.Printf("Warning: failed to cache result for CVR %s: %v", cvrNumber, err)
	}

	writeJSON(w, http.StatusOK, result)
}

// handleAll lists the CVR numbers with cached results.
func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	cvrs, err := s.db.ListCVRs()
	if err != nil {
		http.Error(w, "Failed to list cached lookups", http.StatusInternalServerError)
		return
	}
	for _, cvrNumber := range cvrs {
		w.Write([]byte(cvrNumber + "\n"))
	}
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// A missing .env file is fine; the environment may be set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cacheMaxAge := defaultCacheMaxAge
	if v := os.Getenv("CACHE_MAX_AGE"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("Invalid CACHE_MAX_AGE %q: %v", v, err)
		}
		cacheMaxAge = parsed
	}

	database, err := db.New(envOr("CACHE_DB", "cvr.db"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	client := cvr.NewClient(
		os.Getenv("CVR_REGISTRY_URL"),
		os.Getenv("CVR_USER"),
		os.Getenv("CVR_PASSWORD"),
		envOr("CVR_USER_AGENT", "dansk-firma-finder"),
		5,
	)

	server := NewServer(database, client, cacheMaxAge)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/regnskaber/{cvr}", server.handleRegnskaber)
	mux.HandleFunc("GET /all", server.handleAll)
	mux.HandleFunc("GET /health", server.handleHealth)

	port := envOr("PORT", "8080")
	log.Printf("Starting CVR financials server on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
