package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Products derive it from their URL so re-scrapes land on the same row.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IDFromURL returns the catalog ID for a product URL.
// URLs are compared exactly, so case differences produce different IDs.
func IDFromURL(productURL string) ID {
	return IDFromContent(productURL)
}

// ProductRecord is a single listing as harvested from a category page.
// It is also the unit of the interchange file handed from the scraper to the loader.
type ProductRecord struct {
	Name       string `json:"name"`
	ProductURL string `json:"product_url"`
	ImageURL   string `json:"image_url"`
	Price      string `json:"price"`
	Category   string `json:"alibaba_category"`
}

// Product is a catalog row: a ProductRecord plus bookkeeping maintained by the store.
type Product struct {
	Id          ID
	Seq         uint64 // Insertion order, assigned by the store
	Name        string
	ProductURL  string
	ImageURL    string
	Price       string
	Category    string
	ArrivalDate time.Time // First time the URL was loaded
	LastScraped time.Time // Last load that contained the URL
	Active      bool      // Cleared by archiving once LastScraped is too old
}

// Record returns the scraped fields of p.
func (p *Product) Record() ProductRecord {
	return ProductRecord{
		Name:       p.Name,
		ProductURL: p.ProductURL,
		ImageURL:   p.ImageURL,
		Price:      p.Price,
		Category:   p.Category,
	}
}

// Apply copies the mutable scraped fields of r onto p.
// The URL, and therefore the ID, never changes.
func (p *Product) Apply(r ProductRecord) {
	p.Name = r.Name
	p.ImageURL = r.ImageURL
	p.Price = r.Price
	p.Category = r.Category
}

// NewProduct builds a new active catalog row for r first seen at seenAt.
func NewProduct(r ProductRecord, seenAt time.Time) *Product {
	return &Product{
		Id:          IDFromURL(r.ProductURL),
		Name:        r.Name,
		ProductURL:  r.ProductURL,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Category:    r.Category,
		ArrivalDate: seenAt,
		LastScraped: seenAt,
		Active:      true,
	}
}

// Favorite links a user to a product they saved.
type Favorite struct {
	UserID    ID
	ProductID ID
	CreatedAt time.Time
}

// ScoredCandidate is a product that survived the lexical stage of a search.
type ScoredCandidate struct {
	Product    *Product
	FuzzyScore int // 0-100
}

// RankedResult is a candidate annotated with the oracle's judgement.
type RankedResult struct {
	Product            *Product
	SimilarityScore    int    // 0-10, 0 when the oracle failed
	OriginalFuzzyScore int    // 0-100
	LLMRawResponse     string // Oracle output kept for diagnostics
}
