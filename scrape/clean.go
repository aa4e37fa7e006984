package scrape

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/tradescout/core"
)

var (
	// Order matters: the minimum-order phrase owns its quantity, so it goes first.
	minOrderRe    = regexp.MustCompile(`(?i)min\.?\s*order\s*:?\s*[\d,.]+\s*(?:pieces|piece|sets?|pairs?|units?|meters?|kgs?|tons?|pcs|yards?|bags?|boxes|cartons?)?`)
	priceRangeRe  = regexp.MustCompile(`[$€£¥]\s?[\d,.]+(?:\.\d{1,2})?\s*(?:-\s*[$€£¥]?\s?[\d,.]+(?:\.\d{1,2})?)?(?:\s*/\s*\w+)?`)
	quantityRe    = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:pieces|sets|pairs|units|meters|kgs?|tons?|pcs|yards?)\b`)
	boilerplateRe = regexp.MustCompile(`(?i)ready to ship|in stock|listed in last \d+ days|hot sale|new arrival`)

	detailPageRe  = regexp.MustCompile(`(?i)/product-detail/|/p-detail/|/product_detail\.htm|item_detail\.htm`)
	currencyRe    = regexp.MustCompile(`[$€£¥]`)
	digitRe       = regexp.MustCompile(`\d`)
	priceAmountRe = regexp.MustCompile(`[$€£¥]\s?[\d,]+(?:\.\d{1,2})?`)
)

// nonProductTitles are storefront tiles that share the product grid.
var nonProductTitles = []string{
	"safe & easy payments", "money-back policy", "shipping & logistics services",
	"after-sales protections", "rising search trends", "trade assurance",
	"on-time delivery", "product monitoring & inspection services", "logistics service",
	"payment solution", "view more", "learn more", "shop now", "explore",
	"alibaba.com selects", "source now", "send inquiry", "chat now", "contact supplier",
	"get a quote", "supplier assessment",
}

var storefrontWords = []string{"alibaba.com", "supplier", "wholesale"}

// shortTitleWords is the word count below which denylist checks apply.
const shortTitleWords = 7

// CleanName strips minimum-order phrases, prices, quantities and marketing
// boilerplate from a card title and collapses whitespace.
func CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	s = minOrderRe.ReplaceAllString(s, " ")
	s = priceRangeRe.ReplaceAllString(s, " ")
	s = quantityRe.ReplaceAllString(s, " ")
	s = boilerplateRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// IsNonProductTitle reports whether a cleaned name belongs to a storefront
// tile rather than a product. Only short names are checked.
func IsNonProductTitle(name string) bool {
	if len(strings.Fields(name)) >= shortTitleWords {
		return false
	}
	lower := strings.ToLower(name)
	for _, t := range nonProductTitles {
		if strings.Contains(lower, t) {
			return true
		}
	}
	for _, w := range storefrontWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// AcceptName cleans raw and reports whether the result is a usable product name.
func AcceptName(raw string) (string, bool) {
	name := CleanName(raw)
	n := utf8.RuneCountInString(name)
	if n < core.MinNameLength || n > core.MaxNameLength {
		return "", false
	}
	if IsNonProductTitle(name) {
		return "", false
	}
	return name, true
}

// Origin returns scheme://host of pageURL, or "" when it has neither.
func Origin(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// NormalizeURL resolves a link href against the page origin.
// Absolute URLs are kept, protocol-relative ones get https and root-relative
// ones get the origin. Empty hrefs, javascript: placeholders and anything else
// are rejected.
func NormalizeURL(href, origin string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.Contains(strings.ToLower(href), "javascript:") {
		return "", false
	}
	if u, err := url.Parse(href); err == nil && u.Scheme != "" && u.Host != "" {
		return href, true
	}
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href, true
	case strings.HasPrefix(href, "/"):
		if origin == "" {
			return "", false
		}
		return origin + href, true
	case strings.Contains(href, "http"):
		return href, true
	}
	return "", false
}

// LooksLikeDetailPage reports whether a product URL points at an item page.
func LooksLikeDetailPage(productURL string) bool {
	return detailPageRe.MatchString(productURL) ||
		strings.Contains(strings.ToLower(productURL), ".html")
}

// NormalizeImageURL resolves an image src. Unlike links, relative paths other
// than root-relative are dropped.
func NormalizeImageURL(src, origin string) string {
	src = strings.TrimSpace(src)
	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		if origin == "" {
			return ""
		}
		return origin + src
	case strings.HasPrefix(src, "http"):
		return src
	}
	return ""
}

// HasCurrency reports whether text carries a currency symbol.
func HasCurrency(text string) bool {
	return currencyRe.MatchString(text)
}

// ExtractPrice returns the first currency amount in text, such as "$1.20" or
// "€3,400.50", or "" when there is none.
func ExtractPrice(text string) string {
	if !HasCurrency(text) || !digitRe.MatchString(text) {
		return ""
	}
	return strings.TrimSpace(priceAmountRe.FindString(text))
}
