// Package ingestion moves scraped records into the catalog.
//
// A Loader reads the interchange file written by the scraper, upserts every
// record by product URL in one commit and then archives products that have not
// been seen within the retention window. A Scheduler runs the Loader on a cron
// schedule. Ticks that arrive while a load is still running are dropped rather
// than queued.
package ingestion
