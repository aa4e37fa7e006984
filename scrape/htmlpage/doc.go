// Package htmlpage implements scrape.Page over static HTML snapshots.
//
// A Page holds an ordered list of HTML frames. Each frame is the full
// document as it looks after one more scroll: ScrollBy moves to the next frame
// and re-parses it, Reload goes back to the first. Clicking an element marks
// it selected in the current frame. This is enough to run the extractor and
// the session driver offline, against saved pages or pages fetched with Fetch.
package htmlpage
