// Package receipts extracts line items from OCR'd receipt text. The
// input is noisy, so extraction is heuristic: any line carrying a price
// becomes a candidate item.
package receipts

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	priceRe = regexp.MustCompile(`\$?(\d+\.\d{2})`)
	dateRe  = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2}`)

	// Tried in order: a "Name Receipt" style header, then an explicit
	// "Store: Name" label. Captures stop at end of line so the name
	// never swallows the next line.
	storeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^([A-Za-z][A-Za-z &']*?)\s+(?:receipt|invoice|bill)\b`),
		regexp.MustCompile(`(?im)^(?:store|market|grocer|supermarket|mart)[: ]\s*([A-Za-z][A-Za-z &']*)`),
	}
)

// Sentinels for fields the parser could not extract.
const (
	UnknownStore = "Unknown Store"
	UnknownDate  = "Unknown Date"
)

// Item is a single extracted line item.
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Receipt is the parsed content of a scanned receipt. Store and Date
// carry the Unknown sentinels when nothing could be extracted.
type Receipt struct {
	Store string  `json:"store"`
	Date  string  `json:"date"` // as printed
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

// Parse extracts store, date, and line items from raw receipt text.
// Lines without a recognizable price are skipped; prices outside
// (0, 1000) are treated as OCR noise.
func Parse(text string) Receipt {
	var items []Item
	var total float64

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		loc := priceRe.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		price, err := strconv.ParseFloat(line[loc[2]:loc[3]], 64)
		if err != nil || price <= 0 || price >= 1000 {
			continue
		}

		name := strings.TrimSpace(line[:loc[0]])
		if name == "" {
			continue
		}

		items = append(items, Item{Name: name, Price: price})
		total += price
	}

	store := extractStore(text)
	if store == "" {
		store = UnknownStore
	}
	date := dateRe.FindString(text)
	if date == "" {
		date = UnknownDate
	}

	return Receipt{
		Store: store,
		Date:  date,
		Items: items,
		Total: math.Round(total*100) / 100,
	}
}

// Date layouts receipts commonly print.
var dateLayouts = []string{"2006-01-02", "1/2/2006", "1/2/06", "01/02/2006"}

// ParseDate converts an extracted date string to a time.Time. Slash dates
// are read month-first.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func extractStore(text string) string {
	for _, re := range storeRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
