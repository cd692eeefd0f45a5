package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"mtt/feedgen/internal/domain"
)

// parsedFeed mirrors the produced document shape for round-trip checks.
type parsedFeed struct {
	XMLName xml.Name `xml:"yml_catalog"`
	Date    string   `xml:"date,attr"`
	Shop    struct {
		Name       string `xml:"name"`
		Company    string `xml:"company"`
		URL        string `xml:"url"`
		Currencies struct {
			Currency []struct {
				ID   string `xml:"id,attr"`
				Rate string `xml:"rate,attr"`
			} `xml:"currency"`
		} `xml:"currencies"`
		Categories struct {
			Category []struct {
				ID   int    `xml:"id,attr"`
				Name string `xml:",chardata"`
			} `xml:"category"`
		} `xml:"categories"`
		Offers struct {
			Offer []struct {
				ID          int     `xml:"id,attr"`
				Name        string  `xml:"name"`
				Price       float64 `xml:"price"`
				CurrencyID  string  `xml:"currencyId"`
				CategoryID  int     `xml:"categoryId"`
				URL         string  `xml:"url"`
				Picture     string  `xml:"picture"`
				Description string  `xml:"description"`
				Params      []struct {
					Name  string `xml:"name,attr"`
					Value string `xml:",chardata"`
				} `xml:"param"`
			} `xml:"offer"`
		} `xml:"offers"`
	} `xml:"shop"`
}

type countingReporter struct {
	advanced int
	finished int
}

func (r *countingReporter) Advance() { r.advanced++ }

func (r *countingReporter) Finish() { r.finished++ }

func testSettings() Settings {
	return Settings{
		ShopName:    "Metal Trade",
		CompanyName: "Metal Trade LLC",
		PageSize:    2,
	}
}

func testClock() clock.Clock {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC))
	return mock
}

func generate(t *testing.T, store Store, reporter *countingReporter) ([]byte, parsedFeed) {
	t.Helper()
	gen := NewGenerator(store, testSettings(), testClock())
	city := domain.City{ID: 74, URL: "spb.met-trans.ru"}

	var buf bytes.Buffer
	if err := gen.WriteFeed(context.Background(), &buf, city, reporter); err != nil {
		t.Fatalf("unexpected generation error: %v", err)
	}

	var parsed parsedFeed
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("produced document does not parse: %v", err)
	}
	return buf.Bytes(), parsed
}

func TestWriteFeed_RoundTrip(t *testing.T) {
	store := newFakeStore()
	store.categories = []domain.Category{
		{ID: 5, Name: "Pipes"},
		{ID: 6, Name: "Sheets"},
	}
	store.attributes = []domain.Attribute{
		{CategoryID: 5, Key: "color", Name: "Color", PriorityFilter: 1},
	}
	store.products = makeProducts(5)
	store.products[0].Attributes = map[string]any{"color": "red"}
	store.products[0].Description = "<p>first</p>"
	store.products[0].Image = "a.jpg"
	reporter := &countingReporter{}

	_, parsed := generate(t, store, reporter)

	if parsed.Date != "2026-08-31 12:30" {
		t.Errorf("unexpected date attribute %q", parsed.Date)
	}
	if parsed.Shop.Name != "Metal Trade" || parsed.Shop.Company != "Metal Trade LLC" {
		t.Errorf("unexpected shop metadata %q / %q", parsed.Shop.Name, parsed.Shop.Company)
	}
	if parsed.Shop.URL != "spb.met-trans.ru" {
		t.Errorf("unexpected shop url %q", parsed.Shop.URL)
	}

	currencies := parsed.Shop.Currencies.Currency
	if len(currencies) != 1 || currencies[0].ID != "RUR" || currencies[0].Rate != "1" {
		t.Errorf("expected exactly one RUR/rate=1 currency, got %v", currencies)
	}

	categories := parsed.Shop.Categories.Category
	if len(categories) != 2 || categories[0].ID != 5 || categories[0].Name != "Pipes" {
		t.Errorf("unexpected categories block %v", categories)
	}

	offers := parsed.Shop.Offers.Offer
	if len(offers) != len(store.products) {
		t.Fatalf("expected %d offers, got %d", len(store.products), len(offers))
	}
	for i, offer := range offers {
		source := store.products[i]
		if offer.ID != source.ID || offer.Price != source.Price || offer.CategoryID != source.CategoryID {
			t.Errorf("offer %d does not match its source row: %+v vs %+v", i, offer, source)
		}
	}

	first := offers[0]
	if first.Description != "<p>first</p>" {
		t.Errorf("expected CDATA description to survive the round trip, got %q", first.Description)
	}
	if first.Picture != "https://spb.met-trans.ru/images/a.jpg" {
		t.Errorf("unexpected picture %q", first.Picture)
	}
	if len(first.Params) != 1 || first.Params[0].Name != "Color" || first.Params[0].Value != "red" {
		t.Errorf("unexpected params %v", first.Params)
	}

	if reporter.advanced != len(store.products) {
		t.Errorf("expected one progress tick per offer, got %d", reporter.advanced)
	}
	if reporter.finished != 1 {
		t.Errorf("expected Finish exactly once, got %d", reporter.finished)
	}
}

func TestWriteFeed_EmptyCity(t *testing.T) {
	store := newFakeStore()
	store.categories = []domain.Category{{ID: 5, Name: "Pipes"}}
	reporter := &countingReporter{}

	_, parsed := generate(t, store, reporter)

	if len(parsed.Shop.Offers.Offer) != 0 {
		t.Errorf("expected empty offers block, got %d offers", len(parsed.Shop.Offers.Offer))
	}
	if len(parsed.Shop.Categories.Category) != 1 {
		t.Errorf("expected categories block to survive an empty catalog")
	}
	if reporter.advanced != 0 {
		t.Errorf("expected no progress ticks, got %d", reporter.advanced)
	}
}

func TestWriteFeed_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.categories = []domain.Category{{ID: 5, Name: "Pipes"}}
	store.attributes = []domain.Attribute{
		{CategoryID: 5, Key: "color", Name: "Color", PriorityFilter: 1},
		{CategoryID: 5, Key: "size", Name: "Size", PriorityFilter: 1},
	}
	store.products = makeProducts(3)
	for i := range store.products {
		store.products[i].Attributes = map[string]any{"color": "red", "size": "L"}
	}

	first, _ := generate(t, store, &countingReporter{})
	store.offsets = nil
	second, _ := generate(t, store, &countingReporter{})

	if !bytes.Equal(first, second) {
		t.Error("expected byte-identical output for unchanged data and clock")
	}
}

func TestWriteFeed_NilReporter(t *testing.T) {
	store := newFakeStore()
	store.products = makeProducts(1)
	gen := NewGenerator(store, testSettings(), testClock())

	var buf bytes.Buffer
	err := gen.WriteFeed(context.Background(), &buf, domain.City{ID: 74, URL: "spb"}, nil)
	if err != nil {
		t.Fatalf("expected nil reporter to be tolerated, got %v", err)
	}
}

func TestWriteFeed_StoreFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.products = makeProducts(4)
	store.failAtOffset = 2
	gen := NewGenerator(store, testSettings(), testClock())

	var buf bytes.Buffer
	err := gen.WriteFeed(context.Background(), &buf, domain.City{ID: 74, URL: "spb"}, nil)
	if err == nil {
		t.Fatal("expected mid-pagination store failure to abort the run")
	}
}

func TestGenerate_WritesArtifactFile(t *testing.T) {
	store := newFakeStore()
	store.categories = []domain.Category{{ID: 5, Name: "Pipes"}}
	store.products = makeProducts(2)

	settings := testSettings()
	settings.FeedsDir = t.TempDir()
	gen := NewGenerator(store, settings, testClock())

	city := domain.City{ID: 74, URL: "spb.met-trans.ru"}
	if err := gen.Generate(context.Background(), city, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(gen.FilePath(74))
	if err != nil {
		t.Fatalf("expected artifact at %s: %v", gen.FilePath(74), err)
	}

	var parsed parsedFeed
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("artifact does not parse: %v", err)
	}
	if len(parsed.Shop.Offers.Offer) != 2 {
		t.Errorf("expected 2 offers in artifact, got %d", len(parsed.Shop.Offers.Offer))
	}
}
