package feed

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"

	"mtt/feedgen/internal/domain"
	"mtt/feedgen/internal/progress"
	"mtt/feedgen/internal/xmlstream"
)

// DefaultPageSize bounds one catalog query when no page size is configured.
const DefaultPageSize = 1000

// Settings carries the shop metadata baked into every feed.
type Settings struct {
	ShopName       string
	CompanyName    string
	FeedsDir       string
	PageSize       int
	PagesPerSecond int
}

// Generator streams one YML feed per city. The whole pipeline is a single
// sequential pass: memory residency stays at one page of products no matter
// how large the catalog is.
type Generator struct {
	store    Store
	settings Settings
	clock    clock.Clock
}

// NewGenerator creates a feed generator over the given store.
func NewGenerator(store Store, settings Settings, clk clock.Clock) *Generator {
	if settings.PageSize <= 0 {
		settings.PageSize = DefaultPageSize
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Generator{
		store:    store,
		settings: settings,
		clock:    clk,
	}
}

// FilePath returns the artifact path for a city.
func (g *Generator) FilePath(cityID int) string {
	return filepath.Join(g.settings.FeedsDir, strconv.Itoa(cityID)+".xml")
}

// Generate creates or truncates the city's feed file and streams the full
// document into it. A failure mid-stream leaves a truncated artifact behind;
// the only recovery is regenerating from scratch.
func (g *Generator) Generate(ctx context.Context, city domain.City, reporter progress.Reporter) error {
	if err := os.MkdirAll(g.settings.FeedsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create feeds directory: %w", err)
	}

	path := g.FilePath(city.ID)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open feed file %s: %w", path, err)
	}

	if err := g.WriteFeed(ctx, file, city, reporter); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close feed file %s: %w", path, err)
	}

	log.Infof("Feed for city %d written to %s", city.ID, path)
	return nil
}

// WriteFeed streams the whole document to w: declaration, shop metadata, the
// fixed currency block, the city's category tree, then offers pulled one
// page at a time. The reporter is advanced once per offer written; it is a
// side channel and cannot fail the run.
func (g *Generator) WriteFeed(ctx context.Context, w io.Writer, city domain.City, reporter progress.Reporter) error {
	if reporter == nil {
		reporter = progress.Nop{}
	}

	attrs, err := g.store.AllAttributes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch attributes: %w", err)
	}
	index := BuildAttributeIndex(attrs)

	xml := xmlstream.New(w)
	if err := xml.StartDocument(); err != nil {
		return fmt.Errorf("failed to write document declaration: %w", err)
	}

	err = xml.Element("yml_catalog", func(x *xmlstream.Writer) error {
		if err := x.Attr("date", g.clock.Now().Format("2006-01-02 15:04")); err != nil {
			return err
		}
		return g.writeShop(ctx, x, city, index, reporter)
	})
	if err != nil {
		return fmt.Errorf("failed to write feed for city %d: %w", city.ID, err)
	}

	if err := xml.Flush(); err != nil {
		return fmt.Errorf("failed to flush feed: %w", err)
	}

	reporter.Finish()
	return nil
}

func (g *Generator) writeShop(ctx context.Context, x *xmlstream.Writer, city domain.City, index AttributeIndex, reporter progress.Reporter) error {
	return x.Element("shop", func(x *xmlstream.Writer) error {
		if err := x.WriteElement("name", g.settings.ShopName); err != nil {
			return err
		}
		if err := x.WriteElement("company", g.settings.CompanyName); err != nil {
			return err
		}
		if err := x.WriteElement("url", city.URL); err != nil {
			return err
		}
		if err := writeCurrencies(x); err != nil {
			return err
		}
		if err := g.writeCategories(ctx, x, city.ID); err != nil {
			return err
		}
		return g.writeOffers(ctx, x, city, index, reporter)
	})
}

func writeCurrencies(x *xmlstream.Writer) error {
	return x.Element("currencies", func(x *xmlstream.Writer) error {
		return x.Element("currency", func(x *xmlstream.Writer) error {
			if err := x.Attr("id", currencyID); err != nil {
				return err
			}
			return x.AttrInt("rate", 1)
		})
	})
}

func (g *Generator) writeCategories(ctx context.Context, x *xmlstream.Writer, cityID int) error {
	categories, err := g.store.CategoriesForCity(ctx, cityID)
	if err != nil {
		return fmt.Errorf("failed to fetch categories for city %d: %w", cityID, err)
	}

	return x.Element("categories", func(x *xmlstream.Writer) error {
		for _, category := range categories {
			err := x.Element("category", func(x *xmlstream.Writer) error {
				if err := x.AttrInt("id", category.ID); err != nil {
					return err
				}
				return x.Text(category.Name)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Generator) writeOffers(ctx context.Context, x *xmlstream.Writer, city domain.City, index AttributeIndex, reporter progress.Reporter) error {
	return x.Element("offers", func(x *xmlstream.Writer) error {
		pager := NewProductPager(g.store, city.ID, g.settings.PageSize, g.settings.PagesPerSecond)
		for {
			page, err := pager.Next(ctx)
			if err != nil {
				return err
			}
			if page == nil {
				return nil
			}
			for _, product := range page {
				offer := BuildOffer(product, city.URL, index)
				if err := writeOffer(x, offer); err != nil {
					return fmt.Errorf("failed to write offer %d: %w", offer.ID, err)
				}
				reporter.Advance()
			}
		}
	})
}

func writeOffer(x *xmlstream.Writer, offer domain.Offer) error {
	return x.Element("offer", func(x *xmlstream.Writer) error {
		if err := x.AttrInt("id", offer.ID); err != nil {
			return err
		}
		if err := x.WriteElement("name", offer.Name); err != nil {
			return err
		}
		if err := x.WriteElement("price", formatPrice(offer.Price)); err != nil {
			return err
		}
		if err := x.WriteElement("currencyId", offer.CurrencyID); err != nil {
			return err
		}
		if err := x.WriteElement("categoryId", strconv.Itoa(offer.CategoryID)); err != nil {
			return err
		}
		if err := x.WriteElement("url", offer.URL); err != nil {
			return err
		}
		if err := x.WriteElement("picture", offer.Picture); err != nil {
			return err
		}

		// Descriptions carry embedded markup; CDATA keeps them verbatim.
		err := x.Element("description", func(x *xmlstream.Writer) error {
			return x.CData(offer.Description)
		})
		if err != nil {
			return err
		}

		for _, param := range offer.Params {
			err := x.Element("param", func(x *xmlstream.Writer) error {
				if err := x.Attr("name", param.Name); err != nil {
					return err
				}
				return x.Text(param.Value)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
