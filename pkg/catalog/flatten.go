package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
)

var (
	productsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskcatalog_products_loaded",
		Help: "Number of products in the current catalog snapshot",
	})
	lookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_product_lookup_failures_total",
		Help: "Product attribute lookups that fell back to zero values",
	})
)

type leafRef struct {
	id       string
	name     string
	category string
}

// Flattener turns the category tree into a flat product list.
type Flattener struct {
	Tree     TreeSource
	Products ProductSource
	Workers  int
}

func NewFlattener(tree TreeSource, products ProductSource, workers int) *Flattener {
	return &Flattener{Tree: tree, Products: products, Workers: workers}
}

func collectLeaves(node *Node, out []leafRef) []leafRef {
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if child.Kind == Branch {
			out = collectLeaves(child, out)
			continue
		}
		out = append(out, leafRef{id: child.Id, name: child.Name, category: node.Name})
	}
	return out
}

// Flatten fetches the tree and resolves every leaf. Failing lookups give the
// product zero valued measures; only a failing tree fetch or a cancelled
// context is returned as an error.
func (f *Flattener) Flatten(ctx context.Context) (*Catalog, error) {
	start := time.Now()
	root, err := f.Tree.FetchCategoryTree(ctx)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return NewCatalog(nil), nil
	}
	leaves := collectLeaves(root, nil)
	products := make([]types.Product, len(leaves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, f.Workers))
	for i, leaf := range leaves {
		g.Go(func() error {
			products[i] = types.Product{
				Id:       leaf.id,
				Name:     leaf.name,
				Category: leaf.category,
				Extra:    f.resolve(gctx, leaf.id),
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("flatten catalog: %w", err)
	}

	c := NewCatalog(products)
	productsLoaded.Set(float64(len(products)))
	logging.Log.Infof("flattened %d products in %d categories in %v", len(products), len(c.Categories), time.Since(start))
	return c, nil
}

func (f *Flattener) resolve(ctx context.Context, id string) types.Extra {
	payload, err := f.Products.FetchProduct(ctx, id)
	if err != nil {
		lookupFailures.Inc()
		logging.Log.Warnf("using default attributes for %s: %v", id, err)
		return types.Extra{}
	}
	if payload == nil {
		return types.Extra{}
	}
	return ExtractExtra(payload.Extra).Sanitize()
}
